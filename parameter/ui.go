package parameter

// Terminal debug view
const (
	// ViewMarginCells around the scene bound
	ViewMarginCells = 2

	// ViewPadding is the world-unit border drawn around the scene bound
	ViewPadding = 2.0

	// StatusBarHeight is the number of rows reserved at the bottom
	StatusBarHeight = 1
)
