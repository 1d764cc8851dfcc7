package parameter

// Navigation - Proximity Sensor
const (
	// DetectionRadius is the radius of the forward detection circle (world units)
	DetectionRadius = 2.0

	// Lookahead is the distance ahead of the agent where the detection circle is centered
	Lookahead = 2.0
)

// Navigation - Avoidance
const (
	// SideMove is the lateral offset of the diversion point, positive is left of travel
	SideMove = 1.0

	// ForwardOffset is the distance ahead of the agent along its travel direction for the diversion point
	ForwardOffset = 3.0

	// StallSpeed is the driver speed below which a diverting agent with a clear path resumes its route
	StallSpeed = 0.5

	// PlaneZ is the out-of-plane coordinate every body is pinned to
	PlaneZ = 0.0
)
