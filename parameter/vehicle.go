package parameter

// Player vehicle
const (
	// VehicleMaxSpeed in units per second
	VehicleMaxSpeed = 10.0

	// VehicleAcceleration is the rate of speed gain under throttle
	VehicleAcceleration = 5.0

	// VehicleDeceleration is the rate of speed loss with no throttle
	VehicleDeceleration = 3.0

	// VehicleTurnSpeedDeg is the turn rate in degrees per second at full speed factor
	VehicleTurnSpeedDeg = 100.0

	// VehicleInputDeadzone below which throttle counts as released
	VehicleInputDeadzone = 0.01

	// VehicleSpeedFactorFraction of max speed at which turning reaches full authority
	VehicleSpeedFactorFraction = 0.1

	// VehicleRadius is the collider radius
	VehicleRadius = 1.0
)
