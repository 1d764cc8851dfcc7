package parameter

// NPC path follower
const (
	// NPCMaxSpeed is the cruise speed in units per second
	NPCMaxSpeed = 3.0

	// NPCAcceleration in units per second squared
	NPCAcceleration = 4.0

	// NPCTurnRateDeg is the maximum heading change in degrees per second
	NPCTurnRateDeg = 270.0

	// NPCEndReachedDistance is the distance at which the driver reports arrival
	NPCEndReachedDistance = 0.3

	// NPCSlowdownDistance is where arrival braking begins
	NPCSlowdownDistance = 1.5

	// NPCRadius is the collider radius
	NPCRadius = 0.5

	// NPCDefaultCount is the number of NPCs spawned when not configured
	NPCDefaultCount = 6
)
