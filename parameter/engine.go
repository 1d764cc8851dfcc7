package parameter

import "time"

// Simulation timing
const (
	// TickRate is the simulation step frequency in Hz
	TickRate = 30

	// TickInterval is the fixed simulation step
	TickInterval = time.Second / TickRate

	// GridCellSize is the spatial grid cell edge in world units
	GridCellSize = 4.0

	// GridQueryBufferCap is the initial capacity for candidate query buffers
	GridQueryBufferCap = 32
)

// Network telemetry
const (
	// NetworkDefaultAddress for the websocket debug hub
	NetworkDefaultAddress = "127.0.0.1:8088"

	// NetworkSendQueueSize is the per-client buffered snapshot count before drops
	NetworkSendQueueSize = 8

	// NetworkWriteTimeout bounds a single websocket write
	NetworkWriteTimeout = 2 * time.Second

	// NetworkSnapshotEveryTicks throttles snapshot broadcasts
	NetworkSnapshotEveryTicks = 3
)
