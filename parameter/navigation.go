package parameter

import "time"

// Navigation - Orbit navigator
const (
	// NavSweepCandidates is how many headings a wall sweep tries before giving up for the tick
	// Seven covers every neighbour except the one the sweep started behind
	NavSweepCandidates = 7

	// NavFullTurn is one full revolution on the angular metric
	NavFullTurn = 8

	// NavAvoidRadiusSq is the squared radius of the disk stamped around each avoidance anchor
	NavAvoidRadiusSq = 9
)

// Simulation
const (
	// SimDefaultMaxTicks bounds a scenario run when the scenario sets no limit
	SimDefaultMaxTicks = 2000

	// SimDefaultCooldown is ticks an agent waits after a move before it is ready again
	SimDefaultCooldown = 0

	// SimDefaultParallel is the batch runner's worker limit
	SimDefaultParallel = 4
)

// Viewer and stream
const (
	// ViewDefaultFPS is ticks rendered per second by the terminal viewer
	ViewDefaultFPS = 10

	// StreamDefaultFPS is ticks broadcast per second by the websocket stream
	StreamDefaultFPS = 10

	// StreamWriteWait bounds a single websocket write
	StreamWriteWait = 10 * time.Second

	// ChimeFrequency is the arrival tone pitch in Hz
	ChimeFrequency = 880

	// ChimeDuration is the arrival tone length
	ChimeDuration = 80 * time.Millisecond
)
