package navigation

import (
	"log/slog"
	"math"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
)

// Orientation selects which way the navigator sweeps around a blocked heading
type Orientation uint8

const (
	// Clockwise sweeps candidate headings with RotateLeft, circling the goal clockwise
	Clockwise Orientation = iota
	// CounterClockwise is the mirror image: RotateRight sweep
	CounterClockwise
)

func (o Orientation) String() string {
	if o == CounterClockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

// Mode is the navigator state
type Mode uint8

const (
	ModeDirect Mode = iota
	ModeWallFollowing
)

func (m Mode) String() string {
	if m == ModeWallFollowing {
		return "wall-following"
	}
	return "direct"
}

// Outcome classifies what one Step did
type Outcome uint8

const (
	OutcomeIdle      Outcome = iota // Movement not ready, nothing done
	OutcomeArrived                  // Agent already on the goal, nothing done
	OutcomeMoved                    // Agent moved one cell
	OutcomeRejected                 // Host rejected the chosen move, retried next tick
	OutcomeExhausted                // Every sweep candidate refused
)

var outcomeNames = [...]string{"idle", "arrived", "moved", "rejected", "exhausted"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// StepResult reports one Step for the caller and for tests
type StepResult struct {
	Outcome   Outcome
	Direction Direction // Heading moved or attempted, DirNone if none
	Mode      Mode      // Mode after the step
	Disturbed bool      // Position differed from where the previous step left the agent
}

// Navigator steers one agent toward a fixed goal using only per-step oracle queries
//
// In direct mode it takes the compass heading nearest the goal. When that is
// refused it records the heading as the wall and switches to wall-following,
// sweeping neighbouring headings until it finds an open one and tracking how far
// it has circled the goal with a winding-corrected angle. It returns to direct
// mode once that angle reaches the bound set when the wall was met.
//
// A Navigator is bound to one goal; replace it when the goal changes
type Navigator struct {
	oracle      Oracle
	goal        Point
	orientation Orientation
	log         *slog.Logger

	mode      Mode
	wall      Direction
	wallAngle float64 // NaN outside wall-following
	winding   Winding
	lastKnown Point

	// Position of the last interference warning, so an agent left off its
	// track while idle or on its goal is reported once
	warnedAt Point
	warned   bool
}

// Option configures a Navigator
type Option func(*Navigator)

// WithLogger sets the logger used for exhaustion and interference events
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.log = l
		}
	}
}

// NewNavigator binds a navigator to the oracle's agent, goal and orientation
// The agent's current position becomes the reference for interference checks
func NewNavigator(oracle Oracle, goal Point, orientation Orientation, opts ...Option) *Navigator {
	n := &Navigator{
		oracle:      oracle,
		goal:        goal,
		orientation: orientation,
		log:         logging.New("navigation"),
		mode:        ModeDirect,
		wall:        DirNone,
		wallAngle:   math.NaN(),
		lastKnown:   oracle.Position(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Navigator) Goal() Point              { return n.goal }
func (n *Navigator) Orientation() Orientation { return n.orientation }
func (n *Navigator) Mode() Mode               { return n.mode }

// Wall returns the last heading found blocked, DirNone in direct mode
func (n *Navigator) Wall() Direction { return n.wall }

// WallAngle returns the winding-corrected angle of the wall, NaN in direct mode
func (n *Navigator) WallAngle() float64 { return n.wallAngle }

// Turns returns the winding correction accumulated so far
func (n *Navigator) Turns() float64 { return n.winding.Turns() }

// LastKnown returns where the previous step left the agent
func (n *Navigator) LastKnown() Point { return n.lastKnown }

// Arrived reports whether the agent stands on the goal
func (n *Navigator) Arrived() bool {
	return n.oracle.Position() == n.goal
}

// Disturbed reports whether something other than this navigator moved the agent
// since the last step. Internal wall state is not repaired; a disturbed
// navigator keeps following stale wall data and may be misled
func (n *Navigator) Disturbed() bool {
	return n.oracle.Position() != n.lastKnown
}

// Step advances the agent by at most one cell and never blocks
func (n *Navigator) Step() StepResult {
	res := StepResult{Direction: DirNone, Mode: n.mode}

	pos := n.oracle.Position()
	if pos != n.lastKnown {
		res.Disturbed = true
		if !n.warned || pos != n.warnedAt {
			n.log.Warn("agent moved outside navigator control",
				"goal", n.goal, "expected", n.lastKnown, "actual", pos)
			n.warned, n.warnedAt = true, pos
		}
	}

	if !n.oracle.MovementReady() {
		res.Outcome = OutcomeIdle
		return res
	}
	rel := n.goal.Sub(pos)
	if rel.Zero() {
		res.Outcome = OutcomeArrived
		return res
	}

	if n.mode != ModeDirect || !n.stepDirect(pos, rel, &res) {
		n.stepWall(pos, rel, &res)
	}

	n.lastKnown = n.oracle.Position()
	n.warned = false
	res.Mode = n.mode
	return res
}

// stepDirect moves along the heading nearest the goal or enters wall-following
// Returns false if the step continues as a wall sweep
func (n *Navigator) stepDirect(pos, rel Point, res *StepResult) bool {
	angle := AngleOf(rel.X, rel.Y)
	best := directionAt(angle)
	res.Direction = best

	if n.oracle.CanMove(best) {
		if n.move(pos, best) {
			n.winding.Advance(best, rel)
			res.Outcome = OutcomeMoved
		} else {
			res.Outcome = OutcomeRejected
		}
		return true
	}

	n.mode = ModeWallFollowing
	n.wall = best
	n.wallAngle = roundAngle(angle) + n.winding.Turns()
	return false
}

// stepWall sweeps from the wall toward the orientation for the first open heading
func (n *Navigator) stepWall(pos, rel Point, res *StepResult) {
	sign := n.sweepSign()
	attempt := n.toward(n.wall)
	attemptAngle := n.wallAngle + sign

	for range parameter.NavSweepCandidates {
		if !n.oracle.CanMove(attempt) {
			// Blocked too: feel along the wall without moving
			n.wall = attempt
			n.wallAngle = attemptAngle
			attempt = n.toward(attempt)
			attemptAngle += sign
			continue
		}

		res.Direction = attempt
		if !n.move(pos, attempt) {
			res.Outcome = OutcomeRejected
			return
		}
		res.Outcome = OutcomeMoved
		n.winding.Advance(attempt, rel)

		after := Point{X: rel.X - attempt.Dx(), Y: rel.Y - attempt.Dy()}
		if after.Zero() || sign*(n.winding.Corrected(after)-attemptAngle) >= 0 {
			n.leaveWall()
			return
		}

		// The wall cell is now seen from the new cell: a cardinal step turns it
		// one heading back, a diagonal step two
		if attempt.Cardinal() {
			n.wall = n.back(n.wall)
			n.wallAngle -= sign
		} else {
			n.wall = n.back(n.back(n.wall))
			n.wallAngle -= 2 * sign
		}
		return
	}

	res.Outcome = OutcomeExhausted
	n.wallAngle -= parameter.NavFullTurn * sign
	n.log.Warn("no open heading around agent",
		"goal", n.goal, "position", pos, "wall", n.wall.String(), "wall_angle", n.wallAngle)
}

func (n *Navigator) move(pos Point, d Direction) bool {
	if n.oracle.Move(d) == MoveOK {
		return true
	}
	n.log.Debug("move rejected by host", "position", pos, "direction", d.String())
	return false
}

func (n *Navigator) leaveWall() {
	n.mode = ModeDirect
	n.wall = DirNone
	n.wallAngle = math.NaN()
}

func (n *Navigator) sweepSign() float64 {
	if n.orientation == CounterClockwise {
		return -1
	}
	return 1
}

func (n *Navigator) toward(d Direction) Direction {
	if n.orientation == CounterClockwise {
		return d.RotateRight()
	}
	return d.RotateLeft()
}

func (n *Navigator) back(d Direction) Direction {
	if n.orientation == CounterClockwise {
		return d.RotateLeft()
	}
	return d.RotateRight()
}
