package navigation

// MoveResult is the outcome of an attempted move
type MoveResult uint8

const (
	MoveOK       MoveResult = iota
	MoveRejected            // Host refused the move, agent did not change cell
)

func (r MoveResult) String() string {
	if r == MoveOK {
		return "ok"
	}
	return "rejected"
}

// Oracle is the host's view of one agent
// It is the navigator's only source of information about the grid
type Oracle interface {
	// Position returns the agent's current cell
	Position() Point
	// MovementReady is false while the agent is cooling down from a previous action
	MovementReady() bool
	// CanMove reports whether a move in d would currently succeed
	CanMove(d Direction) bool
	// Move attempts the move; it may be rejected even after CanMove returned true
	Move(d Direction) MoveResult
}

// OracleFunc adapts plain functions to Oracle, handy for hosts without an agent type
type OracleFunc struct {
	PositionFn func() Point
	ReadyFn    func() bool
	CanMoveFn  func(Direction) bool
	MoveFn     func(Direction) MoveResult
}

func (o OracleFunc) Position() Point { return o.PositionFn() }

func (o OracleFunc) MovementReady() bool {
	if o.ReadyFn == nil {
		return true
	}
	return o.ReadyFn()
}

func (o OracleFunc) CanMove(d Direction) bool { return o.CanMoveFn(d) }

func (o OracleFunc) Move(d Direction) MoveResult { return o.MoveFn(d) }
