package grid

import (
	"github.com/lixenwraith/orbit-nav/navigation"
)

// Agent is one mover in a World and implements navigation.Oracle
type Agent struct {
	ID       int
	Cooldown int // Ticks to wait after each move

	world   *World
	pos     navigation.Point
	clock   int // Ticks seen
	readyAt int // First tick the next move is allowed
}

// NewAgent places an agent in the world
func NewAgent(w *World, id int, pos navigation.Point, cooldown int) (*Agent, error) {
	if err := w.Place(id, pos); err != nil {
		return nil, err
	}
	return &Agent{ID: id, Cooldown: cooldown, world: w, pos: pos}, nil
}

func (a *Agent) Position() navigation.Point { return a.pos }

// MovementReady is false until the cooldown from the last move has elapsed
func (a *Agent) MovementReady() bool { return a.clock >= a.readyAt }

// CanMove reports whether the neighbouring cell is in bounds, open and unoccupied
func (a *Agent) CanMove(d navigation.Direction) bool {
	if !a.MovementReady() || !d.Valid() {
		return false
	}
	return a.world.Passable(a.pos.Add(d))
}

// Move re-checks the destination and applies the move; the jam model may still
// reject it
func (a *Agent) Move(d navigation.Direction) navigation.MoveResult {
	if !a.CanMove(d) || a.world.jammed() {
		return navigation.MoveRejected
	}
	to := a.pos.Add(d)
	if err := a.world.Relocate(a.ID, a.pos, to); err != nil {
		return navigation.MoveRejected
	}
	a.pos = to
	a.readyAt = a.clock + a.Cooldown + 1
	return navigation.MoveOK
}

// Tick advances the agent's clock, once per simulation tick
// With Cooldown c a moving agent moves on every (c+1)th tick
func (a *Agent) Tick() {
	a.clock++
}

// Shove moves the agent to any free cell outside navigator control
func (a *Agent) Shove(to navigation.Point) error {
	if err := a.world.Relocate(a.ID, a.pos, to); err != nil {
		return err
	}
	a.pos = to
	return nil
}
