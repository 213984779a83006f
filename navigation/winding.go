package navigation

// Winding keeps the angular metric continuous across the positive x axis
//
// AngleOf jumps between just under 8 and 0 where the goal-relative vector
// crosses the positive x axis. Every such crossing caused by a move adds or
// subtracts one full turn, so AngleOf + Turns grows or shrinks monotonically
// however many times the agent circles an obstacle
type Winding struct {
	turns float64
}

// TurnJump returns the full-turn correction for moving one step in d while the
// goal sits at rel from the agent. The vector after the move is rel - d
func TurnJump(d Direction, rel Point) float64 {
	switch {
	case rel.Y == -1 && d.Dy() == -1 && rel.X-d.Dx() > 0:
		// Below the axis moving up onto it: metric wraps 7.x -> 0
		return DirCount
	case rel.Y == 0 && rel.X > 0 && d.Dy() == 1:
		// On the axis moving below it: metric wraps 0 -> 7.x
		return -DirCount
	}
	return 0
}

// Advance records a completed move in d taken while the goal was at rel
func (w *Winding) Advance(d Direction, rel Point) {
	w.turns += TurnJump(d, rel)
}

// Turns returns the accumulated correction, always a multiple of 8
func (w *Winding) Turns() float64 {
	return w.turns
}

// Corrected returns the winding-corrected angle of the goal-relative vector rel
func (w *Winding) Corrected(rel Point) float64 {
	return AngleOf(rel.X, rel.Y) + w.turns
}
