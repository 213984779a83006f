// Package grid is the host side of navigation: a bounded 8-connected world of
// walls and agents, and the per-agent oracle the navigator steers through
package grid

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lixenwraith/orbit-nav/navigation"
)

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrBlocked     = errors.New("cell blocked")
	ErrOccupied    = errors.New("cell occupied")
)

// World is a dense y-up grid: index = y*Width + x, row 0 is the bottom row
type World struct {
	Width  int
	Height int

	blocked  []bool
	occupant []int // Agent ID + 1, 0 = free

	// JamRate is the chance a move that passed CanMove is still rejected,
	// modelling a race with another actor
	JamRate float64
	rng     *rand.Rand
}

// NewWorld creates an open world; seed drives the jam model
func NewWorld(width, height int, seed int64) *World {
	size := width * height
	return &World{
		Width:    width,
		Height:   height,
		blocked:  make([]bool, size),
		occupant: make([]int, size),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// InBounds reports whether p lies inside the world
func (w *World) InBounds(p navigation.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.Width && p.Y < w.Height
}

func (w *World) index(p navigation.Point) int {
	return p.Y*w.Width + p.X
}

// SetBlocked marks a cell as wall or open, out-of-bounds cells are ignored
func (w *World) SetBlocked(p navigation.Point, blocked bool) {
	if w.InBounds(p) {
		w.blocked[w.index(p)] = blocked
	}
}

// Blocked returns true for walls and for every cell outside the world
// Usable as a WallChecker
func (w *World) Blocked(x, y int) bool {
	p := navigation.Point{X: x, Y: y}
	if !w.InBounds(p) {
		return true
	}
	return w.blocked[w.index(p)]
}

// Occupied reports whether an agent stands on p
func (w *World) Occupied(p navigation.Point) bool {
	return w.InBounds(p) && w.occupant[w.index(p)] != 0
}

// Passable reports whether an agent could step onto p right now
func (w *World) Passable(p navigation.Point) bool {
	return !w.Blocked(p.X, p.Y) && !w.Occupied(p)
}

// Walls returns every blocked cell, bottom row first
func (w *World) Walls() []navigation.Point {
	var out []navigation.Point
	for i, b := range w.blocked {
		if b {
			out = append(out, navigation.Point{X: i % w.Width, Y: i / w.Width})
		}
	}
	return out
}

// Place puts a new agent on p
func (w *World) Place(id int, p navigation.Point) error {
	if err := w.checkFree(p); err != nil {
		return fmt.Errorf("place agent %d at %v: %w", id, p, err)
	}
	w.occupant[w.index(p)] = id + 1
	return nil
}

// Relocate moves an agent regardless of adjacency, used for moves the
// navigator does not control
func (w *World) Relocate(id int, from, to navigation.Point) error {
	if !w.InBounds(from) || w.occupant[w.index(from)] != id+1 {
		return fmt.Errorf("relocate agent %d: not at %v", id, from)
	}
	if from == to {
		return nil
	}
	if err := w.checkFree(to); err != nil {
		return fmt.Errorf("relocate agent %d to %v: %w", id, to, err)
	}
	w.occupant[w.index(from)] = 0
	w.occupant[w.index(to)] = id + 1
	return nil
}

func (w *World) checkFree(p navigation.Point) error {
	switch {
	case !w.InBounds(p):
		return ErrOutOfBounds
	case w.blocked[w.index(p)]:
		return ErrBlocked
	case w.occupant[w.index(p)] != 0:
		return ErrOccupied
	}
	return nil
}

// jammed rolls the race model
func (w *World) jammed() bool {
	return w.JamRate > 0 && w.rng.Float64() < w.JamRate
}
