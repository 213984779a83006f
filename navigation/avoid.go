package navigation

import (
	"slices"
)

// DiskTemplate returns the offsets of the discrete disk dx²+dy² <= radiusSq,
// ordered row by row
func DiskTemplate(radiusSq int) []Point {
	if radiusSq < 0 {
		return nil
	}
	r := 0
	for (r+1)*(r+1) <= radiusSq {
		r++
	}
	offsets := make([]Point, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= radiusSq {
				offsets = append(offsets, Point{X: dx, Y: dy})
			}
		}
	}
	return offsets
}

// AvoidanceZones is the set of cells stamped by a fixed offset template around
// a small set of anchors (e.g. hostile towers)
//
// The owner refreshes it once per tick through Update; navigators only read it
// through an Avoiding oracle. Not safe for concurrent Update and Contains
type AvoidanceZones struct {
	template []Point
	anchors  []Point
	cells    map[Point]struct{}
	rebuilds int
}

// NewAvoidanceZones creates an empty set stamping template around each anchor
func NewAvoidanceZones(template []Point) *AvoidanceZones {
	return &AvoidanceZones{
		template: slices.Clone(template),
		cells:    make(map[Point]struct{}),
	}
}

// Update rebuilds the cell set if the anchor set differs from the last one
// Anchor order and duplicates are ignored. Returns true if the set was rebuilt
func (z *AvoidanceZones) Update(anchors []Point) bool {
	next := normalizeAnchors(anchors)
	if slices.Equal(next, z.anchors) {
		return false
	}

	z.anchors = next
	clear(z.cells)
	for _, a := range next {
		for _, off := range z.template {
			z.cells[Point{X: a.X + off.X, Y: a.Y + off.Y}] = struct{}{}
		}
	}
	z.rebuilds++
	return true
}

// Contains reports whether p lies in any anchor's zone, nil-safe
func (z *AvoidanceZones) Contains(p Point) bool {
	if z == nil {
		return false
	}
	_, ok := z.cells[p]
	return ok
}

// Len returns the number of distinct cells in the set
func (z *AvoidanceZones) Len() int {
	if z == nil {
		return 0
	}
	return len(z.cells)
}

// Anchors returns the current anchor set, sorted
func (z *AvoidanceZones) Anchors() []Point {
	return slices.Clone(z.anchors)
}

// Cells returns the cells of the set sorted by row then column
func (z *AvoidanceZones) Cells() []Point {
	out := make([]Point, 0, len(z.cells))
	for p := range z.cells {
		out = append(out, p)
	}
	slices.SortFunc(out, comparePoints)
	return out
}

// Rebuilds returns how many times Update rebuilt the set
func (z *AvoidanceZones) Rebuilds() int {
	return z.rebuilds
}

func normalizeAnchors(anchors []Point) []Point {
	out := slices.Clone(anchors)
	slices.SortFunc(out, comparePoints)
	return slices.Compact(out)
}

func comparePoints(a, b Point) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// avoidingOracle refuses directions whose destination is in the zone set
type avoidingOracle struct {
	Oracle
	zones *AvoidanceZones
}

// Avoiding wraps o so that CanMove also refuses destinations inside zones
// The navigator cannot tell a zone refusal from terrain
func Avoiding(o Oracle, zones *AvoidanceZones) Oracle {
	if zones == nil {
		return o
	}
	return avoidingOracle{Oracle: o, zones: zones}
}

func (a avoidingOracle) CanMove(d Direction) bool {
	if a.zones.Contains(a.Position().Add(d)) {
		return false
	}
	return a.Oracle.CanMove(d)
}
