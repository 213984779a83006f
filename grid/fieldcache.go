package grid

import (
	"github.com/lixenwraith/orbit-nav/navigation"
)

// FieldCache computes one flow field per goal on first request and reuses it
// Walls must not change while fields are cached; call Invalidate after editing them
type FieldCache struct {
	world  *World
	fields map[navigation.Point]*FlowField

	// Computes counts Dijkstra runs since creation
	Computes int
}

// NewFieldCache creates an empty cache over w
func NewFieldCache(w *World) *FieldCache {
	return &FieldCache{
		world:  w,
		fields: make(map[navigation.Point]*FlowField),
	}
}

// Field returns the flow field toward goal, computing it if needed
func (c *FieldCache) Field(goal navigation.Point) *FlowField {
	if f, ok := c.fields[goal]; ok {
		return f
	}
	f := NewFlowField(c.world.Width, c.world.Height)
	f.Compute(goal, c.world.Blocked)
	c.fields[goal] = f
	c.Computes++
	return f
}

// Distance is the optimal weighted cost from p to goal, -1 if unreachable
func (c *FieldCache) Distance(p, goal navigation.Point) int {
	return c.Field(goal).Distance(p)
}

// Invalidate drops every cached field
func (c *FieldCache) Invalidate() {
	clear(c.fields)
}

// Len is the number of cached goals
func (c *FieldCache) Len() int {
	return len(c.fields)
}
