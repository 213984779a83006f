package scenario

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/orbit-nav/grid"
	"github.com/lixenwraith/orbit-nav/maze"
	"github.com/lixenwraith/orbit-nav/navigation"
)

// NewMaze generates a maze and bakes it into a self-contained scenario
// Agents start near the bottom-left corner and head for the top-right,
// alternating orientation
func NewMaze(name string, cfg maze.Config, agents int) *Scenario {
	r := maze.Generate(cfg)

	rows := make([]string, r.Height)
	for row := range rows {
		y := r.Height - 1 - row
		line := make([]byte, r.Width)
		for x := range line {
			line[x] = grid.MarkOpen
			if r.Walls[y][x] {
				line[x] = grid.MarkWall
			}
		}
		rows[row] = string(line)
	}

	var open []navigation.Point
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if p := (navigation.Point{X: x, Y: y}); r.Open(p) {
				open = append(open, p)
			}
		}
	}
	slices.SortStableFunc(open, func(a, b navigation.Point) int {
		return (a.X + a.Y) - (b.X + b.Y)
	})
	agents = min(max(agents, 1), len(open)/2)

	s := &Scenario{Name: name, Width: r.Width, Height: r.Height, Map: rows, Seed: cfg.Seed}
	for i := range agents {
		start := Cell(open[i])
		goal := Cell(open[len(open)-1-i])
		orientation := navigation.Clockwise
		if i%2 == 1 {
			orientation = navigation.CounterClockwise
		}
		s.Agents = append(s.Agents, AgentSpec{
			Name:        fmt.Sprintf("agent-%d", i+1),
			Start:       &start,
			Goal:        &goal,
			Orientation: orientation.String(),
		})
	}
	s.applyDefaults()
	return s
}
