package maze

import (
	"github.com/lixenwraith/orbit-nav/navigation"
)

// Shape of a scattered obstacle; every shape is convex on the grid
type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeDisc
	ShapeDiamond
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeDisc:
		return "disc"
	case ShapeDiamond:
		return "diamond"
	}
	return "rect"
}

// ScatterConfig describes an open field with convex obstacles
type ScatterConfig struct {
	Width, Height int
	Count         int // Obstacles to attempt
	MinSize       int // Half-extent bounds per obstacle
	MaxSize       int
	Gap           int                // Minimum free cells between obstacles
	Keep          []navigation.Point // Cells that must stay open (starts, goals)
	Seed          int64
}

// Obstacle is one placed shape
type Obstacle struct {
	Shape  Shape
	Center navigation.Point
	RX, RY int // Half extents; equal for disc and diamond
}

// Contains reports whether p lies inside the obstacle
func (o Obstacle) Contains(p navigation.Point) bool {
	dx, dy := abs(p.X-o.Center.X), abs(p.Y-o.Center.Y)
	switch o.Shape {
	case ShapeDisc:
		return dx*dx+dy*dy <= o.RX*o.RX
	case ShapeDiamond:
		return dx+dy <= o.RX
	}
	return dx <= o.RX && dy <= o.RY
}

// ScatterResult is a field layout plus the obstacles that made it
type ScatterResult struct {
	Result
	Obstacles []Obstacle
}

// Scatter places up to Count non-overlapping convex obstacles
// Placement is rejection sampled; a crowded field simply ends up with fewer
func Scatter(cfg ScatterConfig) ScatterResult {
	width, height := max(cfg.Width, 1), max(cfg.Height, 1)
	minSize := max(cfg.MinSize, 1)
	maxSize := max(cfg.MaxSize, minSize)
	rng := newRand(cfg.Seed)

	res := ScatterResult{Result: Result{
		Width:  width,
		Height: height,
		Walls:  filled(width, height, false),
	}}

	const attemptsPerObstacle = 20
	for i := 0; i < cfg.Count*attemptsPerObstacle && len(res.Obstacles) < cfg.Count; i++ {
		o := Obstacle{
			Shape:  Shape(rng.Intn(int(shapeCount))),
			Center: navigation.Point{X: rng.Intn(width), Y: rng.Intn(height)},
			RX:     minSize + rng.Intn(maxSize-minSize+1),
		}
		o.RY = o.RX
		if o.Shape == ShapeRect {
			o.RY = minSize + rng.Intn(maxSize-minSize+1)
		}
		if !fits(o, res.Obstacles, cfg, width, height) {
			continue
		}
		res.Obstacles = append(res.Obstacles, o)
		stamp(res.Walls, o)
	}
	return res
}

// fits keeps obstacles inside the field, apart by Gap and off the kept cells
func fits(o Obstacle, placed []Obstacle, cfg ScatterConfig, width, height int) bool {
	if o.Center.X-o.RX < 0 || o.Center.Y-o.RY < 0 || o.Center.X+o.RX >= width || o.Center.Y+o.RY >= height {
		return false
	}
	grown := o
	grown.RX += cfg.Gap
	grown.RY += cfg.Gap
	for _, k := range cfg.Keep {
		if grown.Contains(k) {
			return false
		}
	}
	for _, p := range placed {
		// Bounding boxes apart by Gap is enough and keeps the check cheap
		if abs(p.Center.X-o.Center.X) <= p.RX+o.RX+cfg.Gap && abs(p.Center.Y-o.Center.Y) <= p.RY+o.RY+cfg.Gap {
			return false
		}
	}
	return true
}

func stamp(g [][]bool, o Obstacle) {
	for y := o.Center.Y - o.RY; y <= o.Center.Y+o.RY; y++ {
		for x := o.Center.X - o.RX; x <= o.Center.X+o.RX; x++ {
			if o.Contains(navigation.Point{X: x, Y: y}) {
				g[y][x] = true
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
