package navigation

import "fmt"

// Direction is one of the 8 compass headings, indexed counterclockwise from east
// so that the index equals the heading's value on the angular metric
// Grid convention is y-up: DirN moves toward +Y
type Direction int8

const (
	DirNone  Direction = -1 // No movement
	DirE     Direction = 0
	DirNE    Direction = 1
	DirN     Direction = 2
	DirNW    Direction = 3
	DirW     Direction = 4
	DirSW    Direction = 5
	DirS     Direction = 6
	DirSE    Direction = 7
	DirCount           = 8
)

// dirVectors matches DirE..DirSE
var dirVectors = [DirCount][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var dirNames = [DirCount]string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

// Directions lists the 8 headings in counterclockwise order starting at east
var Directions = [DirCount]Direction{DirE, DirNE, DirN, DirNW, DirW, DirSW, DirS, DirSE}

// Valid reports whether d is one of the 8 compass headings
func (d Direction) Valid() bool {
	return d >= 0 && d < DirCount
}

func (d Direction) mustValid(op string) {
	if !d.Valid() {
		panic(fmt.Sprintf("navigation: %s on invalid direction %d", op, d))
	}
}

// RotateLeft turns d 45° counterclockwise
func (d Direction) RotateLeft() Direction {
	d.mustValid("RotateLeft")
	return (d + 1) % DirCount
}

// RotateRight turns d 45° clockwise
func (d Direction) RotateRight() Direction {
	d.mustValid("RotateRight")
	return (d + DirCount - 1) % DirCount
}

// Opposite returns the heading 180° from d, DirNone stays DirNone
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return DirNone
	}
	return (d + DirCount/2) % DirCount
}

// Dx returns the x component of the unit step, 0 for DirNone
func (d Direction) Dx() int {
	if !d.Valid() {
		return 0
	}
	return dirVectors[d][0]
}

// Dy returns the y component of the unit step, 0 for DirNone
func (d Direction) Dy() int {
	if !d.Valid() {
		return 0
	}
	return dirVectors[d][1]
}

// Cardinal reports whether d is N, E, S or W
func (d Direction) Cardinal() bool {
	return d.Valid() && d%2 == 0
}

// Diagonal reports whether d is NE, NW, SW or SE
func (d Direction) Diagonal() bool {
	return d.Valid() && d%2 == 1
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return dirNames[d]
}

// DirectionOf returns the heading of a unit step (dx, dy), DirNone if it is not one
func DirectionOf(dx, dy int) Direction {
	for i, v := range dirVectors {
		if v[0] == dx && v[1] == dy {
			return Direction(i)
		}
	}
	return DirNone
}

// ParseDirection accepts the short compass names produced by String
func ParseDirection(s string) (Direction, error) {
	for i, name := range dirNames {
		if name == s {
			return Direction(i), nil
		}
	}
	if s == "none" {
		return DirNone, nil
	}
	return DirNone, fmt.Errorf("unknown direction %q", s)
}

// Point is an integer grid coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell one step from p in direction d
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.Dx(), Y: p.Y + d.Dy()}
}

// Sub returns the vector p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Zero reports whether p is the origin
func (p Point) Zero() bool {
	return p.X == 0 && p.Y == 0
}

// Chebyshev returns the king-move distance between p and q
func (p Point) Chebyshev(q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
