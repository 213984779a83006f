// Package maze builds obstacle layouts for navigation scenarios
package maze

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/orbit-nav/navigation"
)

// Config describes a recursive-backtracker maze
type Config struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, a tree) to 1.0 (no dead ends)
	// Higher values open loops, which a wall follower must be able to leave
	Braiding float64

	Seed int64 // 0 = time-based
}

// Result is a generated layout; Walls[y][x] is true for wall cells, y-up
type Result struct {
	Width, Height int
	Walls         [][]bool
	Start, End    navigation.Point
}

// WallCells lists wall coordinates bottom row first
func (r Result) WallCells() []navigation.Point {
	var out []navigation.Point
	for y, row := range r.Walls {
		for x, wall := range row {
			if wall {
				out = append(out, navigation.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Open reports whether p is inside the layout and not a wall
func (r Result) Open(p navigation.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < r.Width && p.Y < r.Height && !r.Walls[p.Y][p.X]
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func filled(width, height int, wall bool) [][]bool {
	g := make([][]bool, height)
	for y := range g {
		g[y] = make([]bool, width)
		for x := range g[y] {
			g[y][x] = wall
		}
	}
	return g
}

// Rooms sit on odd coordinates; walls between them are carved at the midpoints
var (
	roomSteps = []navigation.Point{{X: 0, Y: 2}, {X: 0, Y: -2}, {X: 2, Y: 0}, {X: -2, Y: 0}}
	wallSteps = []navigation.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}
)

// Generate carves a maze with a recursive backtracker, then braids dead ends
// Start is the bottom-left room, End the top-right room
func Generate(cfg Config) Result {
	width, height := odd(cfg.Width), odd(cfg.Height)
	rng := newRand(cfg.Seed)
	g := filled(width, height, true)

	start := navigation.Point{X: 1, Y: 1}
	carve(g, start, rng)
	if cfg.Braiding > 0 {
		braid(g, cfg.Braiding, rng)
	}

	return Result{
		Width:  width,
		Height: height,
		Walls:  g,
		Start:  start,
		End:    navigation.Point{X: width - 2, Y: height - 2},
	}
}

func carve(g [][]bool, start navigation.Point, rng *rand.Rand) {
	height, width := len(g), len(g[0])
	inner := func(p navigation.Point) bool {
		return p.X > 0 && p.Y > 0 && p.X < width-1 && p.Y < height-1
	}

	g[start.Y][start.X] = false
	stack := []navigation.Point{start}
	next := make([]navigation.Point, 0, 4)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		next = next[:0]
		for _, s := range roomSteps {
			p := navigation.Point{X: cur.X + s.X, Y: cur.Y + s.Y}
			if inner(p) && g[p.Y][p.X] {
				next = append(next, s)
			}
		}
		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		s := next[rng.Intn(len(next))]
		g[cur.Y+s.Y/2][cur.X+s.X/2] = false
		room := navigation.Point{X: cur.X + s.X, Y: cur.Y + s.Y}
		g[room.Y][room.X] = false
		stack = append(stack, room)
	}
}

// braid knocks one wall out of a dead-end room with the given probability,
// never opening a 2x2 plaza or leaving a free-standing pillar
func braid(g [][]bool, probability float64, rng *rand.Rand) {
	height, width := len(g), len(g[0])
	candidates := make([]navigation.Point, 0, 4)

	for y := 1; y < height-1; y += 2 {
		for x := 1; x < width-1; x += 2 {
			if g[y][x] || exits(g, x, y) != 1 || rng.Float64() >= probability {
				continue
			}
			candidates = candidates[:0]
			for i, s := range roomSteps {
				nx, ny := x+s.X, y+s.Y
				wx, wy := x+wallSteps[i].X, y+wallSteps[i].Y
				if nx <= 0 || ny <= 0 || nx >= width-1 || ny >= height-1 {
					continue
				}
				if !g[ny][nx] && g[wy][wx] && safeToOpen(g, wx, wy) {
					candidates = append(candidates, navigation.Point{X: wx, Y: wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				g[c.Y][c.X] = false
			}
		}
	}
}

func exits(g [][]bool, x, y int) int {
	n := 0
	for _, s := range wallSteps {
		if !g[y+s.Y][x+s.X] {
			n++
		}
	}
	return n
}

func safeToOpen(g [][]bool, x, y int) bool {
	height, width := len(g), len(g[0])
	open := func(px, py int) bool {
		return px >= 0 && py >= 0 && px < width && py < height && !g[py][px]
	}
	wall := func(px, py int) bool {
		return px >= 0 && py >= 0 && px < width && py < height && g[py][px]
	}

	// No 2x2 open plaza containing (x,y)
	for _, q := range [][2]int{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		ox, oy := x+q[0], y+q[1]
		n := 0
		for _, c := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			cx, cy := ox+c[0], oy+c[1]
			if (cx == x && cy == y) || open(cx, cy) {
				n++
			}
		}
		if n == 4 {
			return false
		}
	}

	// No orthogonal wall neighbour left without another wall connection
	for _, s := range wallSteps {
		nx, ny := x+s.X, y+s.Y
		if !wall(nx, ny) {
			continue
		}
		links := 0
		for _, s2 := range wallSteps {
			mx, my := nx+s2.X, ny+s2.Y
			if (mx != x || my != y) && wall(mx, my) {
				links++
			}
		}
		if links == 0 {
			return false
		}
	}
	return true
}

func odd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
