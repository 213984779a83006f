package grid

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/lixenwraith/orbit-nav/navigation"
)

// Map cell markers
const (
	MarkWall  = '#'
	MarkOpen  = '.'
	MarkTower = 'T'
)

// Map is a parsed ASCII layout
//
// Rows are written top first, so the first row has the highest y. Lowercase
// letters mark agent starts and the matching uppercase letter that agent's goal;
// 't' is unavailable because 'T' marks a tower
type Map struct {
	Width, Height int
	Walls         []navigation.Point
	Towers        []navigation.Point
	Starts        map[rune]navigation.Point
	Goals         map[rune]navigation.Point
}

// ParseMap reads an ASCII layout; all rows must have equal width
func ParseMap(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map has no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("map has empty rows")
	}

	m := &Map{
		Width:  width,
		Height: len(rows),
		Starts: make(map[rune]navigation.Point),
		Goals:  make(map[rune]navigation.Point),
	}

	for r, row := range rows {
		cells := []rune(row)
		if len(cells) != width {
			return nil, fmt.Errorf("map row %d has width %d, want %d", r, len(cells), width)
		}
		y := m.Height - 1 - r
		for x, c := range cells {
			p := navigation.Point{X: x, Y: y}
			switch {
			case c == MarkWall:
				m.Walls = append(m.Walls, p)
			case c == MarkOpen || c == ' ':
			case c == MarkTower:
				m.Towers = append(m.Towers, p)
			case c >= 'a' && c <= 'z' && c != 't':
				if _, dup := m.Starts[c]; dup {
					return nil, fmt.Errorf("map marker %q appears twice", c)
				}
				m.Starts[c] = p
			case c >= 'A' && c <= 'Z':
				key := unicode.ToLower(c)
				if _, dup := m.Goals[key]; dup {
					return nil, fmt.Errorf("map marker %q appears twice", c)
				}
				m.Goals[key] = p
			default:
				return nil, fmt.Errorf("map row %d col %d: unknown marker %q", r, x, c)
			}
		}
	}
	slices.SortFunc(m.Walls, comparePoints)
	slices.SortFunc(m.Towers, comparePoints)
	return m, nil
}

// Format renders the map back to rows, top row first
func (m *Map) Format() []string {
	cells := make([][]rune, m.Height)
	for r := range cells {
		cells[r] = make([]rune, m.Width)
		for x := range cells[r] {
			cells[r][x] = MarkOpen
		}
	}
	set := func(p navigation.Point, c rune) {
		if p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height {
			cells[m.Height-1-p.Y][p.X] = c
		}
	}
	for _, p := range m.Walls {
		set(p, MarkWall)
	}
	for _, p := range m.Towers {
		set(p, MarkTower)
	}
	for k, p := range m.Starts {
		set(p, k)
	}
	for k, p := range m.Goals {
		set(p, unicode.ToUpper(k))
	}

	rows := make([]string, m.Height)
	for r, line := range cells {
		rows[r] = string(line)
	}
	return rows
}

// Build creates a world with walls and towers blocked
func (m *Map) Build(seed int64) *World {
	w := NewWorld(m.Width, m.Height, seed)
	for _, p := range m.Walls {
		w.SetBlocked(p, true)
	}
	for _, p := range m.Towers {
		w.SetBlocked(p, true)
	}
	return w
}

func comparePoints(a, b navigation.Point) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}
