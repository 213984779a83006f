// Package render draws simulation layouts and frames on a terminal
package render

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/orbit-nav/navigation"
	"github.com/lixenwraith/orbit-nav/sim"
)

// Glyphs
const (
	GlyphWall  = '█'
	GlyphFloor = '·'
	GlyphTower = 'T'
	GlyphGoal  = '◎'
)

// Surface is the part of tcell.Screen the renderer draws on
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Clear()
	Show()
	Size() (width, height int)
}

// Status is viewer state shown in the status bar
type Status struct {
	Paused bool
	FPS    int
}

// TerminalRenderer draws the grid with row 0 at the bottom; the header takes the
// first screen line and the status bar the line below the grid
type TerminalRenderer struct {
	screen Surface
	layout sim.Layout

	walls  map[navigation.Point]bool
	towers map[navigation.Point]bool
	zones  map[navigation.Point]bool
}

// NewTerminalRenderer binds a renderer to a screen and a layout
func NewTerminalRenderer(screen Surface, layout sim.Layout) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen}
	r.SetLayout(layout)
	return r
}

// SetLayout replaces the static layer
func (r *TerminalRenderer) SetLayout(layout sim.Layout) {
	r.layout = layout
	r.walls = pointSet(layout.Walls)
	r.towers = pointSet(layout.Towers)
	r.zones = pointSet(layout.Zones)
}

func pointSet(ps []navigation.Point) map[navigation.Point]bool {
	m := make(map[navigation.Point]bool, len(ps))
	for _, p := range ps {
		m[p] = true
	}
	return m
}

// ScreenPos maps a grid cell to screen coordinates
func (r *TerminalRenderer) ScreenPos(p navigation.Point) (x, y int) {
	return p.X, 1 + r.layout.Height - 1 - p.Y
}

// RenderFrame renders the entire frame
func (r *TerminalRenderer) RenderFrame(f sim.Frame, st Status) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)

	r.drawHeader(f, defaultStyle)
	r.drawGrid(defaultStyle)
	r.drawAgents(f, defaultStyle)
	r.drawStatusBar(f, st, defaultStyle)

	r.screen.Show()
}

func (r *TerminalRenderer) drawHeader(f sim.Frame, defaultStyle tcell.Style) {
	text := fmt.Sprintf(" %s  tick %d/%d", r.layout.Name, f.Tick, r.layout.MaxTicks)
	r.drawText(0, 0, text, defaultStyle.Foreground(RgbStatusBar))
}

func (r *TerminalRenderer) drawGrid(defaultStyle tcell.Style) {
	floorStyle := defaultStyle.Foreground(RgbFloor)
	wallStyle := defaultStyle.Foreground(RgbWall)
	towerStyle := defaultStyle.Foreground(RgbTower).Bold(true)

	for y := 0; y < r.layout.Height; y++ {
		for x := 0; x < r.layout.Width; x++ {
			p := navigation.Point{X: x, Y: y}
			sx, sy := r.ScreenPos(p)

			style := floorStyle
			if r.zones[p] {
				style = style.Background(RgbZone)
			}
			switch {
			case r.towers[p]:
				r.screen.SetContent(sx, sy, GlyphTower, nil, towerStyle.Background(RgbZone))
			case r.walls[p]:
				r.screen.SetContent(sx, sy, GlyphWall, nil, wallStyle)
			default:
				r.screen.SetContent(sx, sy, GlyphFloor, nil, style)
			}
		}
	}
}

// drawAgents draws goals first so an agent standing on its goal hides it
func (r *TerminalRenderer) drawAgents(f sim.Frame, defaultStyle tcell.Style) {
	for i, a := range f.Agents {
		sx, sy := r.ScreenPos(a.Goal)
		r.screen.SetContent(sx, sy, GlyphGoal, nil, defaultStyle.Foreground(AgentColor(i)))
	}
	for i, a := range f.Agents {
		style := defaultStyle.Foreground(AgentColor(i)).Bold(true)
		if a.Arrived {
			style = defaultStyle.Foreground(RgbArrived).Bold(true)
		} else if a.Mode == navigation.ModeWallFollowing.String() {
			style = style.Underline(true)
		}
		sx, sy := r.ScreenPos(a.Position)
		r.screen.SetContent(sx, sy, AgentGlyph(a.Name, i), nil, style)
	}
}

// AgentGlyph is the upper-cased first letter of the name, or the agent number
func AgentGlyph(name string, i int) rune {
	if c, _ := utf8.DecodeRuneInString(name); unicode.IsLetter(c) {
		return unicode.ToUpper(c)
	}
	return rune('1' + i%9)
}

func (r *TerminalRenderer) drawStatusBar(f sim.Frame, st Status, defaultStyle tcell.Style) {
	statusY := 1 + r.layout.Height
	width, _ := r.screen.Size()

	// Clear status bar
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, statusY, ' ', nil, defaultStyle)
	}

	modeText, modeBg := " RUN ", RgbRunningBg
	switch {
	case f.Done:
		modeText, modeBg = " DONE ", RgbDoneBg
	case st.Paused:
		modeText, modeBg = " PAUSE ", RgbPausedBg
	}
	x := r.drawText(0, statusY, modeText, defaultStyle.Foreground(RgbStatusText).Background(modeBg))

	arrived := 0
	for _, a := range f.Agents {
		if a.Arrived {
			arrived++
		}
	}
	info := fmt.Sprintf(" %d/%d arrived  %d fps  space:pause q:quit", arrived, len(f.Agents), st.FPS)
	r.drawText(x, statusY, info, defaultStyle.Foreground(RgbStatusBar))
}

// drawText writes s from x and returns the column after it
func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
