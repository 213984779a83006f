package sim

import (
	"github.com/lixenwraith/orbit-nav/navigation"
)

// Layout is the static part of a run, sent once to renderers
type Layout struct {
	Name     string             `json:"name"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	MaxTicks int                `json:"max_ticks"`
	Walls    []navigation.Point `json:"walls"`
	Towers   []navigation.Point `json:"towers,omitempty"`
	Zones    []navigation.Point `json:"zones,omitempty"`
}

// AgentFrame is one agent's visible state after a tick
type AgentFrame struct {
	Name        string           `json:"name"`
	Position    navigation.Point `json:"position"`
	Goal        navigation.Point `json:"goal"`
	Orientation string           `json:"orientation"`
	Mode        string           `json:"mode"`
	Wall        string           `json:"wall,omitempty"`
	Outcome     string           `json:"outcome"`
	Turns       float64          `json:"turns"`
	Remaining   int              `json:"remaining"` // Optimal cost left ignoring agents, -1 unreachable
	Arrived     bool             `json:"arrived"`
}

// Frame is the dynamic part of a run after one tick
type Frame struct {
	Tick   int          `json:"tick"`
	Done   bool         `json:"done"`
	Agents []AgentFrame `json:"agents"`
}

// Layout snapshots walls, towers and the current avoidance cells
func (s *Simulation) Layout() Layout {
	var towers []navigation.Point
	if len(s.towers) > 0 {
		towers = append(towers, s.towers...)
	}
	// Towers are stored as blocked cells; report them separately from walls
	isTower := make(map[navigation.Point]bool, len(s.towers))
	for _, t := range s.towers {
		isTower[t] = true
	}
	walls := make([]navigation.Point, 0)
	for _, p := range s.world.Walls() {
		if !isTower[p] {
			walls = append(walls, p)
		}
	}
	return Layout{
		Name:     s.name,
		Width:    s.world.Width,
		Height:   s.world.Height,
		MaxTicks: s.maxTicks,
		Walls:    walls,
		Towers:   towers,
		Zones:    s.zones.Cells(),
	}
}

// Frame snapshots every agent
func (s *Simulation) Frame() Frame {
	f := Frame{
		Tick:   s.tick,
		Done:   s.Done(),
		Agents: make([]AgentFrame, len(s.agents)),
	}
	for i, e := range s.agents {
		pos := e.agent.Position()
		af := AgentFrame{
			Name:        e.spec.Name,
			Position:    pos,
			Goal:        e.spec.Goal,
			Orientation: e.spec.Orientation.String(),
			Mode:        e.nav.Mode().String(),
			Outcome:     e.last.Outcome.String(),
			Turns:       e.nav.Turns(),
			Remaining:   s.fields.Distance(pos, e.spec.Goal),
			Arrived:     pos == e.spec.Goal,
		}
		if w := e.nav.Wall(); w.Valid() {
			af.Wall = w.String()
		}
		f.Agents[i] = af
	}
	return f
}

// AgentResult is one agent's line in a run report
type AgentResult struct {
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
	Arrived     bool   `json:"arrived"`
	Stats
}

// Result summarises a run
type Result struct {
	Scenario  string        `json:"scenario"`
	Ticks     int           `json:"ticks"`
	Completed bool          `json:"completed"`
	Agents    []AgentResult `json:"agents"`
	Error     string        `json:"error,omitempty"`
}

// Result reports the run so far
func (s *Simulation) Result() *Result {
	r := &Result{
		Scenario:  s.name,
		Ticks:     s.tick,
		Completed: s.Done(),
		Agents:    make([]AgentResult, len(s.agents)),
	}
	for i, e := range s.agents {
		r.Agents[i] = AgentResult{
			Name:        e.spec.Name,
			Orientation: e.spec.Orientation.String(),
			Arrived:     e.agent.Position() == e.spec.Goal,
			Stats:       e.stats,
		}
	}
	return r
}
