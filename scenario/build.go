package scenario

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/lixenwraith/orbit-nav/grid"
	"github.com/lixenwraith/orbit-nav/maze"
	"github.com/lixenwraith/orbit-nav/navigation"
)

// Agent is a resolved agent ready to place
type Agent struct {
	Name        string
	Start, Goal navigation.Point
	Orientation navigation.Orientation
	Cooldown    int
}

// Setup is a validated scenario realised as terrain
// Agents are not placed in World yet; the simulation does that
type Setup struct {
	Name          string
	World         *grid.World
	Agents        []Agent
	Towers        []navigation.Point
	Shoves        []Shove
	AvoidRadiusSq int
	MaxTicks      int
}

// terrain is the wall layout before agents are checked against it
type terrain struct {
	width, height int
	walls         []navigation.Point
	towers        []navigation.Point
	markers       *grid.Map
	mazeStart     *navigation.Point
	mazeEnd       *navigation.Point
}

// Validate reports every problem found, each wrapping ErrInvalid
func (s *Scenario) Validate() error {
	_, err := s.Build()
	return err
}

// Build fills in defaults, validates the scenario and creates its world
// Generated terrain is deterministic: the same scenario always builds the same world
func (s *Scenario) Build() (*Setup, error) {
	s.applyDefaults()
	t, err := s.terrain()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	world := grid.NewWorld(t.width, t.height, s.Seed)
	world.JamRate = s.JamRate
	for _, p := range t.walls {
		world.SetBlocked(p, true)
	}
	for _, p := range t.towers {
		world.SetBlocked(p, true)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.MaxTicks <= 0 {
		fail("max_ticks must be positive, got %d", s.MaxTicks)
	}
	if s.JamRate < 0 || s.JamRate >= 1 {
		fail("jam_rate must be in [0,1), got %g", s.JamRate)
	}
	radiusSq := *s.AvoidRadiusSq
	if radiusSq < 0 {
		fail("avoid_radius_sq must not be negative, got %d", radiusSq)
	}
	for _, p := range t.towers {
		if !world.InBounds(p) {
			fail("tower %v out of bounds", p)
		}
	}

	zones := navigation.NewAvoidanceZones(navigation.DiskTemplate(radiusSq))
	zones.Update(t.towers)

	if len(s.Agents) == 0 {
		fail("no agents")
	}
	agents := make([]Agent, 0, len(s.Agents))
	names := make(map[string]bool, len(s.Agents))
	starts := make(map[navigation.Point]string, len(s.Agents))
	for i, spec := range s.Agents {
		if names[spec.Name] {
			fail("agent name %q used twice", spec.Name)
		}
		names[spec.Name] = true

		orientation, err := ParseOrientation(spec.Orientation)
		if err != nil {
			fail("agent %q: %v", spec.Name, err)
		}
		if spec.Cooldown < 0 {
			fail("agent %q: cooldown must not be negative", spec.Name)
		}

		start, goal, err := t.endpoints(i, spec)
		if err != nil {
			fail("agent %q: %v", spec.Name, err)
			continue
		}
		for _, c := range []struct {
			what string
			p    navigation.Point
		}{{"start", start}, {"goal", goal}} {
			switch {
			case !world.InBounds(c.p):
				fail("agent %q: %s %v out of bounds", spec.Name, c.what, c.p)
			case world.Blocked(c.p.X, c.p.Y):
				fail("agent %q: %s %v is blocked", spec.Name, c.what, c.p)
			case zones.Contains(c.p):
				fail("agent %q: %s %v lies in a tower zone", spec.Name, c.what, c.p)
			}
		}
		if other, dup := starts[start]; dup {
			fail("agents %q and %q share start %v", other, spec.Name, start)
		}
		starts[start] = spec.Name

		agents = append(agents, Agent{
			Name:        spec.Name,
			Start:       start,
			Goal:        goal,
			Orientation: orientation,
			Cooldown:    spec.Cooldown,
		})
	}

	for _, sh := range s.Shoves {
		if sh.Tick < 1 {
			fail("shove of %q: tick must be at least 1, got %d", sh.Agent, sh.Tick)
		}
		if !names[sh.Agent] {
			fail("shove names unknown agent %q", sh.Agent)
		}
		if to := sh.To.Point(); world.Blocked(to.X, to.Y) {
			fail("shove of %q: target %v is blocked or out of bounds", sh.Agent, to)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	towers := make([]navigation.Point, len(t.towers))
	copy(towers, t.towers)
	return &Setup{
		Name:          s.Name,
		World:         world,
		Agents:        agents,
		Towers:        towers,
		Shoves:        append([]Shove(nil), s.Shoves...),
		AvoidRadiusSq: radiusSq,
		MaxTicks:      s.MaxTicks,
	}, nil
}

// terrain realises the single terrain source
func (s *Scenario) terrain() (*terrain, error) {
	sources := 0
	if len(s.Map) > 0 {
		sources++
	}
	if s.Maze != nil {
		sources++
	}
	if s.Scatter != nil {
		sources++
	}
	if sources > 1 {
		return nil, fmt.Errorf("map, maze and scatter are mutually exclusive")
	}

	t := &terrain{width: s.Width, height: s.Height}
	for _, c := range s.Towers {
		t.towers = append(t.towers, c.Point())
	}

	switch {
	case len(s.Map) > 0:
		m, err := grid.ParseMap(s.Map)
		if err != nil {
			return nil, err
		}
		if (s.Width != 0 && s.Width != m.Width) || (s.Height != 0 && s.Height != m.Height) {
			return nil, fmt.Errorf("map is %dx%d but scenario says %dx%d", m.Width, m.Height, s.Width, s.Height)
		}
		t.width, t.height = m.Width, m.Height
		t.walls = m.Walls
		t.towers = append(t.towers, m.Towers...)
		t.markers = m

	case s.Maze != nil:
		cfg := maze.Config{
			Width:    firstPositive(s.Maze.Width, s.Width),
			Height:   firstPositive(s.Maze.Height, s.Height),
			Braiding: s.Maze.Braid,
			Seed:     firstNonZero(s.Maze.Seed, s.Seed),
		}
		if cfg.Seed == 0 {
			return nil, fmt.Errorf("maze needs a seed")
		}
		r := maze.Generate(cfg)
		t.width, t.height = r.Width, r.Height
		t.walls = r.WallCells()
		t.mazeStart, t.mazeEnd = &r.Start, &r.End

	case s.Scatter != nil:
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("scatter needs width and height")
		}
		seed := firstNonZero(s.Scatter.Seed, s.Seed)
		if seed == 0 {
			return nil, fmt.Errorf("scatter needs a seed")
		}
		keep := append([]navigation.Point(nil), t.towers...)
		for _, a := range s.Agents {
			if a.Start != nil {
				keep = append(keep, a.Start.Point())
			}
			if a.Goal != nil {
				keep = append(keep, a.Goal.Point())
			}
		}
		r := maze.Scatter(maze.ScatterConfig{
			Width:   s.Width,
			Height:  s.Height,
			Count:   s.Scatter.Count,
			MinSize: s.Scatter.MinSize,
			MaxSize: s.Scatter.MaxSize,
			Gap:     s.Scatter.Gap,
			Keep:    keep,
			Seed:    seed,
		})
		t.walls = r.WallCells()

	default:
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("open field needs positive width and height, got %dx%d", s.Width, s.Height)
		}
	}
	return t, nil
}

// endpoints resolves an agent's start and goal: explicit cells win, then map
// markers, then the maze entrance and exit for the first agent
func (t *terrain) endpoints(i int, spec AgentSpec) (start, goal navigation.Point, err error) {
	var marker rune
	if spec.Marker != "" {
		if utf8.RuneCountInString(spec.Marker) != 1 {
			return start, goal, fmt.Errorf("marker %q must be one letter", spec.Marker)
		}
		marker, _ = utf8.DecodeRuneInString(spec.Marker)
		marker = unicode.ToLower(marker)
	}

	pick := func(explicit *Cell, fromMap map[rune]navigation.Point, fromMaze *navigation.Point, what string) (navigation.Point, error) {
		if explicit != nil {
			return explicit.Point(), nil
		}
		if marker != 0 && t.markers != nil {
			if p, ok := fromMap[marker]; ok {
				return p, nil
			}
			return navigation.Point{}, fmt.Errorf("marker %q has no %s on the map", spec.Marker, what)
		}
		if i == 0 && fromMaze != nil {
			return *fromMaze, nil
		}
		return navigation.Point{}, fmt.Errorf("no %s", what)
	}

	var starts, goals map[rune]navigation.Point
	if t.markers != nil {
		starts, goals = t.markers.Starts, t.markers.Goals
	}
	if start, err = pick(spec.Start, starts, t.mazeStart, "start"); err != nil {
		return start, goal, err
	}
	goal, err = pick(spec.Goal, goals, t.mazeEnd, "goal")
	return start, goal, err
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonZero(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
