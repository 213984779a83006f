// Package sim runs scenarios tick by tick: one navigator Step per agent per tick,
// avoidance refreshed once per tick, external shoves applied before anyone moves
package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lixenwraith/orbit-nav/grid"
	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/navigation"
	"github.com/lixenwraith/orbit-nav/scenario"
)

// Stats accumulates what one agent did over a run
type Stats struct {
	Moves         int `json:"moves"`
	Rejections    int `json:"rejections"`
	Exhaustions   int `json:"exhaustions"`
	Disturbances  int `json:"disturbances"`
	WallTicks     int `json:"wall_ticks"`     // Acting steps that ended in wall-following
	PathCost      int `json:"path_cost"`      // Weighted cost of the moves made
	ReferenceCost int `json:"reference_cost"` // Optimal cost ignoring agents, -1 unreachable
	ArrivedAt     int `json:"arrived_at"`     // First tick on the goal, 0 if never
}

// Efficiency is reference cost over path cost, 0 when not comparable
func (s Stats) Efficiency() float64 {
	if s.PathCost <= 0 || s.ReferenceCost <= 0 {
		return 0
	}
	return float64(s.ReferenceCost) / float64(s.PathCost)
}

type agentEntry struct {
	spec  scenario.Agent
	agent *grid.Agent
	nav   *navigation.Navigator
	last  navigation.StepResult
	stats Stats
}

// Simulation owns one world and its navigators
// Not safe for concurrent use; RunBatch gives each scenario its own Simulation
type Simulation struct {
	name     string
	world    *grid.World
	agents   []*agentEntry
	towers   []navigation.Point
	zones    *navigation.AvoidanceZones
	fields   *grid.FieldCache
	shoves   map[int][]scenario.Shove
	byName   map[string]*agentEntry
	maxTicks int
	tick     int
	log      *slog.Logger
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger for the simulation and its navigators
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxTicks overrides the scenario's tick limit
func WithMaxTicks(n int) Option {
	return func(s *Simulation) {
		if n > 0 {
			s.maxTicks = n
		}
	}
}

// New builds the scenario's world and binds a navigator to every agent
func New(sc *scenario.Scenario, opts ...Option) (*Simulation, error) {
	setup, err := sc.Build()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		name:     setup.Name,
		world:    setup.World,
		towers:   setup.Towers,
		zones:    navigation.NewAvoidanceZones(navigation.DiskTemplate(setup.AvoidRadiusSq)),
		fields:   grid.NewFieldCache(setup.World),
		shoves:   make(map[int][]scenario.Shove),
		byName:   make(map[string]*agentEntry, len(setup.Agents)),
		maxTicks: setup.MaxTicks,
		log:      logging.New("sim"),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sh := range setup.Shoves {
		s.shoves[sh.Tick] = append(s.shoves[sh.Tick], sh)
	}

	for id, spec := range setup.Agents {
		agent, err := grid.NewAgent(s.world, id, spec.Start, spec.Cooldown)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
		}
		oracle := navigation.Avoiding(agent, s.zones)
		e := &agentEntry{
			spec:  spec,
			agent: agent,
			nav: navigation.NewNavigator(oracle, spec.Goal, spec.Orientation,
				navigation.WithLogger(s.log.With("agent", spec.Name))),
			last: navigation.StepResult{Direction: navigation.DirNone},
		}
		e.stats.ReferenceCost = s.fields.Distance(spec.Start, spec.Goal)
		s.agents = append(s.agents, e)
		s.byName[spec.Name] = e
	}

	s.zones.Update(s.towers)
	return s, nil
}

// Name is the scenario name
func (s *Simulation) Name() string { return s.name }

// Tick is the number of completed ticks
func (s *Simulation) Tick() int { return s.tick }

// MaxTicks is the tick limit Run stops at
func (s *Simulation) MaxTicks() int { return s.maxTicks }

// Zones exposes the avoidance set shared by every agent's oracle
func (s *Simulation) Zones() *navigation.AvoidanceZones { return s.zones }

// Done reports whether every agent stands on its goal
func (s *Simulation) Done() bool {
	for _, e := range s.agents {
		if e.agent.Position() != e.spec.Goal {
			return false
		}
	}
	return true
}

// Step runs one tick and returns the agents that reached their goal during it
func (s *Simulation) Step() []string {
	s.tick++

	for _, sh := range s.shoves[s.tick] {
		e := s.byName[sh.Agent]
		if err := e.agent.Shove(sh.To.Point()); err != nil {
			s.log.Warn("shove failed", "tick", s.tick, "agent", sh.Agent, "error", err)
		}
	}

	s.zones.Update(s.towers)

	for _, e := range s.agents {
		e.agent.Tick()
	}

	var arrived []string
	for _, e := range s.agents {
		res := e.nav.Step()
		prev := e.last
		e.last = res

		st := &e.stats
		// The navigator keeps reporting a disturbance until it acts again;
		// count each episode once
		if res.Disturbed && !prev.Disturbed {
			st.Disturbances++
		}
		switch res.Outcome {
		case navigation.OutcomeIdle, navigation.OutcomeArrived:
			continue
		case navigation.OutcomeMoved:
			st.Moves++
			st.PathCost += grid.StepCost(res.Direction)
		case navigation.OutcomeRejected:
			st.Rejections++
		case navigation.OutcomeExhausted:
			st.Exhaustions++
		}
		if res.Mode == navigation.ModeWallFollowing {
			st.WallTicks++
		}
		if res.Outcome == navigation.OutcomeMoved && e.agent.Position() == e.spec.Goal {
			if st.ArrivedAt == 0 {
				st.ArrivedAt = s.tick
			}
			arrived = append(arrived, e.spec.Name)
			s.log.Debug("agent arrived", "agent", e.spec.Name, "tick", s.tick, "moves", st.Moves)
		}
	}
	return arrived
}

// Observer sees every frame Run produces, after the tick has been applied
type Observer func(Frame)

// Run steps until every agent arrives, the tick limit is reached or ctx is done
// A cancelled run returns the partial result together with the context error
func (s *Simulation) Run(ctx context.Context, observe Observer) (*Result, error) {
	for !s.Done() && s.tick < s.maxTicks {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		s.Step()
		if observe != nil {
			observe(s.Frame())
		}
	}
	res := s.Result()
	if !res.Completed {
		s.log.Info("run ended with agents short of goal", "scenario", s.name, "ticks", s.tick)
	}
	return res, nil
}
