// Package scenario reads and validates YAML navigation scenarios and turns them
// into a populated grid world
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/orbit-nav/navigation"
	"github.com/lixenwraith/orbit-nav/parameter"
)

// ErrInvalid wraps every validation problem
var ErrInvalid = errors.New("invalid scenario")

// Cell is a grid coordinate written as [x, y] in YAML
type Cell navigation.Point

// Point converts back to the navigation type
func (c Cell) Point() navigation.Point { return navigation.Point(c) }

func (c Cell) String() string { return navigation.Point(c).String() }

func (c Cell) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.X)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.Y)},
		},
	}, nil
}

func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	var xy []int
	if err := n.Decode(&xy); err != nil {
		return fmt.Errorf("line %d: cell must be [x, y]: %w", n.Line, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: cell must be [x, y], got %d values", n.Line, len(xy))
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}

// Scenario is the on-disk description of one run
//
// Terrain comes from exactly one of Map, Maze or Scatter. Map rows are written
// top row first and may carry agent markers (see grid.ParseMap)
type Scenario struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`

	Map     []string     `yaml:"map,omitempty"`
	Maze    *MazeSpec    `yaml:"maze,omitempty"`
	Scatter *ScatterSpec `yaml:"scatter,omitempty"`

	Agents []AgentSpec `yaml:"agents"`
	Towers []Cell      `yaml:"towers,omitempty"`
	Shoves []Shove     `yaml:"shoves,omitempty"`

	AvoidRadiusSq *int    `yaml:"avoid_radius_sq,omitempty"`
	MaxTicks      int     `yaml:"max_ticks,omitempty"`
	JamRate       float64 `yaml:"jam_rate,omitempty"`
	Seed          int64   `yaml:"seed,omitempty"`
}

// MazeSpec generates maze terrain; size falls back to the scenario size
type MazeSpec struct {
	Width  int     `yaml:"width,omitempty"`
	Height int     `yaml:"height,omitempty"`
	Braid  float64 `yaml:"braid,omitempty"`
	Seed   int64   `yaml:"seed,omitempty"`
}

// ScatterSpec generates an open field with convex obstacles of the scenario size
type ScatterSpec struct {
	Count   int   `yaml:"count"`
	MinSize int   `yaml:"min_size,omitempty"`
	MaxSize int   `yaml:"max_size,omitempty"`
	Gap     int   `yaml:"gap,omitempty"`
	Seed    int64 `yaml:"seed,omitempty"`
}

// AgentSpec places one navigating agent
// Start and Goal may be omitted when the map carries the agent's Marker, or for
// the first agent of a maze, which then runs from the maze start to its end
type AgentSpec struct {
	Name        string `yaml:"name"`
	Marker      string `yaml:"marker,omitempty"`
	Start       *Cell  `yaml:"start,omitempty"`
	Goal        *Cell  `yaml:"goal,omitempty"`
	Orientation string `yaml:"orientation,omitempty"`
	Cooldown    int    `yaml:"cooldown,omitempty"`
}

// Shove teleports an agent at the start of a tick, outside navigator control
type Shove struct {
	Tick  int    `yaml:"tick"`
	Agent string `yaml:"agent"`
	To    Cell   `yaml:"to"`
}

// Load reads and parses a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes YAML and applies defaults; it does not validate
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	s.applyDefaults()
	return &s, nil
}

// Marshal encodes the scenario as YAML
func Marshal(s *Scenario) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scenario: %w", err)
	}
	return data, nil
}

// Save writes the scenario to path
func Save(path string, s *Scenario) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

func (s *Scenario) applyDefaults() {
	if s.MaxTicks == 0 {
		s.MaxTicks = parameter.SimDefaultMaxTicks
	}
	if s.AvoidRadiusSq == nil {
		r := parameter.NavAvoidRadiusSq
		s.AvoidRadiusSq = &r
	}
	for i := range s.Agents {
		a := &s.Agents[i]
		if a.Name == "" {
			a.Name = fmt.Sprintf("agent-%d", i+1)
		}
		if a.Orientation == "" {
			a.Orientation = navigation.Clockwise.String()
		}
	}
}

// ParseOrientation accepts clockwise|cw and counterclockwise|ccw
func ParseOrientation(s string) (navigation.Orientation, error) {
	switch strings.ToLower(s) {
	case "clockwise", "cw", "":
		return navigation.Clockwise, nil
	case "counterclockwise", "counter-clockwise", "ccw":
		return navigation.CounterClockwise, nil
	}
	return navigation.Clockwise, fmt.Errorf("unknown orientation %q", s)
}
