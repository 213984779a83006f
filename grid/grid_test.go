package grid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/orbit-nav/navigation"
)

func pt(x, y int) navigation.Point { return navigation.Point{X: x, Y: y} }

func TestWorldBlockedOutOfBounds(t *testing.T) {
	w := NewWorld(4, 3, 1)
	w.SetBlocked(pt(1, 1), true)

	tests := []struct {
		x, y int
		want bool
	}{
		{1, 1, true}, {0, 0, false}, {-1, 0, true}, {4, 0, true}, {0, 3, true}, {3, 2, false},
	}
	for _, tt := range tests {
		if got := w.Blocked(tt.x, tt.y); got != tt.want {
			t.Errorf("Blocked(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if diff := cmp.Diff([]navigation.Point{pt(1, 1)}, w.Walls()); diff != "" {
		t.Errorf("walls mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceErrors(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.SetBlocked(pt(2, 2), true)
	if err := w.Place(0, pt(0, 0)); err != nil {
		t.Fatalf("Place: %v", err)
	}

	tests := []struct {
		p    navigation.Point
		want error
	}{
		{pt(5, 0), ErrOutOfBounds},
		{pt(2, 2), ErrBlocked},
		{pt(0, 0), ErrOccupied},
	}
	for _, tt := range tests {
		if err := w.Place(1, tt.p); !errors.Is(err, tt.want) {
			t.Errorf("Place(%v) error = %v, want %v", tt.p, err, tt.want)
		}
	}
}

func TestAgentOracle(t *testing.T) {
	w := NewWorld(5, 5, 1)
	w.SetBlocked(pt(3, 2), true)
	a, err := NewAgent(w, 0, pt(2, 2), 0)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	other, err := NewAgent(w, 1, pt(2, 3), 0)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}

	if a.CanMove(navigation.DirE) {
		t.Error("Expected wall to refuse east")
	}
	if a.CanMove(navigation.DirN) {
		t.Error("Expected other agent to refuse north")
	}
	if !a.CanMove(navigation.DirNE) {
		t.Error("Expected diagonal past the wall corner to be allowed")
	}
	if a.CanMove(navigation.DirNone) {
		t.Error("Expected DirNone refused")
	}

	if res := a.Move(navigation.DirW); res != navigation.MoveOK {
		t.Fatalf("Expected move west ok, got %v", res)
	}
	if a.Position() != pt(1, 2) || w.Occupied(pt(2, 2)) || !w.Occupied(pt(1, 2)) {
		t.Errorf("Occupancy not updated, agent at %v", a.Position())
	}

	if res := other.Move(navigation.DirN); res != navigation.MoveOK {
		t.Errorf("Expected other agent to move, got %v", res)
	}
}

func TestAgentEdgeOfWorld(t *testing.T) {
	w := NewWorld(2, 2, 1)
	a, _ := NewAgent(w, 0, pt(0, 0), 0)
	for _, d := range []navigation.Direction{navigation.DirS, navigation.DirW, navigation.DirSW, navigation.DirNW, navigation.DirSE} {
		if a.CanMove(d) {
			t.Errorf("Expected %v off the map refused", d)
		}
		if a.Move(d) != navigation.MoveRejected {
			t.Errorf("Expected move %v rejected", d)
		}
	}
}

func TestAgentCooldown(t *testing.T) {
	w := NewWorld(10, 1, 1)
	a, _ := NewAgent(w, 0, pt(0, 0), 2)

	var movedAt []int
	for tick := 0; tick < 9; tick++ {
		if a.MovementReady() && a.Move(navigation.DirE) == navigation.MoveOK {
			movedAt = append(movedAt, tick)
		}
		a.Tick()
	}
	if diff := cmp.Diff([]int{0, 3, 6}, movedAt); diff != "" {
		t.Errorf("move ticks mismatch (-want +got):\n%s", diff)
	}
	if a.CanMove(navigation.DirE) != a.MovementReady() {
		t.Error("Expected CanMove to respect readiness")
	}
}

func TestJamRejectsAfterCanMove(t *testing.T) {
	w := NewWorld(5, 5, 7)
	w.JamRate = 1
	a, _ := NewAgent(w, 0, pt(2, 2), 0)

	if !a.CanMove(navigation.DirN) {
		t.Fatal("Expected CanMove true")
	}
	if a.Move(navigation.DirN) != navigation.MoveRejected {
		t.Error("Expected jammed move rejected")
	}
	if a.Position() != pt(2, 2) {
		t.Error("Expected agent unmoved")
	}
}

func TestShove(t *testing.T) {
	w := NewWorld(5, 5, 1)
	w.SetBlocked(pt(4, 4), true)
	a, _ := NewAgent(w, 0, pt(0, 0), 0)

	if err := a.Shove(pt(3, 3)); err != nil {
		t.Fatalf("Shove: %v", err)
	}
	if a.Position() != pt(3, 3) || !w.Occupied(pt(3, 3)) || w.Occupied(pt(0, 0)) {
		t.Error("Shove did not relocate agent")
	}
	if err := a.Shove(pt(4, 4)); !errors.Is(err, ErrBlocked) {
		t.Errorf("Expected ErrBlocked, got %v", err)
	}
}

func TestParseMapRoundTrip(t *testing.T) {
	rows := []string{
		"....B",
		".##..",
		"a#T..",
	}
	m, err := ParseMap(rows)
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if m.Width != 5 || m.Height != 3 {
		t.Errorf("Expected 5x3, got %dx%d", m.Width, m.Height)
	}
	if m.Starts['a'] != pt(0, 0) {
		t.Errorf("Expected start a at (0,0), got %v", m.Starts['a'])
	}
	if m.Goals['b'] != pt(4, 2) {
		t.Errorf("Expected goal B at (4,2), got %v", m.Goals['b'])
	}
	if diff := cmp.Diff([]navigation.Point{pt(1, 0), pt(1, 1), pt(2, 1)}, m.Walls); diff != "" {
		t.Errorf("walls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]navigation.Point{pt(2, 0)}, m.Towers); diff != "" {
		t.Errorf("towers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rows, m.Format()); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}

	w := m.Build(1)
	if !w.Blocked(2, 0) || !w.Blocked(1, 1) || w.Blocked(0, 0) {
		t.Error("Build did not block walls and towers")
	}
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"empty", nil},
		{"ragged", []string{"...", ".."}},
		{"unknown marker", []string{"..?"}},
		{"duplicate start", []string{"a.a"}},
		{"duplicate goal", []string{"A.A"}},
	}
	for _, tt := range tests {
		if _, err := ParseMap(tt.rows); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestReferenceCost(t *testing.T) {
	m, err := ParseMap([]string{
		".....",
		".###.",
		"a#..A",
	})
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	w := m.Build(1)

	// a(0,0) -> N(0,1) -> NE(1,2) -> E(2,2) -> E(3,2) -> SE(4,1) -> S(4,0)
	want := 4*CostCardinal + 2*CostDiagonal
	if got := ReferenceCost(w, m.Starts['a'], m.Goals['a']); got != want {
		t.Errorf("Expected reference cost %d, got %d", want, got)
	}

	w.SetBlocked(pt(0, 1), true)
	w.SetBlocked(pt(1, 2), true)
	if got := ReferenceCost(w, m.Starts['a'], m.Goals['a']); got != -1 {
		t.Errorf("Expected unreachable, got %d", got)
	}
}

func TestFieldCacheReusesGoals(t *testing.T) {
	m, err := ParseMap([]string{
		".....",
		".###.",
		"a#..A",
	})
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	w := m.Build(1)
	c := NewFieldCache(w)
	goal := m.Goals['a']

	if got, want := c.Distance(m.Starts['a'], goal), ReferenceCost(w, m.Starts['a'], goal); got != want {
		t.Errorf("Expected cached distance %d, got %d", want, got)
	}
	if got := c.Distance(pt(4, 2), goal); got != 2*CostCardinal {
		t.Errorf("Expected %d from (4,2), got %d", 2*CostCardinal, got)
	}
	if got := c.Distance(goal, goal); got != 0 {
		t.Errorf("Expected 0 at goal, got %d", got)
	}
	if c.Computes != 1 || c.Len() != 1 {
		t.Errorf("Expected one computed field, got computes=%d len=%d", c.Computes, c.Len())
	}

	c.Distance(goal, pt(0, 2))
	if c.Computes != 2 || c.Len() != 2 {
		t.Errorf("Expected a second field for a new goal, got computes=%d len=%d", c.Computes, c.Len())
	}

	w.SetBlocked(pt(0, 1), true)
	w.SetBlocked(pt(1, 2), true)
	if got := c.Distance(m.Starts['a'], goal); got == -1 {
		t.Error("Expected stale cached distance before Invalidate")
	}
	c.Invalidate()
	if got := c.Distance(m.Starts['a'], goal); got != -1 {
		t.Errorf("Expected unreachable after Invalidate, got %d", got)
	}
	if c.Computes != 3 {
		t.Errorf("Expected recompute after Invalidate, got %d computes", c.Computes)
	}
}
