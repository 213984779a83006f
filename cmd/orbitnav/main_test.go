package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/orbit-nav/audio"
	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/scenario"
	"github.com/lixenwraith/orbit-nav/sim"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListShowsBuiltins(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, name := range scenario.Builtins() {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %q in list output:\n%s", name, out)
		}
	}
}

func TestRunPrintsTable(t *testing.T) {
	out, err := execute(t, "run", "open")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(strings.ToLower(out), "2/2 arrived") {
		t.Errorf("Expected both agents to arrive:\n%s", out)
	}
	for _, want := range []string{"scout", "runner"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected row for %s:\n%s", want, out)
		}
	}
}

func TestRunWritesJSON(t *testing.T) {
	out, err := execute(t, "run", "--json", "wall", "shove")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var results []sim.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Expected JSON output, got %v:\n%s", err, out)
	}
	if len(results) != 2 || results[0].Scenario != "wall" || results[1].Scenario != "shove" {
		t.Fatalf("Expected results for wall and shove in order, got %+v", results)
	}
	for _, r := range results {
		if !r.Completed {
			t.Errorf("Expected %s to complete", r.Scenario)
		}
	}
	if d := results[1].Agents[0].Disturbances; d != 2 {
		t.Errorf("Expected 2 disturbances in shove, got %d", d)
	}
}

func TestRunMaxTicksOverride(t *testing.T) {
	out, err := execute(t, "run", "--json", "--max-ticks", "3", "open")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var results []sim.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatal(err)
	}
	if results[0].Ticks != 3 || results[0].Completed {
		t.Errorf("Expected an incomplete 3-tick run, got %+v", results[0])
	}
}

func TestRunUnknownScenario(t *testing.T) {
	if _, err := execute(t, "run", "no-such-scenario"); err == nil {
		t.Error("Expected error for unknown scenario")
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if _, err := execute(t, "run"); err == nil {
		t.Error("Expected error without arguments")
	}
}

func TestBadLogLevel(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "list"); err == nil {
		t.Error("Expected error for unknown log level")
	}
	if _, err := execute(t, "--log-format", "xml", "list"); err == nil {
		t.Error("Expected error for unknown log format")
	}
}

func TestMazeWritesScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	out, err := execute(t, "maze", "--width", "15", "--height", "9", "--seed", "3", "--agents", "2", "--name", "small", "-o", path)
	if err != nil {
		t.Fatalf("maze failed: %v", err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Errorf("Expected confirmation, got %q", out)
	}

	sc, err := scenario.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("Expected valid scenario, got %v", err)
	}
	if sc.Name != "small" || len(sc.Agents) != 2 || sc.Width != 15 || sc.Height != 9 {
		t.Errorf("Expected small 15x9 with 2 agents, got %s %dx%d with %d", sc.Name, sc.Width, sc.Height, len(sc.Agents))
	}

	runOut, err := execute(t, "run", "--json", path)
	if err != nil {
		t.Fatalf("run of generated file failed: %v", err)
	}
	if !strings.Contains(runOut, `"scenario": "small"`) {
		t.Errorf("Expected generated scenario in results:\n%s", runOut)
	}
}

func TestMazeToStdout(t *testing.T) {
	out, err := execute(t, "maze", "--width", "9", "--height", "7")
	if err != nil {
		t.Fatalf("maze failed: %v", err)
	}
	sc, err := scenario.Parse([]byte(out))
	if err != nil {
		t.Fatalf("Expected YAML scenario on stdout, got %v:\n%s", err, out)
	}
	if len(sc.Map) != 7 {
		t.Errorf("Expected 7 map rows, got %d", len(sc.Map))
	}
}

func TestMazeRejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "maze", "--agents", "0"); err == nil {
		t.Error("Expected error for zero agents")
	}
	if _, err := execute(t, "maze", "--braid", "1.5"); err == nil {
		t.Error("Expected error for braid above 1")
	}
}

func newTestViewer(t *testing.T, fps int) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 20)

	sc, err := scenario.LoadBuiltin("open")
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(sc, sim.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	return newViewer(screen, s, audio.NewChimer(), fps), screen
}

func TestViewerKeys(t *testing.T) {
	v, _ := newTestViewer(t, 8)

	tests := []struct {
		name   string
		key    tcell.Key
		ch     rune
		action keyAction
		paused bool
		fps    int
	}{
		{"step ignored while running", tcell.KeyRune, 'n', actionNone, false, 8},
		{"pause", tcell.KeyRune, ' ', actionNone, true, 8},
		{"step while paused", tcell.KeyRune, 'n', actionStep, true, 8},
		{"faster", tcell.KeyRune, '+', actionRetime, true, 16},
		{"slower", tcell.KeyRune, '-', actionRetime, true, 8},
		{"resume", tcell.KeyRune, ' ', actionNone, false, 8},
		{"other key", tcell.KeyTab, 0, actionNone, false, 8},
		{"quit", tcell.KeyRune, 'q', actionQuit, false, 8},
		{"escape", tcell.KeyEscape, 0, actionQuit, false, 8},
	}
	for _, tt := range tests {
		got := v.handleKey(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone))
		if got != tt.action {
			t.Errorf("%s: expected action %d, got %d", tt.name, tt.action, got)
		}
		if v.paused != tt.paused || v.fps != tt.fps {
			t.Errorf("%s: expected paused=%v fps=%d, got paused=%v fps=%d", tt.name, tt.paused, tt.fps, v.paused, v.fps)
		}
	}
}

func TestViewerFPSBounds(t *testing.T) {
	v, _ := newTestViewer(t, 1)
	if v.handleKey(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone)) != actionNone || v.fps != 1 {
		t.Errorf("Expected fps to stay at 1, got %d", v.fps)
	}

	v, _ = newTestViewer(t, 1000)
	if v.fps != maxViewFPS {
		t.Errorf("Expected fps capped at %d, got %d", maxViewFPS, v.fps)
	}
}

func TestViewerLoopStepsWhilePaused(t *testing.T) {
	v, screen := newTestViewer(t, 1)

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	for i := 0; i < 3; i++ {
		screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	}
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := v.loop(context.Background()); err != nil {
		t.Fatalf("loop failed: %v", err)
	}
	if got := v.sim.Tick(); got != 3 {
		t.Errorf("Expected 3 ticks from single steps, got %d", got)
	}

	cells, width, _ := screen.GetContents()
	statusY := 1 + v.sim.Layout().Height
	var status strings.Builder
	for x := 0; x < 7; x++ {
		status.WriteString(string(cells[statusY*width+x].Runes))
	}
	if status.String() != " PAUSE " {
		t.Errorf("Expected pause badge, got %q", status.String())
	}
}

func TestViewerLoopStopsOnCancel(t *testing.T) {
	v, _ := newTestViewer(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.loop(ctx); err != nil {
		t.Errorf("Expected clean exit on cancel, got %v", err)
	}
}

type finiCounter struct{ calls int }

func (f *finiCounter) Fini() { f.calls++ }

func TestFinishScreenRestoresOnce(t *testing.T) {
	exitCode := -1
	exit := func(code int) { exitCode = code }

	var stderr bytes.Buffer
	clean := &finiCounter{}
	func() {
		defer func() { finishScreen(clean, recover(), &stderr, exit) }()
	}()
	if clean.calls != 1 || exitCode != -1 || stderr.Len() != 0 {
		t.Errorf("Expected one Fini and no exit on clean return, got fini=%d exit=%d stderr=%q", clean.calls, exitCode, stderr.String())
	}

	crashed := &finiCounter{}
	func() {
		defer func() { finishScreen(crashed, recover(), &stderr, exit) }()
		panic("boom")
	}()
	if crashed.calls != 1 {
		t.Errorf("Expected one Fini after a crash, got %d", crashed.calls)
	}
	if exitCode != 1 {
		t.Errorf("Expected exit code 1 after a crash, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "VIEWER CRASHED: boom") {
		t.Errorf("Expected crash report, got %q", stderr.String())
	}
}
