package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/audio"
	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/render"
	"github.com/lixenwraith/orbit-nav/scenario"
	"github.com/lixenwraith/orbit-nav/sim"
)

const maxViewFPS = 240

var viewFlags struct {
	fps     int
	sound   bool
	logFile string
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <scenario>",
		Short: "Animate a run in the terminal",
		Long: `View steps the scenario at --fps ticks per second and draws it with row 0
at the bottom. Keys: space pauses, n steps while paused, + and - change
speed, q or Esc quits. Logs are discarded unless --log-file is set.`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}
	f := cmd.Flags()
	f.IntVar(&viewFlags.fps, "fps", parameter.ViewDefaultFPS, "Ticks per second")
	f.BoolVar(&viewFlags.sound, "sound", false, "Chime when an agent reaches its goal")
	f.StringVar(&viewFlags.logFile, "log-file", "", "Write logs to this file while the screen is active")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Open(args[0])
	if err != nil {
		return err
	}

	// The screen owns the terminal; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if viewFlags.logFile != "" {
		f, err := os.OpenFile(viewFlags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	level, _ := logging.ParseLevel(rootFlags.logLevel)
	logging.Init(level, rootFlags.logFormat, logOut)

	s, err := sim.New(sc, sim.WithLogger(logging.New("sim")))
	if err != nil {
		return err
	}

	chimer := audio.NewChimer()
	if viewFlags.sound {
		if err := chimer.Initialize(); err != nil {
			// Non-fatal, viewer runs without sound
			logging.New("audio").Warn("audio initialization failed", "error", err)
		}
	}
	defer chimer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Restore the terminal on exit, crash included
	defer func() {
		finishScreen(screen, recover(), os.Stderr, os.Exit)
	}()

	return newViewer(screen, s, chimer, viewFlags.fps).loop(cmd.Context())
}

// finishScreen releases the terminal exactly once; a recovered panic is
// reported after the reset so it stays readable, then the process exits
func finishScreen(screen interface{ Fini() }, recovered any, stderr io.Writer, exit func(int)) {
	screen.Fini()
	if recovered != nil {
		fmt.Fprintf(stderr, "\nVIEWER CRASHED: %v\nStack Trace:\n%s\n", recovered, debug.Stack())
		exit(1)
	}
}

type viewer struct {
	screen   tcell.Screen
	sim      *sim.Simulation
	renderer *render.TerminalRenderer
	chimer   *audio.Chimer
	index    map[string]int
	fps      int
	paused   bool
	log      *slog.Logger
}

func newViewer(screen tcell.Screen, s *sim.Simulation, chimer *audio.Chimer, fps int) *viewer {
	if fps <= 0 {
		fps = parameter.ViewDefaultFPS
	}
	v := &viewer{
		screen:   screen,
		sim:      s,
		renderer: render.NewTerminalRenderer(screen, s.Layout()),
		chimer:   chimer,
		index:    make(map[string]int),
		fps:      min(fps, maxViewFPS),
		log:      logging.New("view"),
	}
	for i, a := range s.Frame().Agents {
		v.index[a.Name] = i
	}
	return v
}

// keyAction is what a key press asks the loop to do
type keyAction int

const (
	actionNone keyAction = iota
	actionQuit
	actionStep
	actionRetime
)

func (v *viewer) handleKey(ev *tcell.EventKey) keyAction {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
	default:
		return actionNone
	}

	switch ev.Rune() {
	case 'q':
		return actionQuit
	case ' ':
		v.paused = !v.paused
	case 'n':
		if v.paused {
			return actionStep
		}
	case '+', '=':
		if v.fps < maxViewFPS {
			v.fps = min(v.fps*2, maxViewFPS)
			return actionRetime
		}
	case '-':
		if v.fps > 1 {
			v.fps = max(v.fps/2, 1)
			return actionRetime
		}
	}
	return actionNone
}

// advance runs one tick unless the run is over, chiming for each arrival
func (v *viewer) advance() {
	if v.finished() {
		return
	}
	for _, name := range v.sim.Step() {
		if err := v.chimer.Chime(v.index[name]); err != nil {
			v.log.Warn("chime failed", "agent", name, "error", err)
		}
	}
}

func (v *viewer) finished() bool {
	return v.sim.Done() || v.sim.Tick() >= v.sim.MaxTicks()
}

func (v *viewer) draw() {
	f := v.sim.Frame()
	f.Done = f.Done || v.finished()
	v.renderer.RenderFrame(f, render.Status{Paused: v.paused, FPS: v.fps})
}

func (v *viewer) interval() time.Duration {
	return time.Second / time.Duration(v.fps)
}

func (v *viewer) loop(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.interval())
	defer ticker.Stop()
	v.draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch v.handleKey(ev) {
				case actionQuit:
					return nil
				case actionStep:
					v.advance()
				case actionRetime:
					ticker.Reset(v.interval())
				}
				v.draw()
			case *tcell.EventResize:
				v.screen.Sync()
				v.draw()
			}

		case <-ticker.C:
			if v.paused || v.finished() {
				continue
			}
			v.advance()
			v.draw()
		}
	}
}
