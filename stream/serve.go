package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/sim"
)

// Drive steps s at fps ticks per second and broadcasts every frame
// It returns nil once the run completes or hits its tick limit
func Drive(ctx context.Context, s *sim.Simulation, hub *Hub, fps int) error {
	if fps <= 0 {
		fps = parameter.StreamDefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for !s.Done() && s.Tick() < s.MaxTicks() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Step()
			hub.Broadcast(s.Frame())
		}
	}
	return nil
}

// NewMux routes /ws to the hub and /layout to a JSON snapshot of the layout
func NewMux(hub *Hub, layout sim.Layout) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/layout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(layout); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return mux
}

// Serve streams s on addr until ctx is done
// The server stays up after the run finishes so late subscribers still get the final frame
func Serve(ctx context.Context, addr string, s *sim.Simulation, fps int, log *slog.Logger) error {
	if log == nil {
		log = logging.New("stream")
	}
	layout := s.Layout()
	hub, err := NewHub(layout, log)
	if err != nil {
		return err
	}
	hub.Broadcast(s.Frame())

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(hub, layout),
		ReadHeaderTimeout: parameter.StreamWriteWait,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("streaming", "addr", addr, "scenario", s.Name(), "fps", fps)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := Drive(gCtx, s, hub, fps); err != nil {
			return err
		}
		log.Info("run finished", "scenario", s.Name(), "ticks", s.Tick(), "completed", s.Done())
		<-gCtx.Done()
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.StreamWriteWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
