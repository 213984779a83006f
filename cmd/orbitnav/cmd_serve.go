package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/scenario"
	"github.com/lixenwraith/orbit-nav/sim"
	"github.com/lixenwraith/orbit-nav/stream"
)

var serveFlags struct {
	addr string
	fps  int
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <scenario>",
		Short: "Stream a run to websocket subscribers",
		Long: `Serve steps the scenario in real time and broadcasts every frame on /ws.
Subscribers get a layout message first, then frames. /layout returns the
layout as JSON. The server keeps running after the run ends until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}
	f := cmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", ":8080", "Listen address")
	f.IntVar(&serveFlags.fps, "fps", parameter.StreamDefaultFPS, "Ticks per second")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Open(args[0])
	if err != nil {
		return err
	}
	s, err := sim.New(sc, sim.WithLogger(logging.New("sim")))
	if err != nil {
		return err
	}
	return stream.Serve(cmd.Context(), serveFlags.addr, s, serveFlags.fps, logging.New("stream"))
}
