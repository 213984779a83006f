// orbitnav runs orbit navigation scenarios: batch reports, a terminal viewer,
// a websocket stream and a maze scenario generator.
//
// Usage:
//
//	orbitnav run <scenario>... [--parallel N] [--json]
//	orbitnav view <scenario> [--fps N] [--sound]
//	orbitnav serve <scenario> [--addr :8080] [--fps N]
//	orbitnav maze [--width W --height H --braid B --seed S --agents N] [-o out.yaml]
//	orbitnav list
//
// A scenario is a YAML file path or the name of a builtin scenario.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orbitnav",
		Short: "Goal-directed grid navigation with wall-following orbits",
		Long: `orbitnav steps agents toward their goals with a reactive navigator that
walks straight while it can and follows obstacle boundaries when it cannot.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(rootFlags.logLevel)
			if err != nil {
				return err
			}
			if rootFlags.logFormat != "text" && rootFlags.logFormat != "json" {
				return fmt.Errorf("unknown log format %q (want text or json)", rootFlags.logFormat)
			}
			logging.Init(level, rootFlags.logFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newMazeCmd())
	root.AddCommand(newListCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
