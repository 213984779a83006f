package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/scenario"
	"github.com/lixenwraith/orbit-nav/sim"
)

var runFlags struct {
	parallel int
	maxTicks int
	json     bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Run scenarios to completion and report per-agent statistics",
		Long: `Run executes every scenario headless, at most --parallel at a time, and
prints one row per agent. A scenario that fails validation is reported in
its row instead of stopping the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
	f := cmd.Flags()
	f.IntVar(&runFlags.parallel, "parallel", parameter.SimDefaultParallel, "Scenarios run concurrently")
	f.IntVar(&runFlags.maxTicks, "max-ticks", 0, "Override every scenario's tick limit (0 = keep)")
	f.BoolVar(&runFlags.json, "json", false, "Write results as JSON instead of a table")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	scenarios, err := openAll(args)
	if err != nil {
		return err
	}
	if runFlags.maxTicks > 0 {
		for _, sc := range scenarios {
			sc.MaxTicks = runFlags.maxTicks
		}
	}

	results, err := sim.RunBatch(cmd.Context(), scenarios, runFlags.parallel, logging.New("sim"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	sim.WriteTable(out, results)
	return nil
}

func openAll(refs []string) ([]*scenario.Scenario, error) {
	scenarios := make([]*scenario.Scenario, 0, len(refs))
	for _, ref := range refs {
		sc, err := scenario.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ref, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
