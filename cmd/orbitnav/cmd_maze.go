package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/maze"
	"github.com/lixenwraith/orbit-nav/scenario"
)

var mazeFlags struct {
	name   string
	width  int
	height int
	braid  float64
	seed   int64
	agents int
	output string
}

func newMazeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maze",
		Short: "Generate a maze scenario",
		Long: `Maze carves a braided maze and writes it as a scenario with the map baked
in, so the file runs the same way without regenerating. Agents are paired
from opposite corners of the open cells.`,
		Args: cobra.NoArgs,
		RunE: runMaze,
	}
	f := cmd.Flags()
	f.StringVar(&mazeFlags.name, "name", "maze", "Scenario name")
	f.IntVar(&mazeFlags.width, "width", 31, "Maze width (even values drop to the odd number below)")
	f.IntVar(&mazeFlags.height, "height", 17, "Maze height (even values drop to the odd number below)")
	f.Float64Var(&mazeFlags.braid, "braid", 0.3, "Fraction of dead ends opened into loops (0-1)")
	f.Int64Var(&mazeFlags.seed, "seed", 1, "Generator seed")
	f.IntVar(&mazeFlags.agents, "agents", 1, "Number of agents")
	f.StringVarP(&mazeFlags.output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func runMaze(cmd *cobra.Command, _ []string) error {
	if mazeFlags.agents < 1 {
		return fmt.Errorf("--agents must be at least 1, got %d", mazeFlags.agents)
	}
	if mazeFlags.braid < 0 || mazeFlags.braid > 1 {
		return fmt.Errorf("--braid must be in [0,1], got %g", mazeFlags.braid)
	}

	sc := scenario.NewMaze(mazeFlags.name, maze.Config{
		Width:    mazeFlags.width,
		Height:   mazeFlags.height,
		Braiding: mazeFlags.braid,
		Seed:     mazeFlags.seed,
	}, mazeFlags.agents)
	if err := sc.Validate(); err != nil {
		return err
	}

	if mazeFlags.output != "" {
		if err := scenario.Save(mazeFlags.output, sc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %d agents)\n", mazeFlags.output, sc.Width, sc.Height, len(sc.Agents))
		return nil
	}
	data, err := scenario.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
