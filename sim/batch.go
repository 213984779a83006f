package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/orbit-nav/logging"
	"github.com/lixenwraith/orbit-nav/parameter"
	"github.com/lixenwraith/orbit-nav/scenario"
)

// RunBatch runs independent scenarios with at most parallel running at once
// Results keep input order. A scenario that fails to build gets a Result with
// Error set; only context cancellation makes RunBatch itself fail
func RunBatch(ctx context.Context, scenarios []*scenario.Scenario, parallel int, log *slog.Logger) ([]*Result, error) {
	if parallel < 1 {
		parallel = parameter.SimDefaultParallel
	}
	if log == nil {
		log = logging.New("sim")
	}

	results := make([]*Result, len(scenarios))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, sc := range scenarios {
		g.Go(func() error {
			s, err := New(sc, WithLogger(log.With("scenario", sc.Name)))
			if err != nil {
				log.Warn("scenario rejected", "scenario", sc.Name, "error", err)
				results[i] = &Result{Scenario: sc.Name, Error: err.Error()}
				return nil
			}
			res, err := s.Run(gCtx, nil)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

// WriteTable renders results as a fixed-width table, one row per agent
func WriteTable(w io.Writer, results []*Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scenario", "Agent", "Orient", "Arrived", "Ticks", "Moves", "Cost", "Optimal", "Eff", "Exhaust", "Reject", "Shoved"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	arrived, total := 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Error != "" {
			t.AppendRow(table.Row{r.Scenario, "error: " + r.Error})
			continue
		}
		for _, a := range r.Agents {
			total++
			ticks := "-"
			if a.Arrived {
				arrived++
				ticks = fmt.Sprint(a.ArrivedAt)
			}
			optimal := "-"
			if a.ReferenceCost >= 0 {
				optimal = fmt.Sprint(a.ReferenceCost)
			}
			t.AppendRow(table.Row{
				r.Scenario, a.Name, a.Orientation, a.Arrived, ticks, a.Moves,
				a.PathCost, optimal, fmt.Sprintf("%.2f", a.Efficiency()),
				a.Exhaustions, a.Rejections, a.Disturbances,
			})
		}
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d arrived", arrived, total)})
	t.Render()
}
