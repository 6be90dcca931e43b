package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/superrec/pkg/evaluate"
)

// evaluateCommand creates the evaluate command.
func (c *CLI) evaluateCommand() *cobra.Command {
	var (
		config  string
		output  string
		noCache bool
		noTUI   bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure reconciliation quality over a parameter grid",
		Long: `Evaluate reads a TOML grid of simulation parameters, simulates and
reconciles the configured number of evolutions for every combination,
and writes a JSON report of score differences and running times.

A minimal grid file looks like:

    method = "exact"
    samples = 20
    seed = 42
    synteny_size = [4, 5, 6]
    p_dup = [0.3, 0.5, 0.7]

Axes left out of the file use the standard simulation parameters.
Reports are cached, so rerunning an identical grid is free.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var grid evaluate.Grid
			if _, err := toml.DecodeFile(config, &grid); err != nil {
				return fmt.Errorf("read grid: %w", err)
			}

			runner := c.newRunner(noCache)
			defer runner.Close()

			prog := newProgress(logger)
			report, err := runSweep(cmd.Context(), runner, grid, noTUI)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			prog.done(fmt.Sprintf("Evaluated %d parameter combinations", len(report.Results)))

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if err := writeOutput(output, append(data, '\n')); err != nil {
				return err
			}

			if output != "-" {
				printSuccess("Report %s written", report.RunID)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "TOML grid file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "report file, or '-' for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute even if an identical grid was evaluated before")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable the interactive progress display")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// runSweep executes the sweep, with an interactive progress bar unless
// disabled or not attached to a terminal.
func runSweep(ctx context.Context, runner *evaluate.Runner, grid evaluate.Grid, noTUI bool) (*evaluate.Report, error) {
	if noTUI || !isTerminal(os.Stderr) {
		return runner.Run(ctx, grid, nil)
	}

	program := tea.NewProgram(NewSweepModel(0), tea.WithOutput(os.Stderr))

	var (
		report *evaluate.Report
		runErr error
	)
	go func() {
		report, runErr = runner.Run(ctx, grid, func(done, total int) {
			program.Send(sweepProgressMsg{done: done, total: total})
		})
		program.Send(sweepDoneMsg{err: runErr})
	}()

	if _, err := program.Run(); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}
	if report == nil {
		return nil, context.Canceled
	}
	return report, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
