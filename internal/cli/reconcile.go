package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/superrec/pkg/recon"
	"github.com/matzehuels/superrec/pkg/tree"
)

// Reconciliation method flag values.
const (
	methodExact     = "exact"
	methodHeuristic = "heuristic"
)

// reconcileCommand creates the reconcile command.
func (c *CLI) reconcileCommand() *cobra.Command {
	var (
		input  string
		output string
		method string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Infer ancestral syntenies and losses for an event tree",
		Long: `Reconcile reads an event tree in NHX format whose leaves carry observed
gene orders, infers the internal syntenies along with the segmental
duplications and losses that explain them, and writes the labeled tree
back in NHX format.

The exact method requires the root to carry the ancestral gene order and
minimizes the number of events; its running time grows exponentially
with the length of the root synteny. The heuristic method needs no root
order and runs in polynomial time, without the optimality guarantee.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			data, err := readInput(input)
			if err != nil {
				return err
			}

			t, err := tree.ParseNHX(string(data))
			if err != nil {
				return fmt.Errorf("parse tree: %w", err)
			}
			logger.Debug("parsed event tree", "nodes", t.Len())

			prog := newProgress(logger)
			switch method {
			case methodExact:
				var sp *Spinner
				if isTerminal(os.Stderr) {
					sp = newSpinnerWithContext(cmd.Context(), "Reconciling...")
					sp.Start()
				}
				cost, err := recon.Ordered(t)
				if sp != nil {
					sp.Stop()
					if sp.Cancelled() {
						return cmd.Context().Err()
					}
				}
				if err != nil {
					return fmt.Errorf("reconcile: %w", err)
				}
				prog.done(fmt.Sprintf("Reconciled %d nodes, %d events", t.Len(), cost))

			case methodHeuristic:
				if err := recon.Unordered(t); err != nil {
					return fmt.Errorf("reconcile: %w", err)
				}
				prog.done(fmt.Sprintf("Reconciled %d nodes", t.Len()))

			default:
				return fmt.Errorf("unknown method %q (want %q or %q)", method, methodExact, methodHeuristic)
			}

			return writeOutput(output, []byte(t.FormatNHX()+"\n"))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "I", "-", "input tree file, or '-' for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or '-' for stdout")
	cmd.Flags().StringVarP(&method, "method", "m", methodExact, "reconciliation method: exact or heuristic")
	return cmd
}
