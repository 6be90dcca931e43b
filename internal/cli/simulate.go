package cli

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/superrec/pkg/recon"
	"github.com/matzehuels/superrec/pkg/simulate"
	"github.com/matzehuels/superrec/pkg/synteny"
)

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output      string
		base        string
		size        int
		seed        int64
		erase       bool
		depth       int
		pDup        float64
		pDupLength  float64
		pLoss       float64
		pLossLength float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a random synteny evolution",
		Long: `Simulate evolves an ancestral synteny through random duplication,
speciation and loss events and writes the resulting event tree in NHX
format. With --erase, internal labels and intermediate losses are
stripped so the output can be fed back into reconcile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			params := simulate.Params{
				Base:        synteny.Parse(base),
				Depth:       depth,
				PDup:        pDup,
				PDupLength:  pDupLength,
				PLoss:       pLoss,
				PLossLength: pLossLength,
			}
			if len(params.Base) == 0 {
				params.Base = simulate.Dummy(size)
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			logger.Debug("simulating evolution", "seed", seed, "base", params.Base.String())

			t := simulate.Evolution(rand.New(rand.NewSource(seed)), params)
			if erase {
				recon.Erase(t)
			}
			logger.Info("simulated evolution", "nodes", t.Len(), "score", t.DLScore())

			return writeOutput(output, []byte(t.FormatNHX()+"\n"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or '-' for stdout")
	cmd.Flags().StringVarP(&base, "base", "b", "", "ancestral synteny as a space-separated gene list")
	cmd.Flags().IntVarP(&size, "size", "s", 5, "size of the generated ancestral synteny when --base is not set")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	cmd.Flags().BoolVar(&erase, "erase", false, "strip internal labels to produce a reconciliation input")
	cmd.Flags().IntVarP(&depth, "depth", "d", 5, "maximum depth of events on a branch, not counting losses")
	cmd.Flags().Float64Var(&pDup, "p-dup", 0.5, "probability for an internal node to be a duplication")
	cmd.Flags().Float64Var(&pDupLength, "p-dup-length", 0.3, "geometric parameter for duplicated segment lengths")
	cmd.Flags().Float64Var(&pLoss, "p-loss", 0.2, "probability for a loss under each speciation branch")
	cmd.Flags().Float64Var(&pLossLength, "p-loss-length", 0.7, "geometric parameter for lost segment lengths")
	return cmd
}
