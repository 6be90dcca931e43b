package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/superrec/pkg/tree"
	"github.com/matzehuels/superrec/pkg/viz"
)

// Output formats supported by the viz command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// vizCommand creates the viz command.
func (c *CLI) vizCommand() *cobra.Command {
	var (
		input  string
		output string
		format string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Render an event tree as a diagram",
		Long: `Viz reads an event tree in NHX format and renders it as a diagram.
Speciations are drawn as ovals, duplications as boxes with the copied
segment underlined, and losses in red with the lost segment bracketed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(input)
			if err != nil {
				return err
			}

			t, err := tree.ParseNHX(string(data))
			if err != nil {
				return fmt.Errorf("parse tree: %w", err)
			}

			dot := viz.ToDOT(t)

			var rendered []byte
			switch format {
			case formatDOT:
				rendered = []byte(dot)
			case formatSVG:
				rendered, err = viz.RenderSVG(cmd.Context(), dot)
			case formatPDF:
				rendered, err = viz.RenderPDF(cmd.Context(), dot)
			case formatPNG:
				rendered, err = viz.RenderPNG(cmd.Context(), dot, scale)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}

			if err := writeOutput(output, rendered); err != nil {
				return err
			}
			if output != "-" {
				printSuccess("Rendered %s", format)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "I", "-", "input tree file, or '-' for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or '-' for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, pdf or png")
	cmd.Flags().Float64Var(&scale, "scale", 2.0, "resolution multiplier for png output")
	return cmd
}
