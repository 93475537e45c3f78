package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"causalml/pkg/datasets"
)

func synthCmd() *cobra.Command {
	var (
		rows        int
		confounding float64
		slope       float64
		effect      float64
		noise       float64
		out         string
		format      string
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic confounded dataset (columns z, d, y)",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := datasets.NewConfoundedBinary(
				datasets.WithN(rows),
				datasets.WithConfounding(confounding),
				datasets.WithOutcomeSlope(slope),
				datasets.WithEffect(effect),
				datasets.WithNoise(noise),
				datasets.WithSeed(uint64(seed)),
			)
			ds, err := gen.Generate()
			if err != nil {
				return err
			}
			if err := writeFrame(out, format, ds.Frame); err != nil {
				return err
			}
			log.Info("dataset written", "path", out, "rows", ds.Frame.Rows())
			fmt.Printf("wrote %d rows to %s (true effect %.4f)\n", ds.Frame.Rows(), out, ds.Truth.ATE)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 5000, "number of rows")
	cmd.Flags().Float64Var(&confounding, "confounding", 4, "strength of the confounder's pull on treatment")
	cmd.Flags().Float64Var(&slope, "slope", 2, "confounder's slope on the outcome")
	cmd.Flags().Float64Var(&effect, "effect", 1, "true treatment effect")
	cmd.Flags().Float64Var(&noise, "noise", 0.1, "outcome noise standard deviation")
	cmd.Flags().StringVar(&out, "out", "confounded.csv", "output file")
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or arrow (default: by extension)")
	return cmd
}
