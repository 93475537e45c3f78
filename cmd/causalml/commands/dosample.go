package commands

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"causalml/pkg/do"
	"causalml/pkg/estimate"
	"causalml/pkg/infer"
)

func dosampleCmd() *cobra.Command {
	var (
		data         string
		treatment    string
		outcome      string
		commonCauses []string
		latent       bool
		set          float64
		sampleSize   int
		trimLower    float64
		trimUpper    float64
		out          string
		format       string
	)
	cmd := &cobra.Command{
		Use:   "dosample",
		Short: "Draw an interventional sample by propensity weighting and contrast it with the raw data",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(data)
			if err != nil {
				return err
			}
			naive, err := estimate.NaiveDifference(f, treatment, outcome)
			if err != nil {
				return err
			}

			opts := []infer.Option{infer.WithLogger(log)}
			if len(commonCauses) > 0 {
				opts = append(opts, infer.WithCommonCauses(commonCauses...))
			}
			if latent {
				opts = append(opts, infer.WithLatentConfounding())
			}
			m, err := infer.New(f, treatment, outcome, opts...)
			if err != nil {
				return err
			}
			est, err := m.IdentifyEffect(infer.ProceedWhenUnidentifiable())
			if err != nil {
				return err
			}

			sOpts := []do.WeightingOption{
				do.WithSamplerSeed(seed),
				do.WithTrim(trimLower, trimUpper),
				do.WithSampleSize(sampleSize),
				do.WithSamplerLogger(log),
			}
			var iv *do.Intervention
			if math.IsNaN(set) {
				sOpts = append(sOpts, do.KeepOriginalTreatment())
			} else {
				iv = &do.Intervention{Variable: treatment, Value: set}
			}
			sampler, err := do.NewWeightingSampler(m, est, sOpts...)
			if err != nil {
				return err
			}
			sampled, err := sampler.Sample(cmd.Context(), iv)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeFrame(out, format, sampled); err != nil {
					return err
				}
				log.Info("interventional sample written", "path", out, "rows", sampled.Rows())
			}

			fmt.Printf("naive difference:          %.4f\n", naive)
			if iv == nil {
				corrected, err := estimate.NaiveDifference(sampled, treatment, outcome)
				if err != nil {
					return err
				}
				fmt.Printf("interventional difference: %.4f\n", corrected)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "input dataset (csv or arrow)")
	cmd.Flags().StringVar(&treatment, "treatment", "d", "treatment column (binary)")
	cmd.Flags().StringVar(&outcome, "outcome", "y", "outcome column")
	cmd.Flags().StringSliceVar(&commonCauses, "common-causes", nil, "columns causing both treatment and outcome")
	cmd.Flags().BoolVar(&latent, "latent", false, "declare an unobserved confounder (sampler proceeds anyway)")
	cmd.Flags().Float64Var(&set, "set", math.NaN(), "force the treatment to this value (default: keep observed values)")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "rows to emit (default: as many as the input)")
	cmd.Flags().Float64Var(&trimLower, "trim-lower", 1, "lower weight-trim percentile")
	cmd.Flags().Float64Var(&trimUpper, "trim-upper", 99, "upper weight-trim percentile")
	cmd.Flags().StringVar(&out, "out", "", "write the interventional sample here")
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or arrow (default: by extension)")
	cmd.MarkFlagRequired("data")
	return cmd
}
