package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"causalml/pkg/do"
	"causalml/pkg/estimate"
	"causalml/pkg/frame"
	"causalml/pkg/infer"
)

func estimateCmd() *cobra.Command {
	var (
		data         string
		treatment    string
		outcome      string
		commonCauses []string
		latent       bool
		method       string
		bootstrap    int
		refute       bool
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the treatment effect: naive, ipw, or do",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(data)
			if err != nil {
				return err
			}

			// Each estimator re-derives the model from the frame it is
			// handed, so bootstrap resamples re-fit everything.
			buildModel := func(f *frame.Frame) (*infer.Model, *infer.Estimand, error) {
				opts := []infer.Option{infer.WithLogger(log)}
				if len(commonCauses) > 0 {
					opts = append(opts, infer.WithCommonCauses(commonCauses...))
				}
				if latent {
					opts = append(opts, infer.WithLatentConfounding())
				}
				m, err := infer.New(f, treatment, outcome, opts...)
				if err != nil {
					return nil, nil, err
				}
				est, err := m.IdentifyEffect(infer.ProceedWhenUnidentifiable())
				if err != nil {
					return nil, nil, err
				}
				return m, est, nil
			}

			var est estimate.Estimator
			switch method {
			case "naive":
				est = estimate.Naive(treatment, outcome)
			case "ipw":
				est = func(f *frame.Frame) (float64, error) {
					m, e, err := buildModel(f)
					if err != nil {
						return 0, err
					}
					return estimate.IPW(f, m.Treatment(), m.Outcome(), e.Backdoor, estimate.IPWConfig{Seed: seed})
				}
			case "do":
				est = func(f *frame.Frame) (float64, error) {
					m, e, err := buildModel(f)
					if err != nil {
						return 0, err
					}
					s, err := do.NewWeightingSampler(m, e,
						do.KeepOriginalTreatment(),
						do.WithSamplerSeed(seed),
						do.WithSamplerLogger(log))
					if err != nil {
						return 0, err
					}
					return estimate.FromDoSample(cmd.Context(), s, treatment, outcome)
				}
			default:
				return fmt.Errorf("unknown method %q (want naive, ipw, or do)", method)
			}

			if bootstrap > 0 {
				report, err := estimate.Bootstrap(method, est, f, bootstrap, seed)
				if err != nil {
					return err
				}
				fmt.Println(report)
			} else {
				v, err := est(f)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %.4f\n", method, v)
			}

			if refute {
				placebo, err := estimate.PlaceboTreatment(est, f, treatment, seed)
				if err != nil {
					return err
				}
				fmt.Println(placebo)
				subset, err := estimate.SubsetStability(est, f, 0.8, 10, seed)
				if err != nil {
					return err
				}
				fmt.Println(subset)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "input dataset (csv or arrow)")
	cmd.Flags().StringVar(&treatment, "treatment", "d", "treatment column")
	cmd.Flags().StringVar(&outcome, "outcome", "y", "outcome column")
	cmd.Flags().StringSliceVar(&commonCauses, "common-causes", nil, "columns causing both treatment and outcome")
	cmd.Flags().BoolVar(&latent, "latent", false, "declare an unobserved confounder")
	cmd.Flags().StringVar(&method, "method", "naive", "estimator: naive, ipw, or do")
	cmd.Flags().IntVar(&bootstrap, "bootstrap", 0, "bootstrap replicates for a 95% CI (0 disables)")
	cmd.Flags().BoolVar(&refute, "refute", false, "run placebo and subset refuters")
	cmd.MarkFlagRequired("data")
	return cmd
}
