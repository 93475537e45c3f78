package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"causalml/pkg/infer"
)

func identifyCmd() *cobra.Command {
	var (
		data         string
		treatment    string
		outcome      string
		commonCauses []string
		instruments  []string
		latent       bool
		proceed      bool
		dot          bool
	)
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Build a causal model over a dataset and print the estimand",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(data)
			if err != nil {
				return err
			}
			opts := []infer.Option{infer.WithLogger(log)}
			if len(commonCauses) > 0 {
				opts = append(opts, infer.WithCommonCauses(commonCauses...))
			}
			if len(instruments) > 0 {
				opts = append(opts, infer.WithInstruments(instruments...))
			}
			if latent {
				opts = append(opts, infer.WithLatentConfounding())
			}
			m, err := infer.New(f, treatment, outcome, opts...)
			if err != nil {
				return err
			}

			var idOpts []infer.IdentifyOption
			if proceed {
				idOpts = append(idOpts, infer.ProceedWhenUnidentifiable())
			}
			est, err := m.IdentifyEffect(idOpts...)
			if err != nil {
				return err
			}
			fmt.Print(est)
			if dot {
				fmt.Println(m.Graph().DOT())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "input dataset (csv or arrow)")
	cmd.Flags().StringVar(&treatment, "treatment", "d", "treatment column")
	cmd.Flags().StringVar(&outcome, "outcome", "y", "outcome column")
	cmd.Flags().StringSliceVar(&commonCauses, "common-causes", nil, "columns causing both treatment and outcome")
	cmd.Flags().StringSliceVar(&instruments, "instruments", nil, "instrument columns")
	cmd.Flags().BoolVar(&latent, "latent", false, "declare an unobserved confounder")
	cmd.Flags().BoolVar(&proceed, "proceed", false, "report the estimand even when latent confounding blocks identification")
	cmd.Flags().BoolVar(&dot, "dot", false, "also print the causal diagram in DOT")
	cmd.MarkFlagRequired("data")
	return cmd
}
