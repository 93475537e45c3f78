package infer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnidentifiable is returned when latent confounding blocks every
// identification strategy and the caller did not opt into proceeding.
var ErrUnidentifiable = errors.New("effect is not identifiable: latent confounders present")

// EstimandType names the causal quantity an estimand targets.
type EstimandType string

// ATE is the average treatment effect, E[y | do(t=1)] - E[y | do(t=0)].
const ATE EstimandType = "ate"

// Estimand describes how the causal effect can be computed from the
// observed data.
type Estimand struct {
	Type      EstimandType
	Treatment string
	Outcome   string

	// Assumptions states what must hold for the backdoor strategy to
	// give the causal effect.
	Assumptions string

	// Backdoor is the observed adjustment set that closes the
	// confounding paths.
	Backdoor []string

	// Instruments are observed variables usable for instrumental
	// variable estimation.
	Instruments []string

	// LatentConfounders are unobserved common causes that no observed
	// adjustment can account for.
	LatentConfounders []string
}

// Identified reports whether adjusting for the backdoor set suffices.
func (e *Estimand) Identified() bool { return len(e.LatentConfounders) == 0 }

func (e *Estimand) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "estimand (%s): E[%s | do(%s)]\n", e.Type, e.Outcome, e.Treatment)
	if len(e.Backdoor) > 0 {
		fmt.Fprintf(&b, "  backdoor: adjust for {%s}\n", strings.Join(e.Backdoor, ", "))
	} else {
		b.WriteString("  backdoor: no adjustment needed\n")
	}
	if len(e.Instruments) > 0 {
		fmt.Fprintf(&b, "  instruments: {%s}\n", strings.Join(e.Instruments, ", "))
	}
	if len(e.LatentConfounders) > 0 {
		fmt.Fprintf(&b, "  warning: latent confounders {%s} remain\n", strings.Join(e.LatentConfounders, ", "))
	}
	if e.Assumptions != "" {
		fmt.Fprintf(&b, "  assumes: %s\n", e.Assumptions)
	}
	return b.String()
}

// IdentifyOption is functional config for IdentifyEffect.
type IdentifyOption func(*identifyConfig)

type identifyConfig struct {
	proceed bool
}

// ProceedWhenUnidentifiable returns the estimand even when latent
// confounders make it formally unidentifiable. The remaining confounders
// are reported on the estimand and a warning is logged.
func ProceedWhenUnidentifiable() IdentifyOption {
	return func(c *identifyConfig) { c.proceed = true }
}

// IdentifyEffect works out the estimand for the model's treatment and
// outcome from the causal diagram: the backdoor adjustment set, any
// instruments, and whatever latent confounding remains.
func (m *Model) IdentifyEffect(opts ...IdentifyOption) (*Estimand, error) {
	var cfg identifyConfig
	for _, o := range opts {
		o(&cfg)
	}

	backdoor, err := m.dag.CommonCauses(m.treatment, m.outcome)
	if err != nil {
		return nil, err
	}
	instruments, err := m.dag.Instruments(m.treatment, m.outcome)
	if err != nil {
		return nil, err
	}
	latent, err := m.dag.LatentConfounders(m.treatment, m.outcome)
	if err != nil {
		return nil, err
	}

	if len(latent) > 0 {
		if !cfg.proceed {
			return nil, fmt.Errorf("%w: %s", ErrUnidentifiable, strings.Join(latent, ", "))
		}
		m.log.Warn("proceeding despite latent confounders",
			"treatment", m.treatment,
			"outcome", m.outcome,
			"latent", latent)
	}

	return &Estimand{
		Type:              ATE,
		Treatment:         m.treatment,
		Outcome:           m.outcome,
		Assumptions:       assumptionsFor(backdoor, latent),
		Backdoor:          backdoor,
		Instruments:       instruments,
		LatentConfounders: latent,
	}, nil
}

func assumptionsFor(backdoor, latent []string) string {
	switch {
	case len(latent) > 0:
		return fmt.Sprintf("unconfoundedness fails: {%s} unobserved", strings.Join(latent, ", "))
	case len(backdoor) > 0:
		return fmt.Sprintf("unconfoundedness given {%s}", strings.Join(backdoor, ", "))
	default:
		return "treatment is unconfounded"
	}
}
