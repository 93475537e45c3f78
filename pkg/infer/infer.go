// Package infer binds data to a causal diagram and identifies how a
// treatment's effect on an outcome can be estimated from the observed
// columns.
package infer

import (
	"errors"
	"fmt"
	"log/slog"

	"causalml/pkg/frame"
	"causalml/pkg/graph"
)

// latentConfounderName is the node used when unobserved confounding is
// declared without an explicit diagram.
const latentConfounderName = "u"

// Model ties a frame to a causal diagram over its columns.
type Model struct {
	f         *frame.Frame
	treatment string
	outcome   string
	dag       *graph.DAG
	log       *slog.Logger
}

// Option is functional config for New.
type Option func(*builder)

type builder struct {
	commonCauses []string
	instruments  []string
	dag          *graph.DAG
	latent       bool
	log          *slog.Logger
}

// WithCommonCauses declares observed variables that cause both the
// treatment and the outcome.
func WithCommonCauses(names ...string) Option {
	return func(b *builder) { b.commonCauses = append(b.commonCauses, names...) }
}

// WithInstruments declares observed variables that move the treatment
// and reach the outcome only through it.
func WithInstruments(names ...string) Option {
	return func(b *builder) { b.instruments = append(b.instruments, names...) }
}

// WithGraph supplies a frozen causal diagram instead of declared roles.
// Every non-latent node must be a column of the frame.
func WithGraph(dag *graph.DAG) Option {
	return func(b *builder) { b.dag = dag }
}

// WithLatentConfounding declares that an unobserved variable confounds
// the treatment and the outcome.
func WithLatentConfounding() Option {
	return func(b *builder) { b.latent = true }
}

// WithLogger routes the model's diagnostics to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *builder) { b.log = log }
}

// New builds a causal model for the treatment and outcome columns of f.
// Without WithGraph, the diagram is assembled from the declared roles:
// every common cause points at both treatment and outcome, every
// instrument points at the treatment, and the treatment points at the
// outcome.
func New(f *frame.Frame, treatment, outcome string, opts ...Option) (*Model, error) {
	if f == nil {
		return nil, errors.New("infer: nil frame")
	}
	if treatment == outcome {
		return nil, errors.New("infer: treatment and outcome must differ")
	}
	for _, col := range []string{treatment, outcome} {
		if !f.Has(col) {
			return nil, fmt.Errorf("infer: column %q not in frame", col)
		}
	}

	b := &builder{log: slog.Default()}
	for _, o := range opts {
		o(b)
	}

	dag := b.dag
	if dag != nil {
		if !dag.Frozen() {
			return nil, graph.ErrNotFrozen
		}
		for _, n := range dag.Nodes() {
			if !dag.IsLatent(n) && !f.Has(n) {
				return nil, fmt.Errorf("infer: graph node %q is not a column; add it as latent or to the data", n)
			}
		}
		if !dag.Has(treatment) || !dag.Has(outcome) {
			return nil, fmt.Errorf("infer: graph must contain %q and %q", treatment, outcome)
		}
	} else {
		var err error
		dag, err = buildRoleGraph(f, treatment, outcome, b)
		if err != nil {
			return nil, err
		}
	}

	return &Model{f: f, treatment: treatment, outcome: outcome, dag: dag, log: b.log}, nil
}

func buildRoleGraph(f *frame.Frame, treatment, outcome string, b *builder) (*graph.DAG, error) {
	dag := graph.New()
	if err := dag.AddNode(treatment); err != nil {
		return nil, err
	}
	if err := dag.AddNode(outcome); err != nil {
		return nil, err
	}
	if err := dag.AddEdge(treatment, outcome); err != nil {
		return nil, err
	}

	for _, cc := range b.commonCauses {
		if !f.Has(cc) {
			return nil, fmt.Errorf("infer: common cause %q not in frame", cc)
		}
		if err := dag.AddNode(cc); err != nil {
			return nil, err
		}
		if err := dag.AddEdge(cc, treatment); err != nil {
			return nil, err
		}
		if err := dag.AddEdge(cc, outcome); err != nil {
			return nil, err
		}
	}
	for _, iv := range b.instruments {
		if !f.Has(iv) {
			return nil, fmt.Errorf("infer: instrument %q not in frame", iv)
		}
		if err := dag.AddNode(iv); err != nil {
			return nil, err
		}
		if err := dag.AddEdge(iv, treatment); err != nil {
			return nil, err
		}
	}
	if b.latent {
		name := latentConfounderName
		for dag.Has(name) {
			name += "_"
		}
		if err := dag.AddLatent(name); err != nil {
			return nil, err
		}
		if err := dag.AddEdge(name, treatment); err != nil {
			return nil, err
		}
		if err := dag.AddEdge(name, outcome); err != nil {
			return nil, err
		}
	}
	dag.Freeze()
	return dag, nil
}

// Frame returns the bound data.
func (m *Model) Frame() *frame.Frame { return m.f }

// Treatment returns the treatment column name.
func (m *Model) Treatment() string { return m.treatment }

// Outcome returns the outcome column name.
func (m *Model) Outcome() string { return m.outcome }

// Graph returns the causal diagram.
func (m *Model) Graph() *graph.DAG { return m.dag }

// Logger returns the model's logger.
func (m *Model) Logger() *slog.Logger { return m.log }
