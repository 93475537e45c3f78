package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DAG is a directed acyclic graph over named variables.
type DAG struct {
	names    []string // insertion order
	latent   map[string]bool
	parents  map[string][]string
	children map[string][]string
	frozen   bool
}

// New returns an empty DAG in the building state.
func New() *DAG {
	return &DAG{
		latent:   map[string]bool{},
		parents:  map[string][]string{},
		children: map[string][]string{},
	}
}

// AddNode adds an observed variable.
func (g *DAG) AddNode(name string) error {
	return g.add(name, false)
}

// AddLatent adds an unobserved variable. Latent nodes participate in
// paths but are excluded from adjustment sets and instruments.
func (g *DAG) AddLatent(name string) error {
	return g.add(name, true)
}

func (g *DAG) add(name string, latent bool) error {
	if g.frozen {
		return ErrFrozen
	}
	if name == "" {
		return fmt.Errorf("graph: empty node name")
	}
	if _, ok := g.parents[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.names = append(g.names, name)
	g.parents[name] = nil
	g.children[name] = nil
	if latent {
		g.latent[name] = true
	}
	return nil
}

// AddEdge adds the directed edge from -> to. Both nodes must exist and
// the edge must not close a cycle.
func (g *DAG) AddEdge(from, to string) error {
	if g.frozen {
		return ErrFrozen
	}
	if _, ok := g.parents[from]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := g.parents[to]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	if from == to || g.reachable(to, from, nil) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, from, to)
	}
	for _, p := range g.parents[to] {
		if p == from {
			return nil // edge already present
		}
	}
	g.parents[to] = append(g.parents[to], from)
	g.children[from] = append(g.children[from], to)
	return nil
}

// Freeze finalizes the DAG. Further mutations fail with ErrFrozen;
// queries become available. Freeze is idempotent.
func (g *DAG) Freeze() { g.frozen = true }

// Frozen reports whether Freeze has been called.
func (g *DAG) Frozen() bool { return g.frozen }

// Has reports whether the DAG holds the named node.
func (g *DAG) Has(name string) bool {
	_, ok := g.parents[name]
	return ok
}

// IsLatent reports whether the named node is unobserved.
func (g *DAG) IsLatent(name string) bool { return g.latent[name] }

// Nodes returns all node names in insertion order.
func (g *DAG) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Parents returns the direct causes of a node, sorted.
func (g *DAG) Parents(name string) ([]string, error) {
	if !g.frozen {
		return nil, ErrNotFrozen
	}
	ps, ok := g.parents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	out := make([]string, len(ps))
	copy(out, ps)
	sort.Strings(out)
	return out, nil
}

// Children returns the direct effects of a node, sorted.
func (g *DAG) Children(name string) ([]string, error) {
	if !g.frozen {
		return nil, ErrNotFrozen
	}
	cs, ok := g.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	out := make([]string, len(cs))
	copy(out, cs)
	sort.Strings(out)
	return out, nil
}

// reachable reports whether a directed path from -> to exists, following
// child edges. Nodes in skip are treated as absent, which implements the
// edge surgery used by CommonCauses and Instruments.
func (g *DAG) reachable(from, to string, skipIncomingOf map[string]bool) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.children[n] {
			if skipIncomingOf[c] {
				continue // surgered node: its incoming edges are cut
			}
			if c == to {
				return true
			}
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false
}

// ancestors collects every node with a directed path into name. Incoming
// edges of nodes in cut are ignored.
func (g *DAG) ancestors(name string, cut map[string]bool) map[string]bool {
	out := map[string]bool{}
	stack := []string{name}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cut[n] {
			continue // surgered node: do not walk its incoming edges
		}
		for _, p := range g.parents[n] {
			if !out[p] {
				out[p] = true
				stack = append(stack, p)
			}
		}
	}
	return out
}

// Ancestors returns every node with a directed path into name, sorted.
func (g *DAG) Ancestors(name string) ([]string, error) {
	if !g.frozen {
		return nil, ErrNotFrozen
	}
	if !g.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return sortedKeys(g.ancestors(name, nil)), nil
}

// Descendants returns every node reachable from name, sorted.
func (g *DAG) Descendants(name string) ([]string, error) {
	if !g.frozen {
		return nil, ErrNotFrozen
	}
	if !g.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	out := map[string]bool{}
	stack := []string{name}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.children[n] {
			if !out[c] {
				out[c] = true
				stack = append(stack, c)
			}
		}
	}
	return sortedKeys(out), nil
}

// HasPath reports whether a directed path from -> to exists.
func (g *DAG) HasPath(from, to string) (bool, error) {
	if !g.frozen {
		return false, ErrNotFrozen
	}
	if !g.Has(from) {
		return false, fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if !g.Has(to) {
		return false, fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	return g.reachable(from, to, nil), nil
}

// CommonCauses returns the observed variables that cause both treatment
// and outcome: ancestors of the treatment, intersected with ancestors of
// the outcome after cutting the treatment's incoming edges. The cut stops
// pure treatment-causes from leaking in through the treatment itself.
func (g *DAG) CommonCauses(treatment, outcome string) ([]string, error) {
	causesT, causesY, err := g.jointCauses(treatment, outcome)
	if err != nil {
		return nil, err
	}
	var out []string
	for n := range causesT {
		if causesY[n] && !g.latent[n] && n != treatment && n != outcome {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// LatentConfounders returns the unobserved variables that cause both
// treatment and outcome. A non-empty result means backdoor adjustment on
// observed variables cannot close every confounding path.
func (g *DAG) LatentConfounders(treatment, outcome string) ([]string, error) {
	causesT, causesY, err := g.jointCauses(treatment, outcome)
	if err != nil {
		return nil, err
	}
	var out []string
	for n := range causesT {
		if causesY[n] && g.latent[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Instruments returns observed parents of the treatment with no path to
// the outcome once the treatment's incoming edges are cut: variables that
// move the treatment but touch the outcome only through it.
func (g *DAG) Instruments(treatment, outcome string) ([]string, error) {
	if !g.frozen {
		return nil, ErrNotFrozen
	}
	if !g.Has(treatment) {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, treatment)
	}
	if !g.Has(outcome) {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, outcome)
	}
	cut := map[string]bool{treatment: true}
	blockedY := g.ancestors(outcome, cut)
	var out []string
	for _, p := range g.parents[treatment] {
		if !blockedY[p] && !g.latent[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (g *DAG) jointCauses(treatment, outcome string) (map[string]bool, map[string]bool, error) {
	if !g.frozen {
		return nil, nil, ErrNotFrozen
	}
	if !g.Has(treatment) {
		return nil, nil, fmt.Errorf("%w: %q", ErrNodeNotFound, treatment)
	}
	if !g.Has(outcome) {
		return nil, nil, fmt.Errorf("%w: %q", ErrNodeNotFound, outcome)
	}
	causesT := g.ancestors(treatment, nil)
	causesY := g.ancestors(outcome, map[string]bool{treatment: true})
	return causesT, causesY, nil
}

// DOT renders the DAG in Graphviz dot syntax. Latent nodes are dashed.
func (g *DAG) DOT() string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, n := range g.names {
		if g.latent[n] {
			fmt.Fprintf(&b, "  %q [style=dashed];\n", n)
		} else {
			fmt.Fprintf(&b, "  %q;\n", n)
		}
	}
	for _, n := range g.names {
		cs := append([]string(nil), g.children[n]...)
		sort.Strings(cs)
		for _, c := range cs {
			fmt.Fprintf(&b, "  %q -> %q;\n", n, c)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
