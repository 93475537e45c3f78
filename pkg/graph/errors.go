// Package graph holds the causal diagram: a directed acyclic graph over
// named variables, some of which may be latent (never observed in data).
//
// A DAG is built single-writer with AddNode/AddLatent/AddEdge, then frozen
// with Freeze. Traversal queries are only valid on a frozen DAG, after
// which it is safe for concurrent readers.
package graph

import "errors"

// Sentinel errors for DAG operations.
var (
	// ErrFrozen is returned when modifying a DAG after Freeze.
	ErrFrozen = errors.New("graph is frozen and cannot be modified")

	// ErrNotFrozen is returned by queries on a DAG that has not been frozen.
	ErrNotFrozen = errors.New("graph must be frozen before querying")

	// ErrNodeNotFound is returned when an operation names an unknown node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode is returned when adding a node name twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrCycle is returned when an edge would make the graph cyclic.
	ErrCycle = errors.New("edge would create a cycle")
)
