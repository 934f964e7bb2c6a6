// SPDX-License-Identifier: MPL-2.0

// Package dag orders component manifests so that every component is collected
// after the components it depends on, and reports dependency cycles.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

const (
	unvisited visitState = iota
	visiting
	collected
)

type (
	// CycleError indicates that the graph contains a cycle, preventing ordering.
	CycleError struct {
		// Cycle is the dependency path that closes the loop; the first and last
		// entries are the same node, e.g. [a b a].
		Cycle []string
	}

	// Graph is a directed graph of "must come before" relationships.
	// An edge from A to B means A must be collected before B.
	Graph struct {
		// predecessors maps each node to the nodes that must precede it, in
		// insertion order.
		predecessors map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}

	visitState int
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		predecessors: make(map[string][]string),
		nodeSet:      make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether name was added.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// Nodes returns nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// AddEdge adds a directed edge from -> to, meaning "from" must come before "to".
// Both nodes are implicitly added if they don't exist. Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.predecessors[to], from) {
		return
	}
	g.predecessors[to] = append(g.predecessors[to], from)
}

// Predecessors returns the nodes that must come before name.
func (g *Graph) Predecessors(name string) []string {
	return slices.Clone(g.predecessors[name])
}

// Order returns every node after all of its predecessors using a depth-first
// post-order walk. Roots are visited in insertion order and predecessors in the
// order their edges were added, so the result is deterministic. A node reachable
// along several paths appears once. Returns *CycleError naming the offending
// path when a node is reached again while it is still being visited.
func (g *Graph) Order() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	state := make(map[string]visitState, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	var path []string

	var visit func(node string) error
	visit = func(node string) error {
		switch state[node] {
		case collected:
			return nil
		case visiting:
			start := slices.Index(path, node)
			cycle := append(slices.Clone(path[start:]), node)
			return &CycleError{Cycle: cycle}
		}

		state[node] = visiting
		path = append(path, node)
		for _, pred := range g.predecessors[node] {
			if err := visit(pred); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[node] = collected
		order = append(order, node)
		return nil
	}

	for _, node := range g.nodes {
		if err := visit(node); err != nil {
			return nil, err
		}
	}
	return order, nil
}
