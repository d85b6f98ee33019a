// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package intentgraph holds intents, validates the dependency DAG, and
// exposes iteration and lookup for the rest of the core.
package intentgraph

import (
	"fmt"
	"sort"

	"github.com/gammazero/toposort"

	"intentforge/pkg/types"
)

// DanglingDependencyError names an edge that references an unknown
// intent id.
type DanglingDependencyError struct {
	IntentID string
	MissingDep string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("intent %q depends on unknown intent %q", e.IntentID, e.MissingDep)
}

// DuplicateIntentError names an intent id registered more than once.
type DuplicateIntentError struct {
	IntentID string
}

func (e *DuplicateIntentError) Error() string {
	return fmt.Sprintf("duplicate intent id %q", e.IntentID)
}

// CycleError names one intent on a dependency cycle and the cycle path
// that was discovered (a → b → ... → a).
type CycleError struct {
	IntentID string
	Path     []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected at intent %q: %v", e.IntentID, e.Path)
}

// Graph holds a validated, immutable set of intents and their
// dependency edges.
type Graph struct {
	intents map[string]types.Intent
	order   []string // insertion order, for deterministic iteration
}

// New validates and builds a Graph from a flat intent list. It returns a
// DuplicateIntentError, a DanglingDependencyError, or a CycleError on
// the first problem found; these are the fatal Input errors of spec.md
// §7 and must be surfaced before any Plan is built.
func New(intents []types.Intent) (*Graph, error) {
	g := &Graph{
		intents: make(map[string]types.Intent, len(intents)),
		order:   make([]string, 0, len(intents)),
	}

	for _, it := range intents {
		if _, exists := g.intents[it.ID]; exists {
			return nil, &DuplicateIntentError{IntentID: it.ID}
		}
		g.intents[it.ID] = it
		g.order = append(g.order, it.ID)
	}

	for _, it := range intents {
		for _, dep := range it.Depends {
			if _, ok := g.intents[dep]; !ok {
				return nil, &DanglingDependencyError{IntentID: it.ID, MissingDep: dep}
			}
		}
	}

	if err := checkAcyclic(g); err != nil {
		return nil, err
	}

	return g, nil
}

// checkAcyclic delegates the cycle check to toposort and, if it reports a
// cycle, runs a DFS to name one offending intent and its cycle path for
// a structured error.
func checkAcyclic(g *Graph) error {
	edges := make([]toposort.Edge, 0, len(g.order))
	for _, id := range g.order {
		for _, dep := range g.intents[id].Depends {
			edges = append(edges, toposort.Edge{dep, id})
		}
	}
	if len(edges) == 0 {
		return nil
	}

	if _, err := toposort.Toposort(edges); err != nil {
		path, node, found := findCycle(g)
		if !found {
			// toposort saw a cycle our DFS didn't reconstruct; report
			// what we know rather than silently accepting the graph.
			return fmt.Errorf("cycle detected in intent graph: %w", err)
		}
		return &CycleError{IntentID: node, Path: path}
	}
	return nil
}

// findCycle runs a DFS with a recursion stack to locate a cycle
// deterministically (intents visited in insertion order).
func findCycle(g *Graph) (path []string, node string, found bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.order))
	var stack []string

	var visit func(id string) ([]string, string, bool)
	visit = func(id string) ([]string, string, bool) {
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range g.intents[id].Depends {
			switch color[dep] {
			case white:
				if p, n, ok := visit(dep); ok {
					return p, n, ok
				}
			case gray:
				// Found the cycle; slice the stack from dep's position.
				idx := indexOf(stack, dep)
				cyc := append(append([]string{}, stack[idx:]...), dep)
				return cyc, dep, true
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil, "", false
	}

	for _, id := range g.order {
		if color[id] == white {
			if p, n, ok := visit(id); ok {
				return p, n, true
			}
		}
	}
	return nil, "", false
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Get looks up an intent by id.
func (g *Graph) Get(id string) (types.Intent, bool) {
	it, ok := g.intents[id]
	return it, ok
}

// All returns every intent in deterministic (insertion) order.
func (g *Graph) All() []types.Intent {
	out := make([]types.Intent, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.intents[id])
	}
	return out
}

// IDs returns every intent id, sorted lexicographically. Useful for
// deterministic tie-breaking elsewhere in the core.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.order))
	for _, id := range g.order {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of intents in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependents returns the ids of intents that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for _, other := range g.order {
		for _, dep := range g.intents[other].Depends {
			if dep == id {
				out = append(out, other)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
