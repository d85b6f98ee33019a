// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package solver

import (
	"sort"
	"time"

	"intentforge/internal/costmodel"
	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/pkg/types"
)

// Greedy is the spec's small-problem baseline and feasibility oracle:
// iterate intents in descending complexity, assign each to the
// cheapest capable agent with remaining capacity. It is proven optimal
// only in the degenerate case of no contention (every intent fits its
// single cheapest agent); in general it is a fast, deterministic
// feasible solution, not a proof of optimality.
type Greedy struct{}

// Solve implements Solver.
func (Greedy) Solve(intents []types.Intent, reg *registry.Registry, g *intentgraph.Graph, waveIndex map[string]int, cfg Config) (types.Assignment, Report, error) {
	start := time.Now()
	assignment, infeasible := greedyAssign(intents, reg, cfg)
	if len(infeasible) > 0 {
		return nil, Report{}, &InfeasibleError{IntentIDs: infeasible}
	}

	obj, err := objectiveFor(assignment, intents, reg, g, waveIndex, cfg)
	if err != nil {
		return nil, Report{}, err
	}

	return assignment, Report{
		ObjectiveValue: obj,
		WallTime:       time.Since(start),
		Optimal:        isUncontended(intents, reg, cfg),
	}, nil
}

func greedyAssign(intents []types.Intent, reg *registry.Registry, cfg Config) (types.Assignment, []string) {
	remaining := make(map[string]int, reg.Len())
	for _, a := range reg.All() {
		remaining[a.Name] = a.Capacity
	}

	assignment := make(types.Assignment, len(intents))
	var infeasible []string

	for _, i := range sortedIntentsDescComplexity(intents) {
		floor := effectiveFloor(i, cfg)
		candidates := reg.Capable(i.Complexity, floor)

		best := ""
		bestCost := 0.0
		for _, a := range candidates {
			if remaining[a.Name] <= 0 {
				continue
			}
			b, err := costmodel.PairCost(i, a, cfg.Weights)
			if err != nil {
				continue
			}
			cost := b.Total()
			if best == "" || cost < bestCost || (cost == bestCost && a.Name < best) {
				best = a.Name
				bestCost = cost
			}
		}

		if best == "" {
			infeasible = append(infeasible, i.ID)
			continue
		}
		assignment[i.ID] = best
		remaining[best]--
	}

	sort.Strings(infeasible)
	return assignment, infeasible
}

// isUncontended reports whether every intent's single cheapest capable
// agent has enough aggregate capacity to serve it without contention,
// in which case the greedy result is trivially optimal.
func isUncontended(intents []types.Intent, reg *registry.Registry, cfg Config) bool {
	demand := make(map[string]int)
	for _, i := range intents {
		candidates := reg.Capable(i.Complexity, effectiveFloor(i, cfg))
		if len(candidates) == 0 {
			return false
		}
		best := candidates[0].Name
		bestCost := -1.0
		for _, a := range candidates {
			b, err := costmodel.PairCost(i, a, cfg.Weights)
			if err != nil {
				continue
			}
			if bestCost < 0 || b.Total() < bestCost {
				bestCost = b.Total()
				best = a.Name
			}
		}
		demand[best]++
	}
	for name, d := range demand {
		a, ok := reg.Get(name)
		if !ok || d > a.Capacity {
			return false
		}
	}
	return true
}

// objectiveFor derives the AssignmentContext from the graph and wave
// index and scores a completed assignment.
func objectiveFor(assignment types.Assignment, intents []types.Intent, reg *registry.Registry, g *intentgraph.Graph, waveIndex map[string]int, cfg Config) (float64, error) {
	agents := make(map[string]types.Agent, reg.Len())
	for _, a := range reg.All() {
		agents[a.Name] = a
	}

	dependsOn := make(map[string][]string, len(intents))
	for _, i := range intents {
		dependsOn[i.ID] = i.Depends
	}
	_ = g // graph kept for future dependents-based terms; edges come from intents directly

	return costmodel.Objective(assignment, intents, agents, costmodel.AssignmentContext{
		WaveIndex: waveIndex,
		DependsOn: dependsOn,
	}, cfg.Weights)
}
