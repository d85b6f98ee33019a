// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package solver

import (
	"sort"
	"time"

	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/pkg/types"
)

// Decomposed wraps another Solver and splits the problem into connected
// components of the dependency DAG (treated as undirected for grouping
// purposes) before delegating each component to Inner, merging the
// results back into one Assignment. This is the spec's permitted
// larger-problem strategy. Components share the agent pool, so they are
// solved one after another, each against the capacity the earlier
// components left unused; the merged Assignment never gives an agent more
// intents than its Capacity.
type Decomposed struct {
	Inner Solver
}

// Solve implements Solver.
func (d Decomposed) Solve(intents []types.Intent, reg *registry.Registry, g *intentgraph.Graph, waveIndex map[string]int, cfg Config) (types.Assignment, Report, error) {
	components := connectedComponents(intents)

	merged := make(types.Assignment, len(intents))
	var totalObjective float64
	var totalWall int64
	optimal := true
	var infeasible []string
	used := make(map[string]int)

	for _, comp := range components {
		pool := reg.All()
		for k := range pool {
			pool[k].Capacity -= used[pool[k].Name]
		}
		compReg, err := registry.New(pool)
		if err != nil {
			return nil, Report{}, err
		}
		assign, report, err := d.Inner.Solve(comp, compReg, g, waveIndex, cfg)
		if err != nil {
			var ie *InfeasibleError
			if asInfeasible(err, &ie) {
				infeasible = append(infeasible, ie.IntentIDs...)
				continue
			}
			return nil, Report{}, err
		}
		for k, v := range assign {
			merged[k] = v
			used[v]++
		}
		totalObjective += report.ObjectiveValue
		totalWall += int64(report.WallTime)
		if !report.Optimal {
			optimal = false
		}
	}

	if len(infeasible) > 0 {
		sort.Strings(infeasible)
		return nil, Report{}, &InfeasibleError{IntentIDs: infeasible}
	}

	return merged, Report{
		ObjectiveValue: totalObjective,
		WallTime:       time.Duration(totalWall),
		Optimal:        optimal,
	}, nil
}

func asInfeasible(err error, target **InfeasibleError) bool {
	ie, ok := err.(*InfeasibleError)
	if ok {
		*target = ie
	}
	return ok
}

// connectedComponents groups intents into maximal sets connected by a
// dependency edge in either direction. Components are returned sorted
// by their smallest member id, each component's intents sorted by id,
// for deterministic sub-problem ordering.
func connectedComponents(intents []types.Intent) [][]types.Intent {
	byID := make(map[string]types.Intent, len(intents))
	adj := make(map[string][]string, len(intents))
	for _, i := range intents {
		byID[i.ID] = i
		if _, ok := adj[i.ID]; !ok {
			adj[i.ID] = nil
		}
		for _, dep := range i.Depends {
			adj[i.ID] = append(adj[i.ID], dep)
			adj[dep] = append(adj[dep], i.ID)
		}
	}

	visited := make(map[string]bool, len(intents))
	var components [][]types.Intent

	ids := make([]string, 0, len(intents))
	for _, i := range intents {
		ids = append(ids, i.ID)
	}
	sort.Strings(ids)

	for _, start := range ids {
		if visited[start] {
			continue
		}
		var members []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			members = append(members, id)
			for _, n := range adj[id] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Strings(members)
		comp := make([]types.Intent, 0, len(members))
		for _, id := range members {
			comp = append(comp, byID[id])
		}
		components = append(components, comp)
	}

	return components
}
