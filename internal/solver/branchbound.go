// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package solver

import (
	"time"

	"intentforge/internal/costmodel"
	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/pkg/types"
)

// BranchAndBound is the spec's medium-problem solver: an exact search
// over binary assignment variables (one-hot per intent, capacity
// linear constraints), bounded by Config.TimeLimit. It returns the
// best-known feasible solution and Report.Optimal=false if the budget
// is exhausted before the search completes.
type BranchAndBound struct{}

// Solve implements Solver.
func (BranchAndBound) Solve(intents []types.Intent, reg *registry.Registry, g *intentgraph.Graph, waveIndex map[string]int, cfg Config) (types.Assignment, Report, error) {
	start := time.Now()
	deadline := start.Add(cfg.TimeLimit)

	ordered := sortedIntentsDescComplexity(intents)

	// Seed the search with the greedy solution: it gives an immediate
	// feasible upper bound and a fallback if the deadline hits before
	// any complete assignment is found.
	seedAssignment, infeasible := greedyAssign(intents, reg, cfg)
	if len(infeasible) > 0 {
		return nil, Report{}, &InfeasibleError{IntentIDs: infeasible}
	}
	seedObjective, err := objectiveFor(seedAssignment, intents, reg, g, waveIndex, cfg)
	if err != nil {
		return nil, Report{}, err
	}

	agents := make(map[string]types.Agent, reg.Len())
	for _, a := range reg.All() {
		agents[a.Name] = a
	}
	dependsOn := make(map[string][]string, len(intents))
	for _, i := range intents {
		dependsOn[i.ID] = i.Depends
	}
	ctx := costmodel.AssignmentContext{WaveIndex: waveIndex, DependsOn: dependsOn}

	search := &bbSearch{
		ordered:    ordered,
		reg:        reg,
		cfg:        cfg,
		agents:     agents,
		ctx:        ctx,
		deadline:   deadline,
		bestCost:   seedObjective,
		bestAssign: cloneAssignment(seedAssignment),
		remaining:  make(map[string]int, reg.Len()),
		current:    make(types.Assignment, len(intents)),
	}
	for _, a := range reg.All() {
		search.remaining[a.Name] = a.Capacity
	}

	exhausted := search.run(0)

	return search.bestAssign, Report{
		ObjectiveValue: search.bestCost,
		WallTime:       time.Since(start),
		Optimal:        !exhausted,
	}, nil
}

type bbSearch struct {
	ordered    []types.Intent
	reg        *registry.Registry
	cfg        Config
	agents     map[string]types.Agent
	ctx        costmodel.AssignmentContext
	deadline   time.Time
	bestCost   float64
	bestAssign types.Assignment
	remaining  map[string]int
	current    types.Assignment
	timedOut   bool
}

// run explores assignments depth-first from index idx. It returns true
// if the search was cut short by the time budget (result not proven
// optimal).
func (s *bbSearch) run(idx int) bool {
	if s.timedOut || time.Now().After(s.deadline) {
		s.timedOut = true
		return true
	}
	if idx == len(s.ordered) {
		cost, err := costmodel.Objective(s.current, s.ordered, s.agents, s.ctx, s.cfg.Weights)
		if err == nil && cost < s.bestCost {
			s.bestCost = cost
			s.bestAssign = cloneAssignment(s.current)
		}
		return false
	}

	intent := s.ordered[idx]
	candidates := s.reg.Capable(intent.Complexity, effectiveFloor(intent, s.cfg))

	for _, a := range candidates {
		if s.remaining[a.Name] <= 0 {
			continue
		}
		s.current[intent.ID] = a.Name
		s.remaining[a.Name]--

		if s.run(idx + 1) {
			s.remaining[a.Name]++
			delete(s.current, intent.ID)
			return true
		}

		s.remaining[a.Name]++
		delete(s.current, intent.ID)
	}

	return false
}

func cloneAssignment(a types.Assignment) types.Assignment {
	out := make(types.Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
