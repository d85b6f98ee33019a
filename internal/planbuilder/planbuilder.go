// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package planbuilder orchestrates the Wave Partitioner, Profile
// Router, and Assignment Solver into one serializable Plan.
package planbuilder

import (
	"intentforge/internal/costmodel"
	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/internal/router"
	"intentforge/internal/solver"
	"intentforge/pkg/dag"
	"intentforge/pkg/types"
)

// defaultThroughput is used when an assigned agent's Throughput is
// zero ("unknown"), so the critical path estimate never divides by
// zero.
const defaultThroughput = 1.0

// Build runs the full planning pipeline: validate the dependency graph,
// partition it into waves, route every intent to a profile, solve the
// assignment, and assemble the resulting Plan.
func Build(intents []types.Intent, reg *registry.Registry, s solver.Solver, cfg solver.Config) (*types.Plan, error) {
	plan, _, _, err := BuildWithAssignment(intents, reg, s, cfg)
	return plan, err
}

// BuildWithAssignment runs the same pipeline as Build but additionally
// returns the validated Intent Graph and the Assignment Solver's output,
// the two pieces of planning state a Wave Executor needs that a
// serialized Plan alone does not carry.
func BuildWithAssignment(intents []types.Intent, reg *registry.Registry, s solver.Solver, cfg solver.Config) (*types.Plan, *intentgraph.Graph, types.Assignment, error) {
	g, err := intentgraph.New(intents)
	if err != nil {
		return nil, nil, nil, err
	}

	waves := dag.BuildWaves(g)
	waveIndex := dag.WaveIndex(waves)

	assignment, _, err := s.Solve(intents, reg, g, waveIndex, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	agentsByName := make(map[string]types.Agent, reg.Len())
	for _, a := range reg.All() {
		agentsByName[a.Name] = a
	}
	intentsByID := make(map[string]types.Intent, len(intents))
	for _, i := range intents {
		intentsByID[i.ID] = i
	}

	profiles := make(map[string]types.Profile, len(intents))
	for _, i := range intents {
		profiles[i.ID] = router.Route(i)
	}

	plan := assemble(intentsByID, agentsByName, assignment, profiles, waves, waveIndex, cfg.Weights)
	return plan, g, assignment, nil
}

func assemble(
	intentsByID map[string]types.Intent,
	agentsByName map[string]types.Agent,
	assignment types.Assignment,
	profiles map[string]types.Profile,
	waves types.Waves,
	waveIndex map[string]int,
	weights costmodel.Weights,
) *types.Plan {
	plan := &types.Plan{
		TotalIntents: len(intentsByID),
		TotalWaves:   len(waves),
		ProfileLoad:  make(map[types.Profile]int, len(types.AllProfiles)),
		Waves:        make([]types.WavePlan, len(waves)),
	}

	peak := 0
	bottleneckWave := 0
	bottleneckSize := -1

	for wi, wave := range waves {
		if len(wave) > peak {
			peak = len(wave)
		}
		if len(wave) > bottleneckSize {
			bottleneckSize = len(wave)
			bottleneckWave = wi
		}

		wavePlan := types.WavePlan{Wave: wi}
		agentsInWave := make(map[string]bool)

		for _, id := range wave {
			it := intentsByID[id]
			agentName := assignment[id]
			agent := agentsByName[agentName]

			pair, err := costmodel.PairCost(it, agent, weights)
			cost := 0.0
			if err == nil {
				cost = pair.Total()
			}

			ip := types.IntentPlan{
				ID:              id,
				Profile:         profiles[id],
				Model:           agent.ModelFamily,
				Workflow:        string(profiles[id]),
				Complexity:      it.Complexity,
				EstimatedTokens: it.EstimatedTokens,
				EstimatedCost:   cost,
				DependsOn:       it.Depends,
				Wave:            wi,
			}
			wavePlan.Intents = append(wavePlan.Intents, ip)
			wavePlan.EstimatedCost += cost

			agentsInWave[agentName] = true
			plan.ProfileLoad[profiles[id]]++
			plan.TotalEstimatedCost += cost
			plan.TotalEstimatedTokens += it.EstimatedTokens
		}

		wavePlan.AgentsNeeded = len(agentsInWave)
		plan.Waves[wi] = wavePlan
	}

	plan.PeakParallelism = peak
	plan.SerialDepth = len(waves)
	plan.BottleneckWave = bottleneckWave
	plan.CriticalPath = criticalPath(intentsByID, agentsByName, assignment, waves)

	return plan
}

// criticalPath finds the longest-by-estimated-duration chain through
// the dependency graph, where an intent's duration is
// estimated_tokens / chosen_agent.throughput. waves gives a
// topological processing order (every predecessor lies in an earlier
// wave), so one pass of longest-path relaxation suffices. Ties — equal
// total duration at the best endpoint, or equal contribution from more
// than one predecessor — are broken by id-sorted order.
func criticalPath(intentsByID map[string]types.Intent, agentsByName map[string]types.Agent, assignment types.Assignment, waves types.Waves) []string {
	best := make(map[string]float64, len(intentsByID))
	prev := make(map[string]string, len(intentsByID))

	for _, wave := range waves {
		for _, id := range wave { // wave is already id-sorted by BuildWaves
			it := intentsByID[id]
			agent := agentsByName[assignment[id]]
			throughput := agent.Throughput
			if throughput <= 0 {
				throughput = defaultThroughput
			}
			duration := float64(it.EstimatedTokens) / throughput

			longest := duration
			longestPrev := ""
			deps := append([]string{}, it.Depends...)
			sortStrings(deps)
			for _, dep := range deps {
				candidate := best[dep] + duration
				if candidate > longest {
					longest = candidate
					longestPrev = dep
				}
			}
			best[id] = longest
			prev[id] = longestPrev
		}
	}

	allIDs := make([]string, 0, len(intentsByID))
	for id := range intentsByID {
		allIDs = append(allIDs, id)
	}
	sortStrings(allIDs)

	bestEnd := ""
	bestVal := -1.0
	for _, id := range allIDs {
		if best[id] > bestVal {
			bestVal = best[id]
			bestEnd = id
		}
	}

	var path []string
	for id := bestEnd; id != ""; id = prev[id] {
		path = append([]string{id}, path...)
	}
	return path
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
