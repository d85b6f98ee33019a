// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package costmodel scores intent-to-agent assignments with a weighted
// additive cost, the same "breakdown of named terms summed under
// configurable weights" shape used elsewhere in the corpus for
// offload-target scoring.
package costmodel

import (
	"errors"

	"intentforge/pkg/types"
)

// ErrInfeasible is returned by PairCost when an agent cannot legally
// serve an intent: its quality is below the intent's floor, or its
// capability set does not cover the intent's complexity tier.
var ErrInfeasible = errors.New("assignment infeasible: agent does not cover intent's complexity or quality floor")

// Weights holds the externally configurable knobs for every cost term.
// Defaults match spec.md §6.
type Weights struct {
	OverkillWeight float64
	LatencyWeight  float64
	DeadlineWeight float64
	ContextBonus   float64
	// TimePerWave converts a wave index into a completion-time unit for
	// the deadline penalty term.
	TimePerWave float64
}

// DefaultWeights returns the spec-documented defaults.
func DefaultWeights() Weights {
	return Weights{
		OverkillWeight: 2.0,
		LatencyWeight:  1.0,
		DeadlineWeight: 1.0,
		ContextBonus:   0.5,
		TimePerWave:    1.0,
	}
}

// Breakdown names the per-pair cost terms, excluding the context bonus
// and deadline penalty (which depend on the global assignment and are
// layered on by Objective).
type Breakdown struct {
	TokenCost       float64
	OverkillPenalty float64
	LatencyPenalty  float64
}

// Total sums the breakdown's terms.
func (b Breakdown) Total() float64 {
	return b.TokenCost + b.OverkillPenalty + b.LatencyPenalty
}

// PairCost returns the per-pair cost of assigning intent i to agent a,
// excluding the context bonus and deadline timing. It returns
// ErrInfeasible, not a numeric cost, when a cannot legally serve i.
func PairCost(i types.Intent, a types.Agent, w Weights) (Breakdown, error) {
	if !a.Covers(i.Complexity) || !a.MeetsFloor(i.QualityFloor) {
		return Breakdown{}, ErrInfeasible
	}

	tokenCost := float64(i.EstimatedTokens) * a.TokenRate
	overkill := 0.0
	if a.Quality > i.QualityFloor {
		overkill = (a.Quality - i.QualityFloor) * tokenCost * w.OverkillWeight
	}
	latency := a.Latency * w.LatencyWeight

	return Breakdown{
		TokenCost:       tokenCost,
		OverkillPenalty: overkill,
		LatencyPenalty:  latency,
	}, nil
}

// AssignmentContext is everything Objective needs beyond the candidate
// assignment itself: each intent's wave index (for deadline timing) and
// its direct dependency edges (for the context-affinity bonus).
type AssignmentContext struct {
	WaveIndex map[string]int
	DependsOn map[string][]string
}

// Objective computes the total global-objective cost of a candidate
// assignment: the sum of every intent's PairCost, plus its deadline
// penalty, minus its context-affinity bonus for every dependency bound
// to the same agent. assign and intents must cover the same intent
// set; agents is an index by name.
func Objective(
	assignment types.Assignment,
	intents []types.Intent,
	agents map[string]types.Agent,
	ctx AssignmentContext,
	w Weights,
) (float64, error) {
	total := 0.0

	for _, i := range intents {
		agentName, ok := assignment[i.ID]
		if !ok {
			return 0, errors.New("objective: intent " + i.ID + " has no assignment")
		}
		a, ok := agents[agentName]
		if !ok {
			return 0, errors.New("objective: unknown agent " + agentName)
		}

		pair, err := PairCost(i, a, w)
		if err != nil {
			return 0, err
		}
		total += pair.Total()

		if i.HasDeadline {
			completion := float64(ctx.WaveIndex[i.ID]) * w.TimePerWave
			if over := completion - float64(i.Deadline); over > 0 {
				total += over * w.DeadlineWeight
			}
		}

		for _, dep := range ctx.DependsOn[i.ID] {
			if assignment[dep] == agentName {
				total -= w.ContextBonus
			}
		}
	}

	return total, nil
}
