// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package solver binds Intents to Agents under capacity and
// capability/quality constraints, minimizing the Cost Model's
// objective. It offers a greedy baseline, a bounded branch-and-bound
// search, and a connected-component decomposition that can run either
// one underneath it.
package solver

import (
	"fmt"
	"sort"
	"time"

	"intentforge/internal/costmodel"
	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/pkg/types"
)

// Config carries the weight knobs and search budget passed to a Solver.
type Config struct {
	Weights   costmodel.Weights
	TimeLimit time.Duration
	// BudgetCap, if non-nil, is a dollar ceiling on the total assignment
	// cost. budgetPenalty computes the quadratic penalty above it, but no
	// solver in this package adds that penalty to its objective, so the
	// cap does not change the returned Assignment or Report.
	BudgetCap *float64
	// QualityFloorOverride, if non-nil, raises every intent's effective
	// quality floor to at least this value.
	QualityFloorOverride *float64
	// Seed is carried from configuration. No solver in this package reads
	// it; each produces an identical Assignment for identical input
	// without it.
	Seed int64
}

// DefaultConfig returns a Config with the Cost Model's default weights
// and a generous time budget.
func DefaultConfig() Config {
	return Config{
		Weights:   costmodel.DefaultWeights(),
		TimeLimit: 10 * time.Second,
	}
}

// Report describes the search outcome alongside the Assignment.
type Report struct {
	ObjectiveValue float64
	WallTime       time.Duration
	// Optimal is true when the result is proven optimal (greedy on a
	// feasible trivial case, or branch-and-bound that finished before
	// its time budget); false when it is merely the best feasible
	// solution found before a timeout.
	Optimal bool
}

// InfeasibleError enumerates every intent for which no agent exists
// that covers its complexity and meets its quality floor, or for which
// aggregate remaining capacity was exhausted.
type InfeasibleError struct {
	IntentIDs []string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no feasible assignment for intents: %v", e.IntentIDs)
}

// Solver is the single operation the Plan Builder depends on; the
// specific algorithm (greedy, branch-and-bound, decomposed) is an
// implementation detail behind this interface.
type Solver interface {
	Solve(intents []types.Intent, reg *registry.Registry, g *intentgraph.Graph, waveIndex map[string]int, cfg Config) (types.Assignment, Report, error)
}

// effectiveFloor applies Config.QualityFloorOverride, if set.
func effectiveFloor(i types.Intent, cfg Config) float64 {
	if cfg.QualityFloorOverride != nil && *cfg.QualityFloorOverride > i.QualityFloor {
		return *cfg.QualityFloorOverride
	}
	return i.QualityFloor
}

// sortedIntentsDescComplexity returns intents sorted by descending
// complexity rank, ties broken by ascending id — the deterministic
// iteration order every solver in this package uses.
func sortedIntentsDescComplexity(intents []types.Intent) []types.Intent {
	out := make([]types.Intent, len(intents))
	copy(out, intents)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Complexity.Rank() != out[j].Complexity.Rank() {
			return out[i].Complexity.Rank() > out[j].Complexity.Rank()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// budgetPenalty returns the quadratic soft-constraint penalty for a
// candidate total cost above cfg.BudgetCap, or 0 if no cap is set or
// the cost is within it.
func budgetPenalty(totalCost float64, cfg Config) float64 {
	if cfg.BudgetCap == nil || totalCost <= *cfg.BudgetCap {
		return 0
	}
	over := totalCost - *cfg.BudgetCap
	return over * over
}
