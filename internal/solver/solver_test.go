// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/pkg/types"
)

func mkIntent(id string, tokens int, deps ...string) types.Intent {
	return types.Intent{
		ID:              id,
		Complexity:      types.Simple,
		QualityFloor:    0.3,
		EstimatedTokens: tokens,
		Depends:         deps,
	}
}

func mkAgent(name string, quality, rate float64, capacity int) types.Agent {
	return types.Agent{
		Name:         name,
		Quality:      quality,
		TokenRate:    rate,
		Capacity:     capacity,
		Capabilities: map[types.Complexity]bool{types.Simple: true},
	}
}

func TestGreedy_AssignsEveryIntent(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100), mkIntent("b", 100)}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 2)})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	assign, report, err := Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "x", assign["a"])
	assert.Equal(t, "x", assign["b"])
	assert.GreaterOrEqual(t, report.ObjectiveValue, 0.0)
}

func TestGreedy_Infeasible(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100)}
	intents[0].QualityFloor = 0.95
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 2)})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	_, _, err = Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0}, DefaultConfig())
	require.Error(t, err)
	var infeasible *InfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, []string{"a"}, infeasible.IntentIDs)
}

func TestGreedy_CapacityRespected(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100), mkIntent("b", 100), mkIntent("c", 100)}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 1), mkAgent("y", 0.5, 0.01, 2)})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	assign, _, err := Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0, "c": 0}, DefaultConfig())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, agent := range assign {
		counts[agent]++
	}
	assert.LessOrEqual(t, counts["x"], 1)
	assert.LessOrEqual(t, counts["y"], 2)
}

func TestGreedy_Deterministic(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100), mkIntent("b", 200), mkIntent("c", 50)}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 5), mkAgent("y", 0.5, 0.01, 5)})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	a1, _, err := Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0, "c": 0}, DefaultConfig())
	require.NoError(t, err)
	a2, _, err := Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0, "c": 0}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}

func TestBranchAndBound_FindsLowerOrEqualCost(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 1000), mkIntent("b", 1000)}
	reg, err := registry.New([]types.Agent{
		mkAgent("cheap", 0.4, 0.001, 1),
		mkAgent("pricey", 0.9, 0.05, 1),
	})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.TimeLimit = 2 * time.Second

	greedyAssign, greedyReport, err := Greedy{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0}, cfg)
	require.NoError(t, err)
	bbAssign, bbReport, err := BranchAndBound{}.Solve(intents, reg, g, map[string]int{"a": 0, "b": 0}, cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, bbReport.ObjectiveValue, greedyReport.ObjectiveValue+1e-9)
	assert.Len(t, bbAssign, len(intents))
	_ = greedyAssign
}

func TestDecomposed_DisconnectedComponentsSolvedIndependently(t *testing.T) {
	intents := []types.Intent{
		mkIntent("a", 100),
		mkIntent("b", 100, "a"),
		mkIntent("p", 100),
		mkIntent("q", 100, "p"),
	}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 4)})
	require.NoError(t, err)
	g, err := intentgraph.New(intents)
	require.NoError(t, err)

	d := Decomposed{Inner: Greedy{}}
	assign, _, err := d.Solve(intents, reg, g, map[string]int{"a": 0, "b": 1, "p": 0, "q": 1}, DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, assign, 4)
}

func TestConnectedComponents_GroupsByDependency(t *testing.T) {
	intents := []types.Intent{
		mkIntent("a", 100),
		mkIntent("b", 100, "a"),
		mkIntent("p", 100),
	}
	comps := connectedComponents(intents)
	require.Len(t, comps, 2)
	assert.Len(t, comps[0], 2) // a, b
	assert.Len(t, comps[1], 1) // p
}
