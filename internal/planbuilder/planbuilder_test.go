// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentforge/internal/registry"
	"intentforge/internal/solver"
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

func mkAgent(name string, quality, rate, throughput float64, capacity int) types.Agent {
	return types.Agent{
		Name:         name,
		Quality:      quality,
		TokenRate:    rate,
		Capacity:     capacity,
		Throughput:   throughput,
		Capabilities: map[types.Complexity]bool{types.Simple: true},
	}
}

func TestBuild_SimpleChain(t *testing.T) {
	intents := []types.Intent{
		mkIntent("a", 100),
		mkIntent("b", 100, "a"),
	}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 10, 5)})
	require.NoError(t, err)

	plan, err := Build(intents, reg, solver.Greedy{}, solver.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, plan.TotalIntents)
	assert.Equal(t, 2, plan.TotalWaves)
	assert.Equal(t, 1, plan.PeakParallelism)
	assert.Equal(t, 2, plan.SerialDepth)
	assert.Equal(t, []string{"a", "b"}, plan.CriticalPath)
}

func TestBuild_BottleneckWaveTieBreak(t *testing.T) {
	intents := []types.Intent{
		mkIntent("a", 100),
		mkIntent("b", 100),
		mkIntent("c", 100, "a"),
		mkIntent("d", 100, "b"),
	}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 10, 10)})
	require.NoError(t, err)

	plan, err := Build(intents, reg, solver.Greedy{}, solver.DefaultConfig())
	require.NoError(t, err)

	// Both waves have size 2; smallest index wins.
	assert.Equal(t, 0, plan.BottleneckWave)
	assert.Equal(t, 2, plan.PeakParallelism)
}

func TestBuild_ProfileLoadHistogram(t *testing.T) {
	intents := []types.Intent{
		{ID: "a", Complexity: types.Simple, QualityFloor: 0.1, EstimatedTokens: 100, Tags: []string{"review"}},
		{ID: "b", Complexity: types.Simple, QualityFloor: 0.1, EstimatedTokens: 100, Tags: []string{"docs"}},
	}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.9, 0.01, 10, 10)})
	require.NoError(t, err)

	plan, err := Build(intents, reg, solver.Greedy{}, solver.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, plan.ProfileLoad[types.ProfileReviewer])
	assert.Equal(t, 1, plan.ProfileLoad[types.ProfileDocWriter])
}

func TestSerialize_RoundTrips(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100)}
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 10, 5)})
	require.NoError(t, err)

	plan, err := Build(intents, reg, solver.Greedy{}, solver.DefaultConfig())
	require.NoError(t, err)

	data, err := Serialize(plan)
	require.NoError(t, err)

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, plan, restored)
}

func TestBuild_EmptyIntentList(t *testing.T) {
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 10, 5)})
	require.NoError(t, err)

	plan, err := Build(nil, reg, solver.Greedy{}, solver.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, plan.TotalIntents)
	assert.Equal(t, 0, plan.TotalWaves)
	assert.Empty(t, plan.CriticalPath)
}

func TestBuild_PropagatesInfeasibleError(t *testing.T) {
	intents := []types.Intent{mkIntent("a", 100)}
	intents[0].QualityFloor = 0.99
	reg, err := registry.New([]types.Agent{mkAgent("x", 0.5, 0.01, 10, 5)})
	require.NoError(t, err)

	_, err = Build(intents, reg, solver.Greedy{}, solver.DefaultConfig())
	require.Error(t, err)
	var infeasible *solver.InfeasibleError
	require.ErrorAs(t, err, &infeasible)
}
