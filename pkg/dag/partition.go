// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package dag partitions a validated intent graph into parallel
// execution waves. The partitioner is pure and single-threaded: it
// holds no state across calls and performs no I/O.
package dag

import (
	"sort"

	"intentforge/internal/intentgraph"
	"intentforge/pkg/types"
)

// BuildWaves performs Kahn's-algorithm BFS-level partitioning over a
// validated Graph: wave 0 holds every intent with no predecessors;
// wave k holds every intent whose predecessors all lie in waves < k.
// Intents within a wave are sorted lexicographically by id so the
// result is deterministic across runs with the same input.
//
// g must already be cycle-free and free of dangling references — that
// is intentgraph.New's job, not this function's. BuildWaves re-derives
// levels by repeatedly peeling off intents whose dependencies are all
// already placed; since g is guaranteed acyclic this always terminates
// with every intent placed.
func BuildWaves(g *intentgraph.Graph) types.Waves {
	wave := make(map[string]int, g.Len())
	remaining := g.All()

	for len(remaining) > 0 {
		var placedThisRound []string
		var stillRemaining []types.Intent

		for _, it := range remaining {
			if allPlaced(it.Depends, wave) {
				level := 0
				for _, dep := range it.Depends {
					if wave[dep]+1 > level {
						level = wave[dep] + 1
					}
				}
				wave[it.ID] = level
				placedThisRound = append(placedThisRound, it.ID)
			} else {
				stillRemaining = append(stillRemaining, it)
			}
		}

		if len(placedThisRound) == 0 {
			// g was validated acyclic by intentgraph.New; this branch is
			// unreachable for a correctly validated graph.
			break
		}

		remaining = stillRemaining
	}

	maxWave := -1
	for _, w := range wave {
		if w > maxWave {
			maxWave = w
		}
	}

	waves := make(types.Waves, maxWave+1)
	for id, w := range wave {
		waves[w] = append(waves[w], id)
	}
	for i := range waves {
		sort.Strings(waves[i])
	}
	return waves
}

func allPlaced(deps []string, wave map[string]int) bool {
	for _, d := range deps {
		if _, ok := wave[d]; !ok {
			return false
		}
	}
	return true
}

// WaveIndex builds the inverse mapping of a Waves decomposition: intent
// id to the wave index it was placed in.
func WaveIndex(w types.Waves) map[string]int {
	idx := make(map[string]int)
	for i, wave := range w {
		for _, id := range wave {
			idx[id] = i
		}
	}
	return idx
}
