// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package gates

import (
	"fmt"

	"intentforge/pkg/types"
)

// DefaultMinWaveQuality is the spec's default Gate 2 threshold.
const DefaultMinWaveQuality = 0.70

// Gate2 evaluates every Intent Result produced by one completed wave.
// Pass requires every intent to have completed, met the quality
// threshold, and passed its tests. The score is the arithmetic mean of
// the wave's Gate 1 scores, which callers must have already computed
// and passed in alongside the results they came from.
func Gate2(results []types.IntentResult, gate1Scores []float64, minQuality float64) types.GateVerdict {
	var issues []string

	for _, r := range results {
		if r.Status != types.StatusCompleted {
			issues = append(issues, fmt.Sprintf("intent %s: status is %q, not completed", r.IntentID, r.Status))
			continue
		}
		if r.QualityScore < minQuality {
			issues = append(issues, fmt.Sprintf("intent %s: quality score %.2f below threshold %.2f", r.IntentID, r.QualityScore, minQuality))
		}
		if !r.TestsPassed {
			issues = append(issues, fmt.Sprintf("intent %s: tests did not pass", r.IntentID))
		}
	}

	score := mean(gate1Scores)

	return types.GateVerdict{
		Pass:   len(issues) == 0,
		Score:  score,
		Issues: issues,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
