// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package gates

import (
	"math"

	"intentforge/pkg/types"
)

const (
	productionFitnessWeight      = 0.50
	architecturalCoherenceWeight = 0.30
	documentationCoverageWeight  = 0.20

	shipThreshold   = 85.0
	reviseThreshold = 60.0
)

// Gate3 evaluates every Intent Result from every wave of a completed
// session and produces a final verdict plus its three weighted
// sub-scores.
func Gate3(results []types.IntentResult) types.GateVerdict {
	if len(results) == 0 {
		return types.GateVerdict{Verdict: types.VerdictRethink}
	}

	production := productionFitness(results)
	coherence := architecturalCoherence(results)
	docs := documentationCoverage(results)

	aggregate := production*productionFitnessWeight +
		coherence*architecturalCoherenceWeight +
		docs*documentationCoverageWeight

	var verdict types.FinalVerdict
	switch {
	case aggregate >= shipThreshold:
		verdict = types.VerdictShip
	case aggregate >= reviseThreshold:
		verdict = types.VerdictRevise
	default:
		verdict = types.VerdictRethink
	}

	return types.GateVerdict{
		Pass:                   verdict == types.VerdictShip,
		Score:                  aggregate,
		Verdict:                verdict,
		ProductionFitness:      production,
		ArchitecturalCoherence: coherence,
		DocumentationCoverage:  docs,
	}
}

func productionFitness(results []types.IntentResult) float64 {
	sum := 0.0
	for _, r := range results {
		score := r.QualityScore * 100
		if !r.TestsPassed {
			score *= 0.5
		}
		sum += score
	}
	return sum / float64(len(results))
}

func architecturalCoherence(results []types.IntentResult) float64 {
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.QualityScore
	}
	sigma := stddev(scores)
	coherence := 100 * (1 - sigma)
	return clamp(coherence, 0, 100)
}

func documentationCoverage(results []types.IntentResult) float64 {
	withDoc := 0
	var docWriterScores []float64
	for _, r := range results {
		if hasDocArtifact(r.Artifacts) {
			withDoc++
		}
		if r.Profile == types.ProfileDocWriter {
			docWriterScores = append(docWriterScores, r.QualityScore)
		}
	}

	fraction := float64(withDoc) / float64(len(results)) * 100
	docWriterMean := mean(docWriterScores) * 100

	return (fraction + docWriterMean) / 2
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
