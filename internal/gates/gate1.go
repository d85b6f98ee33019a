// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package gates implements the three quality gates the Wave Executor
// applies: Gate 1 per intent attempt, Gate 2 per completed wave, and
// Gate 3 once across the whole session.
package gates

import (
	"fmt"
	"strings"

	"intentforge/pkg/types"
)

var docSuffixes = []string{".md", ".rst", ".txt", ".adoc", ".html", ".pdf"}
var planKeywords = []string{"plan", "design", "architecture", "roadmap", "proposal"}

// Gate1 evaluates a single Intent Result against its profile's
// pass criteria. A status of failed or in-progress automatically
// yields a score of 0 with a populated issue list.
func Gate1(result types.IntentResult, profile types.Profile) types.GateVerdict {
	if result.Status != types.StatusCompleted {
		return types.GateVerdict{
			Pass:   false,
			Score:  0,
			Issues: []string{fmt.Sprintf("intent status is %q, not completed", result.Status)},
		}
	}

	switch profile {
	case types.ProfileBugInvestigator:
		return gate1BugInvestigator(result)
	case types.ProfileImplementer:
		return gate1Implementer(result)
	case types.ProfileTestEngineer:
		return gate1TestEngineer(result)
	case types.ProfileUnitTester:
		return gate1UnitTester(result)
	case types.ProfileDocWriter:
		return gate1DocWriter(result)
	case types.ProfilePlanner:
		return gate1Planner(result)
	case types.ProfileReviewer:
		return gate1Reviewer(result)
	default:
		return types.GateVerdict{Pass: false, Score: 0, Issues: []string{fmt.Sprintf("unknown profile %q", profile)}}
	}
}

func gate1BugInvestigator(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !r.TestsPassed {
		issues = append(issues, "tests did not pass")
	}
	if r.QualityScore <= 0 {
		issues = append(issues, "quality score must be > 0")
	}
	if len(r.Artifacts) < 1 {
		issues = append(issues, "no artifacts produced")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1Implementer(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !r.TestsPassed {
		issues = append(issues, "tests did not pass")
	}
	if r.QualityScore < 0.70 {
		issues = append(issues, "quality score below 0.70 threshold")
	}
	if len(r.Artifacts) < 1 {
		issues = append(issues, "no artifacts produced")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1TestEngineer(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !r.TestsPassed {
		issues = append(issues, "tests did not pass")
	}
	if r.CoverageDelta < 0 {
		issues = append(issues, "coverage delta is negative")
	}
	if r.QualityScore < 0.70 {
		issues = append(issues, "quality score below 0.70 threshold")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1UnitTester(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !r.TestsPassed {
		issues = append(issues, "tests did not pass")
	}
	if r.CoverageDelta <= 0 {
		issues = append(issues, "coverage delta must be positive")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1DocWriter(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !hasDocArtifact(r.Artifacts) {
		issues = append(issues, "no documentation artifact produced")
	}
	if r.QualityScore < 0.60 {
		issues = append(issues, "quality score below 0.60 threshold")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1Planner(r types.IntentResult) types.GateVerdict {
	var issues []string
	if !hasPlanArtifact(r.Artifacts) {
		issues = append(issues, "no plan/design artifact produced")
	}
	if r.QualityScore < 0.70 {
		issues = append(issues, "quality score below 0.70 threshold")
	}
	return verdictFromIssues(issues, r.QualityScore*100)
}

func gate1Reviewer(r types.IntentResult) types.GateVerdict {
	switch {
	case r.QualityScore >= 0.80:
		return types.GateVerdict{Pass: true, Score: r.QualityScore * 100}
	case r.QualityScore >= 0.60:
		return types.GateVerdict{
			Pass:            true,
			Score:           r.QualityScore * 100 * 0.75,
			Recommendations: []string{"partial pass: quality below full-pass threshold of 0.80"},
		}
	default:
		return types.GateVerdict{
			Pass:   false,
			Score:  r.QualityScore * 100,
			Issues: []string{"quality score below 0.60 partial-pass floor"},
		}
	}
}

func hasDocArtifact(artifacts []string) bool {
	for _, a := range artifacts {
		lower := strings.ToLower(a)
		for _, suffix := range docSuffixes {
			if strings.HasSuffix(lower, suffix) {
				return true
			}
		}
	}
	return false
}

func hasPlanArtifact(artifacts []string) bool {
	for _, a := range artifacts {
		lower := strings.ToLower(a)
		for _, kw := range planKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func verdictFromIssues(issues []string, score float64) types.GateVerdict {
	return types.GateVerdict{
		Pass:   len(issues) == 0,
		Score:  score,
		Issues: issues,
	}
}
