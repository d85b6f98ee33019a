// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package types

// Status is the outcome of one Execution Backend attempt.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusInProgress Status = "in-progress"
)

// IntentResult is produced by the Execution Backend for one dispatch
// attempt of one Intent.
type IntentResult struct {
	IntentID      string
	Profile       Profile
	Agent         string
	Attempt       int
	Status        Status
	QualityScore  float64
	TestsPassed   bool
	CoverageDelta float64
	Artifacts     []string
	Error         string
}

// GateVerdict is the output of any gate evaluation (Gate 1, Gate 2, or
// Gate 3's sub-evaluations).
type GateVerdict struct {
	Pass            bool
	Score           float64
	Issues          []string
	Recommendations []string

	// The following are populated only by Gate 3 (final review).
	Verdict               FinalVerdict
	ProductionFitness     float64
	ArchitecturalCoherence float64
	DocumentationCoverage float64
}

// FinalVerdict is Gate 3's ship/revise/rethink label.
type FinalVerdict string

const (
	VerdictShip   FinalVerdict = "ship"
	VerdictRevise FinalVerdict = "revise"
	VerdictRethink FinalVerdict = "rethink"
)
