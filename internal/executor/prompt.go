// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package executor

import (
	"fmt"
	"strings"

	"intentforge/internal/prompts"
	"intentforge/pkg/types"
)

const resultTrailerInstructions = `
## Required Result Trailer

End your response with exactly these four lines so the result can be
machine-parsed:

QUALITY_SCORE: <float 0-1>
TESTS_PASSED: <true|false>
COVERAGE_DELTA: <float, 0 if not applicable>
ARTIFACTS: <comma-separated list of file paths or references produced>
`

// renderPrompt shapes one dispatch's prompt text from the intent's
// routed profile, using the review builders for the reviewer profile
// and the implementation builder (by request type) for every other
// profile.
func renderPrompt(intent types.Intent, profile types.Profile, attempt int, predecessorArtifacts []string, priorError string) string {
	if profile == types.ProfileReviewer {
		return renderReviewPrompt(intent, predecessorArtifacts)
	}
	return renderImplementationPrompt(intent, profile, attempt, predecessorArtifacts, priorError)
}

func renderImplementationPrompt(intent types.Intent, profile types.Profile, attempt int, predecessorArtifacts []string, priorError string) string {
	desc := fmt.Sprintf("Intent %s (%s profile, %s complexity). Tags: %s", intent.ID, profile, intent.Complexity, strings.Join(intent.Tags, ", "))

	b := prompts.NewImplementationBuilder(desc)
	switch {
	case attempt == 1:
		b.WithRequestType(prompts.RequestTypeInitial)
	case priorError != "":
		b.WithRequestType(prompts.RequestTypeDebug).WithTestFailures(priorError)
	default:
		b.WithRequestType(prompts.RequestTypeRefinement).
			WithReviewFeedback("the previous attempt did not clear the quality gate; tighten the implementation")
	}
	if len(predecessorArtifacts) > 0 {
		b.WithContext("Predecessor artifacts", strings.Join(predecessorArtifacts, ", "))
	}
	return b.Build() + resultTrailerInstructions
}

func renderReviewPrompt(intent types.Intent, predecessorArtifacts []string) string {
	reviewType := prompts.ReviewTypeFunctional
	for _, tag := range intent.Tags {
		switch strings.ToLower(tag) {
		case "architecture", "design":
			reviewType = prompts.ReviewTypeArchitecture
		case "testing", "test":
			reviewType = prompts.ReviewTypeTesting
		}
	}

	request := prompts.NewReviewRequest(reviewType, intent.ID, strings.Join(intent.Tags, ", "))
	content := strings.Join(predecessorArtifacts, "\n")
	if content == "" {
		content = "(no predecessor artifacts; review the intent's own stated scope)"
	}
	request.CodeContext = prompts.CodeContext{FileContent: content, Language: "go"}

	var builder prompts.PromptBuilder
	switch reviewType {
	case prompts.ReviewTypeArchitecture:
		builder = prompts.NewArchitectureReviewBuilder()
	case prompts.ReviewTypeTesting:
		builder = prompts.NewTestingReviewBuilder()
	default:
		builder = prompts.NewFunctionalReviewBuilder()
	}

	text, err := builder.Build(request)
	if err != nil {
		text = fmt.Sprintf("review request for %s could not be built: %v", intent.ID, err)
	}
	return text + resultTrailerInstructions
}
