// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package backend

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sst/opencode-sdk-go"
	"github.com/sst/opencode-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"intentforge/internal/telemetry"
	"intentforge/pkg/types"
)

// OpenCode dispatches Intents to a running `opencode serve` instance
// over the vendor SDK, one session per intent dispatch.
type OpenCode struct {
	sdk     *opencode.Client
	baseURL string
	port    int
}

var _ Backend = (*OpenCode)(nil)

// NewOpenCode configures a Backend against a specific local opencode
// server instance.
func NewOpenCode(baseURL string, port int) *OpenCode {
	return &OpenCode{
		sdk:     opencode.NewClient(option.WithBaseURL(baseURL)),
		baseURL: baseURL,
		port:    port,
	}
}

// Execute sends spec.Prompt as a new session prompt and translates the
// SDK's response into a types.IntentResult.
func (o *OpenCode) Execute(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
	attrs := append(telemetry.IntentAttrs(spec.Intent.ID, string(spec.Profile), dctx.WaveIndex),
		attribute.String("opencode.base_url", o.baseURL),
		attribute.Int("opencode.port", o.port),
		attribute.String("agent.name", dctx.Agent.Name),
		attribute.Int("attempt", spec.Attempt),
	)
	ctx, span := telemetry.StartSpan(ctx, "backend.opencode", "Execute", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()

	session, err := o.sdk.Session.New(ctx, opencode.SessionNewParams{
		Title: opencode.F(fmt.Sprintf("%s/%s#%d", spec.Intent.ID, spec.Profile, spec.Attempt)),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create session")
		return types.IntentResult{}, fmt.Errorf("opencode: create session: %w", err)
	}

	telemetry.AddEvent(ctx, "session.created", attribute.String("session_id", session.ID))

	promptParams := opencode.SessionPromptParams{
		Parts: opencode.F([]opencode.SessionPromptParamsPartUnion{
			opencode.TextPartInputParam{
				Type: opencode.F(opencode.TextPartInputTypeText),
				Text: opencode.F(spec.Prompt),
			},
		}),
		Agent: opencode.F(string(spec.Profile)),
	}

	message, err := o.sdk.Session.Prompt(ctx, session.ID, promptParams)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send prompt")
		telemetry.AddEvent(ctx, "prompt.failed", telemetry.ErrorAttrs(err)...)
		return types.IntentResult{
			IntentID: spec.Intent.ID,
			Profile:  spec.Profile,
			Agent:    dctx.Agent.Name,
			Attempt:  spec.Attempt,
			Status:   types.StatusFailed,
			Error:    err.Error(),
		}, nil
	}

	text := joinText(message)
	signal := parseResultSignal(text)

	result := types.IntentResult{
		IntentID:      spec.Intent.ID,
		Profile:       spec.Profile,
		Agent:         dctx.Agent.Name,
		Attempt:       spec.Attempt,
		Status:        types.StatusCompleted,
		QualityScore:  signal.qualityScore,
		TestsPassed:   signal.testsPassed,
		CoverageDelta: signal.coverageDelta,
		Artifacts:     signal.artifacts,
	}

	span.SetAttributes(
		attribute.String("opencode.session_id", session.ID),
		attribute.Float64("result.quality_score", result.QualityScore),
		attribute.Bool("result.tests_passed", result.TestsPassed),
		attribute.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	span.SetStatus(codes.Ok, "dispatch completed")

	return result, nil
}

func joinText(message *opencode.SessionPromptResponse) string {
	var sb strings.Builder
	for _, part := range message.Parts {
		if part.Type == opencode.PartTypeText {
			sb.WriteString(part.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type resultSignal struct {
	qualityScore  float64
	testsPassed   bool
	coverageDelta float64
	artifacts     []string
}

var (
	qualityScoreRe  = regexp.MustCompile(`(?i)QUALITY_SCORE:\s*([0-9.]+)`)
	testsPassedRe   = regexp.MustCompile(`(?i)TESTS_PASSED:\s*(true|false)`)
	coverageDeltaRe = regexp.MustCompile(`(?i)COVERAGE_DELTA:\s*(-?[0-9.]+)`)
	artifactsRe     = regexp.MustCompile(`(?i)ARTIFACTS:\s*(.+)`)
)

// parseResultSignal extracts the structured trailer every profile
// prompt asks the agent to emit, the same convention as the teacher's
// "VOTE: [APPROVE|REQUEST_CHANGE|REJECT]" trailer.
func parseResultSignal(text string) resultSignal {
	sig := resultSignal{qualityScore: 0.5}

	if m := qualityScoreRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.qualityScore = v
		}
	}
	if m := testsPassedRe.FindStringSubmatch(text); m != nil {
		sig.testsPassed = strings.EqualFold(m[1], "true")
	}
	if m := coverageDeltaRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.coverageDelta = v
		}
	}
	if m := artifactsRe.FindStringSubmatch(text); m != nil {
		for _, a := range strings.Split(m[1], ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				sig.artifacts = append(sig.artifacts, a)
			}
		}
	}

	return sig
}
