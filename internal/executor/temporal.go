// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package executor

import (
	"context"
	"sort"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"intentforge/internal/backend"
	"intentforge/internal/gates"
	"intentforge/pkg/types"
)

// Durable dispatch tuning, grounded on the teacher's pkg/dag/engine.go
// constants.
const (
	DispatchStartToCloseTimeout = 10 * time.Minute
	DispatchHeartbeatTimeout    = 30 * time.Second
	DispatchRetryBackoff        = 2.0

	// HumanReviewSignalName is the signal an operator sends to resolve an
	// intent that exhausted its retry ladder, the per-intent counterpart
	// to the teacher's whole-workflow "FixApplied" signal.
	HumanReviewSignalName = "HumanReviewResolved"
)

// HumanReviewResolution is the payload an operator sends on
// HumanReviewSignalName to unblock one stuck intent.
type HumanReviewResolution struct {
	IntentID string
	Accept   bool // true overrides Gate 1 to a pass; false leaves it failed
}

// DispatchActivities wraps a concrete Backend so Temporal can invoke it
// as a durable, retried activity. The backend itself is constructed by
// the worker process at startup and never crosses the wire.
type DispatchActivities struct {
	Backend backend.Backend
}

// ExecuteIntent is the one activity the durable workflow calls: a
// straight pass-through to the configured Backend, heartbeating so a
// long-running dispatch isn't mistaken for a stuck worker.
func (a *DispatchActivities) ExecuteIntent(ctx context.Context, spec backend.IntentSpec, dctx backend.DispatchContext) (types.IntentResult, error) {
	activity.RecordHeartbeat(ctx, "dispatching")
	return a.Backend.Execute(ctx, spec, dctx)
}

// WorkflowInput is the durable workflow's entry payload: everything the
// in-process Executor would otherwise read from its bound Graph,
// Registry, and Assignment, flattened into plain serializable data.
type WorkflowInput struct {
	Plan       types.Plan
	Intents    map[string]types.Intent
	Agents     map[string]types.Agent
	Assignment types.Assignment
	Cfg        Config
}

// intentProgress tracks one intent's durable dispatch state across the
// wave's selector loop.
type intentProgress struct {
	attempt        int
	agentName      string
	priorErr       string
	future         workflow.Future
	awaitingReview bool
	done           bool
	result         types.IntentResult
	score          float64
}

// IntentDAGWorkflow is the durable counterpart to Executor.Run, grounded
// on the teacher's Engine.Run/TddDagWorkflow: one wave at a time, one
// activity future per runnable intent, a selector draining completions,
// and — in place of the teacher's whole-DAG "wait for FixApplied" pause
// — a per-intent wait on HumanReviewSignalName once an intent exhausts
// its retry ladder.
func IntentDAGWorkflow(ctx workflow.Context, input WorkflowInput) (ExecutionResult, error) {
	logger := workflow.GetLogger(ctx)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: DispatchStartToCloseTimeout,
		HeartbeatTimeout:    DispatchHeartbeatTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			BackoffCoefficient: DispatchRetryBackoff,
			MaximumInterval:    DispatchHeartbeatTimeout,
			MaximumAttempts:    1, // the wave loop owns the retry/escalation ladder, not Temporal's
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	assignment := make(types.Assignment, len(input.Assignment))
	for id, agent := range input.Assignment {
		assignment[id] = agent
	}

	var allResults []types.IntentResult
	var waveOutcomes []WaveOutcome
	passed, failedAttempts, humanReview := 0, 0, 0
	partial := false

	for _, wave := range input.Plan.Waves {
		logger.Info("starting wave", "wave", wave.Wave, "intents", len(wave.Intents))

		progress := make(map[string]*intentProgress, len(wave.Intents))
		for _, ip := range wave.Intents {
			progress[ip.ID] = &intentProgress{attempt: 1, agentName: assignment[ip.ID]}
		}

		results := make([]types.IntentResult, 0, len(wave.Intents))
		scores := make([]float64, 0, len(wave.Intents))

		reviewCh := workflow.GetSignalChannel(ctx, HumanReviewSignalName)

		remaining := len(wave.Intents)
		for remaining > 0 {
			// Schedule every intent in this wave that has no in-flight
			// future and isn't waiting on an operator (first attempt, or
			// a retry/escalation queued by the previous selector round).
			for _, ip := range wave.Intents {
				p := progress[ip.ID]
				if p.done || p.future != nil || p.awaitingReview {
					continue
				}
				p.future = dispatchIntentFuture(ctx, input, wave.Wave, ip, p)
			}

			selector := workflow.NewSelector(ctx)
			for _, ip := range wave.Intents {
				ip := ip
				p := progress[ip.ID]
				if p.done || p.future == nil {
					continue
				}
				selector.AddFuture(p.future, func(f workflow.Future) {
					var result types.IntentResult
					if err := f.Get(ctx, &result); err != nil {
						result = types.IntentResult{IntentID: ip.ID, Profile: ip.Profile, Status: types.StatusFailed, Error: err.Error()}
					}
					p.future = nil

					verdict := gates.Gate1(result, ip.Profile)
					if verdict.Pass {
						p.done, p.result, p.score = true, result, verdict.Score
						passed++
						remaining--
						return
					}

					failedAttempts++
					p.priorErr = result.Error

					rec := gates.Recommend(p.attempt, input.Cfg.MaxRetries)
					switch rec {
					case gates.RecommendEscalate:
						if next, ok := nextHigherQualityAgentDurable(input, ip, p.agentName); ok {
							p.agentName = next
						}
						p.attempt++
					case gates.RecommendRetrySameAgent:
						p.attempt++
					default:
						logger.Info("awaiting human review", "intent_id", ip.ID)
						p.awaitingReview = true
						p.result, p.score = result, verdict.Score
					}
				})
			}

			anyAwaitingReview := false
			for _, ip := range wave.Intents {
				if progress[ip.ID].awaitingReview {
					anyAwaitingReview = true
					break
				}
			}
			if anyAwaitingReview {
				selector.AddReceive(reviewCh, func(c workflow.ReceiveChannel, more bool) {
					var resolution HumanReviewResolution
					c.Receive(ctx, &resolution)
					p, ok := progress[resolution.IntentID]
					if !ok || !p.awaitingReview {
						return
					}
					p.awaitingReview, p.done = false, true
					if resolution.Accept {
						p.result.Status = types.StatusCompleted
						p.result.TestsPassed = true
					}
					humanReview++
					remaining--
				})
			}

			selector.Select(ctx)
		}

		for _, ip := range wave.Intents {
			p := progress[ip.ID]
			results = append(results, p.result)
			scores = append(scores, p.score)
		}
		allResults = append(allResults, results...)

		gate2 := gates.Gate2(results, scores, input.Cfg.MinWaveQuality)
		waveOutcomes = append(waveOutcomes, WaveOutcome{Wave: wave.Wave, Gate2: gate2})

		if !gate2.Pass && input.Cfg.StrictWaveGate {
			partial = true
			break
		}
	}

	gate3 := gates.Gate3(allResults)
	if len(allResults) < input.Plan.TotalIntents {
		partial = true
	}

	return ExecutionResult{
		Passed:         passed,
		FailedAttempts: failedAttempts,
		HumanReview:    humanReview,
		Partial:        partial,
		Waves:          waveOutcomes,
		IntentResults:  allResults,
		Gate3:          gate3,
	}, nil
}

func dispatchIntentFuture(ctx workflow.Context, input WorkflowInput, wave int, ip types.IntentPlan, p *intentProgress) workflow.Future {
	intent := input.Intents[ip.ID]
	agent := input.Agents[p.agentName]

	var predecessors []string
	for _, dep := range intent.Depends {
		predecessors = append(predecessors, dep)
	}

	spec := backend.IntentSpec{
		Intent:               intent,
		Profile:              ip.Profile,
		Attempt:              p.attempt,
		Prompt:               renderPrompt(intent, ip.Profile, p.attempt, predecessors, p.priorErr),
		PredecessorArtifacts: predecessors,
	}
	dctx := backend.DispatchContext{Agent: agent, WaveIndex: wave}

	var activities *DispatchActivities
	return workflow.ExecuteActivity(ctx, activities.ExecuteIntent, spec, dctx)
}

// nextHigherQualityAgentDurable mirrors Executor.nextHigherQualityAgent,
// iterating agent names in sorted order so the choice stays deterministic
// across workflow replays.
func nextHigherQualityAgentDurable(input WorkflowInput, ip types.IntentPlan, currentName string) (string, bool) {
	current := input.Agents[currentName]
	intent := input.Intents[ip.ID]

	names := make([]string, 0, len(input.Agents))
	for name := range input.Agents {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestQuality := 0.0
	for _, name := range names {
		a := input.Agents[name]
		if !a.Covers(intent.Complexity) || !a.MeetsFloor(intent.QualityFloor) {
			continue
		}
		if a.Quality > current.Quality && (best == "" || a.Quality < bestQuality) {
			best, bestQuality = name, a.Quality
		}
	}
	return best, best != ""
}
