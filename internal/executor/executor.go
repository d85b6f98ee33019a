// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package executor runs a solved Plan against an Execution Backend: one
// wave at a time, every intent in a wave dispatched concurrently, Gate 1
// per attempt, the retry/escalation ladder on failure, Gate 2 per wave,
// and Gate 3 once the session ends. Grounded on the teacher's
// orchestration coordinator's wave-dispatch shape, generalized from
// task IDs to Intents and from a fixed five-gate chain to the three
// scored gates of internal/gates.
package executor

import (
	"context"
	"sort"
	"sync"
	"time"

	"intentforge/internal/backend"
	"intentforge/internal/gates"
	"intentforge/internal/intentgraph"
	"intentforge/internal/registry"
	"intentforge/internal/telemetry"
	"intentforge/pkg/types"
)

// Config is the executor's tunable surface, matching spec.md §6's
// configuration knobs that bear on execution (the cost-model knobs live
// in internal/costmodel instead).
type Config struct {
	// MaxWorkers bounds concurrent in-flight dispatches per wave.
	MaxWorkers int
	// MaxRetries caps the retry/escalation ladder per intent.
	MaxRetries int
	// MinWaveQuality is Gate 2's per-wave quality threshold.
	MinWaveQuality float64
	// StrictWaveGate, when true, aborts the session the first time a
	// wave fails Gate 2 instead of continuing to the next wave.
	StrictWaveGate bool
}

// DefaultConfig returns the spec's default configuration.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:     8,
		MaxRetries:     gates.DefaultMaxRetries,
		MinWaveQuality: gates.DefaultMinWaveQuality,
		StrictWaveGate: false,
	}
}

// WaveOutcome records one wave's Gate 2 verdict alongside its index.
type WaveOutcome struct {
	Wave  int
	Gate2 types.GateVerdict
}

// ExecutionResult is the structured, always-returned summary of a
// session: spec.md §7 requires this even for an aborted or cancelled
// run, never a bare error.
type ExecutionResult struct {
	Passed         int
	FailedAttempts int
	HumanReview    int
	Cancelled      bool
	Partial        bool
	Waves          []WaveOutcome
	IntentResults  []types.IntentResult
	Gate3          types.GateVerdict
	Error          string
}

// Executor binds a validated Intent Graph and Agent Registry to a
// concrete Assignment so that Run need only take the solved Plan and a
// Backend, per spec.md §4.7's contract.
type Executor struct {
	graph      *intentgraph.Graph
	reg        *registry.Registry
	assignment types.Assignment
	cfg        Config
}

// New builds an Executor for one planning session.
func New(g *intentgraph.Graph, reg *registry.Registry, assignment types.Assignment, cfg Config) *Executor {
	return &Executor{graph: g, reg: reg, assignment: assignment, cfg: cfg}
}

// Run executes every wave of plan in index order against back, emitting
// progress events to sink (which may be nil), and returns a complete
// ExecutionResult regardless of how the session ended.
func (e *Executor) Run(ctx context.Context, plan *types.Plan, back backend.Backend, sink Sink) ExecutionResult {
	em := newEmitter(sink, 64)
	defer em.close()

	state := newSessionState()
	var allResults []types.IntentResult
	var waveOutcomes []WaveOutcome
	cancelled := false
	partial := false

	for _, wave := range plan.Waves {
		if ctxDone(ctx) {
			cancelled = true
			partial = true
			break
		}

		em.emit(Event{Type: EventWaveStarted, Wave: wave.Wave, IntentCount: len(wave.Intents)})
		waveStart := time.Now()

		results, scores := e.runWave(ctx, back, wave, em, state)
		allResults = append(allResults, results...)

		gate2 := gates.Gate2(results, scores, e.cfg.MinWaveQuality)
		waveOutcomes = append(waveOutcomes, WaveOutcome{Wave: wave.Wave, Gate2: gate2})
		telemetry.AddEvent(ctx, "gate2.evaluated", telemetry.GateAttrs("gate2", gate2.Pass, gate2.Score)...)

		status := types.StatusCompleted
		if !gate2.Pass {
			status = types.StatusFailed
		}
		em.emit(Event{
			Type:     EventWaveCompleted,
			Wave:     wave.Wave,
			Status:   status,
			Score:    gate2.Score,
			Duration: time.Since(waveStart),
		})

		if !gate2.Pass && e.cfg.StrictWaveGate {
			partial = true
			break
		}
	}

	gate3 := gates.Gate3(allResults)
	if len(allResults) < plan.TotalIntents {
		partial = true
	}

	passed, failedAttempts, humanReview := state.snapshot()

	em.emit(Event{
		Type:        EventExecutionCompleted,
		Verdict:     gate3.Verdict,
		Passed:      passed,
		Failed:      failedAttempts,
		HumanReview: humanReview,
	})

	result := ExecutionResult{
		Passed:         passed,
		FailedAttempts: failedAttempts,
		HumanReview:    humanReview,
		Cancelled:      cancelled,
		Partial:        partial,
		Waves:          waveOutcomes,
		IntentResults:  allResults,
		Gate3:          gate3,
	}
	if cancelled {
		result.Error = "execution cancelled"
	}
	return result
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// runWave dispatches every intent in wave concurrently, bounded by
// cfg.MaxWorkers, mirroring the teacher's executeAgentWave semaphore +
// WaitGroup pattern.
func (e *Executor) runWave(ctx context.Context, back backend.Backend, wave types.WavePlan, em *emitter, state *sessionState) ([]types.IntentResult, []float64) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.cfg.MaxWorkers)

	var mu sync.Mutex
	results := make([]types.IntentResult, 0, len(wave.Intents))
	scores := make([]float64, 0, len(wave.Intents))

	for _, ip := range wave.Intents {
		wg.Add(1)
		go func(ip types.IntentPlan) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, score := e.runIntent(ctx, back, wave.Wave, ip, em, state)

			mu.Lock()
			results = append(results, result)
			scores = append(scores, score)
			mu.Unlock()
		}(ip)
	}

	wg.Wait()
	return results, scores
}

// runIntent drives one intent through its full attempt/retry/escalation
// ladder until it passes Gate 1 or is flagged for human review.
func (e *Executor) runIntent(ctx context.Context, back backend.Backend, wave int, ip types.IntentPlan, em *emitter, state *sessionState) (types.IntentResult, float64) {
	intent, _ := e.graph.Get(ip.ID)
	agentName := e.assignment[ip.ID]
	predecessors := state.predecessorArtifacts(intent.Depends)

	attempt := 1
	var priorError string

	for {
		agent, _ := e.reg.Get(agentName)

		em.emit(Event{
			Type:     EventIntentStarted,
			IntentID: ip.ID,
			Profile:  ip.Profile,
			Model:    agent.ModelFamily,
			Wave:     wave,
			Attempt:  attempt,
		})

		spec := backend.IntentSpec{
			Intent:               intent,
			Profile:              ip.Profile,
			Attempt:              attempt,
			Prompt:               renderPrompt(intent, ip.Profile, attempt, predecessors, priorError),
			PredecessorArtifacts: predecessors,
		}
		dctx := backend.DispatchContext{Agent: agent, WaveIndex: wave}

		result, err := back.Execute(ctx, spec, dctx)
		if err != nil {
			result = types.IntentResult{
				IntentID: ip.ID,
				Profile:  ip.Profile,
				Agent:    agent.Name,
				Attempt:  attempt,
				Status:   types.StatusFailed,
				Error:    err.Error(),
			}
		}

		verdict := gates.Gate1(result, ip.Profile)
		telemetry.AddEvent(ctx, "gate1.evaluated", telemetry.GateAttrs("gate1", verdict.Pass, verdict.Score)...)

		em.emit(Event{
			Type:     EventIntentCompleted,
			IntentID: ip.ID,
			Status:   result.Status,
			Score:    verdict.Score,
			Attempt:  attempt,
		})

		if verdict.Pass {
			state.recordPass(ip.ID, result.Artifacts)
			return result, verdict.Score
		}

		state.recordFailedAttempt()
		priorError = result.Error

		rec := gates.Recommend(attempt, e.cfg.MaxRetries)
		switch rec {
		case gates.RecommendRetrySameAgent:
			em.emit(Event{Type: EventIntentRetried, IntentID: ip.ID, Attempt: attempt + 1, Model: agent.ModelFamily, Reason: string(rec)})
		case gates.RecommendEscalate:
			if next, ok := e.nextHigherQualityAgent(intent, agent); ok {
				em.emit(Event{
					Type:      EventIntentEscalated,
					IntentID:  ip.ID,
					FromModel: agent.ModelFamily,
					ToModel:   next.ModelFamily,
					Attempt:   attempt + 1,
				})
				agentName = next.Name
			} else {
				em.emit(Event{Type: EventIntentRetried, IntentID: ip.ID, Attempt: attempt + 1, Model: agent.ModelFamily, Reason: "escalate_unavailable_retry_same"})
			}
		default: // gates.RecommendFlagForHuman
			em.emit(Event{Type: EventIntentHumanReview, IntentID: ip.ID, Attempts: attempt, LastError: result.Error})
			state.markHumanReview(ip.ID)
			return result, verdict.Score
		}

		attempt++
	}
}

// nextHigherQualityAgent returns the lowest-quality agent strictly
// above current's quality among agents still capable of serving intent,
// the "next rung up" of the escalation ladder.
func (e *Executor) nextHigherQualityAgent(intent types.Intent, current types.Agent) (types.Agent, bool) {
	candidates := e.reg.Capable(intent.Complexity, intent.QualityFloor)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Quality < candidates[j].Quality })

	for _, c := range candidates {
		if c.Quality > current.Quality {
			return c, true
		}
	}
	return types.Agent{}, false
}
