// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package backend defines the Execution Backend boundary: the core
// (graph, solver, router, gates, executor) knows nothing about how an
// Intent is actually carried out, only that some Backend can carry it
// out and hand back a types.IntentResult.
package backend

import (
	"context"

	"intentforge/pkg/types"
)

// IntentSpec is everything a Backend needs to attempt one dispatch of
// one Intent under one assigned Profile.
type IntentSpec struct {
	// Intent is the unit of work being dispatched.
	Intent types.Intent

	// Profile is the role the Profile Router assigned this intent.
	Profile types.Profile

	// Attempt is the 1-indexed retry counter; attempt 1 is the first try.
	Attempt int

	// Prompt is the fully-rendered prompt text for this dispatch,
	// already shaped for Profile by internal/prompts.
	Prompt string

	// PredecessorArtifacts are the artifact references produced by every
	// intent this one depends on, so the backend may forward context
	// downstream.
	PredecessorArtifacts []string
}

// DispatchContext carries the session-scoped facts a Backend may need
// but which are not part of the Intent itself.
type DispatchContext struct {
	// Agent is the concrete worker the Assignment Solver bound to this
	// intent.
	Agent types.Agent

	// WaveIndex is the zero-based wave this dispatch belongs to.
	WaveIndex int

	// SessionID groups every dispatch in one planning/execution run,
	// used by backends that multiplex sessions (e.g. opencode).
	SessionID string
}

// Backend executes one Intent dispatch and reports the outcome. Execute
// must not mutate spec.Intent or block past ctx's deadline/cancellation.
// Backends report failures as data in the returned types.IntentResult
// (Status, Error) wherever possible; a non-nil error return is reserved
// for transport-level failures the caller could not have anticipated
// from the intent's content (backend unreachable, context canceled).
type Backend interface {
	Execute(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error)
}
