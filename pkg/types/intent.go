// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package types

// Intent is a unit of work routed onto an Agent. Intents are immutable
// once handed to the core: the Intent Graph, Profile Router, Cost Model,
// and Wave Executor never mutate an Intent's fields, only the state
// tracked alongside it.
type Intent struct {
	// ID is the stable identifier for this intent, unique within a
	// planning session.
	ID string

	// Complexity is the tier used for capability matching and critical
	// path ordering.
	Complexity Complexity

	// QualityFloor is the minimum agent quality (in [0,1]) required to
	// serve this intent.
	QualityFloor float64

	// EstimatedTokens is the positive token estimate used by the Cost
	// Model's token-cost term and the critical path's duration estimate.
	EstimatedTokens int

	// Deadline is an optional timestep. It applies only when HasDeadline
	// is set; without it the intent is unbounded.
	Deadline int
	// HasDeadline distinguishes an explicit deadline of 0 from "none".
	HasDeadline bool

	// Depends lists the IDs of intents that must complete before this
	// one may be dispatched.
	Depends []string

	// Tags are free-form keywords consumed by the Profile Router.
	Tags []string

	// Stage is an optional pipeline-stage label (e.g. "backend", "qa").
	Stage string
}

// StoryPoints derives the point estimate from the intent's complexity.
func (i Intent) StoryPoints() int {
	return i.Complexity.StoryPoints()
}

// Agent is a worker capable of serving Intents. Agents are built once at
// session start from a static configuration and are immutable for the
// session's duration.
type Agent struct {
	// Name is the stable, unique identifier for this agent.
	Name string

	// ModelFamily tags which model family this agent wraps (used by the
	// Agent Profile's allowed-model-family list).
	ModelFamily string

	// Quality is the agent's quality score in [0,1].
	Quality float64

	// TokenRate is the cost per token; zero marks a local/free agent.
	TokenRate float64

	// Capabilities is the set of complexity tiers this agent may serve.
	Capabilities map[Complexity]bool

	// Capacity is the maximum number of concurrent intents this agent
	// may be assigned.
	Capacity int

	// Latency is a non-negative tie-breaking cost term.
	Latency float64

	// IsLocal marks a local/free agent (TokenRate should be zero too,
	// but the flag is kept distinct since a local agent could still
	// carry a nonzero notional rate for budget accounting).
	IsLocal bool

	// Throughput is a fixed tokens/second constant used by the Plan
	// Builder's critical-path duration estimate. Zero means "unknown";
	// callers should fall back to a default.
	Throughput float64
}

// Covers reports whether this agent may serve the given complexity tier.
func (a Agent) Covers(c Complexity) bool {
	return a.Capabilities[c]
}

// MeetsFloor reports whether this agent's quality satisfies floor.
func (a Agent) MeetsFloor(floor float64) bool {
	return a.Quality >= floor
}
