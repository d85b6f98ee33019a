// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package registry holds the Agent pool for a planning session. Agents
// are built once at session start from a static configuration and are
// immutable for the session's duration — there is no Update or Remove
// here, unlike a live-membership registry.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"intentforge/pkg/types"
)

// DuplicateAgentError names an agent name registered more than once.
type DuplicateAgentError struct {
	Name string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("duplicate agent name %q", e.Name)
}

// Registry is the immutable, session-scoped Agent pool.
type Registry struct {
	agents map[string]types.Agent
	names  []string // sorted, for deterministic iteration
}

// New builds a Registry from a static agent list. It returns a
// DuplicateAgentError if the same agent name appears twice.
func New(agents []types.Agent) (*Registry, error) {
	r := &Registry{agents: make(map[string]types.Agent, len(agents))}

	for _, a := range agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent name is required")
		}
		if _, exists := r.agents[a.Name]; exists {
			return nil, &DuplicateAgentError{Name: a.Name}
		}
		r.agents[a.Name] = a
		r.names = append(r.names, a.Name)
	}
	sort.Strings(r.names)

	slog.Info("agent registry built",
		"count", len(r.agents),
		"local_count", r.countLocal())

	return r, nil
}

func (r *Registry) countLocal() int {
	n := 0
	for _, a := range r.agents {
		if a.IsLocal {
			n++
		}
	}
	return n
}

// Get retrieves an agent by name.
func (r *Registry) Get(name string) (types.Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// All returns every registered agent, sorted by name.
func (r *Registry) All() []types.Agent {
	out := make([]types.Agent, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.agents[name])
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.names)
}

// Capable returns every agent, sorted by name, that covers the given
// complexity tier and meets the given quality floor — the candidate set
// the Assignment Solver considers for one intent.
func (r *Registry) Capable(c types.Complexity, qualityFloor float64) []types.Agent {
	var out []types.Agent
	for _, name := range r.names {
		a := r.agents[name]
		if a.Covers(c) && a.MeetsFloor(qualityFloor) {
			out = append(out, a)
		}
	}
	return out
}
