// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package planner turns freeform plan text — a numbered list, bullet
// list, or "## Task N:" headers, optionally annotated with [P0]-[P5]
// priority and "(depends on: ...)" — into the []types.Intent a
// planbuilder.Build call needs. This is the convenience path; a caller
// that already has structured intents (e.g. a JSON file) should build
// []types.Intent directly and skip this package entirely.
package planner

import "intentforge/pkg/types"

// ParsedIntent is one intent as lifted from plan text, before IDs are
// assigned and dependency indices are resolved into Depends references.
type ParsedIntent struct {
	Title       string
	Description string
	// Priority is the annotated [P0]-[P5] tag, defaulting to 3
	// (Moderate) when absent. Lower numbers are more urgent/complex,
	// matching the teacher's bd-issue priority convention.
	Priority int
	// DependsOn holds indices into the parsed slice, resolved from a
	// "(depends on: N, M)" annotation referencing earlier task numbers.
	DependsOn []int
}

// priorityComplexity maps the six-valued [P0]-[P5] annotation onto the
// Complexity tiers, P0 being the most complex/urgent.
func priorityComplexity(priority int) types.Complexity {
	switch priority {
	case 0:
		return types.Epic
	case 1:
		return types.VeryComplex
	case 2:
		return types.Complex
	case 3:
		return types.Moderate
	case 4:
		return types.Simple
	default:
		return types.Trivial
	}
}
