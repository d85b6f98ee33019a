// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"intentforge/pkg/types"
)

// tokensPerStoryPoint converts an intent's Complexity.StoryPoints()
// estimate into an EstimatedTokens figure for the cost model.
const tokensPerStoryPoint = 400

// defaultQualityFloor gives each complexity tier a sensible minimum
// agent quality when plan text carries no explicit floor of its own.
var defaultQualityFloor = map[types.Complexity]float64{
	types.Trivial:     0.3,
	types.Simple:      0.45,
	types.Moderate:    0.6,
	types.Complex:     0.7,
	types.VeryComplex: 0.8,
	types.Epic:        0.85,
}

// IntentBuilder turns ParsedIntents into []types.Intent, assigning
// random IDs under one project prefix and resolving DependsOn indices
// into Depends ID references.
type IntentBuilder struct {
	projectPrefix string
}

// NewIntentBuilder creates a builder that prefixes every generated
// intent ID with projectPrefix.
func NewIntentBuilder(projectPrefix string) *IntentBuilder {
	return &IntentBuilder{projectPrefix: projectPrefix}
}

// GenerateIntentID returns the project prefix plus four random hex digits
// from crypto/rand. IDs are not checked against ones already issued, so
// two calls can return the same ID.
func (b *IntentBuilder) GenerateIntentID() string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%s", b.projectPrefix, hex.EncodeToString(buf))
}

// Build converts parsed intents into []types.Intent, one pass assigning
// IDs then a second resolving DependsOn indices against them, so an index
// may point at a later entry; out-of-range and self indices are skipped.
// The plan-text parser records only dependencies on tasks it has already
// seen, so a "depends on" reference to a later task never reaches Build.
func (b *IntentBuilder) Build(parsed []ParsedIntent) ([]types.Intent, error) {
	ids := make([]string, len(parsed))
	for i := range parsed {
		ids[i] = b.GenerateIntentID()
	}

	intents := make([]types.Intent, 0, len(parsed))
	for i, p := range parsed {
		complexity := priorityComplexity(p.Priority)

		var depends []string
		for _, idx := range p.DependsOn {
			if idx < 0 || idx >= len(ids) || idx == i {
				continue
			}
			depends = append(depends, ids[idx])
		}

		intents = append(intents, types.Intent{
			ID:              ids[i],
			Complexity:      complexity,
			QualityFloor:    defaultQualityFloor[complexity],
			EstimatedTokens: complexity.StoryPoints() * tokensPerStoryPoint,
			Depends:         depends,
			Tags:            routingTags(p.Title, p.Description),
		})
	}

	return intents, nil
}

// routingTags lowercases and word-splits a title and description into
// the keyword tags internal/router's rule table matches against, so
// plan text like "Review auth endpoint" routes to the reviewer profile
// without the author tagging anything by hand.
func routingTags(fields ...string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, field := range fields {
		for _, word := range strings.FieldsFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
		}) {
			word = strings.ToLower(word)
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			tags = append(tags, word)
		}
	}
	return tags
}
