// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package router maps an Intent to one of the seven closed Agent
// Profiles from its tags and complexity. The rule table is precompiled
// at package init into a priority-ordered slice; routing is pure,
// side-effect-free, and evaluated first-match-wins.
package router

import (
	"strings"

	"intentforge/pkg/types"
)

// rule is one priority-ordered entry in the table.
type rule struct {
	match   func(types.Intent) bool
	profile types.Profile
}

var table []rule

func init() {
	reviewer := keywordSet("verify", "review")
	bugInvestigator := keywordSet("reproduce", "diagnose", "fix", "hotfix", "root-cause")
	unitTesterKeywords := keywordSet("test", "testing", "unit", "integration", "regression")
	testEngineerKeywords := keywordSet("test", "testing", "integration", "regression")
	docWriter := keywordSet("docs", "document", "api-docs", "user-guide")
	plannerKeywords := keywordSet("analysis", "analyze", "requirements", "research", "design")

	table = []rule{
		{
			match:   func(i types.Intent) bool { return hasAny(i.Tags, reviewer) },
			profile: types.ProfileReviewer,
		},
		{
			match:   func(i types.Intent) bool { return hasAny(i.Tags, bugInvestigator) },
			profile: types.ProfileBugInvestigator,
		},
		{
			match: func(i types.Intent) bool {
				return hasAny(i.Tags, unitTesterKeywords) && (i.Complexity == types.Trivial || i.Complexity == types.Simple)
			},
			profile: types.ProfileUnitTester,
		},
		{
			match:   func(i types.Intent) bool { return hasAny(i.Tags, testEngineerKeywords) },
			profile: types.ProfileTestEngineer,
		},
		{
			match:   func(i types.Intent) bool { return hasAny(i.Tags, docWriter) },
			profile: types.ProfileDocWriter,
		},
		{
			match: func(i types.Intent) bool {
				return hasAny(i.Tags, plannerKeywords) || i.Complexity == types.Epic
			},
			profile: types.ProfilePlanner,
		},
	}
}

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Route returns the Profile assigned to i. Priority 7, "any other
// case," is implementer — the fallback when no earlier rule matches.
func Route(i types.Intent) types.Profile {
	for _, r := range table {
		if r.match(i) {
			return r.profile
		}
	}
	return types.ProfileImplementer
}

// hasAny reports whether any tag matches a keyword in set, either as
// the whole (lowercased) tag or one of its hyphen-split parts — the
// same "try the whole string, then its pieces" matching idiom used for
// path-segment matching elsewhere in this codebase, repurposed here
// from glob segments to keyword tokens.
func hasAny(tags []string, set map[string]bool) bool {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if set[lower] {
			return true
		}
		for _, part := range strings.Split(lower, "-") {
			if set[part] {
				return true
			}
		}
	}
	return false
}
