// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResultSignal_AllFieldsPresent(t *testing.T) {
	text := "Implementation complete.\nQUALITY_SCORE: 0.87\nTESTS_PASSED: true\nCOVERAGE_DELTA: 0.12\nARTIFACTS: internal/foo.go, internal/foo_test.go\n"
	sig := parseResultSignal(text)

	assert.InDelta(t, 0.87, sig.qualityScore, 1e-9)
	assert.True(t, sig.testsPassed)
	assert.InDelta(t, 0.12, sig.coverageDelta, 1e-9)
	assert.Equal(t, []string{"internal/foo.go", "internal/foo_test.go"}, sig.artifacts)
}

func TestParseResultSignal_MissingMarkersDefaultsToNeutral(t *testing.T) {
	sig := parseResultSignal("no markers here")
	assert.InDelta(t, 0.5, sig.qualityScore, 1e-9)
	assert.False(t, sig.testsPassed)
	assert.Empty(t, sig.artifacts)
}

func TestParseResultSignal_TestsPassedFalse(t *testing.T) {
	sig := parseResultSignal("TESTS_PASSED: false\nQUALITY_SCORE: 0.3")
	assert.False(t, sig.testsPassed)
	assert.InDelta(t, 0.3, sig.qualityScore, 1e-9)
}
