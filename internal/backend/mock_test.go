// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentforge/pkg/types"
)

func TestMock_DefaultUsedWhenNothingQueued(t *testing.T) {
	m := NewMock()
	m.Default = func(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
		return types.IntentResult{IntentID: spec.Intent.ID, Status: types.StatusCompleted}, nil
	}

	result, err := m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "i1"}}, DispatchContext{})
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, result.Status)
}

func TestMock_NoScriptNoDefaultErrors(t *testing.T) {
	m := NewMock()
	_, err := m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "i1"}}, DispatchContext{})
	assert.Error(t, err)
}

func TestMock_ScriptedSequenceConsumedFIFO(t *testing.T) {
	m := NewMock()
	m.ScriptResult("i1", types.IntentResult{IntentID: "i1", Status: types.StatusFailed})
	m.ScriptResult("i1", types.IntentResult{IntentID: "i1", Status: types.StatusCompleted})

	first, err := m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "i1"}}, DispatchContext{})
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, first.Status)

	second, err := m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "i1"}}, DispatchContext{})
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, second.Status)
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	m.Default = func(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
		return types.IntentResult{}, nil
	}
	_, _ = m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "a"}}, DispatchContext{})
	_, _ = m.Execute(context.Background(), IntentSpec{Intent: types.Intent{ID: "b"}}, DispatchContext{})

	require.Len(t, m.Calls, 2)
	assert.Equal(t, "a", m.Calls[0].Intent.ID)
	assert.Equal(t, "b", m.Calls[1].Intent.ID)
}
