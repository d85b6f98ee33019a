// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package backend

import (
	"context"
	"fmt"
	"sync"

	"intentforge/pkg/types"
)

// ExecuteFunc is a scriptable stand-in for one Backend.Execute call,
// the same function-value-as-fake idiom the teacher used for its
// AgentSpawnerFunc.
type ExecuteFunc func(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error)

// Mock is an in-memory Backend for executor unit tests. Responses are
// queued per intent ID with Script, or a default fallback is used for
// intents with no queued response.
type Mock struct {
	mu       sync.Mutex
	queued   map[string][]ExecuteFunc
	Default  ExecuteFunc
	Calls    []IntentSpec
}

var _ Backend = (*Mock)(nil)

// NewMock builds an empty Mock backend; every dispatch fails until a
// response is queued via Script or Default is set.
func NewMock() *Mock {
	return &Mock{queued: make(map[string][]ExecuteFunc)}
}

// Script queues fn as the response for the next Execute call against
// intentID. Multiple calls queue a sequence, consumed FIFO — useful for
// asserting retry/escalation behavior (first attempt fails, second
// succeeds).
func (m *Mock) Script(intentID string, fn ExecuteFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued[intentID] = append(m.queued[intentID], fn)
}

// ScriptResult is a convenience wrapper over Script for the common case
// of a fixed result with no error.
func (m *Mock) ScriptResult(intentID string, result types.IntentResult) {
	m.Script(intentID, func(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
		return result, nil
	})
}

func (m *Mock) Execute(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, spec)
	var fn ExecuteFunc
	if queue := m.queued[spec.Intent.ID]; len(queue) > 0 {
		fn = queue[0]
		m.queued[spec.Intent.ID] = queue[1:]
	} else {
		fn = m.Default
	}
	m.mu.Unlock()

	if fn == nil {
		return types.IntentResult{}, fmt.Errorf("mock backend: no scripted response for intent %q", spec.Intent.ID)
	}
	return fn(ctx, spec, dctx)
}
