// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package executor

import (
	"time"

	"intentforge/pkg/types"
)

// EventType is one of the eight progress event kinds a session emits.
type EventType string

const (
	EventWaveStarted        EventType = "wave_started"
	EventWaveCompleted      EventType = "wave_completed"
	EventIntentStarted      EventType = "intent_started"
	EventIntentCompleted    EventType = "intent_completed"
	EventIntentRetried      EventType = "intent_retried"
	EventIntentEscalated    EventType = "intent_escalated"
	EventIntentHumanReview  EventType = "intent_human_review"
	EventExecutionCompleted EventType = "execution_completed"
)

// Event is the single payload shape carrying every event type's fields;
// only the fields relevant to Type are populated.
type Event struct {
	Type EventType

	Wave        int
	IntentCount int

	IntentID string
	Profile  types.Profile
	Model    string
	Attempt  int

	Status   types.Status
	Score    float64
	Duration time.Duration

	Reason    string
	FromModel string
	ToModel   string

	Attempts  int
	LastError string

	Verdict     types.FinalVerdict
	Passed      int
	Failed      int
	HumanReview int
}

// Sink receives events. Implementations must not block the emitter for
// long; a slow sink only delays further event delivery, never dispatches.
type Sink func(Event)

// emitter drains a single buffered channel from one goroutine, the
// "single logical stream" the executor's callers observe events
// through regardless of how many dispatch goroutines produced them.
type emitter struct {
	ch   chan Event
	sink Sink
	done chan struct{}
}

func newEmitter(sink Sink, buffer int) *emitter {
	if sink == nil {
		sink = func(Event) {}
	}
	e := &emitter{
		ch:   make(chan Event, buffer),
		sink: sink,
		done: make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *emitter) run() {
	defer close(e.done)
	for ev := range e.ch {
		e.sink(ev)
	}
}

func (e *emitter) emit(ev Event) {
	e.ch <- ev
}

func (e *emitter) close() {
	close(e.ch)
	<-e.done
}
