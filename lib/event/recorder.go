// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package event

// Recorder is a listener that appends every event to a slice. Tests
// subscribe one and assert on the recorded sequence.
type Recorder struct {
	Events []Event
}

// NewRecorder returns a Recorder already subscribed to bus.
func NewRecorder(bus *Bus) *Recorder {
	r := &Recorder{}
	bus.Subscribe(func(e Event) {
		r.Events = append(r.Events, e)
	})
	return r
}

// OfType returns the recorded events of type E, in order.
func OfType[E Event](r *Recorder) []E {
	var out []E
	for _, e := range r.Events {
		if v, ok := e.(E); ok {
			out = append(out, v)
		}
	}
	return out
}
