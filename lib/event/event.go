// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package event carries compilation lifecycle notifications from the
// core to external listeners (progress reporting, dependency tracking,
// diff generation). The bus is an injected value — there is no
// process-wide notification singleton. Listeners run synchronously in
// subscription order on the emitting goroutine, so per-goroutine event
// order is exactly emission order.
package event

import (
	"github.com/dv/nanoc/lib/item"
)

// Event is one lifecycle notification. The concrete types below are
// the full set; listeners switch on them.
type Event interface {
	event()
}

// FilteringStarted fires immediately before a filter runs against a
// representation. Every FilteringStarted is paired with a
// FilteringEnded on the same goroutine, even when the filter fails.
type FilteringStarted struct {
	Item   item.Identifier
	Rep    string
	Filter string
}

// FilteringEnded fires after a filter run finishes, on every exit
// path including errors.
type FilteringEnded struct {
	Item   item.Identifier
	Rep    string
	Filter string
}

// ProcessingStarted fires when layout processing begins. Paired with
// ProcessingEnded like the filtering events.
type ProcessingStarted struct {
	Layout item.Identifier
}

// ProcessingEnded fires when layout processing finishes, on every
// exit path.
type ProcessingEnded struct {
	Layout item.Identifier
}

// VisitStarted marks the beginning of a read of another object's
// identity or content. The dependency tracker turns a
// VisitStarted/VisitEnded pair into an edge from the currently
// compiling item to Target.
type VisitStarted struct {
	Target item.Identifier
}

// VisitEnded closes a VisitStarted pair.
type VisitEnded struct {
	Target item.Identifier
}

// RepWritten fires after the writer has decided what to do with an
// output path. Created means the path did not exist before; Modified
// means bytes were written (false for the identical-content no-op,
// which leaves the file and its mtime untouched).
type RepWritten struct {
	Item     item.Identifier
	Rep      string
	Path     string
	Created  bool
	Modified bool
}

func (FilteringStarted) event()  {}
func (FilteringEnded) event()    {}
func (ProcessingStarted) event() {}
func (ProcessingEnded) event()   {}
func (VisitStarted) event()      {}
func (VisitEnded) event()        {}
func (RepWritten) event()        {}

// Listener receives events. Listeners must not block; anything
// long-running belongs on the listener's own goroutine.
type Listener func(Event)

// Bus fans events out to subscribed listeners in subscription order.
// A nil *Bus is valid and drops all events, so components can take a
// bus unconditionally.
//
// Subscribe is not safe to call concurrently with Emit; wire up all
// listeners before compilation starts.
type Bus struct {
	listeners []Listener
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe appends a listener.
func (b *Bus) Subscribe(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Emit delivers e to every listener, synchronously, in order.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	for _, l := range b.listeners {
		l(e)
	}
}
