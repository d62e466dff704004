// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import "rsc.io/commonmark/ast"

// An Event is a value delivered to listeners by [Environment.Dispatch].
// Listeners select events by their dynamic type.
type Event any

// Stoppable is implemented by events whose delivery can be cut short.
type Stoppable interface {
	PropagationStopped() bool
}

// EventBase can be embedded in an event type to make it [Stoppable].
type EventBase struct {
	stopped bool
}

// StopPropagation keeps the event from reaching any further listeners.
func (b *EventBase) StopPropagation() {
	b.stopped = true
}

// PropagationStopped reports whether StopPropagation has been called.
func (b *EventBase) PropagationStopped() bool {
	return b.stopped
}

// A DocumentPreParsedEvent is dispatched before parsing.
// Listeners may rewrite Markdown.
type DocumentPreParsedEvent struct {
	EventBase
	Markdown string
}

// A DocumentParsedEvent is dispatched after parsing, before rendering.
// Listeners may edit Document in place.
type DocumentParsedEvent struct {
	EventBase
	Document *ast.Document
}

// A DocumentRenderedEvent is dispatched after rendering.
// Listeners may rewrite HTML.
type DocumentRenderedEvent struct {
	EventBase
	HTML string
}

// A Listener handles the events it matches.
type Listener interface {
	Matches(ev Event) bool
	Handle(ev Event)
}

// Listen returns a [Listener] calling f for every event of type E.
// E can be a concrete event type, such as *DocumentParsedEvent,
// or an interface matching several event types.
func Listen[E any](f func(E)) Listener {
	return listenFunc[E](f)
}

type listenFunc[E any] func(E)

func (f listenFunc[E]) Matches(ev Event) bool {
	_, ok := ev.(E)
	return ok
}

func (f listenFunc[E]) Handle(ev Event) {
	f(ev.(E))
}

// An EventDispatcher delivers events in place of an [Environment]'s
// own listeners; see [Environment.SetEventDispatcher].
type EventDispatcher interface {
	Dispatch(ev Event) Event
}
