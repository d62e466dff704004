// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plist implements a list of items ordered by priority.
package plist

import "sort"

// A List holds items with integer priorities.
// Items iterates in order of decreasing priority;
// items with equal priority keep the order in which they were added.
// The zero List is empty and ready to use.
type List[T any] struct {
	entries []entry[T]
	sorted  []T // cached result of Items; nil after Add
}

type entry[T any] struct {
	item T
	prio int
}

// Add adds item to the list with the given priority.
func (l *List[T]) Add(item T, prio int) {
	l.entries = append(l.entries, entry[T]{item, prio})
	l.sorted = nil
}

// Len returns the number of items in the list.
func (l *List[T]) Len() int {
	return len(l.entries)
}

// Items returns the items in priority order.
// Until the next call to Add, repeated calls return the same slice,
// which callers must not modify.
func (l *List[T]) Items() []T {
	if l.sorted != nil || len(l.entries) == 0 {
		return l.sorted
	}
	es := make([]entry[T], len(l.entries))
	copy(es, l.entries)
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].prio > es[j].prio
	})
	l.sorted = make([]T, len(es))
	for i, e := range es {
		l.sorted[i] = e.item
	}
	return l.sorted
}
