// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package delim implements delimiter runs and their resolution into
// nested inline nodes.
//
// Emphasis, strong emphasis, smart quotes, and similar constructs are
// written as runs of identical marks (*, _, ", ~, ...) whose meaning
// depends on what they can be paired with. A parser records each run as a
// [*Run] in the flat inline stream; [Resolve] then pairs openers with
// closers, asking the [Processor] registered for each character how many
// marks to consume and what node to build.
package delim

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"rsc.io/commonmark/ast"
)

// tracer traces with key 'commonmark.delim'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark.delim")
}

// A Processor gives meaning to runs of one delimiter character.
type Processor interface {
	// OpeningChar and ClosingChar return the characters of opening
	// and closing runs. Most processors use the same character for both.
	OpeningChar() rune
	ClosingChar() rune

	// MinLength returns the minimum length a run must have,
	// on both sides, to be considered for pairing.
	MinLength() int

	// DelimiterUse returns how many marks to consume from each of
	// opener and closer, or 0 or less to decline the pairing.
	// The result is limited to the shorter of the two runs.
	// Declining must not depend on the opener having more marks left:
	// an opener that is declined stays declined as it shrinks.
	// Of the closer, the decision may only look at Char, Length, Orig,
	// and CanOpen: an opener declined for one closer is not offered
	// to later closers that agree on those.
	DelimiterUse(opener, closer *Run) int

	// Process returns the node wrapping inner, the inline content
	// strictly between opener and closer, after use marks were
	// consumed from each. A nil result keeps inner unwrapped.
	Process(opener, closer *Run, use int, inner ast.Inlines) ast.Inline
}

// A Flanker is a Processor with its own can-open/can-close rules.
// CanOpenClose receives the runes around the run and the run's
// left- and right-flanking status, as computed by [Flanking].
type Flanker interface {
	CanOpenClose(before, after rune, left, right bool) (canOpen, canClose bool)
}

// ErrDuplicate is returned when two processors claim the same character.
var ErrDuplicate = errors.New("delimiter character already registered")

// A DuplicateError reports a processor whose character is already claimed.
type DuplicateError struct {
	Char rune
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("delimiter processor for %q: %v", e.Char, ErrDuplicate)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// A Collection maps delimiter characters to their processors.
// The zero Collection is empty and ready to use.
type Collection struct {
	procs map[rune]Processor
}

// Add registers p for its opening and closing characters.
// If either character is already claimed, Add registers nothing
// and returns a [*DuplicateError].
func (c *Collection) Add(p Processor) error {
	opening, closing := p.OpeningChar(), p.ClosingChar()
	for _, ch := range []rune{opening, closing} {
		if _, ok := c.procs[ch]; ok {
			tracer().Errorf("delimiter %q already claimed by %T", ch, c.procs[ch])
			return &DuplicateError{Char: ch}
		}
	}
	if c.procs == nil {
		c.procs = make(map[rune]Processor)
	}
	c.procs[opening] = p
	c.procs[closing] = p
	tracer().Debugf("delimiter processor %T for %q/%q", p, opening, closing)
	return nil
}

// Get returns the processor for ch, or nil if there is none.
func (c *Collection) Get(ch rune) Processor {
	if c == nil {
		return nil
	}
	return c.procs[ch]
}

// Count returns the number of characters with a processor.
func (c *Collection) Count() int {
	if c == nil {
		return 0
	}
	return len(c.procs)
}

// Chars returns the claimed characters in increasing order.
func (c *Collection) Chars() []rune {
	if c == nil {
		return nil
	}
	chars := make([]rune, 0, len(c.procs))
	for ch := range c.procs {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}

// Scan returns the run of ch starting at s[start:],
// along with the index just past it.
// The run's flags are set from the surrounding text using [Flanking],
// or using p's own rules if p is a [Flanker].
// The caller has checked that s[start:] begins with ch.
func Scan(s string, start int, ch rune, p Processor) (r *Run, end int) {
	n := 0
	end = start
	for end < len(s) {
		c, size := utf8.DecodeRuneInString(s[end:])
		if c != ch {
			break
		}
		end += size
		n++
	}

	// The beginning and the end of the line count as whitespace.
	before, after := ' ', ' '
	if start > 0 {
		before, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		after, _ = utf8.DecodeRuneInString(s[end:])
	}
	left, right := Flanking(before, after)
	canOpen, canClose := left, right
	if f, ok := p.(Flanker); ok {
		canOpen, canClose = f.CanOpenClose(before, after, left, right)
	}
	return NewRun(ch, n, canOpen, canClose), end
}
