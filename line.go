// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

// A cursor walks a single input line for a block parser.
// Blocks here never nest, so a cursor only needs to know
// the byte offset and the column, for tab stops.
type cursor struct {
	text string
	pos  int
	col  int
}

func newCursor(text string) cursor {
	return cursor{text: text}
}

// indent skips the leading spaces and tabs of the line,
// expanding tabs to 4-column stops, and reports whether
// they span at most max columns.
// On failure the cursor is unchanged.
func (c *cursor) indent(max int) bool {
	t := *c
	t.skipBlank()
	if t.col > max {
		return false
	}
	*c = t
	return true
}

// skipBlank skips spaces and tabs and reports
// how many columns they span.
func (c *cursor) skipBlank() int {
	start := c.col
	for c.pos < len(c.text) {
		switch c.text[c.pos] {
		case ' ':
			c.col++
		case '\t':
			c.col += 4 - c.col&3
		default:
			return c.col - start
		}
		c.pos++
	}
	return c.col - start
}

// peek returns the next byte, or 0 at the end of the line.
func (c *cursor) peek() byte {
	if c.pos >= len(c.text) {
		return 0
	}
	return c.text[c.pos]
}

// accept consumes b if it is the next byte.
func (c *cursor) accept(b byte) bool {
	if c.peek() != b || b == 0 {
		return false
	}
	c.pos++
	c.col++
	return true
}

// acceptRun consumes up to max copies of b and reports how many it took.
// max < 0 means no limit.
func (c *cursor) acceptRun(b byte, max int) int {
	n := 0
	for n != max && c.accept(b) {
		n++
	}
	return n
}

func (c *cursor) eol() bool {
	return c.pos >= len(c.text)
}

func (c *cursor) rest() string {
	return c.text[c.pos:]
}

// isBlankLine reports whether s holds only spaces and tabs.
func isBlankLine(s string) bool {
	return trimSpaceTab(s) == ""
}

func trimRightSpaceTab(s string) string {
	j := len(s)
	for j > 0 && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[:j]
}

func trimLeftSpaceTab(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// trimSpaceTab trims spaces and tabs from both ends of s.
func trimSpaceTab(s string) string {
	return trimRightSpaceTab(trimLeftSpaceTab(s))
}
