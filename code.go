// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"strings"

	"rsc.io/commonmark/ast"
)

// maxBackticks is the longest backtick string that can open a code span,
// the same limit cmark-gfm uses. Longer strings are literal text.
const maxBackticks = 80

// A codeSpanScanner finds the closing backtick strings of code spans
// in one block of text.
//
// A naive scan is O(n√n) on inputs like
//
//	` `` ``` ```` ````` `````` ``````` ````````
//
// because every failed scan runs to the end of the text.
// The first failed scan therefore records, for each length n,
// the offset of the last backtick string of length n.
// After that, a span opened at or after that offset has no closer
// and needs no scan at all.
type codeSpanScanner struct {
	lastRun [maxBackticks]int // lastRun[n-1] is the offset of the last run of n backticks
	indexed bool              // lastRun has been filled in
}

// codeSpanParser parses an [ast.Code].
var codeSpanParser = &parserFunc{[]rune{'`'}, parseCodeSpan}

func parseCodeSpan(c *InlineContext) bool {
	if c.spans == nil {
		c.spans = new(codeSpanScanner)
	}
	x, end := c.spans.scan(c.s, c.off)
	c.Add(x, end)
	return true
}

// scan parses the code span opened by the backtick string at s[start:].
// Without a matching closer, the whole opening string is literal text:
// ``x` is not a backtick followed by a code span.
func (b *codeSpanScanner) scan(s string, start int) (x ast.Inline, end int) {
	n := runLen(s, start, '`')
	open := start + n
	if n > maxBackticks || b.indexed && b.lastRun[n-1] < open {
		return &ast.Text{Text: s[start:open]}, open
	}

	for i := open; i < len(s); {
		j := strings.IndexByte(s[i:], '`')
		if j < 0 {
			break
		}
		i += j
		m := runLen(s, i, '`')
		if !b.indexed && m <= maxBackticks {
			b.lastRun[m-1] = i
		}
		if m == n {
			return &ast.Code{Text: codeText(s[open:i])}, i + m
		}
		i += m
	}
	b.indexed = true
	return &ast.Text{Text: s[start:open]}, open
}

// codeText normalizes the content of a code span:
// line endings become spaces, and one space is stripped from
// each end if both ends have one and the content is not all spaces.
func codeText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "" {
		text = text[1 : len(text)-1]
	}
	return text
}

// runLen returns the number of consecutive copies of c at s[i:].
func runLen(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}
