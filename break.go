// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import "rsc.io/commonmark/ast"

// thematicBreakParser parses an [ast.ThematicBreak].
type thematicBreakParser struct{}

func (thematicBreakParser) Parse(c *BlockContext) bool {
	if !isThematicBreak(c.Line()) {
		return false
	}
	pos := ast.Position{StartLine: c.LineNumber(), EndLine: c.LineNumber()}
	c.Add(&ast.ThematicBreak{Position: pos, Raw: c.Line()})
	return true
}

// isThematicBreak reports whether s is three or more matching
// -, _, or * characters, indented at most 3 columns,
// with only spaces and tabs between and after them.
// See https://spec.commonmark.org/0.31.2/#thematic-breaks.
func isThematicBreak(s string) bool {
	t := newCursor(s)
	if !t.indent(3) {
		return false
	}
	b := t.peek()
	if b != '-' && b != '_' && b != '*' {
		return false
	}
	n := 0
	for !t.eol() {
		if !t.accept(b) {
			return false
		}
		n++
		t.skipBlank()
	}
	return n >= 3
}
