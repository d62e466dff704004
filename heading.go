// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"strings"

	"rsc.io/commonmark/ast"
)

// atxHeadingParser parses an ATX [ast.Heading], like "## Heading".
//
// See https://spec.commonmark.org/0.31.2/#atx-headings.
type atxHeadingParser struct{}

func (atxHeadingParser) Parse(c *BlockContext) bool {
	level, text, ok := atxHeading(c.Line())
	if !ok {
		return false
	}
	pos := ast.Position{StartLine: c.LineNumber(), EndLine: c.LineNumber()}
	c.Add(&ast.Heading{Position: pos, Level: level, Raw: text})
	return true
}

// setextHeadingParser parses a setext [ast.Heading], which is an
// underlined paragraph of text. The paragraph has been parsed already;
// setextHeadingParser looks for the underline.
//
// See https://spec.commonmark.org/0.31.2/#setext-headings.
type setextHeadingParser struct{}

func (setextHeadingParser) Parse(c *BlockContext) bool {
	if !c.InParagraph() {
		return false
	}
	level, ok := setextUnderline(c.Line())
	if !ok {
		return false
	}
	para := c.TakeParagraph()
	pos := ast.Position{StartLine: para.StartLine, EndLine: c.LineNumber()}
	c.Add(&ast.Heading{Position: pos, Level: level, Raw: para.Raw})
	return true
}

// atxHeading reports whether s opens with 1-6 #s,
// indented at most 3 columns and followed by a space, a tab,
// or the end of the line.
// If so, it returns the level and the heading text,
// with any closing sequence of #s removed.
func atxHeading(s string) (level int, text string, ok bool) {
	t := newCursor(s)
	if !t.indent(3) {
		return 0, "", false
	}
	level = t.acceptRun('#', 7)
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if !t.eol() && t.skipBlank() == 0 {
		return 0, "", false
	}
	text = trimRightSpaceTab(t.rest())

	// A closing sequence must be preceded by a space or tab,
	// unless it is all there is.
	if inner := strings.TrimRight(text, "#"); inner == "" || inner != trimRightSpaceTab(inner) {
		text = inner
	}
	return level, trimSpaceTab(text), true
}

// setextUnderline reports whether s is a setext heading underline:
// a run of = (level 1) or - (level 2), indented at most 3 columns
// and followed only by spaces and tabs.
func setextUnderline(s string) (level int, ok bool) {
	t := newCursor(s)
	if !t.indent(3) {
		return 0, false
	}
	switch t.peek() {
	case '=':
		level = 1
	case '-':
		level = 2
	default:
		return 0, false
	}
	t.acceptRun(t.peek(), -1)
	t.skipBlank()
	return level, t.eol()
}
