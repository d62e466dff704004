// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"strings"

	"rsc.io/commonmark/ast"
)

// A paraBuilder collects the lines of an open paragraph.
type paraBuilder struct {
	start int      // line number of first line
	end   int      // line number of last line
	text  []string // each line of the paragraph
}

func (b *paraBuilder) build() *ast.Paragraph {
	// Join all the lines (leading framing already removed)
	// to produce the full string of the paragraph.
	// The inline parsers then see line endings as \n.
	return &ast.Paragraph{
		Position: ast.Position{StartLine: b.start, EndLine: b.end},
		Raw:      strings.Join(b.text, "\n"),
	}
}

// paragraphParser parses an [ast.Paragraph]: it claims any line
// no other block parser wanted, starting a paragraph or continuing
// the open one.
type paragraphParser struct{}

func (paragraphParser) Parse(c *BlockContext) bool {
	if isBlankLine(c.Line()) {
		return false
	}
	text := trimLeftSpaceTab(c.Line())
	if c.para == nil {
		c.para = &paraBuilder{start: c.lineno}
	}
	c.para.end = c.lineno
	c.para.text = append(c.para.text, text)
	return true
}
