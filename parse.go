// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"strings"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
)

/*

Markdown Parsing.

The parser reads the input one line at a time. For each line that is not
blank, the block parsers are tried in priority order; the first one that
claims the line handles it, either by adding a finished block to the
document or by extending the open paragraph. A blank line ends the open
paragraph. The paragraph parser, at the lowest priority, claims any line
the others leave, so paragraph text can be interrupted by any block that
starts with a recognizable line (a heading or a thematic break), while a
setext underline turns the open paragraph into a heading.

Once the block structure is known, the text of every [ast.TextBlock] is
handed to the inline engine; see “Parsing Inlines” in inline.go.

Container blocks (lists, block quotes) and leaf blocks such as code
blocks and HTML blocks are not recognized: their lines end up as
paragraph text.

*/

// A BlockParser recognizes a block starting at the current line.
type BlockParser interface {
	// Parse tries to parse the current line of ctx.
	// If it recognizes the line, it records the result
	// (usually by calling ctx.Add) and returns true.
	// Otherwise it returns false without changing ctx.
	Parse(ctx *BlockContext) bool
}

// A BlockContext is the state of the block parser.
type BlockContext struct {
	env    *Environment
	doc    *ast.Document
	text   string
	lineno int
	para   *paraBuilder // open paragraph, if any
}

// Line returns the current line, without its line ending.
func (c *BlockContext) Line() string { return c.text }

// LineNumber returns the 1-based number of the current line.
func (c *BlockContext) LineNumber() int { return c.lineno }

// Config returns the configuration.
func (c *BlockContext) Config() config.Reader { return c.env.Config() }

// Add closes any open paragraph and then adds b to the document.
func (c *BlockContext) Add(b ast.Block) {
	c.closeParagraph()
	c.doc.Blocks = append(c.doc.Blocks, b)
}

// InParagraph reports whether there is an open paragraph.
func (c *BlockContext) InParagraph() bool {
	return c.para != nil
}

// TakeParagraph closes the open paragraph and returns it,
// without adding it to the document.
// It returns nil if there is no open paragraph.
func (c *BlockContext) TakeParagraph() *ast.Paragraph {
	if c.para == nil {
		return nil
	}
	p := c.para.build()
	c.para = nil
	return p
}

func (c *BlockContext) closeParagraph() {
	if p := c.TakeParagraph(); p != nil {
		c.doc.Blocks = append(c.doc.Blocks, p)
	}
}

// parse parses the block structure of text
// and then the inlines of every text block.
func (e *Environment) parse(text string) *ast.Document {
	doc := new(ast.Document)
	c := &BlockContext{env: e, doc: doc}
	parsers := e.BlockParsers()

	for text != "" {
		var ln string
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			ln, text = text, ""
		} else {
			ln = text[:i]
			if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			text = text[i+1:]
		}
		c.lineno++
		c.text = ln

		if isBlankLine(ln) {
			c.closeParagraph()
			continue
		}
		claimed := false
		for _, p := range parsers {
			if p.Parse(c) {
				claimed = true
				break
			}
		}
		if !claimed {
			tracer().Debugf("line %d not claimed by any block parser", c.lineno)
			c.closeParagraph()
		}
	}
	c.closeParagraph()
	doc.Position = ast.Position{StartLine: 1, EndLine: c.lineno}

	for _, b := range doc.Blocks {
		if tb, ok := b.(ast.TextBlock); ok {
			tb.SetInline(e.inline(tb.RawText()))
		}
	}
	return doc
}
