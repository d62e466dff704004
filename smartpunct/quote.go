// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smartpunct

import (
	"bytes"
	"html"
	"unicode/utf8"

	"rsc.io/commonmark"
	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/delim"
)

// Node kinds.
var (
	KindQuote  = ast.NewKind("Quote", ast.KindText)
	KindQuoted = ast.NewKind("Quoted", ast.KindInline)
)

// A Quote is a straight quote that was not paired.
// After parsing, Text holds the curly mark it was rewritten to.
type Quote struct {
	ast.Text
	CanClose bool // the quote was in a position to close a pair
}

func (*Quote) Kind() ast.Kind { return KindQuote }

// A Quoted is text between paired quotes.
type Quoted struct {
	Double bool // "text" rather than 'text'
	Inner  ast.Inlines
}

func (*Quoted) Kind() ast.Kind           { return KindQuoted }
func (*Quoted) Inline()                  {}
func (x *Quoted) Children() *ast.Inlines { return &x.Inner }

// quoteParser turns each ' or " into a one-mark delimiter run.
// Unlike emphasis marks, quotes do not form longer runs:
// in "'a'" the " and ' pair separately.
type quoteParser struct{}

func (quoteParser) Trigger() []rune { return []rune{'\'', '"'} }

func (quoteParser) Parse(c *commonmark.InlineContext) bool {
	ch := c.Char()
	before, after := c.Before(), ' '
	if rest := c.Rest(); len(rest) > 1 {
		after, _ = utf8.DecodeRuneInString(rest[1:])
	}
	left, right := delim.Flanking(before, after)

	// A quote right after a link or a parenthesized phrase does not open,
	// as in [a]'s or (a)'s.
	canOpen := left && !right && before != ']' && before != ')'
	canClose := right

	r := delim.NewRun(ch, 1, canOpen, canClose)
	r.Node = &Quote{CanClose: canClose}
	c.Add(r, c.Pos()+1)
	return true
}

// A quoteProcessor pairs quotes of one kind.
type quoteProcessor struct {
	char rune
}

func (p quoteProcessor) OpeningChar() rune                          { return p.char }
func (p quoteProcessor) ClosingChar() rune                          { return p.char }
func (p quoteProcessor) MinLength() int                             { return 1 }
func (p quoteProcessor) DelimiterUse(opener, closer *delim.Run) int { return 1 }

func (p quoteProcessor) Process(opener, closer *delim.Run, use int, inner ast.Inlines) ast.Inline {
	return &Quoted{Double: p.char == '"', Inner: inner}
}

// quotedRenderer renders a [Quoted] between curly quotes.
type quotedRenderer struct {
	m *marks
}

func (r quotedRenderer) Render(buf *bytes.Buffer, n ast.Node, c commonmark.ChildRenderer) error {
	q, ok := n.(*Quoted)
	if !ok {
		return &commonmark.NodeKindError{Node: n}
	}
	opening, closing := r.m.singleOpen, r.m.singleClose
	if q.Double {
		opening, closing = r.m.doubleOpen, r.m.doubleClose
	}
	buf.WriteString(html.EscapeString(opening))
	if err := c.RenderInlines(buf, q.Inner); err != nil {
		return err
	}
	buf.WriteString(html.EscapeString(closing))
	return nil
}
