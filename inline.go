// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"fmt"
	"unicode/utf8"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
	"rsc.io/commonmark/delim"
)

// Parsing Inlines
//
// The inline engine walks over the text of a block looking for characters
// that trigger an inline parser, such as ` or * or [. Each registered
// parser for that character gets a chance, in priority order, to claim
// the text starting there; the first to claim it adds one or more nodes
// and moves the scan past what it consumed. Text between claimed spans
// is added as plain text (type ast.Text).
//
// Leaf inlines such as escapes, code spans, and line breaks are converted
// immediately. Delimiter characters (* and _, as well as the extension
// characters such as ~ ' and ") become *delim.Run nodes in the flat list,
// and link brackets become bracket nodes waiting for their closing ].
//
// The matching proceeds in two phases: brackets first, then delimiters.
// This is because links and images take priority over emphasis:
// "this *nice [link*](/emph)" contains a link but no emphasis:
// the * outside the link brackets cannot match the * inside.
// When a ] closes a link, the delimiter runs between the brackets are
// resolved on their own to form the link text. The runs left at the
// end of the block are resolved last, by [delim.Resolve].
//
// Link text can contain images, but not links:
//
//	[link [foo](img.jpg)](/)  ⇒
//	[link <a href="img.jpg">foo</a>](/)
//
// Straightforward implementations of parts of this are accidentally
// quadratic. The code span parser and the delimiter resolution both
// take care to avoid that.

// An InlineParser recognizes an inline construct.
type InlineParser interface {
	// Trigger returns the characters that may begin the construct.
	// The parser is only tried at those characters.
	Trigger() []rune

	// Parse tries to parse the construct at the current position of ctx.
	// If it recognizes one, it adds the resulting nodes with ctx.Add,
	// which also advances the position, and returns true.
	// Otherwise it returns false without changing ctx.
	Parse(ctx *InlineContext) bool
}

// An InlineContext is the state of the inline engine for one block.
type InlineContext struct {
	env *Environment
	s   string
	off int // current position in s

	list    ast.Inlines // parse stack
	emitted int         // s[:emitted] has been added to list in some form

	opens            []int // indexes of unmatched brackets in list
	ignoreLinkBefore int   // ignore link openings before this offset in s

	spans *codeSpanScanner // created on first backtick
	html  htmlScanner

	runes   []rune // s decoded, on first call to Runes
	runeOff int    // byte offset in s of runes[runeIdx]
	runeIdx int
}

// Source returns the text being parsed.
func (c *InlineContext) Source() string { return c.s }

// Pos returns the current offset in Source.
func (c *InlineContext) Pos() int { return c.off }

// Rest returns the text from the current position on.
func (c *InlineContext) Rest() string { return c.s[c.off:] }

// Char returns the character at the current position.
func (c *InlineContext) Char() rune {
	r, _ := utf8.DecodeRuneInString(c.s[c.off:])
	return r
}

// Before returns the character before the current position,
// or ' ' at the start of the text.
func (c *InlineContext) Before() rune {
	if c.off == 0 {
		return ' '
	}
	r, _ := utf8.DecodeLastRuneInString(c.s[:c.off])
	return r
}

// Runes returns Source as runes, along with the index
// of the rune at the current position.
// The text is decoded once per block, so parsers that match
// rune-based patterns stay linear in the size of the block.
func (c *InlineContext) Runes() (text []rune, pos int) {
	if c.runes == nil {
		c.runes = []rune(c.s)
	}
	if c.off < c.runeOff {
		c.runeOff, c.runeIdx = 0, 0
	}
	c.runeIdx += utf8.RuneCountInString(c.s[c.runeOff:c.off])
	c.runeOff = c.off
	return c.runes, c.runeIdx
}

// Config returns the configuration.
func (c *InlineContext) Config() config.Reader {
	return c.env.Config()
}

// Processor returns the delimiter processor for ch, or nil.
func (c *InlineContext) Processor(ch rune) delim.Processor {
	return c.env.DelimiterProcessors().Get(ch)
}

// Add adds x to the inline list as the node for the text from the
// current position up to end, and moves the position to end.
// A parser may call Add several times, with increasing end.
func (c *InlineContext) Add(x ast.Inline, end int) {
	if end < c.off || end > len(c.s) {
		panic(fmt.Sprintf("commonmark: InlineContext.Add: end %d out of range [%d, %d]", end, c.off, len(c.s)))
	}
	c.emit(c.off)
	if _, ok := x.(*bracket); ok {
		c.opens = append(c.opens, len(c.list))
	}
	c.list = append(c.list, x)
	c.skip(end)
	c.off = end
}

// emit adds c.s[c.emitted:i] as plain text and then sets c.emitted = i.
// (c.emitted keeps track of the place in the text that has been added
// to the list in some form already.)
func (c *InlineContext) emit(i int) {
	if c.emitted < i {
		c.list = append(c.list, &ast.Text{Text: c.s[c.emitted:i]})
		c.emitted = i
	}
}

// skip sets c.emitted = i.
func (c *InlineContext) skip(i int) {
	c.emitted = i
}

// inline parses s into a list of inlines.
func (e *Environment) inline(s string) ast.Inlines {
	s = trimSpaceTab(s)
	c := &InlineContext{env: e, s: s}

	for c.off < len(s) {
		ch, size := utf8.DecodeRuneInString(s[c.off:])
		off := c.off
		claimed := false
		for _, p := range e.InlineParsersFor(ch) {
			if p.Parse(c) {
				if c.off <= off {
					panic(fmt.Sprintf("commonmark: inline parser %T claimed %q without advancing", p, ch))
				}
				claimed = true
				break
			}
		}
		if !claimed {
			c.off += size
		}
	}

	// Emit remainder of text.
	c.emit(len(s))

	// Brackets that never closed are plain text.
	for _, i := range c.opens {
		c.list[i] = c.list[i].(*bracket).text()
	}
	c.opens = nil

	return delim.Resolve(c.list, e.DelimiterProcessors())
}

// A bracket is an opening [ or ![ that has not yet been matched
// to a closing ]. It only exists on the parse stack.
type bracket struct {
	ast.Text
	pos int // position in text where bracket is
}

func (b *bracket) image() bool { return b.Text.Text == "![" }

func (b *bracket) text() *ast.Text { return &ast.Text{Text: b.Text.Text} }

// A parserFunc adapts a function to the [InlineParser] interface.
type parserFunc struct {
	trigger []rune
	parse   func(c *InlineContext) bool
}

func (p *parserFunc) Trigger() []rune              { return p.trigger }
func (p *parserFunc) Parse(c *InlineContext) bool { return p.parse(c) }

// escapeParser parses an [ast.Escaped] or [ast.HardBreak].
var escapeParser = &parserFunc{[]rune{'\\'}, parseEscape}

func parseEscape(c *InlineContext) bool {
	s, start := c.s, c.off
	if start+1 < len(s) {
		ch := s[start+1]
		end := start + 2
		if isPunct(ch) {
			c.Add(&ast.Escaped{Text: ast.Text{Text: s[start+1 : end]}}, end)
			return true
		}
		if ch == '\n' {
			c.Add(&ast.HardBreak{}, end)
			return true
		}
	}
	return false
}

// breakParser parses an [ast.SoftBreak] or [ast.HardBreak].
var breakParser = &parserFunc{[]rune{'\n'}, parseBreak}

func parseBreak(c *InlineContext) bool {
	s, start := c.s, c.off

	// Back up to remove trailing spaces and tabs.
	i := start
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	if i < start {
		// Add would emit the spaces and tabs as text;
		// emit up to them ourselves and skip them.
		c.emit(i)
		c.skip(start)
	}

	end := start + 1
	for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
		end++
	}
	if start >= 2 && s[start-1] == ' ' && s[start-2] == ' ' {
		c.Add(&ast.HardBreak{}, end)
		return true
	}
	c.Add(&ast.SoftBreak{}, end)
	return true
}

// A delimiterParser turns runs of delimiter characters into
// *delim.Run nodes for [delim.Resolve].
// The environment adds one, at the lowest priority,
// when it has any delimiter processors.
type delimiterParser struct {
	procs *delim.Collection
}

func (p *delimiterParser) Trigger() []rune {
	return p.procs.Chars()
}

func (p *delimiterParser) Parse(c *InlineContext) bool {
	ch := c.Char()
	proc := p.procs.Get(ch)
	if proc == nil {
		return false
	}
	r, end := delim.Scan(c.s, c.off, ch, proc)
	c.Add(r, end)
	return true
}
