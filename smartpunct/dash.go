// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smartpunct

import (
	"strings"

	"rsc.io/commonmark"
	"rsc.io/commonmark/ast"
)

// A parserFunc adapts a function to the [commonmark.InlineParser] interface.
type parserFunc struct {
	trigger rune
	parse   func(c *commonmark.InlineContext) bool
}

func (p *parserFunc) Trigger() []rune                        { return []rune{p.trigger} }
func (p *parserFunc) Parse(c *commonmark.InlineContext) bool { return p.parse(c) }

var ellipsisParser = &parserFunc{'.', parseDot}

// parseDot rewrites "..." into "…".
func parseDot(c *commonmark.InlineContext) bool {
	if !strings.HasPrefix(c.Rest(), "...") {
		return false
	}
	c.Add(&ast.Text{Text: "…"}, c.Pos()+3)
	return true
}

var dashParser = &parserFunc{'-', parseDash}

// parseDash rewrites -- into – and --- into —.
func parseDash(c *commonmark.InlineContext) bool {
	s := c.Rest()
	if len(s) < 2 || s[1] != '-' {
		return false
	}
	n := 2
	for n < len(s) && s[n] == '-' {
		n++
	}

	// Obviously -- is – and --- is —,
	// but what about ----? -----? ------?
	// We blindly follow cmark-gfm's rules.
	em, en := 0, 0
	switch {
	case n%3 == 0:
		em = n / 3
	case n%2 == 0:
		en = n / 2
	case n%3 == 2:
		em = (n - 2) / 3
		en = 1
	case n%3 == 1:
		em = (n - 4) / 3
		en = 2
	}
	c.Add(&ast.Text{Text: strings.Repeat("—", em) + strings.Repeat("–", en)}, c.Pos()+n)
	return true
}
