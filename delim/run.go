// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delim

import (
	"strings"
	"unicode"

	"rsc.io/commonmark/ast"
)

// KindRun is the kind of an unresolved [*Run] in an inline stream.
// Runs never survive [Resolve], so no renderer needs to handle it.
var KindRun = ast.NewKind("DelimiterRun", ast.KindInline)

// A Run is a maximal sequence of one delimiter character in the inline
// stream, such as the ** in **bold**. It exists only until [Resolve]
// replaces it by what it delimits or by its literal text.
type Run struct {
	Char     rune
	Length   int  // marks not yet consumed
	Orig     int  // length before any marks were consumed
	CanOpen  bool // run can open a pair
	CanClose bool // run can close a pair

	// Node, if not nil, stands for the run's leftover marks in the
	// resolved stream; Resolve sets its literal to the unconsumed marks.
	// If Node is nil, leftover marks become an *ast.Text.
	Node ast.Literal
}

// NewRun returns a run of n copies of ch.
func NewRun(ch rune, n int, canOpen, canClose bool) *Run {
	return &Run{Char: ch, Length: n, Orig: n, CanOpen: canOpen, CanClose: canClose}
}

func (*Run) Kind() ast.Kind { return KindRun }
func (*Run) Inline()        {}

// Text returns the run's unconsumed marks.
func (r *Run) Text() string {
	return strings.Repeat(string(r.Char), r.Length)
}

// literal returns the node holding the run's leftover marks.
func (r *Run) literal() ast.Inline {
	if r.Node == nil {
		return &ast.Text{Text: r.Text()}
	}
	r.Node.SetLiteral(r.Text())
	return r.Node
}

// Flanking reports whether a delimiter run between the runes before and
// after is left-flanking and right-flanking.
// The beginning and the end of the line count as whitespace:
// callers pass ' ' for them.
// See https://spec.commonmark.org/0.31.2/#left-flanking-delimiter-run.
func Flanking(before, after rune) (left, right bool) {
	// “A left-flanking delimiter run is a delimiter run that is
	// (1) not followed by Unicode whitespace, and either
	// (2a) not followed by a Unicode punctuation character, or
	// (2b) followed by a Unicode punctuation character
	// and preceded by Unicode whitespace or a Unicode punctuation character.”
	left = !IsSpace(after) &&
		(!IsPunct(after) || IsSpace(before) || IsPunct(before))

	// “A right-flanking delimiter run is a delimiter run that is
	// (1) not preceded by Unicode whitespace, and either
	// (2a) not preceded by a Unicode punctuation character, or
	// (2b) preceded by a Unicode punctuation character
	// and followed by Unicode whitespace or a Unicode punctuation character.”
	right = !IsSpace(before) &&
		(!IsPunct(before) || IsSpace(after) || IsPunct(after))
	return left, right
}

// IsSpace reports whether r is a Unicode space as defined by Markdown.
// This is not the same as unicode.IsSpace.
// For example, U+0085 does not satisfy IsSpace
// but does satisfy unicode.IsSpace.
func IsSpace(r rune) bool {
	if r < 0x80 {
		return r == ' ' || r == '\t' || r == '\f' || r == '\n' || r == '\r' || r == '\v'
	}
	return unicode.In(r, unicode.Zs)
}

// IsPunct reports whether r is Unicode punctuation as defined by Markdown.
// This is not the same as unicode.Punct; it also includes unicode.Symbol.
func IsPunct(r rune) bool {
	if r < 0x80 {
		return '!' <= r && r <= '/' || ':' <= r && r <= '@' || '[' <= r && r <= '`' || '{' <= r && r <= '~'
	}
	return unicode.In(r, unicode.Punct, unicode.Symbol)
}
