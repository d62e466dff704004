// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/delim"
)

// An emphasisProcessor is the [delim.Processor] for * or _,
// which build [ast.Emph] and [ast.Strong].
// See https://spec.commonmark.org/0.31.2/#emphasis-and-strong-emphasis.
type emphasisProcessor struct {
	configured
	char rune
}

func (p *emphasisProcessor) OpeningChar() rune { return p.char }
func (p *emphasisProcessor) ClosingChar() rune { return p.char }
func (p *emphasisProcessor) MinLength() int    { return 1 }

func (p *emphasisProcessor) DelimiterUse(opener, closer *delim.Run) int {
	// “If one of the delimiters can both open and close emphasis,
	// then the sum of the lengths of the delimiter runs containing
	// the opening and closing delimiters must not be a multiple of 3
	// unless both lengths are multiples of 3.”
	if (opener.CanClose || closer.CanOpen) && closer.Orig%3 != 0 && (opener.Orig+closer.Orig)%3 == 0 {
		return 0
	}
	if opener.Length >= 2 && closer.Length >= 2 && p.cfg.Bool("commonmark.enable_strong", true) {
		return 2
	}
	if p.cfg.Bool("commonmark.enable_em", true) {
		return 1
	}
	return 0
}

func (p *emphasisProcessor) Process(opener, closer *delim.Run, use int, inner ast.Inlines) ast.Inline {
	if use == 2 {
		return &ast.Strong{Marker: string([]rune{p.char, p.char}), Inner: inner}
	}
	return &ast.Emph{Marker: string(p.char), Inner: inner}
}

// CanOpenClose implements [delim.Flanker]: _ does not open or close
// emphasis inside a word.
func (p *emphasisProcessor) CanOpenClose(before, after rune, left, right bool) (canOpen, canClose bool) {
	if p.char != '_' {
		return left, right
	}

	// “A single _ character can open emphasis iff
	// it is part of a left-flanking delimiter run and either
	// (a) not part of a right-flanking delimiter run or
	// (b) part of a right-flanking delimiter run preceded by a Unicode punctuation character.”
	canOpen = left && (!right || delim.IsPunct(before))

	// “A single _ character can close emphasis iff
	// it is part of a right-flanking delimiter run and either
	// (a) not part of a left-flanking delimiter run or
	// (b) part of a left-flanking delimiter run followed by a Unicode punctuation character.”
	canClose = right && (!left || delim.IsPunct(after))
	return canOpen, canClose
}
