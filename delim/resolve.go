// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delim

import (
	"fmt"
	"strings"

	"rsc.io/commonmark/ast"
)

// An opener is a run on the opener stack.
type opener struct {
	run *Run
	pos int // index of run in dst
	seq int // push order, starting at 1
}

// A closerClass groups closers that can match exactly the same openers.
// Processors see a closer only through these fields.
// See the discussion of bottom in Resolve.
type closerClass struct {
	char    rune
	canOpen bool
	orig    int
	length  int
}

// Resolve pairs the delimiter runs in list and returns the resulting
// inline sequence, in which matched runs have been replaced by the nodes
// their processors build and unmatched marks remain as literal text.
// Adjacent *ast.Text nodes in the result are merged.
// Resolve may edit the runs in list.
//
// Runs are processed left to right. A run that can close looks down the
// stack of earlier runs that can open for the nearest one its processor
// accepts, consumes marks from both, and wraps everything between them.
// Openers above the match are discarded: nothing can pair across a
// resolved boundary. A closer with marks left tries again further down,
// so that *** can close both ** and *. Leftover marks that can open are
// pushed onto the stack; anything else becomes text.
//
// Resolve panics if a run in list has no marks.
func Resolve(list ast.Inlines, procs *Collection) ast.Inlines {
	dst := make(ast.Inlines, 0, len(list))
	var stack []opener
	seq := 0

	// A search that finds nothing proves every opener on the stack
	// unmatchable for closers of the same class. bottom[class] records the
	// seq of the topmost such opener, and later searches stop there.
	// Without it, a long line of unmatched openers followed by many
	// closers that cannot use them takes quadratic time.
	// Run lengths only shrink and flags never change, so an opener
	// below the bottom stays unmatchable.
	bottom := make(map[closerClass]int)

	for _, x := range list {
		r, ok := x.(*Run)
		if !ok {
			dst = append(dst, x)
			continue
		}
		if r.Length <= 0 {
			panic(fmt.Sprintf("delim: run of %q with length %d", r.Char, r.Length))
		}
		p := procs.Get(r.Char)
		if p == nil {
			dst = append(dst, r.literal())
			continue
		}

		if r.CanClose && r.Char == p.ClosingChar() {
			minLen := p.MinLength()
			for r.Length > 0 && r.Length >= minLen {
				class := closerClass{r.Char, r.CanOpen, r.Orig, r.Length}
				floor := bottom[class]
				found, use := -1, 0
				for i := len(stack) - 1; i >= 0 && stack[i].seq > floor; i-- {
					o := stack[i].run
					if o.Char != p.OpeningChar() || o.Length < minLen {
						continue
					}
					if u := p.DelimiterUse(o, r); u > 0 {
						found, use = i, u
						break
					}
				}
				if found < 0 {
					if len(stack) > 0 {
						bottom[class] = stack[len(stack)-1].seq
					}
					break
				}

				o := stack[found]
				use = min(use, o.run.Length, r.Length)
				o.run.Length -= use
				r.Length -= use

				// Wrap everything between opener and closer.
				// Openers above o on the stack are now inside the
				// wrapper and turn into text.
				inner := mergeText(materialize(append(ast.Inlines(nil), dst[o.pos+1:]...)))
				node := p.Process(o.run, r, use, inner)
				if o.run.Length == 0 {
					dst = dst[:o.pos]
					stack = stack[:found]
				} else {
					dst = dst[:o.pos+1]
					stack = stack[:found+1]
				}
				if node != nil {
					dst = append(dst, node)
				} else {
					dst = append(dst, inner...)
				}
			}
			if r.Length == 0 {
				continue
			}
		}

		if r.CanOpen && r.Char == p.OpeningChar() {
			seq++
			stack = append(stack, opener{r, len(dst), seq})
			dst = append(dst, r)
			continue
		}
		dst = append(dst, r.literal())
	}

	return mergeText(materialize(dst))
}

// materialize replaces the runs in list by their literal text.
func materialize(list ast.Inlines) ast.Inlines {
	for i, x := range list {
		if r, ok := x.(*Run); ok {
			list[i] = r.literal()
		}
	}
	return list
}

// mergeText merges each sequence of adjacent *ast.Text nodes in list
// into a single node, editing list in place.
func mergeText(list ast.Inlines) ast.Inlines {
	out := list[:0]
	start := 0
	for i := 0; ; i++ {
		if i < len(list) {
			if _, ok := list[i].(*ast.Text); ok {
				continue
			}
		}
		// Non-text or end of list.
		if start < i {
			out = append(out, mergeTextRun(list[start:i]))
		}
		if i >= len(list) {
			break
		}
		out = append(out, list[i])
		start = i + 1
	}
	return out
}

// mergeTextRun merges list, which is known to be entirely *ast.Text nodes,
// down to a single node.
func mergeTextRun(list ast.Inlines) *ast.Text {
	if len(list) == 1 {
		return list[0].(*ast.Text)
	}
	var all []string
	for _, x := range list {
		all = append(all, x.(*ast.Text).Text)
	}
	return &ast.Text{Text: strings.Join(all, "")}
}
