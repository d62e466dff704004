// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "fmt"

// A Kind identifies the structural category of a [Node].
// Kinds form a single-inheritance tree declared with [NewKind];
// renderers registered for a kind also serve its descendants.
//
// The zero Kind is [KindNone], which has no parent.
type Kind int

type kindInfo struct {
	name   string
	parent Kind
}

var kinds = []kindInfo{{"None", KindNone}}

// NewKind declares a new kind with the given name and parent.
// It is meant to be called during package initialization,
// typically as
//
//	var KindMention = ast.NewKind("Mention", ast.KindLink)
func NewKind(name string, parent Kind) Kind {
	if parent < 0 || int(parent) >= len(kinds) {
		panic(fmt.Sprintf("ast.NewKind(%q): invalid parent kind %d", name, int(parent)))
	}
	kinds = append(kinds, kindInfo{name, parent})
	return Kind(len(kinds) - 1)
}

// Parent returns the parent of k, or [KindNone] if k is a root kind.
func (k Kind) Parent() Kind {
	if k <= 0 || int(k) >= len(kinds) {
		return KindNone
	}
	return kinds[k].parent
}

// String returns the name k was declared with.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// IsA reports whether k is kind or a descendant of it.
func (k Kind) IsA(kind Kind) bool {
	for ; k != KindNone; k = k.Parent() {
		if k == kind {
			return true
		}
	}
	return kind == KindNone
}

const KindNone Kind = 0

// The kinds of the nodes defined in this package.
// Block and Inline are abstract: no node reports them directly,
// but a renderer registered for either serves every node below it.
var (
	KindBlock  = NewKind("Block", KindNone)
	KindInline = NewKind("Inline", KindNone)

	KindDocument      = NewKind("Document", KindBlock)
	KindParagraph     = NewKind("Paragraph", KindBlock)
	KindHeading       = NewKind("Heading", KindBlock)
	KindThematicBreak = NewKind("ThematicBreak", KindBlock)

	KindText      = NewKind("Text", KindInline)
	KindEscaped   = NewKind("Escaped", KindText)
	KindCode      = NewKind("Code", KindInline)
	KindHTMLTag   = NewKind("HTMLTag", KindInline)
	KindSoftBreak = NewKind("SoftBreak", KindInline)
	KindHardBreak = NewKind("HardBreak", KindInline)
	KindEmph      = NewKind("Emph", KindInline)
	KindStrong    = NewKind("Strong", KindInline)
	KindDel       = NewKind("Del", KindInline)
	KindLink      = NewKind("Link", KindInline)
	KindImage     = NewKind("Image", KindInline)
	KindAutoLink  = NewKind("AutoLink", KindLink)
)
