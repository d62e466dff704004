// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the document tree produced by the parser.
//
// Every node reports a [Kind]. Kinds are arranged in a static
// parent table, so that a node kind defined by an extension
// (for example a mention, declared as a kind of [KindLink])
// is rendered by its ancestor's renderers when it has none of its own.
package ast

// A Node is any node in the document tree.
type Node interface {
	Kind() Kind
}

// A Block is a block-level node.
type Block interface {
	Node
	Block()
}

// An Inline is an inline-level node.
type Inline interface {
	Node
	Inline()
}

// Inlines is a sequence of inline nodes.
type Inlines []Inline

// A Position records the input lines a block spans.
type Position struct {
	StartLine int
	EndLine   int
}

// A Literal is an inline node standing for a literal string of input,
// such as the marks of an unmatched delimiter run.
type Literal interface {
	Inline
	Literal() string
	SetLiteral(string)
}

// A TextBlock is a block whose content is inline text.
// The block parsers fill in the raw text; the inline parsers,
// which run once the block structure is known, set the inlines.
type TextBlock interface {
	Block
	RawText() string
	SetInline(Inlines)
}

// A Document is the root of a parsed document.
type Document struct {
	Position
	Blocks []Block
}

func (*Document) Kind() Kind { return KindDocument }
func (*Document) Block()     {}

// A Paragraph is a paragraph block.
// Raw holds the source text until inline parsing fills in Inline.
type Paragraph struct {
	Position
	Raw    string
	Inline Inlines
}

func (*Paragraph) Kind() Kind            { return KindParagraph }
func (*Paragraph) Block()                {}
func (b *Paragraph) RawText() string     { return b.Raw }
func (b *Paragraph) SetInline(x Inlines) { b.Inline = x }

// A Heading is an ATX or setext heading block.
type Heading struct {
	Position
	Level  int // 1 to 6
	Raw    string
	Inline Inlines
}

func (*Heading) Kind() Kind            { return KindHeading }
func (*Heading) Block()                {}
func (b *Heading) RawText() string     { return b.Raw }
func (b *Heading) SetInline(x Inlines) { b.Inline = x }

// A ThematicBreak is a horizontal rule.
type ThematicBreak struct {
	Position
	Raw string
}

func (*ThematicBreak) Kind() Kind { return KindThematicBreak }
func (*ThematicBreak) Block()     {}

// A Text is plain text.
type Text struct {
	Text string
}

func (*Text) Kind() Kind               { return KindText }
func (*Text) Inline()                  {}
func (x *Text) Literal() string        { return x.Text }
func (x *Text) SetLiteral(text string) { x.Text = text }

// An Escaped is a backslash-escaped punctuation character.
// Text holds the character without the backslash.
type Escaped struct {
	Text
}

func (*Escaped) Kind() Kind { return KindEscaped }

// A Code is a code span.
type Code struct {
	Text string
}

func (*Code) Kind() Kind { return KindCode }
func (*Code) Inline()    {}

// An HTMLTag is a raw inline HTML tag, comment, or declaration.
type HTMLTag struct {
	Text string
}

func (*HTMLTag) Kind() Kind { return KindHTMLTag }
func (*HTMLTag) Inline()    {}

// A SoftBreak is a line ending inside a paragraph.
type SoftBreak struct{}

func (*SoftBreak) Kind() Kind { return KindSoftBreak }
func (*SoftBreak) Inline()    {}

// A HardBreak is a forced line break.
type HardBreak struct{}

func (*HardBreak) Kind() Kind { return KindHardBreak }
func (*HardBreak) Inline()    {}

// An Emph is emphasized text.
// Marker is the delimiter that produced it: * or _.
type Emph struct {
	Marker string
	Inner  Inlines
}

func (*Emph) Kind() Kind { return KindEmph }
func (*Emph) Inline()    {}

// A Strong is strongly emphasized text.
type Strong struct {
	Marker string
	Inner  Inlines
}

func (*Strong) Kind() Kind { return KindStrong }
func (*Strong) Inline()    {}

// A Del is deleted (struck-through) text.
type Del struct {
	Marker string
	Inner  Inlines
}

func (*Del) Kind() Kind { return KindDel }
func (*Del) Inline()    {}

// A Link is a hyperlink.
type Link struct {
	Inner Inlines
	URL   string
	Title string
}

func (*Link) Kind() Kind      { return KindLink }
func (*Link) Inline()         {}
func (x *Link) AsLink() *Link { return x }

// A LinkNode is a node that renders as a link:
// a [*Link] or a node type that embeds [Link].
type LinkNode interface {
	Inline
	AsLink() *Link
}

// An AutoLink is a URL or email address in angle brackets.
type AutoLink struct {
	Link
}

func (*AutoLink) Kind() Kind { return KindAutoLink }

// An Image is an image reference.
// Inner holds the alternate text.
type Image struct {
	Inner Inlines
	URL   string
	Title string
}

func (*Image) Kind() Kind { return KindImage }
func (*Image) Inline()    {}

// Container returns the inline children of n, if it has any.
// It lets generic passes over the tree, such as event listeners
// rewriting leftover marks, reach every inline node.
func Container(n Node) *Inlines {
	switch n := n.(type) {
	case *Paragraph:
		return &n.Inline
	case *Heading:
		return &n.Inline
	case *Emph:
		return &n.Inner
	case *Strong:
		return &n.Inner
	case *Del:
		return &n.Inner
	case *Image:
		return &n.Inner
	case LinkNode:
		return &n.AsLink().Inner
	case interface{ Children() *Inlines }:
		return n.Children()
	}
	return nil
}

// Walk calls f for every inline node in the document, in order.
// Nodes are visited before their children.
func Walk(doc *Document, f func(Inline)) {
	var walk func(Inlines)
	walk = func(list Inlines) {
		for _, x := range list {
			f(x)
			if c := Container(x); c != nil {
				walk(*c)
			}
		}
	}
	for _, b := range doc.Blocks {
		if c := Container(b); c != nil {
			walk(*c)
		}
	}
}
