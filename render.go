// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
)

// ErrInvalidNodeKind is wrapped by the error a [NodeRenderer] returns
// when handed a node it does not render.
var ErrInvalidNodeKind = errors.New("invalid node kind")

// A NodeKindError reports a node handed to a renderer that does not render it.
type NodeKindError struct {
	Node ast.Node
}

func (e *NodeKindError) Error() string {
	return fmt.Sprintf("cannot render %v node %T: %v", e.Node.Kind(), e.Node, ErrInvalidNodeKind)
}

func (e *NodeKindError) Unwrap() error {
	return ErrInvalidNodeKind
}

// A NodeRenderer renders nodes of the kinds it is added for.
type NodeRenderer interface {
	// Render appends the HTML for n to buf, using c for n's children.
	// If it does not handle n, it returns a [*NodeKindError] for n,
	// and the next renderer for n's kind is tried.
	// Whatever a declining renderer wrote to buf is discarded.
	Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error
}

// A ChildRenderer renders the children of a node.
type ChildRenderer interface {
	RenderNode(buf *bytes.Buffer, n ast.Node) error
	RenderInlines(buf *bytes.Buffer, list ast.Inlines) error
	RenderBlocks(buf *bytes.Buffer, list []ast.Block) error
	BlockSeparator() string
	InnerSeparator() string
}

// An HTMLRenderer renders a document tree as HTML,
// using the renderers of an environment.
type HTMLRenderer struct {
	env Env
}

// NewHTMLRenderer returns a renderer drawing on env's renderers.
func NewHTMLRenderer(env Env) *HTMLRenderer {
	return &HTMLRenderer{env: env}
}

// Render returns the HTML for n.
func (r *HTMLRenderer) Render(n ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderNode(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode appends n to buf, rendered with the first of the
// environment's renderers for n's kind that accepts it.
// A kind with no renderers renders as nothing. If every renderer
// declines n, RenderNode returns the last renderer's error.
func (r *HTMLRenderer) RenderNode(buf *bytes.Buffer, n ast.Node) error {
	rs := r.env.RenderersFor(n.Kind())
	mark := buf.Len()
	var err error
	for _, nr := range rs {
		err = nr.Render(buf, n, r)
		var ke *NodeKindError
		if errors.As(err, &ke) && ke.Node == n {
			buf.Truncate(mark)
			continue
		}
		return err
	}
	if err != nil {
		tracer().Errorf("no renderer accepted %v node", n.Kind())
	}
	return err
}

// RenderInlines appends each node in list to buf.
func (r *HTMLRenderer) RenderInlines(buf *bytes.Buffer, list ast.Inlines) error {
	for _, x := range list {
		if err := r.RenderNode(buf, x); err != nil {
			return err
		}
	}
	return nil
}

// RenderBlocks appends each block in list to buf,
// separated by the block separator.
func (r *HTMLRenderer) RenderBlocks(buf *bytes.Buffer, list []ast.Block) error {
	for i, x := range list {
		if i > 0 {
			buf.WriteString(r.BlockSeparator())
		}
		if err := r.RenderNode(buf, x); err != nil {
			return err
		}
	}
	return nil
}

// BlockSeparator returns the renderer.block_separator option.
func (r *HTMLRenderer) BlockSeparator() string {
	return r.env.Config().String("renderer.block_separator", "\n")
}

// InnerSeparator returns the renderer.inner_separator option,
// which goes between a container block's tags and its content.
func (r *HTMLRenderer) InnerSeparator() string {
	return r.env.Config().String("renderer.inner_separator", "\n")
}

// configured is embedded in renderers and parsers that read options.
type configured struct {
	cfg config.Reader
}

func (c *configured) SetConfiguration(cfg config.Reader) {
	c.cfg = cfg
}

type documentRenderer struct{}

func (documentRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	doc, ok := n.(*ast.Document)
	if !ok {
		return &NodeKindError{n}
	}
	mark := buf.Len()
	if err := c.RenderBlocks(buf, doc.Blocks); err != nil {
		return err
	}
	if buf.Len() > mark {
		buf.WriteString(c.BlockSeparator())
	}
	return nil
}

type paragraphRenderer struct{}

func (paragraphRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	p, ok := n.(*ast.Paragraph)
	if !ok {
		return &NodeKindError{n}
	}
	buf.WriteString("<p>")
	if err := c.RenderInlines(buf, p.Inline); err != nil {
		return err
	}
	buf.WriteString("</p>")
	return nil
}

type headingRenderer struct{}

func (headingRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	h, ok := n.(*ast.Heading)
	if !ok {
		return &NodeKindError{n}
	}
	fmt.Fprintf(buf, "<h%d>", h.Level)
	if err := c.RenderInlines(buf, h.Inline); err != nil {
		return err
	}
	fmt.Fprintf(buf, "</h%d>", h.Level)
	return nil
}

type thematicBreakRenderer struct{}

func (thematicBreakRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	if _, ok := n.(*ast.ThematicBreak); !ok {
		return &NodeKindError{n}
	}
	buf.WriteString("<hr />")
	return nil
}

// textRenderer renders any [ast.Literal], which includes
// [ast.Text] and [ast.Escaped].
type textRenderer struct{}

func (textRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	x, ok := n.(ast.Literal)
	if !ok {
		return &NodeKindError{n}
	}
	htmlEscaper.WriteString(buf, x.Literal())
	return nil
}

type codeRenderer struct{}

func (codeRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	x, ok := n.(*ast.Code)
	if !ok {
		return &NodeKindError{n}
	}
	buf.WriteString("<code>")
	htmlEscaper.WriteString(buf, x.Text)
	buf.WriteString("</code>")
	return nil
}

// htmlTagRenderer renders raw HTML according to the html_input option.
type htmlTagRenderer struct {
	configured
}

func (r *htmlTagRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	x, ok := n.(*ast.HTMLTag)
	if !ok {
		return &NodeKindError{n}
	}
	switch r.cfg.String("html_input", HTMLAllow) {
	case HTMLStrip:
	case HTMLEscape:
		htmlEscaper.WriteString(buf, x.Text)
	default:
		buf.WriteString(x.Text)
	}
	return nil
}

type softBreakRenderer struct {
	configured
}

func (r *softBreakRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	if _, ok := n.(*ast.SoftBreak); !ok {
		return &NodeKindError{n}
	}
	buf.WriteString(r.cfg.String("renderer.soft_break", "\n"))
	return nil
}

type hardBreakRenderer struct{}

func (hardBreakRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	if _, ok := n.(*ast.HardBreak); !ok {
		return &NodeKindError{n}
	}
	buf.WriteString("<br />\n")
	return nil
}

// emphRenderer renders [ast.Emph] and [ast.Strong].
type emphRenderer struct{}

func (emphRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	var tag string
	var inner ast.Inlines
	switch x := n.(type) {
	default:
		return &NodeKindError{n}
	case *ast.Emph:
		tag, inner = "em", x.Inner
	case *ast.Strong:
		tag, inner = "strong", x.Inner
	}
	buf.WriteString("<" + tag + ">")
	if err := c.RenderInlines(buf, inner); err != nil {
		return err
	}
	buf.WriteString("</" + tag + ">")
	return nil
}

// linkRenderer renders any [ast.LinkNode]:
// links, autolinks, and link kinds added by extensions.
type linkRenderer struct {
	configured
}

func (r *linkRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	ln, ok := n.(ast.LinkNode)
	if !ok {
		return &NodeKindError{n}
	}
	x := ln.AsLink()
	buf.WriteString(`<a href="`)
	buf.WriteString(r.href(x.URL))
	buf.WriteString(`"`)
	if x.Title != "" {
		buf.WriteString(` title="`)
		htmlEscaper.WriteString(buf, x.Title)
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	if err := c.RenderInlines(buf, x.Inner); err != nil {
		return err
	}
	buf.WriteString("</a>")
	return nil
}

// href returns the escaped form of url, or "" if url is unsafe
// and allow_unsafe_links is off.
func (c *configured) href(url string) string {
	if !c.cfg.Bool("allow_unsafe_links", true) && IsUnsafeLink(url) {
		return ""
	}
	return htmlLinkEscape(url)
}

type imageRenderer struct {
	configured
}

func (r *imageRenderer) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	x, ok := n.(*ast.Image)
	if !ok {
		return &NodeKindError{n}
	}
	buf.WriteString(`<img src="`)
	buf.WriteString(r.href(x.URL))
	buf.WriteString(`" alt="`)
	htmlEscaper.WriteString(buf, plainText(x.Inner))
	buf.WriteString(`"`)
	if x.Title != "" {
		buf.WriteString(` title="`)
		htmlEscaper.WriteString(buf, x.Title)
		buf.WriteString(`"`)
	}
	buf.WriteString(` />`)
	return nil
}

// plainText returns the text content of list, without markup,
// as used for an image's alt attribute.
func plainText(list ast.Inlines) string {
	var b strings.Builder
	var walk func(ast.Inlines)
	walk = func(list ast.Inlines) {
		for _, x := range list {
			switch x := x.(type) {
			case ast.Literal:
				b.WriteString(x.Literal())
			case *ast.Code:
				b.WriteString(x.Text)
			case *ast.SoftBreak, *ast.HardBreak:
				b.WriteString(" ")
			default:
				if c := ast.Container(x); c != nil {
					walk(*c)
				}
			}
		}
	}
	walk(list)
	return b.String()
}
