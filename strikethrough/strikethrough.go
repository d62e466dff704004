// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strikethrough provides the GitHub Flavored Markdown
// strikethrough extension: ~~text~~ renders as <del>text</del>.
//
// As on GitHub, one or two tildes delimit deleted text,
// and the opening and closing runs must have the same length.
// Runs of three or more tildes are plain text.
// See https://github.github.com/gfm/#strikethrough-extension-.
package strikethrough

import (
	"bytes"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"rsc.io/commonmark"
	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/delim"
)

// tracer traces with key 'commonmark.strikethrough'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark.strikethrough")
}

// Extension is the strikethrough extension.
type Extension struct{}

func (Extension) Register(b commonmark.Builder) error {
	if err := b.AddDelimiterProcessor(processor{}); err != nil {
		return err
	}
	return b.AddRenderer(ast.KindDel, renderer{}, 0)
}

// NewGFMEnvironment returns an environment set up with the
// CommonMark core and the strikethrough extension.
func NewGFMEnvironment(cfg map[string]any) *commonmark.Environment {
	env := commonmark.NewCommonMarkEnvironment(cfg)
	// Cannot fail: the environment is not initialized yet.
	env.AddExtension(Extension{})
	return env
}

// processor is the [delim.Processor] for ~.
type processor struct{}

func (processor) OpeningChar() rune { return '~' }
func (processor) ClosingChar() rune { return '~' }
func (processor) MinLength() int    { return 1 }

func (processor) DelimiterUse(opener, closer *delim.Run) int {
	if opener.Orig != closer.Orig || opener.Orig > 2 {
		return 0
	}
	return opener.Length
}

func (processor) Process(opener, closer *delim.Run, use int, inner ast.Inlines) ast.Inline {
	return &ast.Del{Marker: strings.Repeat("~", use), Inner: inner}
}

type renderer struct{}

func (renderer) Render(buf *bytes.Buffer, n ast.Node, c commonmark.ChildRenderer) error {
	x, ok := n.(*ast.Del)
	if !ok {
		return &commonmark.NodeKindError{Node: n}
	}
	tracer().Debugf("rendering %s deletion", x.Marker)
	buf.WriteString("<del>")
	if err := c.RenderInlines(buf, x.Inner); err != nil {
		return err
	}
	buf.WriteString("</del>")
	return nil
}
