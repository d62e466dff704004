// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"errors"
	"unicode/utf8"

	"rsc.io/commonmark/ast"
)

// ErrInvalidEncoding is returned for input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("commonmark: input is not valid UTF-8")

// A Converter converts Markdown to HTML using an [Environment].
type Converter struct {
	env      *Environment
	renderer *HTMLRenderer
}

// NewConverter returns a converter using env.
func NewConverter(env *Environment) *Converter {
	return &Converter{env: env, renderer: NewHTMLRenderer(env)}
}

// NewCommonMarkConverter returns a converter using a new
// [NewCommonMarkEnvironment] with configuration cfg.
func NewCommonMarkConverter(cfg map[string]any) *Converter {
	return NewConverter(NewCommonMarkEnvironment(cfg))
}

// Environment returns the converter's environment.
func (c *Converter) Environment() *Environment {
	return c.env
}

// Parse parses markdown into a document tree.
// It dispatches a [*DocumentPreParsedEvent] before parsing
// and a [*DocumentParsedEvent] after.
func (c *Converter) Parse(markdown string) (*ast.Document, error) {
	if err := c.env.Init(); err != nil {
		return nil, err
	}
	if !utf8.ValidString(markdown) {
		return nil, ErrInvalidEncoding
	}
	pre := &DocumentPreParsedEvent{Markdown: markdown}
	if ev, ok := c.env.Dispatch(pre).(*DocumentPreParsedEvent); ok {
		pre = ev
	}
	parsed := &DocumentParsedEvent{Document: c.env.parse(pre.Markdown)}
	if ev, ok := c.env.Dispatch(parsed).(*DocumentParsedEvent); ok {
		parsed = ev
	}
	return parsed.Document, nil
}

// Render renders doc as HTML.
// It dispatches a [*DocumentRenderedEvent] with the result.
func (c *Converter) Render(doc *ast.Document) (string, error) {
	if err := c.env.Init(); err != nil {
		return "", err
	}
	html, err := c.renderer.Render(doc)
	if err != nil {
		return "", err
	}
	rendered := &DocumentRenderedEvent{HTML: html}
	if ev, ok := c.env.Dispatch(rendered).(*DocumentRenderedEvent); ok {
		rendered = ev
	}
	return rendered.HTML, nil
}

// Convert converts markdown to HTML.
func (c *Converter) Convert(markdown string) (string, error) {
	doc, err := c.Parse(markdown)
	if err != nil {
		return "", err
	}
	return c.Render(doc)
}
