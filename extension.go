// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"math"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
)

// An Extension adds parsers, processors, renderers, or listeners
// to an [Environment].
type Extension interface {
	// Register adds the extension's components to b.
	// It runs once, when the environment is initialized.
	Register(b Builder) error
}

// A ConfigurableExtension declares configuration options.
// ConfigureSchema runs when the extension is added,
// before any configuration is validated.
type ConfigurableExtension interface {
	Extension
	ConfigureSchema(s *config.Store) error
}

// defaultOptions returns the options every environment declares.
func defaultOptions() []config.Option {
	return []config.Option{
		{Path: "html_input", Type: config.Enum, Default: HTMLAllow, Values: []string{HTMLStrip, HTMLAllow, HTMLEscape}},
		{Path: "safe", Type: config.Bool, ReplacedBy: "html_input", Convert: convertSafe},
		{Path: "allow_unsafe_links", Type: config.Bool, Default: true},
		{Path: "renderer.block_separator", Type: config.String, Default: "\n"},
		{Path: "renderer.inner_separator", Type: config.String, Default: "\n"},
		{Path: "renderer.soft_break", Type: config.String, Default: "\n"},
	}
}

// convertSafe converts the legacy safe option to html_input.
func convertSafe(v any) any {
	if b, _ := v.(bool); b {
		return HTMLStrip
	}
	return HTMLAllow
}

// CoreExtension provides the CommonMark parsers and renderers:
// headings, thematic breaks, and paragraphs; code spans, escapes,
// line breaks, raw HTML, autolinks, links, images, and emphasis.
type CoreExtension struct{}

func (CoreExtension) ConfigureSchema(s *config.Store) error {
	return s.Define(
		config.Option{Path: "commonmark.enable_em", Type: config.Bool, Default: true},
		config.Option{Path: "commonmark.enable_strong", Type: config.Bool, Default: true},
		config.Option{Path: "commonmark.use_asterisk", Type: config.Bool, Default: true},
		config.Option{Path: "commonmark.use_underscore", Type: config.Bool, Default: true},
	)
}

func (CoreExtension) Register(b Builder) error {
	blocks := []struct {
		p    BlockParser
		prio int
	}{
		{atxHeadingParser{}, 60},
		{setextHeadingParser{}, 30},
		{thematicBreakParser{}, 20},
		{paragraphParser{}, math.MinInt},
	}
	for _, x := range blocks {
		if err := b.AddBlockParser(x.p, x.prio); err != nil {
			return err
		}
	}

	inlines := []struct {
		p    InlineParser
		prio int
	}{
		{breakParser, 200},
		{codeSpanParser, 150},
		{escapeParser, 80},
		{autoLinkParser, 50},
		{htmlTagParser, 40},
		{linkCloseParser, 30},
		{linkOpenParser, 20},
		{imageOpenParser, 10},
	}
	for _, x := range inlines {
		if err := b.AddInlineParser(x.p, x.prio); err != nil {
			return err
		}
	}

	cfg := b.Config()
	if cfg.Bool("commonmark.use_asterisk", true) {
		if err := b.AddDelimiterProcessor(&emphasisProcessor{char: '*'}); err != nil {
			return err
		}
	}
	if cfg.Bool("commonmark.use_underscore", true) {
		if err := b.AddDelimiterProcessor(&emphasisProcessor{char: '_'}); err != nil {
			return err
		}
	}

	renderers := []struct {
		kind ast.Kind
		r    NodeRenderer
	}{
		{ast.KindDocument, documentRenderer{}},
		{ast.KindParagraph, paragraphRenderer{}},
		{ast.KindHeading, headingRenderer{}},
		{ast.KindThematicBreak, thematicBreakRenderer{}},
		{ast.KindText, textRenderer{}},
		{ast.KindCode, codeRenderer{}},
		{ast.KindHTMLTag, &htmlTagRenderer{}},
		{ast.KindSoftBreak, &softBreakRenderer{}},
		{ast.KindHardBreak, hardBreakRenderer{}},
		{ast.KindEmph, emphRenderer{}},
		{ast.KindStrong, emphRenderer{}},
		{ast.KindLink, &linkRenderer{}},
		{ast.KindImage, &imageRenderer{}},
	}
	for _, x := range renderers {
		if err := b.AddRenderer(x.kind, x.r, 0); err != nil {
			return err
		}
	}
	return nil
}
