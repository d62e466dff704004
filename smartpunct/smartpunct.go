// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package smartpunct provides the “smart punctuation” extension:
// straight quotes become curly quotes, -- and --- become en and em dashes,
// and ... becomes an ellipsis.
//
// Quotes are paired by the delimiter resolution in package
// [rsc.io/commonmark/delim], like emphasis. Quotes left without a partner
// are rewritten after parsing: a ' becomes a right single quote,
// as in an apostrophe, and a " becomes a left or right double quote,
// depending on whether it could close.
//
// The quote marks depend on the smartpunct.locale option,
// a BCP 47 language tag, and can be set one by one with
// smartpunct.double_quote_opener, smartpunct.double_quote_closer,
// smartpunct.single_quote_opener, and smartpunct.single_quote_closer.
package smartpunct

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"rsc.io/commonmark"
	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
)

// tracer traces with key 'commonmark.smartpunct'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark.smartpunct")
}

// Extension is the smart punctuation extension.
type Extension struct{}

func (Extension) ConfigureSchema(s *config.Store) error {
	return s.Define(
		config.Option{Path: "smartpunct.locale", Type: config.String, Default: "en"},
		config.Option{Path: "smartpunct.double_quote_opener", Type: config.String},
		config.Option{Path: "smartpunct.double_quote_closer", Type: config.String},
		config.Option{Path: "smartpunct.single_quote_opener", Type: config.String},
		config.Option{Path: "smartpunct.single_quote_closer", Type: config.String},
	)
}

func (Extension) Register(b commonmark.Builder) error {
	m, err := configMarks(b.Config())
	if err != nil {
		return err
	}
	tracer().Debugf("quote marks %s…%s %s…%s", m.doubleOpen, m.doubleClose, m.singleOpen, m.singleClose)

	if err := b.AddInlineParser(quoteParser{}, 10); err != nil {
		return err
	}
	if err := b.AddInlineParser(dashParser, 0); err != nil {
		return err
	}
	if err := b.AddInlineParser(ellipsisParser, 0); err != nil {
		return err
	}
	for _, ch := range []rune{'"', '\''} {
		if err := b.AddDelimiterProcessor(quoteProcessor{ch}); err != nil {
			return err
		}
	}
	if err := b.AddRenderer(KindQuoted, quotedRenderer{m}, 100); err != nil {
		return err
	}
	return b.AddEventListener(commonmark.Listen(m.fixUnpaired), 0)
}

// marks holds the four quote marks.
type marks struct {
	doubleOpen, doubleClose string
	singleOpen, singleClose string
}

// localeMarks lists the quote marks of each supported language,
// from the CLDR delimiter data. The first entry is the fallback.
var localeMarks = []struct {
	tag   language.Tag
	marks marks
}{
	{language.English, marks{"“", "”", "‘", "’"}},
	{language.German, marks{"„", "“", "‚", "‘"}},
	{language.French, marks{"«", "»", "‹", "›"}},
	{language.Spanish, marks{"«", "»", "“", "”"}},
	{language.Italian, marks{"«", "»", "“", "”"}},
	{language.Russian, marks{"«", "»", "„", "“"}},
	{language.Polish, marks{"„", "”", "‚", "’"}},
	{language.Swedish, marks{"”", "”", "’", "’"}},
	{language.Japanese, marks{"「", "」", "『", "』"}},
	{language.TraditionalChinese, marks{"「", "」", "『", "』"}},
	{language.SimplifiedChinese, marks{"“", "”", "‘", "’"}},
}

var matcher = func() language.Matcher {
	var tags []language.Tag
	for _, l := range localeMarks {
		tags = append(tags, l.tag)
	}
	return language.NewMatcher(tags)
}()

// localeQuotes returns the quote marks for the BCP 47 tag locale.
// Unsupported languages get the English marks.
func localeQuotes(locale string) (marks, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return marks{}, fmt.Errorf("smartpunct.locale %q: %w", locale, err)
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		tracer().Infof("no quote marks for locale %v; using %v", tag, localeMarks[0].tag)
		i = 0
	}
	return localeMarks[i].marks, nil
}

// configMarks returns the quote marks selected by cfg:
// those of the locale, overridden by any marks set explicitly.
func configMarks(cfg config.Reader) (*marks, error) {
	m, err := localeQuotes(cfg.String("smartpunct.locale", "en"))
	if err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	m.doubleOpen = cfg.String("smartpunct.double_quote_opener", m.doubleOpen)
	m.doubleClose = cfg.String("smartpunct.double_quote_closer", m.doubleClose)
	m.singleOpen = cfg.String("smartpunct.single_quote_opener", m.singleOpen)
	m.singleClose = cfg.String("smartpunct.single_quote_closer", m.singleClose)
	return &m, nil
}

// fixUnpaired rewrites the quotes left unpaired in the document.
func (m *marks) fixUnpaired(ev *commonmark.DocumentParsedEvent) {
	ast.Walk(ev.Document, func(x ast.Inline) {
		q, ok := x.(*Quote)
		if !ok {
			return
		}
		switch q.Text.Text {
		case "'":
			q.Text.Text = m.singleClose
		case `"`:
			if q.CanClose {
				q.Text.Text = m.doubleClose
			} else {
				q.Text.Text = m.doubleOpen
			}
		}
	})
}
