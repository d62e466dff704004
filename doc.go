// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commonmark converts CommonMark-flavored Markdown to HTML
// through an extensible pipeline.
//
// An [Environment] holds the pipeline: block parsers, inline parsers,
// delimiter processors (see package [rsc.io/commonmark/delim]),
// renderers for each node kind, and event listeners.
// Extensions add to it before it is first used; after that it is frozen.
// A [Converter] runs Markdown text through an environment:
//
//	c := commonmark.NewCommonMarkConverter(map[string]any{
//		"html_input": commonmark.HTMLEscape,
//	})
//	html, err := c.Convert("Hello, *world*!")
//
// The core environment recognizes ATX and setext headings, thematic breaks,
// paragraphs, code spans, backslash escapes, line breaks, raw HTML,
// autolinks, inline links and images, and emphasis.
// Lists, block quotes, code blocks, link reference definitions, and
// entity references are not recognized.
// Packages smartpunct, strikethrough, and mention provide extensions.
package commonmark

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'commonmark'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark")
}
