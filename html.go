// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"strings"

	"rsc.io/commonmark/ast"
)

// Values of the html_input option, which says what happens to raw HTML
// in the input.
const (
	HTMLStrip  = "strip"  // remove it
	HTMLAllow  = "allow"  // pass it through
	HTMLEscape = "escape" // render it as text
)

// htmlTagParser parses an [ast.HTMLTag].
// See https://spec.commonmark.org/0.31.2/#raw-html.
var htmlTagParser = &parserFunc{[]rune{'<'}, parseHTMLTag}

func parseHTMLTag(c *InlineContext) bool {
	end, ok := c.html.scan(c.s, c.off)
	if !ok {
		return false
	}
	c.Add(&ast.HTMLTag{Text: c.s[c.off:end]}, end)
	return true
}

// An htmlScanner recognizes raw HTML in one block of text.
// It remembers which terminators have been searched for and not found,
// so that input like <!-- <!-- <!-- ... is not quadratic.
type htmlScanner struct {
	missing []string
}

// Comments, CDATA sections, and processing instructions,
// checked in order. An empty term means open is the whole construct.
var htmlSections = []struct{ open, term string }{
	{"<!-->", ""},
	{"<!--->", ""},
	{"<!--", "-->"},
	{"<![CDATA[", "]]>"},
	{"<?", "?>"},
}

// scan reports whether raw HTML starts at s[start:],
// and if so where it ends.
// The caller has checked that s[start] is '<'.
func (h *htmlScanner) scan(s string, start int) (end int, ok bool) {
	rest := s[start:]
	for _, sec := range htmlSections {
		if strings.HasPrefix(rest, sec.open) {
			return h.until(s, start, len(sec.open), sec.term)
		}
	}
	if strings.HasPrefix(rest, "<!") {
		// Declaration: <! and a letter, then anything up to >.
		if len(rest) > 2 && isLetter(rest[2]) {
			return h.until(s, start, 3, ">")
		}
		return 0, false
	}
	if strings.HasPrefix(rest, "</") {
		return closingTag(s, start+2)
	}
	return openTag(s, start+1)
}

// until returns the end of the construct opened at s[start:start+n]
// and terminated by the next occurrence of term.
func (h *htmlScanner) until(s string, start, n int, term string) (end int, ok bool) {
	if term == "" {
		return start + n, true
	}
	for _, m := range h.missing {
		if m == term {
			return 0, false
		}
	}
	i := strings.Index(s[start+n:], term)
	if i < 0 {
		h.missing = append(h.missing, term)
		return 0, false
	}
	return start + n + i + len(term), true
}

// openTag parses the rest of an open tag
// whose tag name starts at s[i:], just after the <.
func openTag(s string, i int) (end int, ok bool) {
	j, ok := tagName(s, i)
	if !ok {
		return 0, false
	}
	for {
		// Attributes need white space before them.
		k := skipSpace(s, j)
		if k == j {
			break
		}
		k, ok = attribute(s, k)
		if !ok {
			j = skipSpace(s, j)
			break
		}
		j = k
	}
	if j < len(s) && s[j] == '/' {
		j++
	}
	if j >= len(s) || s[j] != '>' {
		return 0, false
	}
	return j + 1, true
}

// closingTag parses the rest of a closing tag
// whose tag name starts at s[i:], just after the </.
func closingTag(s string, i int) (end int, ok bool) {
	j, ok := tagName(s, i)
	if !ok {
		return 0, false
	}
	j = skipSpace(s, j)
	if j >= len(s) || s[j] != '>' {
		return 0, false
	}
	return j + 1, true
}

// tagName returns the end of the tag name at s[i:]:
// an ASCII letter followed by letters, digits, and hyphens.
func tagName(s string, i int) (end int, ok bool) {
	if i >= len(s) || !isLetter(s[i]) {
		return 0, false
	}
	i++
	for i < len(s) && isLDH(s[i]) {
		i++
	}
	return i, true
}

// attribute returns the end of the attribute at s[i:],
// a name and an optional =value.
func attribute(s string, i int) (end int, ok bool) {
	if i >= len(s) || !isLetter(s[i]) && s[i] != '_' && s[i] != ':' {
		return 0, false
	}
	i++
	for i < len(s) && (isLDH(s[i]) || s[i] == '_' || s[i] == '.' || s[i] == ':') {
		i++
	}
	if v, ok := attributeValue(s, i); ok {
		return v, true
	}
	return i, true
}

// attributeValue returns the end of the =value specification at s[i:].
func attributeValue(s string, i int) (end int, ok bool) {
	i = skipSpace(s, i)
	if i >= len(s) || s[i] != '=' {
		return 0, false
	}
	i = skipSpace(s, i+1)
	if i >= len(s) {
		return 0, false
	}
	if q := s[i]; q == '\'' || q == '"' {
		j := strings.IndexByte(s[i+1:], q)
		if j < 0 {
			return 0, false
		}
		return i + 1 + j + 1, true
	}
	j := i
	for j < len(s) && strings.IndexByte(" \t\n\"'=<>`", s[j]) < 0 {
		j++
	}
	return j, j > i
}

// htmlEscaper escapes text for HTML element content and attribute values.
var htmlEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`"`, `&quot;`,
)

// htmlLinkEscape returns url escaped for use in an href or src attribute.
// Bytes that may not appear in a URL are percent-encoded;
// existing %XX sequences are kept.
func htmlLinkEscape(url string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(url); i++ {
		c := url[i]
		switch {
		case c == '&':
			b.WriteString("&amp;")
		case c == '\'':
			b.WriteString("&#x27;")
		case c == '%' && i+2 < len(url) && isHexDigit(url[i+1]) && isHexDigit(url[i+2]),
			isLetterDigit(c) || strings.IndexByte("-_.!~*();/?:@=+$,#", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xF])
		}
	}
	return b.String()
}
