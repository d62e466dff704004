// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"regexp"
	"strings"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/delim"
)

// linkOpenParser parses a link open [.
var linkOpenParser = &parserFunc{[]rune{'['}, parseLinkOpen}

func parseLinkOpen(c *InlineContext) bool {
	end := c.off + 1
	c.Add(&bracket{ast.Text{Text: "["}, end}, end)
	return true
}

// imageOpenParser parses an image open ![.
var imageOpenParser = &parserFunc{[]rune{'!'}, parseImageOpen}

func parseImageOpen(c *InlineContext) bool {
	s, start := c.s, c.off
	if start+1 < len(s) && s[start+1] == '[' {
		end := start + 2
		c.Add(&bracket{ast.Text{Text: "!["}, end}, end)
		return true
	}
	return false
}

// linkCloseParser parses a link (or image) close ](target)
// matching the most recent unmatched bracket.
var linkCloseParser = &parserFunc{[]rune{']'}, parseLinkClose}

func parseLinkClose(c *InlineContext) bool {
	if len(c.opens) == 0 {
		return false
	}

	// Pop most recent opening index from opens.
	// Whether or not it matches, it is no longer a candidate.
	oi := c.opens[len(c.opens)-1]
	c.opens = c.opens[:len(c.opens)-1]
	open := c.list[oi].(*bracket)
	c.list[oi] = open.text()

	// An image is valid anywhere; a link is only valid if it starts
	// after ignoreLinkBefore, to avoid links containing links.
	if open.pos < c.ignoreLinkBefore && !open.image() {
		return false
	}
	dest, title, end, ok := parseLinkTarget(c.s, c.off)
	if !ok {
		return false
	}

	c.emit(c.off)
	inner := delim.Resolve(append(ast.Inlines(nil), c.list[oi+1:]...), c.env.DelimiterProcessors())
	c.list = c.list[:oi]

	var x ast.Inline
	if open.image() {
		x = &ast.Image{Inner: inner, URL: dest, Title: title}
	} else {
		x = &ast.Link{Inner: inner, URL: dest, Title: title}
		// No links around links.
		c.ignoreLinkBefore = open.pos
	}
	c.Add(x, end)
	return true
}

// parseLinkTarget parses the (dest "title") after the ] at s[start],
// returning the end of the closing parenthesis.
// Either part may be omitted. Reference links are not supported:
// a ] not followed by ( does not close a link.
func parseLinkTarget(s string, start int) (dest, title string, end int, ok bool) {
	i := start + 1
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}
	i = skipSpace(s, i+1)
	if i < len(s) && s[i] != ')' {
		if dest, i, ok = linkDest(s, i); !ok {
			return "", "", 0, false
		}
		if j := skipSpace(s, i); j > i && j < len(s) && s[j] != ')' {
			// The title must be separated from the destination.
			if title, i, ok = linkTitle(s, j); !ok {
				return "", "", 0, false
			}
		}
		i = skipSpace(s, i)
	}
	if i >= len(s) || s[i] != ')' {
		return "", "", 0, false
	}
	return dest, title, i + 1, true
}

// linkTitle parses the [link title] at s[i:],
// returning it and the index just past it.
//
// [link title]: https://spec.commonmark.org/0.31.2/#link-title
func linkTitle(s string, i int) (title string, end int, ok bool) {
	var term byte
	switch s[i] {
	case '"', '\'':
		term = s[i]
	case '(':
		term = ')'
	default:
		return "", 0, false
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case term:
			return mdUnescape(s[i+1 : j]), j + 1, true
		case '(':
			if term == ')' {
				return "", 0, false
			}
		case '\\':
			j++
		}
	}
	return "", 0, false
}

// maxParenDepth bounds the nesting of parentheses in a link destination,
// as in cmark-gfm, so that ((((((... stays linear.
const maxParenDepth = 32

// linkDest parses the [link destination] at s[i:],
// returning it and the index just past it.
//
// [link destination]: https://spec.commonmark.org/0.31.2/#link-destination
func linkDest(s string, i int) (dest string, end int, ok bool) {
	if s[i] == '<' {
		// <...> with no line endings and no unescaped < or >.
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\n', '<':
				return "", 0, false
			case '>':
				return mdUnescape(s[i+1 : j]), j + 1, true
			case '\\':
				j++
			}
		}
		return "", 0, false
	}

	// Otherwise no spaces or controls, and parentheses escaped or balanced.
	depth := 0
	j := i
	for ; j < len(s); j++ {
		c := s[j]
		if c <= ' ' {
			break
		}
		if c == '(' {
			if depth++; depth > maxParenDepth {
				return "", 0, false
			}
		} else if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		} else if c == '\\' && j+1 < len(s) && isPunct(s[j+1]) {
			j++
		}
	}
	if depth != 0 || j == i {
		return "", 0, false
	}
	return mdUnescape(s[i:j]), j, true
}

// autoLinkParser parses an [ast.AutoLink]: an absolute URI
// or an email address between < and >.
// See https://spec.commonmark.org/0.31.2/#autolinks.
var autoLinkParser = &parserFunc{[]rune{'<'}, parseAutoLink}

var (
	autoLinkURI   = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9+.\-]{1,31}:[^\x00-\x20<>]*)>`)
	autoLinkEmail = regexp.MustCompile(`^<([A-Za-z0-9.!#$%&'*+/=?^_\x60{|}~\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?)*)>`)
)

func parseAutoLink(c *InlineContext) bool {
	rest := c.Rest()
	text, url := "", ""
	m := autoLinkURI.FindStringSubmatch(rest)
	if m != nil {
		text, url = m[1], m[1]
	} else if m = autoLinkEmail.FindStringSubmatch(rest); m != nil {
		text, url = m[1], "mailto:"+m[1]
	} else {
		return false
	}
	link := &ast.AutoLink{Link: ast.Link{Inner: ast.Inlines{&ast.Text{Text: text}}, URL: url}}
	c.Add(link, c.off+len(m[0]))
	return true
}

// IsUnsafeLink reports whether url uses a scheme that can run code
// or read local files when followed: javascript:, vbscript:, file:,
// and data: other than the image types png, gif, jpeg, and webp.
// The check is case-insensitive.
func IsUnsafeLink(url string) bool {
	u := strings.ToLower(url)
	switch {
	case strings.HasPrefix(u, "javascript:"),
		strings.HasPrefix(u, "vbscript:"),
		strings.HasPrefix(u, "file:"):
		return true
	case strings.HasPrefix(u, "data:"):
		for _, ok := range []string{"image/png", "image/gif", "image/jpeg", "image/webp"} {
			if strings.HasPrefix(u[len("data:"):], ok) {
				return false
			}
		}
		return true
	}
	return false
}
