// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import "strings"

// ASCII character classes used by the inline parsers.

// isPunct reports whether c is ASCII punctuation,
// which is what a backslash can escape.
func isPunct(c byte) bool {
	switch {
	case '!' <= c && c <= '/', ':' <= c && c <= '@', '[' <= c && c <= '`', '{' <= c && c <= '~':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	c |= 0x20
	return 'a' <= c && c <= 'z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetterDigit(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// isLDH reports whether c may appear in a domain label.
func isLDH(c byte) bool {
	return isLetterDigit(c) || c == '-'
}

func isHexDigit(c byte) bool {
	lc := c | 0x20
	return isDigit(c) || 'a' <= lc && lc <= 'f'
}

// skipSpace returns the index of the first byte at or after s[i]
// that is not a space, tab, or newline.
func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// mdUnescape removes backslash escapes from s.
func mdUnescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	return mdUnescaper.Replace(s)
}

var mdUnescaper = func() *strings.Replacer {
	var oldnew []string
	for c := byte('!'); c <= '~'; c++ {
		if isPunct(c) {
			oldnew = append(oldnew, `\`+string(rune(c)), string(rune(c)))
		}
	}
	return strings.NewReplacer(oldnew...)
}()
