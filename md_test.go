// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"bytes"
	"flag"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/tools/txtar"

	"rsc.io/commonmark/ast"
)

var goldmarkFlag = flag.Bool("goldmark", false, "run goldmark tests")

// Test runs the golden tests in testdata/*.txt.
// Each file holds pairs of NAME.md and NAME.html files.
// The file comment may set configuration options, one per line:
//
//	html_input: escape
func Test(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			a, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}

			cfg, err := parseOptions(a.Comment)
			if err != nil {
				t.Fatal(err)
			}
			c := NewCommonMarkConverter(cfg)

			var ncase, npass int
			for i := 0; i+2 <= len(a.Files); i += 2 {
				ncase++
				md := a.Files[i]
				html := a.Files[i+1]
				name := strings.TrimSuffix(md.Name, ".md")
				if name != strings.TrimSuffix(html.Name, ".html") {
					t.Fatalf("mismatched file pair: %s and %s", md.Name, html.Name)
				}

				t.Run(name, func(t *testing.T) {
					doc, err := c.Parse(decode(string(md.Data)))
					if err != nil {
						t.Fatal(err)
					}
					out, err := c.Render(doc)
					if err != nil {
						t.Fatal(err)
					}
					h := encode(out)
					if h != string(html.Data) {
						t.Fatalf("input %q\nparse:\n%s\nhave %q\nwant %q\ndingus: (https://spec.commonmark.org/dingus/?text=%s)", md.Data, dump(doc), h, html.Data, strings.ReplaceAll(url.QueryEscape(decode(string(md.Data))), "+", "%20"))
					}
					npass++
				})

				// Goldmark knows nothing of our options.
				if !*goldmarkFlag || len(cfg) > 0 {
					continue
				}
				t.Run("goldmark/"+name, func(t *testing.T) {
					gm := goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe()))
					var buf bytes.Buffer
					if err := gm.Convert([]byte(decode(string(md.Data))), &buf); err != nil {
						t.Fatal(err)
					}
					if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
						buf.WriteByte('\n')
					}
					want := string(html.Data)
					want = strings.ReplaceAll(want, " />", ">")
					out := encode(buf.String())
					out = strings.ReplaceAll(out, " />", ">")
					if out != want {
						t.Fatalf("\n    - input: ``%q``\n    - output: ``%q``\n    - golden: ``%q``", md.Data, out, want)
					}
				})
			}
			t.Logf("%d/%d pass", npass, ncase)
		})
	}
}

func decode(s string) string {
	s = strings.ReplaceAll(s, "^J\n", "\n")
	s = strings.ReplaceAll(s, "^M", "\r")
	s = strings.ReplaceAll(s, "^D\n", "")
	s = strings.ReplaceAll(s, "^@", "\x00")
	return s
}

func encode(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "^M\n")
	s = strings.ReplaceAll(s, "\r", "^M^D\n")
	s = strings.ReplaceAll(s, " \n", " ^J\n")
	s = strings.ReplaceAll(s, "\t\n", "\t^J\n")
	s = strings.ReplaceAll(s, "\x00", "^@")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "^D\n"
	}
	return s
}

// parseOptions extracts lines of the form
//
//	key: value
//
// from data and returns them as a configuration map.
// Values that parse as booleans or integers are stored as such.
func parseOptions(data []byte) (map[string]any, error) {
	cfg := make(map[string]any)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "//") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, fmt.Errorf("bad option line: %q", line)
		}
		if b, err := strconv.ParseBool(value); err == nil {
			cfg[key] = b
		} else if n, err := strconv.Atoi(value); err == nil {
			cfg[key] = n
		} else {
			cfg[key] = value
		}
	}
	return cfg, nil
}

// A run of three closes strong first, so strong nests inside emphasis.
func TestTripleEmphasisNesting(t *testing.T) {
	for _, in := range []string{"***foo***", "___foo___"} {
		doc, err := NewCommonMarkConverter(nil).Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		want := "Paragraph\n\tEmph\n\t\tStrong\n\t\t\tText \"foo\"\n"
		if have := dump(doc); have != want {
			t.Errorf("Parse(%q):\nhave %s\nwant %s", in, have, want)
		}
	}
}

// dump returns a debugging dump of the document tree.
func dump(doc *ast.Document) string {
	var b strings.Builder
	var inlines func(ast.Inlines, string)
	inlines = func(list ast.Inlines, indent string) {
		for _, x := range list {
			fmt.Fprintf(&b, "%s%v", indent, x.Kind())
			if l, ok := x.(ast.Literal); ok {
				fmt.Fprintf(&b, " %q", l.Literal())
			}
			b.WriteString("\n")
			if c := ast.Container(x); c != nil {
				inlines(*c, indent+"\t")
			}
		}
	}
	for _, blk := range doc.Blocks {
		fmt.Fprintf(&b, "%v\n", blk.Kind())
		if c := ast.Container(blk); c != nil {
			inlines(*c, "\t")
		}
	}
	return b.String()
}
