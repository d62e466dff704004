// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Md2html converts Markdown to HTML.
//
// Usage:
//
//	md2html [-config file] [-smart] [-strike] [file...]
//
// Md2html reads the named files, or else standard input, as Markdown documents
// and then prints the corresponding HTML to standard output.
//
// The -config flag names a YAML, TOML, or JSON file of converter options.
// The -smart flag enables smart punctuation, and the -strike flag enables
// ~~strikethrough~~. If the options list any mentions, they are enabled too.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"rsc.io/commonmark"
	"rsc.io/commonmark/config"
	"rsc.io/commonmark/mention"
	"rsc.io/commonmark/smartpunct"
	"rsc.io/commonmark/strikethrough"
)

var (
	configFile = flag.String("config", "", "read options from `file`")
	smart      = flag.Bool("smart", false, "enable smart punctuation")
	strike     = flag.Bool("strike", false, "enable strikethrough")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: md2html [-config file] [-smart] [-strike] [file...]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("md2html: ")
	flag.Usage = usage
	flag.Parse()

	c, err := newConverter()
	if err != nil {
		log.Fatal(err)
	}
	args := flag.Args()
	if len(args) == 0 {
		do(c, os.Stdin)
	} else {
		for _, arg := range args {
			f, err := os.Open(arg)
			if err != nil {
				log.Fatal(err)
			}
			do(c, f)
			f.Close()
		}
	}
}

// newConverter returns a converter set up as the flags say.
func newConverter() (*commonmark.Converter, error) {
	var cfg map[string]any
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
	}

	var env *commonmark.Environment
	if *strike {
		env = strikethrough.NewGFMEnvironment(cfg)
	} else {
		env = commonmark.NewCommonMarkEnvironment(cfg)
	}
	if *smart {
		if err := env.AddExtension(smartpunct.Extension{}); err != nil {
			return nil, err
		}
	}
	if _, ok := cfg["mentions"]; ok {
		if err := env.AddExtension(mention.Extension{}); err != nil {
			return nil, err
		}
	}
	if err := env.Init(); err != nil {
		return nil, err
	}
	return commonmark.NewConverter(env), nil
}

func do(c *commonmark.Converter, f *os.File) {
	data, err := io.ReadAll(f)
	if err != nil {
		log.Fatal(err)
	}
	html, err := c.Convert(string(replaceTabs(data)))
	if err != nil {
		log.Fatalf("%s: %v", f.Name(), err)
	}
	os.Stdout.WriteString(html)
}

// replaceTabs replaces all tabs in text with spaces up to a 4-space tab stop.
//
// In Markdown, tabs used for indentation are required to be interpreted as
// 4-space tab stops. See https://spec.commonmark.org/0.31.2/#tabs.
//
// This function does not handle multi-codepoint Unicode sequences correctly.
func replaceTabs(text []byte) []byte {
	var buf bytes.Buffer
	col := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]

		switch r {
		case '\n':
			buf.WriteByte('\n')
			col = 0

		case '\t':
			buf.WriteByte(' ')
			col++
			for col%4 != 0 {
				buf.WriteByte(' ')
				col++
			}

		default:
			buf.WriteRune(r)
			col++
		}
	}
	return buf.Bytes()
}
