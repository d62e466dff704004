// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mention provides an extension that turns mentions,
// such as @handle or #123, into links.
//
// Mention kinds are listed under the mentions option, by name:
//
//	mentions:
//	  github_handle:
//	    prefix: "@"
//	    pattern: '[a-z\d](?:[a-z\d]|-(?=[a-z\d])){0,38}(?!\w)'
//	    generator: "https://github.com/%s"
//
// The pattern is a regular expression in the syntax of
// [github.com/dlclark/regexp2], which allows look-around assertions.
// It must match right after the prefix, and the prefix must not follow
// a letter, digit, or underscore. The generator is a format for the
// link URL, with %s standing for the matched identifier.
// A kind without a generator in the configuration must have one in
// [Extension.Generators].
package mention

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/schuko/tracing"

	"rsc.io/commonmark"
	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
)

// tracer traces with key 'commonmark.mention'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark.mention")
}

// KindMention is the kind of a [Mention].
// It is a kind of link, so mentions render as links.
var KindMention = ast.NewKind("Mention", ast.KindLink)

// A Mention is a link made from a mention.
type Mention struct {
	ast.Link
	Name       string // name of the mention kind in the configuration
	Prefix     string
	Identifier string // text matched by the pattern
}

func (*Mention) Kind() ast.Kind { return KindMention }

// A Generator builds the node for a mention.
// The mention passed in has Name, Prefix, and Identifier set,
// and its link text is the prefix followed by the identifier.
// Generate returns the node to use, usually m with its URL set,
// or nil to leave the text alone.
type Generator interface {
	Generate(m *Mention) ast.Inline
}

// A GeneratorFunc is a function implementing [Generator].
type GeneratorFunc func(m *Mention) ast.Inline

func (f GeneratorFunc) Generate(m *Mention) ast.Inline { return f(m) }

// urlGenerator sets the URL from a format.
type urlGenerator string

func (g urlGenerator) Generate(m *Mention) ast.Inline {
	m.URL = fmt.Sprintf(string(g), m.Identifier)
	return m
}

// matchTimeout bounds the time spent matching one pattern at one position.
const matchTimeout = 100 * time.Millisecond

// Extension is the mention extension.
type Extension struct {
	// Generators holds generators by mention kind name.
	// A generator set in the configuration takes precedence.
	Generators map[string]Generator
}

func (Extension) ConfigureSchema(s *config.Store) error {
	return s.Define(config.Option{Path: "mentions", Type: config.Map})
}

func (x Extension) Register(b commonmark.Builder) error {
	kinds := b.Config().Map("mentions")
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, err := x.parser(name, kinds[name])
		if err != nil {
			tracer().Errorf("%v", err)
			return err
		}
		tracer().Debugf("mention %s: prefix %q pattern %q", name, p.prefix, p.re.String())
		if err := b.AddInlineParser(p, 0); err != nil {
			return err
		}
	}
	return nil
}

// parser returns the parser for the mention kind with the given name
// and configuration.
func (x Extension) parser(name string, v any) (*parser, error) {
	path := "mentions." + name
	bad := func(key string, err error, format string, args ...any) error {
		return &config.Error{Path: path + key, Message: fmt.Sprintf(format, args...), Err: err}
	}

	entry, ok := v.(map[string]any)
	if !ok {
		return nil, bad("", config.ErrInvalidType, "want map, have %T", v)
	}
	for key := range entry {
		switch key {
		case "prefix", "pattern", "generator":
		default:
			return nil, bad("."+key, config.ErrUnknownOption, "want prefix, pattern, or generator")
		}
	}

	prefix, ok := entry["prefix"].(string)
	if !ok || prefix == "" {
		return nil, bad(".prefix", config.ErrInvalidValue, "want non-empty string, have %#v", entry["prefix"])
	}

	pattern, ok := entry["pattern"].(string)
	if !ok || pattern == "" {
		return nil, bad(".pattern", config.ErrInvalidValue, "want non-empty string, have %#v", entry["pattern"])
	}
	if strings.HasPrefix(pattern, "/") {
		return nil, bad(".pattern", config.ErrInvalidValue, "want pattern without delimiters, have %q", pattern)
	}
	re, err := regexp2.Compile(`\G(?:`+pattern+`)`, regexp2.None)
	if err != nil {
		return nil, bad(".pattern", config.ErrInvalidValue, "%v", err)
	}
	re.MatchTimeout = matchTimeout

	var gen Generator
	switch g := entry["generator"].(type) {
	case nil:
		gen = x.Generators[name]
		if gen == nil {
			return nil, bad(".generator", config.ErrInvalidValue, "missing generator")
		}
	case string:
		gen = urlGenerator(g)
	default:
		return nil, bad(".generator", config.ErrInvalidType, "want string, have %T", g)
	}

	return &parser{name: name, prefix: prefix, re: re, gen: gen}, nil
}

// A parser recognizes mentions of one kind.
type parser struct {
	name   string
	prefix string
	re     *regexp2.Regexp
	gen    Generator
}

func (p *parser) Trigger() []rune {
	r, _ := utf8.DecodeRuneInString(p.prefix)
	return []rune{r}
}

func (p *parser) Parse(c *commonmark.InlineContext) bool {
	rest := c.Rest()
	if !strings.HasPrefix(rest, p.prefix) || isWord(c.Before()) {
		return false
	}
	text, pos := c.Runes()
	m, err := p.re.FindRunesMatchStartingAt(text, pos+utf8.RuneCountInString(p.prefix))
	if err != nil {
		tracer().Errorf("mention %s: %v", p.name, err)
		return false
	}
	if m == nil || m.Length == 0 {
		return false
	}
	id := m.String()
	x := p.gen.Generate(&Mention{
		Link:       ast.Link{Inner: ast.Inlines{&ast.Text{Text: p.prefix + id}}},
		Name:       p.name,
		Prefix:     p.prefix,
		Identifier: id,
	})
	if x == nil {
		return false
	}
	c.Add(x, c.Pos()+len(p.prefix)+len(id))
	return true
}

// isWord reports whether r matches \w.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
