// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"bytes"
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
	"rsc.io/commonmark/delim"
)

// countingExtension counts its registrations
// and adds next, if any, while registering.
type countingExtension struct {
	name  string
	order *[]string
	next  Extension
}

func (x *countingExtension) Register(b Builder) error {
	*x.order = append(*x.order, x.name)
	if x.next != nil {
		return b.AddExtension(x.next)
	}
	return nil
}

func TestInitOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	var order []string
	env := NewEnvironment(nil)
	require.NoError(t, env.AddExtension(&countingExtension{name: "a", order: &order}))
	require.NoError(t, env.AddExtension(&countingExtension{name: "b", order: &order}))
	assert.Empty(t, order, "extensions registered before first use")

	env.BlockParsers()
	env.InlineParsers()
	require.NoError(t, env.Init())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestExtensionAddsExtension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	var order []string
	c := &countingExtension{name: "c", order: &order}
	a := &countingExtension{name: "a", order: &order, next: c}
	b := &countingExtension{name: "b", order: &order}
	env := NewEnvironment(nil)
	require.NoError(t, env.AddExtension(a))
	require.NoError(t, env.AddExtension(b))
	require.NoError(t, env.Init())
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, []Extension{a, b, c}, env.Extensions())
}

func TestFrozen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(map[string]any{"html_input": HTMLEscape})
	require.NoError(t, env.Init())

	errs := map[string]error{
		"AddBlockParser":        env.AddBlockParser(paragraphParser{}, 0),
		"AddInlineParser":       env.AddInlineParser(escapeParser, 0),
		"AddDelimiterProcessor": env.AddDelimiterProcessor(&emphasisProcessor{char: '+'}),
		"AddRenderer":           env.AddRenderer(ast.KindText, textRenderer{}, 0),
		"AddEventListener":      env.AddEventListener(Listen(func(*DocumentParsedEvent) {}), 0),
		"AddExtension":          env.AddExtension(CoreExtension{}),
		"MergeConfig":           env.MergeConfig(map[string]any{"html_input": HTMLStrip}),
	}
	for op, err := range errs {
		assert.ErrorIs(t, err, ErrFrozen, op)
		var se *StateError
		if assert.True(t, errors.As(err, &se), op) {
			assert.Equal(t, op, se.Op)
		}
	}
	assert.Equal(t, HTMLEscape, env.Config().String("html_input", ""))
	assert.Nil(t, env.DelimiterProcessors().Get('+'))
	assert.NoError(t, env.Init(), "second Init")
}

func TestDuplicateProcessor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddDelimiterProcessor(&emphasisProcessor{char: '~'}))
	err := env.AddDelimiterProcessor(&emphasisProcessor{char: '~'})
	assert.ErrorIs(t, err, delim.ErrDuplicate)

	// The core extension registers * during Init.
	env = NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddDelimiterProcessor(&emphasisProcessor{char: '*'}))
	assert.ErrorIs(t, env.Init(), delim.ErrDuplicate)
}

func TestConfigErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	tests := []struct {
		cfg map[string]any
		err error
	}{
		{map[string]any{"html_input": "bogus"}, config.ErrInvalidValue},
		{map[string]any{"no_such_option": true}, config.ErrUnknownOption},
		{map[string]any{"allow_unsafe_links": "yes"}, config.ErrInvalidType},
		{map[string]any{"safe": true, "html_input": HTMLAllow}, config.ErrConflict},
		{map[string]any{"commonmark": map[string]any{"enable_em": 1}}, config.ErrInvalidType},
	}
	for _, tt := range tests {
		c := NewCommonMarkConverter(tt.cfg)
		_, err := c.Convert("x")
		assert.ErrorIs(t, err, tt.err, "%v", tt.cfg)
		assert.ErrorIs(t, c.Environment().Err(), tt.err, "%v: Err", tt.cfg)
	}
}

func TestSafeLegacy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	for _, tt := range []struct {
		safe bool
		want string
	}{
		{true, HTMLStrip},
		{false, HTMLAllow},
	} {
		env := NewCommonMarkEnvironment(map[string]any{"safe": tt.safe})
		require.NoError(t, env.Init())
		assert.Equal(t, tt.want, env.Config().String("html_input", ""))
		assert.False(t, env.Config().Exists("safe"))
	}
}

var kindTestLink = ast.NewKind("TestLink", ast.KindLink)

type testLink struct {
	ast.Link
}

func (*testLink) Kind() ast.Kind { return kindTestLink }

var kindTestInline = ast.NewKind("TestInline", ast.KindInline)

type testInline struct{}

func (*testInline) Kind() ast.Kind { return kindTestInline }
func (*testInline) Inline()        {}

func TestRendererFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	rs := env.RenderersFor(kindTestLink)
	require.Len(t, rs, 1)
	assert.Same(t, env.RenderersFor(ast.KindLink)[0], rs[0])
	assert.Same(t, &rs[0], &env.RenderersFor(kindTestLink)[0], "cached list")
	assert.Empty(t, env.RenderersFor(kindTestInline))

	r := NewHTMLRenderer(env)
	out, err := r.Render(&testLink{ast.Link{URL: "/u", Inner: ast.Inlines{&ast.Text{Text: "x"}}}})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/u">x</a>`, out)

	var buf bytes.Buffer
	buf.WriteString("> ")
	require.NoError(t, r.RenderInlines(&buf, ast.Inlines{&ast.Text{Text: "a"}, &testInline{}, &ast.Text{Text: "b"}}))
	assert.Equal(t, "> ab", buf.String())
}

// upperCode renders code spans containing "x" in upper case
// and declines the others, after writing a stray "?".
type upperCode struct{}

func (upperCode) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	if x, ok := n.(*ast.Code); ok && x.Text == "x" {
		buf.WriteString("X")
		return nil
	}
	buf.WriteString("?")
	return &NodeKindError{Node: n}
}

// failing declines every node, but names the wrong one.
type failing struct{}

func (failing) Render(buf *bytes.Buffer, n ast.Node, c ChildRenderer) error {
	return &NodeKindError{Node: &ast.Text{}}
}

func TestRendererDecline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddRenderer(ast.KindCode, upperCode{}, 10))
	out, err := NewConverter(env).Convert("`x` `y`")
	require.NoError(t, err)
	assert.Equal(t, "<p>X <code>y</code></p>\n", out)

	env = NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddRenderer(ast.KindCode, failing{}, 10))
	_, err = NewConverter(env).Convert("`x`")
	assert.ErrorIs(t, err, ErrInvalidNodeKind)
}

func TestEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	var all, parsed int
	var stoppedLate bool
	require.NoError(t, env.AddEventListener(Listen(func(Stoppable) { all++ }), 100))
	require.NoError(t, env.AddEventListener(Listen(func(ev *DocumentPreParsedEvent) {
		ev.Markdown += " *more*"
	}), 0))
	require.NoError(t, env.AddEventListener(Listen(func(ev *DocumentParsedEvent) {
		parsed++
		ev.Document.Blocks = append(ev.Document.Blocks, &ast.ThematicBreak{})
	}), 0))
	require.NoError(t, env.AddEventListener(Listen(func(ev *DocumentRenderedEvent) {
		ev.HTML = "<div>" + ev.HTML + "</div>"
		ev.StopPropagation()
	}), 10))
	require.NoError(t, env.AddEventListener(Listen(func(ev *DocumentRenderedEvent) {
		stoppedLate = true
	}), 0))

	out, err := NewConverter(env).Convert("text")
	require.NoError(t, err)
	assert.Equal(t, "<div><p>text <em>more</em></p>\n<hr />\n</div>", out)
	assert.Equal(t, 3, all)
	assert.Equal(t, 1, parsed)
	assert.False(t, stoppedLate, "listener after StopPropagation")
	assert.Len(t, env.ListenersFor(&DocumentParsedEvent{}), 2)
}

// recorder is an EventDispatcher that records event types.
type recorder struct {
	events []string
}

func (r *recorder) Dispatch(ev Event) Event {
	switch ev.(type) {
	case *DocumentPreParsedEvent:
		r.events = append(r.events, "pre")
	case *DocumentParsedEvent:
		r.events = append(r.events, "parsed")
	case *DocumentRenderedEvent:
		r.events = append(r.events, "rendered")
	}
	return ev
}

func TestEventDispatcher(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	called := false
	require.NoError(t, env.AddEventListener(Listen(func(Event) { called = true }), 0))
	d := new(recorder)
	env.SetEventDispatcher(d)
	out, err := NewConverter(env).Convert("*a*")
	require.NoError(t, err)
	assert.Equal(t, "<p><em>a</em></p>\n", out)
	assert.Equal(t, []string{"pre", "parsed", "rendered"}, d.events)
	assert.False(t, called, "environment listener called despite dispatcher")
}

func TestInvalidEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	_, err := NewCommonMarkConverter(nil).Convert("a\xffb")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

// fakeProcessor declines every pairing with a fixed use of 0 or less.
type fakeProcessor struct {
	char rune
	use  int
}

func (p fakeProcessor) OpeningChar() rune                          { return p.char }
func (p fakeProcessor) ClosingChar() rune                          { return p.char }
func (p fakeProcessor) MinLength() int                             { return 1 }
func (p fakeProcessor) DelimiterUse(opener, closer *delim.Run) int { return p.use }

func (p fakeProcessor) Process(opener, closer *delim.Run, use int, inner ast.Inlines) ast.Inline {
	panic("Process called for declined pairing")
}

func TestDeclinedDelimiters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddDelimiterProcessor(fakeProcessor{':', 0}))
	require.NoError(t, env.AddDelimiterProcessor(fakeProcessor{';', -1}))
	c := NewConverter(env)
	for _, in := range []string{":test:", ";test;", "::a:: *b*"} {
		out, err := c.Convert(in)
		require.NoError(t, err)
		want := "<p>" + in + "</p>\n"
		if in == "::a:: *b*" {
			want = "<p>::a:: <em>b</em></p>\n"
		}
		assert.Equal(t, want, out, in)
	}
}

func TestParserMustAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	lazy := &parserFunc{[]rune{'%'}, func(*InlineContext) bool { return true }}
	require.NoError(t, env.AddInlineParser(lazy, 1000))
	assert.Panics(t, func() { NewConverter(env).Convert("a % b") })
}

// fenceBreak turns a line of three or more % into a thematic break.
type fenceBreak struct{}

func (fenceBreak) Parse(c *BlockContext) bool {
	s := c.Line()
	if len(s) < 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			return false
		}
	}
	c.Add(&ast.ThematicBreak{})
	return true
}

// percentParser replaces %% by a code span.
var percentParser = &parserFunc{[]rune{'%'}, func(c *InlineContext) bool {
	if len(c.Rest()) < 2 || c.Rest()[1] != '%' {
		return false
	}
	c.Add(&ast.Code{Text: "pct"}, c.Pos()+2)
	return true
}}

func TestCustomParsers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	env := NewCommonMarkEnvironment(nil)
	require.NoError(t, env.AddBlockParser(fenceBreak{}, 100))
	require.NoError(t, env.AddInlineParser(percentParser, 0))
	out, err := NewConverter(env).Convert("a %% b\n%%%\nc % d")
	require.NoError(t, err)
	assert.Equal(t, "<p>a <code>pct</code> b</p>\n<hr />\n<p>c % d</p>\n", out)
	assert.Equal(t, []InlineParser{percentParser}, env.InlineParsersFor('%'))
}

func TestRendererOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	c := NewCommonMarkConverter(map[string]any{
		"renderer": map[string]any{
			"block_separator": "",
			"soft_break":      "<br>",
		},
	})
	out, err := c.Convert("a\nb\n\n# c")
	require.NoError(t, err)
	assert.Equal(t, "<p>a<br>b</p><h1>c</h1>", out)

	out, err = c.Convert("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestIsUnsafeLink(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark")
	defer teardown()
	//
	tests := map[string]bool{
		"javascript:alert(1)":        true,
		"JavaScript:alert(1)":        true,
		"vbscript:x":                 true,
		"file:///etc/passwd":         true,
		"data:text/html,x":           true,
		"data:image/png;base64,AAAA": false,
		"data:image/gif;base64,AAAA": false,
		"data:image/jpeg;base64,A":   false,
		"DATA:IMAGE/WEBP;base64,A":   false,
		"data:image/svg+xml,x":       true,
		"https://example.com":        false,
		"/javascript:x":              false,
		"":                           false,
	}
	for url, want := range tests {
		assert.Equal(t, want, IsUnsafeLink(url), url)
	}
}
