// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() []Option {
	return []Option{
		{Path: "html_input", Type: Enum, Default: "allow", Values: []string{"strip", "allow", "escape"}},
		{Path: "safe", Type: Bool, ReplacedBy: "html_input", Convert: func(v any) any {
			if v.(bool) {
				return "strip"
			}
			return "allow"
		}},
		{Path: "allow_unsafe_links", Type: Bool, Default: true},
		{Path: "max_depth", Type: Int, Default: 10},
		{Path: "renderer.soft_break", Type: String, Default: "\n"},
		{Path: "mentions", Type: Map},
	}
}

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	s := New(testOptions()...)
	r := s.Reader()
	assert.Equal(t, "allow", r.String("html_input", ""))
	assert.True(t, r.Bool("allow_unsafe_links", false))
	assert.Equal(t, 10, r.Int("max_depth", 0))
	assert.Equal(t, "\n", r.String("renderer.soft_break", ""))
	assert.Equal(t, "fallback", r.String("no.such", "fallback"))
	assert.False(t, r.Exists("mentions"))
	assert.Nil(t, r.Map("mentions"))
}

func TestMergeNestedAndDotted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	s := New(testOptions()...)
	require.NoError(t, s.Merge(map[string]any{"renderer": map[string]any{"soft_break": "<br>"}}))
	assert.Equal(t, "<br>", s.Reader().String("renderer.soft_break", ""))
	require.NoError(t, s.Merge(map[string]any{"renderer.soft_break": " "}))
	assert.Equal(t, " ", s.Reader().String("renderer.soft_break", ""))
	require.NoError(t, s.Merge(map[string]any{"mentions": map[string]any{"a": map[string]any{"prefix": "@"}}}))
	require.NoError(t, s.Merge(map[string]any{"mentions": map[string]any{"b": map[string]any{"prefix": "#"}}}))
	require.NoError(t, s.Freeze())
	assert.Len(t, s.Reader().Map("mentions"), 2)
}

func TestFreeze(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	s := New(testOptions()...)
	require.NoError(t, s.Set("max_depth", 3))
	r := s.Reader()
	assert.False(t, r.Frozen())
	require.NoError(t, s.Freeze())
	assert.True(t, r.Frozen())
	assert.NoError(t, s.Freeze(), "second Freeze")

	err := s.Merge(map[string]any{"max_depth": 4})
	assert.ErrorIs(t, err, ErrFrozen)
	assert.Equal(t, 3, r.Int("max_depth", 0), "value changed by failed merge")
	assert.ErrorIs(t, s.Define(Option{Path: "late", Type: Bool}), ErrFrozen)
}

var freezeErrorTests = []struct {
	name   string
	values map[string]any
	err    error
	path   string
}{
	{"unknown", map[string]any{"foo": "bar"}, ErrUnknownOption, "foo"},
	{"unknown nested", map[string]any{"renderer": map[string]any{"bogus": "x"}}, ErrUnknownOption, "renderer.bogus"},
	{"bool", map[string]any{"allow_unsafe_links": "yes"}, ErrInvalidType, "allow_unsafe_links"},
	{"int", map[string]any{"max_depth": 2.5}, ErrInvalidType, "max_depth"},
	{"string", map[string]any{"renderer.soft_break": 1}, ErrInvalidType, "renderer.soft_break"},
	{"enum", map[string]any{"html_input": "remove"}, ErrInvalidValue, "html_input"},
	{"map", map[string]any{"mentions": "x"}, ErrInvalidType, "mentions"},
	{"legacy conflict", map[string]any{"safe": true, "html_input": "escape"}, ErrConflict, "safe"},
}

func TestFreezeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	for _, tt := range freezeErrorTests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testOptions()...)
			require.NoError(t, s.Merge(tt.values))
			err := s.Freeze()
			require.ErrorIs(t, err, tt.err)
			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.path, cerr.Path)
			assert.ErrorIs(t, s.Freeze(), tt.err, "second Freeze")
		})
	}
}

func TestIntCoercion(t *testing.T) {
	for _, v := range []any{int(7), int64(7), float64(7)} {
		s := New(testOptions()...)
		require.NoError(t, s.Set("max_depth", v))
		require.NoError(t, s.Freeze())
		assert.Equal(t, 7, s.Reader().Get("max_depth", nil), "from %T", v)
	}
}

func TestLegacy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	s := New(testOptions()...)
	require.NoError(t, s.Set("safe", true))
	require.NoError(t, s.Freeze())
	r := s.Reader()
	assert.Equal(t, "strip", r.String("html_input", ""))
	assert.False(t, r.Exists("safe"))
}

func TestDefineTwice(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(Option{Path: "x", Type: Bool}))
	assert.ErrorIs(t, s.Define(Option{Path: "x", Type: Int}), ErrAlreadyDefined)

	// A failed Define declares nothing.
	assert.ErrorIs(t, s.Define(Option{Path: "y", Type: Int}, Option{Path: "x", Type: Int}), ErrAlreadyDefined)
	assert.ErrorIs(t, s.Define(Option{Path: "z", Type: Int}, Option{Path: "z", Type: Bool}), ErrAlreadyDefined)
	require.NoError(t, s.Define(Option{Path: "y", Type: Int}, Option{Path: "z", Type: Bool}))
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "commonmark.config")
	defer teardown()
	//
	files := map[string]string{
		"c.yaml": "html_input: escape\nmax_depth: 5\nrenderer:\n  soft_break: \"<br>\"\n",
		"c.toml": "html_input = \"escape\"\nmax_depth = 5\n[renderer]\nsoft_break = \"<br>\"\n",
		"c.json": `{"html_input": "escape", "max_depth": 5, "renderer": {"soft_break": "<br>"}}`,
	}
	dir := t.TempDir()
	for name, data := range files {
		file := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(file, []byte(data), 0o666))
		values, err := LoadFile(file)
		require.NoError(t, err, name)
		s := New(testOptions()...)
		require.NoError(t, s.Merge(values), name)
		require.NoError(t, s.Freeze(), name)
		r := s.Reader()
		assert.Equal(t, "escape", r.String("html_input", ""), name)
		assert.Equal(t, 5, r.Int("max_depth", 0), name)
		assert.Equal(t, "<br>", r.String("renderer.soft_break", ""), name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFile("config.ini")
	assert.Error(t, err)

	_, err = Load(strings.NewReader("html_input = "), TOML)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	values, err := Load(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Empty(t, values)
}
