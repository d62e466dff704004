// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTabs(t *testing.T) {
	assert.Equal(t, "a   b\n    c", string(replaceTabs([]byte("a\tb\n\tc"))))
}

func TestNewConverter(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "md2html.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
html_input: escape
mentions:
  user:
    prefix: "@"
    pattern: '\w+'
    generator: "/u/%s"
`), 0o666))

	*configFile, *smart, *strike = file, true, true
	defer func() { *configFile, *smart, *strike = "", false, false }()

	c, err := newConverter()
	require.NoError(t, err)
	out, err := c.Convert(`"hi" @gopher <b>~~x~~</b>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>“hi” <a href="/u/gopher">@gopher</a> &lt;b&gt;<del>x</del>&lt;/b&gt;</p>`+"\n", out)
}
