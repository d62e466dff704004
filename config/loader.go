// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// A Format is a configuration file format.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatOf returns the format implied by the extension of file.
func FormatOf(file string) (Format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("config file %s: unknown format", file)
}

// LoadFile reads the configuration file and returns its values,
// ready to pass to [Store.Merge].
func LoadFile(file string) (map[string]any, error) {
	format, err := FormatOf(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parse(file, format, data)
}

// Load reads configuration values in the given format from r.
func Load(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", format, data)
}

func parse(source string, format Format, data []byte) (map[string]any, error) {
	var values map[string]any
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &values)
	case TOML:
		err = toml.Unmarshal(data, &values)
	case JSON:
		err = json.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("config %s: unknown format %q", source, format)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if values == nil {
		values = make(map[string]any)
	}
	tracer().Debugf("loaded %d top-level options from %s", len(values), source)
	return values, nil
}
