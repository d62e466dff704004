// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the configuration store of a conversion pipeline.
//
// A [Store] maps dot-separated option paths such as "renderer.soft_break"
// to values. Options are declared with a [Type] and a default;
// callers and extensions merge values in while the store is mutable.
// [Store.Freeze] validates everything merged so far against the declared
// options and makes the store read-only. A [Reader] is a read-only view,
// valid both before and after freezing.
package config

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'commonmark.config'.
func tracer() tracing.Trace {
	return tracing.Select("commonmark.config")
}

// A Type is the semantic type of an option value.
type Type int

const (
	Bool   Type = iota // bool
	Int                // int; integral int64 and float64 are accepted
	String             // string
	Enum               // string restricted to Option.Values
	Map                // nested map; contents are validated by the option's owner
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case String:
		return "string"
	case Enum:
		return "enum"
	case Map:
		return "map"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// An Option declares a configuration option.
type Option struct {
	Path    string
	Type    Type
	Default any
	Values  []string // allowed values of an Enum

	// ReplacedBy marks a legacy option. At freeze time its value is
	// passed through Convert and stored under ReplacedBy.
	// Supplying both the legacy option and its replacement is an error.
	ReplacedBy string
	Convert    func(any) any
}

// A Store holds option declarations and values.
type Store struct {
	opts   map[string]*Option
	values map[string]any
	frozen bool
	err    error // result of the first Freeze
}

// New returns a store declaring opts.
// It panics if opts declares a path twice.
func New(opts ...Option) *Store {
	s := &Store{
		opts:   make(map[string]*Option),
		values: make(map[string]any),
	}
	if err := s.Define(opts...); err != nil {
		panic(err)
	}
	return s
}

// Define declares additional options.
// If any path is already declared, or declared twice in opts,
// Define returns an error wrapping [ErrAlreadyDefined]
// and declares none of opts.
func (s *Store) Define(opts ...Option) error {
	if s.frozen {
		return &Error{Path: optPaths(opts), Err: ErrFrozen}
	}
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if _, ok := s.opts[o.Path]; ok || seen[o.Path] {
			return &Error{Path: o.Path, Err: ErrAlreadyDefined}
		}
		seen[o.Path] = true
	}
	for i := range opts {
		o := opts[i]
		s.opts[o.Path] = &o
	}
	return nil
}

func optPaths(opts []Option) string {
	var paths []string
	for _, o := range opts {
		paths = append(paths, o.Path)
	}
	return strings.Join(paths, ",")
}

// Merge merges values into the store.
// Keys may be nested maps, dotted paths, or a mix of both.
// Nested maps are merged recursively; other values replace earlier ones.
// Once the store is frozen, Merge returns an error wrapping [ErrFrozen]
// and leaves the store unchanged.
func (s *Store) Merge(values map[string]any) error {
	if s.frozen {
		return &Error{Path: strings.Join(sortedKeys(values), ","), Err: ErrFrozen}
	}
	deepMerge(s.values, unflatten(values))
	return nil
}

// Set sets a single option value.
func (s *Store) Set(path string, value any) error {
	return s.Merge(map[string]any{path: value})
}

// Frozen reports whether the store has been frozen.
func (s *Store) Frozen() bool {
	return s.frozen
}

// Freeze validates the merged values and makes the store read-only.
// Legacy options are converted to their replacements.
// Freeze is idempotent: later calls return the result of the first.
func (s *Store) Freeze() error {
	if s.frozen {
		return s.err
	}
	s.frozen = true
	s.err = s.validate()
	if s.err != nil {
		tracer().Errorf("invalid configuration: %v", s.err)
	} else {
		tracer().Debugf("configuration frozen")
	}
	return s.err
}

func (s *Store) validate() error {
	if err := s.check("", s.values); err != nil {
		return err
	}
	for _, path := range sortedKeys(s.opts) {
		o := s.opts[path]
		if o.ReplacedBy == "" {
			continue
		}
		v, ok := getPath(s.values, path)
		if !ok {
			continue
		}
		if _, ok := getPath(s.values, o.ReplacedBy); ok {
			return &Error{Path: path, Message: "cannot be combined with " + o.ReplacedBy, Err: ErrConflict}
		}
		if o.Convert != nil {
			v = o.Convert(v)
		}
		deletePath(s.values, path)
		setPath(s.values, o.ReplacedBy, v)
		if r, ok := s.opts[o.ReplacedBy]; ok {
			nv, err := checkValue(o.ReplacedBy, r, v)
			if err != nil {
				return err
			}
			setPath(s.values, o.ReplacedBy, nv)
		}
		tracer().Infof("option %s is deprecated; use %s", path, o.ReplacedBy)
	}
	return nil
}

// check validates the values in m, whose keys are below prefix.
func (s *Store) check(prefix string, m map[string]any) error {
	for _, key := range sortedKeys(m) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		v := m[key]
		if o, ok := s.opts[path]; ok {
			nv, err := checkValue(path, o, v)
			if err != nil {
				return err
			}
			m[key] = nv
			continue
		}
		sub, isMap := asMap(v)
		if isMap && s.hasPrefix(path+".") {
			m[key] = sub
			if err := s.check(path, sub); err != nil {
				return err
			}
			continue
		}
		return &Error{Path: path, Err: ErrUnknownOption}
	}
	return nil
}

func (s *Store) hasPrefix(prefix string) bool {
	for p := range s.opts {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// checkValue validates v against o and returns it in canonical form.
func checkValue(path string, o *Option, v any) (any, error) {
	bad := func() (any, error) {
		return nil, &Error{Path: path, Message: fmt.Sprintf("want %v, have %T", o.Type, v), Err: ErrInvalidType}
	}
	switch o.Type {
	case Bool:
		if _, ok := v.(bool); !ok {
			return bad()
		}
	case Int:
		switch x := v.(type) {
		case int:
		case int64:
			if x < math.MinInt || x > math.MaxInt {
				return bad()
			}
			return int(x), nil
		case float64:
			if x != math.Trunc(x) || x < math.MinInt || x > math.MaxInt {
				return bad()
			}
			return int(x), nil
		default:
			return bad()
		}
	case String:
		if _, ok := v.(string); !ok {
			return bad()
		}
	case Enum:
		str, ok := v.(string)
		if !ok {
			return bad()
		}
		if !slices.Contains(o.Values, str) {
			return nil, &Error{Path: path, Message: fmt.Sprintf("%q is not one of %s", str, strings.Join(o.Values, ", ")), Err: ErrInvalidValue}
		}
	case Map:
		m, ok := asMap(v)
		if !ok {
			return bad()
		}
		return m, nil
	}
	return v, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reader returns a read-only view of the store.
// The view reflects later merges until the store is frozen.
func (s *Store) Reader() Reader {
	return Reader{s}
}

// A Reader is a read-only view of a [Store].
// The zero Reader has no options and returns defaults.
type Reader struct {
	s *Store
}

// Exists reports whether a value or a default is present at path.
func (r Reader) Exists(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

func (r Reader) lookup(path string) (any, bool) {
	if r.s == nil {
		return nil, false
	}
	if v, ok := getPath(r.s.values, path); ok {
		return v, true
	}
	if o, ok := r.s.opts[path]; ok && o.Default != nil {
		return o.Default, true
	}
	return nil, false
}

// Get returns the value at path: the merged value if any,
// else the option's declared default, else def.
func (r Reader) Get(path string, def any) any {
	if v, ok := r.lookup(path); ok {
		return v
	}
	return def
}

// Bool returns the bool at path, or def if there is none.
func (r Reader) Bool(path string, def bool) bool {
	if v, ok := r.Get(path, def).(bool); ok {
		return v
	}
	return def
}

// Int returns the int at path, or def if there is none.
func (r Reader) Int(path string, def int) int {
	switch v := r.Get(path, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// String returns the string at path, or def if there is none.
func (r Reader) String(path string, def string) string {
	if v, ok := r.Get(path, def).(string); ok {
		return v
	}
	return def
}

// Map returns the map at path, or nil if there is none.
func (r Reader) Map(path string) map[string]any {
	m, _ := asMap(r.Get(path, nil))
	return m
}

// Frozen reports whether the underlying store is frozen.
func (r Reader) Frozen() bool {
	return r.s != nil && r.s.frozen
}
