// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "strings"

// deepMerge merges src into dst and returns dst.
// Maps are merged recursively; any other value in src replaces the one in dst.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, sv := range src {
		sm, srcIsMap := asMap(sv)
		dm, dstIsMap := asMap(dst[key])
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dm, sm)
			continue
		}
		dst[key] = clone(sv)
	}
	return dst
}

// asMap returns v as a string-keyed map.
// Decoders disagree on the map type they produce, so both common shapes are accepted.
func asMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, x := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			m[ks] = x
		}
		return m, true
	}
	return nil, false
}

func clone(v any) any {
	switch v := v.(type) {
	case map[string]any, map[any]any:
		m, _ := asMap(v)
		out := make(map[string]any, len(m))
		for k, x := range m {
			out[k] = clone(x)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = clone(x)
		}
		return out
	}
	return v
}

// getPath returns the value at the dotted path in data.
func getPath(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath stores value at the dotted path in data, creating maps as needed.
func setPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// deletePath removes the value at the dotted path in data.
func deletePath(data map[string]any, path string) {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, parts[len(parts)-1])
}

// unflatten turns keys like "a.b" into nested maps.
func unflatten(values map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range values {
		if m, ok := asMap(v); ok {
			v = unflatten(m)
		}
		if strings.Contains(k, ".") {
			nested := make(map[string]any)
			setPath(nested, k, v)
			deepMerge(out, nested)
			continue
		}
		deepMerge(out, map[string]any{k: v})
	}
	return out
}
