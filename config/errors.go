// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFrozen indicates a mutation of a frozen store.
	ErrFrozen = errors.New("configuration is frozen")

	// ErrUnknownOption indicates a value for an option nobody declared.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidType indicates a value of the wrong type.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidValue indicates a value outside the allowed set.
	ErrInvalidValue = errors.New("invalid value")

	// ErrConflict indicates a legacy option supplied together with its replacement.
	ErrConflict = errors.New("conflicting options")

	// ErrAlreadyDefined indicates a second definition of the same option.
	ErrAlreadyDefined = errors.New("option already defined")
)

// An Error describes a problem with a single option.
type Error struct {
	Path    string // dotted option path
	Message string // optional detail
	Err     error  // one of the Err values above
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("config %s: %v: %s", e.Path, e.Err, e.Message)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// A ParseError reports a configuration file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
