// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
)

// ErrSchema matches every error returned by Build. These errors point at a
// programming mistake in the declarations, not at bad user input.
var ErrSchema = errors.New("invalid schema")

// DeclarationError is returned when a single declaration is malformed.
type DeclarationError struct {
	Field  string
	Reason string
}

func (e *DeclarationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid field declaration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid declaration for field %s: %s", e.Field, e.Reason)
}

func (e *DeclarationError) Is(target error) bool { return target == ErrSchema }

// DuplicateFieldError is returned when two declarations share a name.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field %s", e.Name)
}

func (e *DuplicateFieldError) Is(target error) bool { return target == ErrSchema }

// DuplicatePositionError is returned when two declarations claim the same
// positional slot.
type DuplicatePositionError struct {
	Position int
	First    string // field that claimed the slot first
	Second   string
}

func (e *DuplicatePositionError) Error() string {
	return fmt.Sprintf("fields %s and %s both claim position %d", e.First, e.Second, e.Position)
}

func (e *DuplicatePositionError) Is(target error) bool { return target == ErrSchema }

// InvalidDefaultError is returned when a declared default does not parse
// under the field's type.
type InvalidDefaultError struct {
	Field string
	Raw   string
	Err   error
}

func (e *InvalidDefaultError) Error() string {
	return fmt.Sprintf("invalid default %q for field %s: %v", e.Raw, e.Field, e.Err)
}

func (e *InvalidDefaultError) Unwrap() error { return e.Err }

func (e *InvalidDefaultError) Is(target error) bool { return target == ErrSchema }
