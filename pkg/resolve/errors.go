// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"errors"
	"fmt"
)

// ErrInput matches every error caused by the tokens handed to Resolve. Unlike
// schema errors, these are meant to be shown to the end user.
var ErrInput = errors.New("invalid arguments")

// MissingPositionalError is returned when a required field's positional slot
// holds a dash-prefixed token instead of a value.
type MissingPositionalError struct {
	Field string
	Token string
}

func (e *MissingPositionalError) Error() string {
	return fmt.Sprintf("expected required positional argument %s, found keyword argument %s", e.Field, e.Token)
}

func (e *MissingPositionalError) Is(target error) bool { return target == ErrInput }

// InvalidValueError is returned when a supplied token does not parse under
// the field's type.
type InvalidValueError struct {
	Field string
	Raw   string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for argument %s", e.Raw, e.Field)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidValueError) Is(target error) bool { return target == ErrInput }

// MissingRequiredError is returned when nothing supplies a required field.
type MissingRequiredError struct {
	Field   string
	Aliases string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required argument %s (%s)", e.Field, e.Aliases)
}

func (e *MissingRequiredError) Is(target error) bool { return target == ErrInput }
