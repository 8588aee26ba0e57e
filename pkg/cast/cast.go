// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cast

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// ErrInvalid matches every error produced when a raw string cannot be
// converted into a field's type.
var ErrInvalid = errors.New("invalid value")

// Error is returned when a raw token fails to parse under a Type.
type Error struct {
	Type string // name of the target type (e.g., "int")
	Raw  string // the text that failed to parse
	Err  error  // underlying parse error, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Raw, e.Err)
	}
	return fmt.Sprintf("invalid %s value %q", e.Type, e.Raw)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrInvalid }

// Traits describes how the resolver and registry treat a Type.
type Traits uint8

const (
	// TraitBool marks flag types: a bare alias supplies "true" and the
	// field is never required.
	TraitBool Traits = 1 << iota
	// TraitOptional marks optional-wrapped types. Fields of these types are
	// never required and their zero value is None.
	TraitOptional
)

// Has reports whether all bits of o are set in t.
func (t Traits) Has(o Traits) bool { return t&o == o }

// Type is the semantic type of a schema field.
type Type interface {
	// Name is the type's schema-file name, e.g. "int" or "optional<int>".
	Name() string
	Traits() Traits
	// Parse converts raw into a value of the type. Failures are *Error.
	Parse(raw string) (any, error)
	// Zero is the value a field takes when nothing supplies it.
	Zero() any
}

// Scalar is a Type backed by a Go type T and a parse function.
type Scalar[T any] struct {
	name   string
	traits Traits
	parse  func(string) (T, error)
	zero   T
	wrap   func(Scalar[T]) Type
}

var _ Type = Scalar[int]{}

// Of returns a Scalar named name that parses with fn.
func Of[T any](name string, fn func(string) (T, error)) Scalar[T] {
	return Scalar[T]{
		name:  name,
		parse: fn,
		wrap:  func(in Scalar[T]) Type { return Optional(in) },
	}
}

// WithTraits returns a copy of s with the given traits added.
func (s Scalar[T]) WithTraits(t Traits) Scalar[T] {
	s.traits |= t
	return s
}

func (s Scalar[T]) Name() string   { return s.name }
func (s Scalar[T]) Traits() Traits { return s.traits }
func (s Scalar[T]) Zero() any      { return s.zero }

// Cast parses raw into a T.
func (s Scalar[T]) Cast(raw string) (T, error) {
	v, err := s.parse(raw)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return v, err
		}
		return v, &Error{Type: s.name, Raw: raw, Err: err}
	}
	return v, nil
}

func (s Scalar[T]) Parse(raw string) (any, error) {
	v, err := s.Cast(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// optional lets type-erased scalars be wrapped at runtime.
func (s Scalar[T]) optional() Type {
	if s.wrap == nil {
		return nil
	}
	return s.wrap(s)
}

// PortNumber is a uint16 network port.
type PortNumber uint16

var (
	String = Of("string", func(s string) (string, error) { return s, nil })

	Bool = Of("bool", strconv.ParseBool).WithTraits(TraitBool)

	Int = Of("int", strconv.Atoi)

	Int64 = Of("int64", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})

	Uint = Of("uint", func(s string) (uint, error) {
		u, err := strconv.ParseUint(s, 10, 0)
		return uint(u), err
	})

	Float64 = Of("float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})

	Duration = Of("duration", time.ParseDuration)

	// Path cleans the path lexically; it never touches the filesystem.
	Path = Of("path", func(s string) (string, error) {
		if s == "" {
			return "", errors.New("empty path")
		}
		return filepath.Clean(s), nil
	})

	URL = Of("url", url.Parse)

	Port = Of("port", parsePort)
)

func parsePort(s string) (PortNumber, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("port must be between 0 and 65535, got %q", s)
		}
		return 0, fmt.Errorf("invalid port value %q", s)
	}
	return PortNumber(v), nil
}

var builtins = map[string]Type{
	String.Name():   String,
	Bool.Name():     Bool,
	Int.Name():      Int,
	Int64.Name():    Int64,
	Uint.Name():     Uint,
	Float64.Name():  Float64,
	Duration.Name(): Duration,
	Path.Name():     Path,
	URL.Name():      URL,
	Port.Name():     Port,
}

// Lookup returns the built-in type registered under name.
func Lookup(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// Names returns the names of all built-in types.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
