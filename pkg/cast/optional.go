// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cast

import (
	"fmt"
)

// Sentinel is the literal text that parses as None for optional types.
const Sentinel = "None"

// Opt holds either a value (Some) or nothing (None). The zero Opt is None.
//
// Opt exists so that a field can tell "not supplied" apart from "supplied as
// the zero value", which a plain T cannot.
type Opt[T any] struct {
	value T
	ok    bool
}

// Some returns an Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{value: v, ok: true} }

// None returns an empty Opt.
func None[T any]() Opt[T] { return Opt[T]{} }

// Get returns the held value and whether one is present.
func (o Opt[T]) Get() (T, bool) { return o.value, o.ok }

func (o Opt[T]) IsSome() bool { return o.ok }

// Any is Get without the type parameter, for callers holding an Opt as any.
func (o Opt[T]) Any() (any, bool) {
	if !o.ok {
		return nil, false
	}
	return o.value, true
}

// OrElse returns the held value, or def when o is None.
func (o Opt[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Ptr returns a pointer to a copy of the held value, or nil when o is None.
func (o Opt[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

func (o Opt[T]) String() string {
	if !o.ok {
		return Sentinel
	}
	return fmt.Sprintf("%v", o.value)
}

// Optional wraps inner so that its fields are never required and default to
// None.
//
// Parsing tries inner first and only then checks for Sentinel. A type whose
// own parser accepts "None" (String, URL) therefore yields Some("None") rather
// than None; the inner type always wins.
func Optional[T any](inner Scalar[T]) Scalar[Opt[T]] {
	name := "optional<" + inner.name + ">"
	return Scalar[Opt[T]]{
		name:   name,
		traits: inner.traits | TraitOptional,
		parse: func(raw string) (Opt[T], error) {
			v, err := inner.Cast(raw)
			if err == nil {
				return Some(v), nil
			}
			if raw == Sentinel {
				return None[T](), nil
			}
			return None[T](), &Error{Type: name, Raw: raw, Err: err}
		},
	}
}

type optionable interface {
	optional() Type
}

// OptionalOf wraps a type-erased Type with Optional. Only Scalar types that
// are not already optional can be wrapped.
func OptionalOf(t Type) (Type, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot wrap nil type")
	}
	if t.Traits().Has(TraitOptional) {
		return nil, fmt.Errorf("type %s is already optional", t.Name())
	}
	o, ok := t.(optionable)
	if !ok {
		return nil, fmt.Errorf("type %s cannot be made optional", t.Name())
	}
	wrapped := o.optional()
	if wrapped == nil {
		return nil, fmt.Errorf("type %s cannot be made optional", t.Name())
	}
	return wrapped, nil
}
