// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve reconciles a schema.Registry with raw argument tokens.
//
// Every field is resolved on its own:
//
//  1. Positional: if the field has a position p and tokens[p] exists and does
//     not start with "-", it is parsed as the value. A dash-prefixed token in
//     the slot of a required field is a MissingPositionalError.
//  2. Keyword: every dash-prefixed token is checked against the field's
//     aliases. An exact match supplies "true"; "alias=value" supplies value.
//     The last matching token wins.
//  3. The keyword value beats the positional value, which beats the declared
//     default, which beats the type's zero value.
//
// Any parse failure aborts the whole call.
package resolve

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/argh/pkg/schema"
	"tailscale.com/util/mak"
)

const dashPrefix = "-"

// flagValue is handed to a field's parser when its alias appears bare.
const flagValue = "true"

// Source records which step of resolution produced a field's value.
type Source int

const (
	SourceZero Source = iota
	SourceDefault
	SourcePositional
	SourceKeyword
)

func (s Source) String() string {
	switch s {
	case SourceZero:
		return "zero"
	case SourceDefault:
		return "default"
	case SourcePositional:
		return "positional"
	case SourceKeyword:
		return "keyword"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

type entry struct {
	value  any
	source Source
}

// Config is the result of a successful Resolve: one value per field.
type Config struct {
	entries map[string]entry
	names   []string
}

// Resolve resolves every field of reg against tokens. tokens[0] is the
// program name and is ignored.
func Resolve(reg *schema.Registry, tokens []string) (*Config, error) {
	if len(tokens) > 0 {
		tokens = tokens[1:]
	}
	c := &Config{}
	for _, f := range reg.Fields() {
		e, err := resolveField(f, tokens)
		if err != nil {
			return nil, err
		}
		mak.Set(&c.entries, f.Name, e)
		c.names = append(c.names, f.Name)
	}
	return c, nil
}

func resolveField(f *schema.Field, tokens []string) (entry, error) {
	var (
		value    any
		source   Source
		supplied bool
	)

	if pos, ok := f.Position(); ok && pos < len(tokens) {
		tok := tokens[pos]
		if strings.HasPrefix(tok, dashPrefix) {
			if f.Required {
				return entry{}, &MissingPositionalError{Field: f.Name, Token: tok}
			}
		} else {
			v, err := f.Type.Parse(tok)
			if err != nil {
				return entry{}, &InvalidValueError{Field: f.Name, Raw: tok, Err: err}
			}
			value, source, supplied = v, SourcePositional, true
		}
	}

	for _, tok := range tokens {
		if !strings.HasPrefix(tok, dashPrefix) {
			continue
		}
		raw, ok := keywordValue(f, tok)
		if !ok {
			continue
		}
		v, err := f.Type.Parse(raw)
		if err != nil {
			return entry{}, &InvalidValueError{Field: f.Name, Raw: raw, Err: err}
		}
		value, source, supplied = v, SourceKeyword, true
	}

	if supplied {
		return entry{value: value, source: source}, nil
	}
	if def, ok := f.Default(); ok {
		return entry{value: def, source: SourceDefault}, nil
	}
	if f.Required {
		return entry{}, &MissingRequiredError{Field: f.Name, Aliases: f.PrettyName()}
	}
	return entry{value: f.Type.Zero(), source: SourceZero}, nil
}

// keywordValue returns the raw value tok supplies for f, if any.
func keywordValue(f *schema.Field, tok string) (string, bool) {
	if f.MatchesAlias(tok) {
		return flagValue, true
	}
	key, val, ok := strings.Cut(tok, "=")
	if ok && f.MatchesAlias(key) {
		return val, true
	}
	return "", false
}

// Value returns the resolved value of the named field.
func (c *Config) Value(name string) (any, bool) {
	e, ok := c.entries[name]
	return e.value, ok
}

// Source reports where the named field's value came from.
func (c *Config) Source(name string) Source {
	return c.entries[name].source
}

// Names returns the field names in declaration order.
func (c *Config) Names() []string {
	return slices.Clone(c.names)
}

// Map returns a copy of all resolved values keyed by field name.
func (c *Config) Map() map[string]any {
	out := make(map[string]any, len(c.entries))
	for name, e := range c.entries {
		out[name] = e.value
	}
	return out
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range c.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", name, c.entries[name].value)
	}
	b.WriteString("}")
	return b.String()
}

// Get returns the named field's value as a T.
func Get[T any](c *Config, name string) (T, error) {
	var zero T
	v, ok := c.Value(name)
	if !ok {
		return zero, fmt.Errorf("unknown field %s", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("field %s holds %T, not %T", name, v, zero)
	}
	return t, nil
}
