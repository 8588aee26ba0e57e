// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"fmt"
	"strings"
	"unicode"
)

type splitKind uint8

const (
	splitSpace splitKind = iota
	splitAny
	splitNever
	splitChars
)

const charsPrefix = "chars:"

// SplitPolicy decides where a wrapped description may break. The zero value
// is SplitSpace.
type SplitPolicy struct {
	kind  splitKind
	chars string
}

var (
	// SplitSpace breaks only at Unicode whitespace.
	SplitSpace = SplitPolicy{kind: splitSpace}
	// SplitAny breaks at any character.
	SplitAny = SplitPolicy{kind: splitAny}
	// SplitNever keeps every description on one line.
	SplitNever = SplitPolicy{kind: splitNever}
)

// SplitOn breaks only at the characters in chars.
func SplitOn(chars string) SplitPolicy {
	return SplitPolicy{kind: splitChars, chars: chars}
}

// Matches reports whether a line may break before r.
func (p SplitPolicy) Matches(r rune) bool {
	switch p.kind {
	case splitAny:
		return true
	case splitSpace:
		return unicode.IsSpace(r)
	case splitChars:
		return strings.ContainsRune(p.chars, r)
	}
	return false
}

func (p SplitPolicy) String() string {
	switch p.kind {
	case splitAny:
		return "any"
	case splitNever:
		return "never"
	case splitChars:
		return charsPrefix + p.chars
	}
	return "space"
}

// ParseSplitPolicy parses the textual form used in schema files: "any",
// "space", "never" or "chars:<set>".
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch s {
	case "", "space":
		return SplitSpace, nil
	case "any":
		return SplitAny, nil
	case "never", "none":
		return SplitNever, nil
	}
	if chars, ok := strings.CutPrefix(s, charsPrefix); ok {
		if chars == "" {
			return SplitPolicy{}, fmt.Errorf("split policy %q: empty character set", s)
		}
		return SplitOn(chars), nil
	}
	return SplitPolicy{}, fmt.Errorf("unknown split policy %q (want any, space, never or chars:<set>)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SplitPolicy) UnmarshalText(b []byte) error {
	v, err := ParseSplitPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p SplitPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
