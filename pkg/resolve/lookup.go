// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strconv"
	"strings"
)

// ProbeKind is the shape of a Lookup result.
type ProbeKind int

const (
	ProbeAbsent ProbeKind = iota
	ProbeFlag
	ProbeString
)

// Probe is the result of Lookup.
type Probe struct {
	Kind  ProbeKind
	Value string // set for ProbeString
}

func (p Probe) String() string {
	switch p.Kind {
	case ProbeFlag:
		return strconv.FormatBool(true)
	case ProbeString:
		return strconv.Quote(p.Value)
	}
	return "absent"
}

// Lookup probes tokens for a single key without a schema. tokens[0] is the
// program name and is ignored. The first token equal to key yields
// ProbeFlag; the first "key=value" token yields ProbeString with value.
func Lookup(tokens []string, key string) Probe {
	if len(tokens) > 0 {
		tokens = tokens[1:]
	}
	for _, tok := range tokens {
		if tok == key {
			return Probe{Kind: ProbeFlag}
		}
		if k, v, ok := strings.Cut(tok, "="); ok && k == key {
			return Probe{Kind: ProbeString, Value: v}
		}
	}
	return Probe{}
}
