// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema turns field declarations into an immutable Registry that
// the resolver and the help formatter consume.
package schema

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/yeetrun/argh/pkg/cast"
	"tailscale.com/util/set"
)

// Declaration describes one configuration field as written by the schema
// author.
type Declaration struct {
	Name string
	Type cast.Type
	// Aliases are the tokens that supply the field in keyword form, e.g.
	// "-v" and "--verbose". At least one is required.
	Aliases []string
	// Position is the zero-based positional slot, or nil for keyword-only
	// fields.
	Position    *int
	Description string
	// Default is parsed with Type when the registry is built.
	Default *string
}

// Field is a validated declaration.
type Field struct {
	Name        string
	Type        cast.Type
	Aliases     []string
	Description string
	// Required is false for boolean and optional-wrapped types and for
	// fields with a default.
	Required bool

	position    int
	hasPosition bool
	def         any
	hasDefault  bool
}

// Position returns the field's positional slot, if it has one.
func (f *Field) Position() (int, bool) {
	return f.position, f.hasPosition
}

// Default returns the pre-parsed default value, if one was declared.
func (f *Field) Default() (any, bool) {
	return f.def, f.hasDefault
}

// PrettyName is the alias list as shown in help output.
func (f *Field) PrettyName() string {
	return strings.Join(f.Aliases, ", ")
}

// MatchesAlias reports whether token is exactly one of the field's aliases.
func (f *Field) MatchesAlias(token string) bool {
	return slices.Contains(f.Aliases, token)
}

// IsFlag reports whether a bare alias supplies the value "true".
func (f *Field) IsFlag() bool {
	return f.Type.Traits().Has(cast.TraitBool)
}

// Registry holds validated fields keyed by name. It is never modified after
// Build returns and may be shared between goroutines.
type Registry struct {
	byName map[string]*Field
	order  []*Field
}

// Build validates decls and returns a Registry.
func Build(decls []Declaration) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Field, len(decls)),
		order:  make([]*Field, 0, len(decls)),
	}
	positions := make(map[int]string)
	names := set.Set[string]{}

	for _, d := range decls {
		if err := checkDeclaration(d); err != nil {
			return nil, err
		}
		if names.Contains(d.Name) {
			return nil, &DuplicateFieldError{Name: d.Name}
		}
		names.Add(d.Name)

		f := &Field{
			Name:        d.Name,
			Type:        d.Type,
			Aliases:     slices.Clone(d.Aliases),
			Description: d.Description,
		}
		if d.Position != nil {
			if other, ok := positions[*d.Position]; ok {
				return nil, &DuplicatePositionError{Position: *d.Position, First: other, Second: d.Name}
			}
			positions[*d.Position] = d.Name
			f.position, f.hasPosition = *d.Position, true
		}
		if d.Default != nil {
			v, err := d.Type.Parse(*d.Default)
			if err != nil {
				return nil, &InvalidDefaultError{Field: d.Name, Raw: *d.Default, Err: err}
			}
			f.def, f.hasDefault = v, true
		}
		traits := d.Type.Traits()
		f.Required = !f.hasDefault && !traits.Has(cast.TraitBool) && !traits.Has(cast.TraitOptional)

		r.byName[f.Name] = f
		r.order = append(r.order, f)
	}
	return r, nil
}

func checkDeclaration(d Declaration) error {
	switch {
	case d.Name == "":
		return &DeclarationError{Reason: "empty name"}
	case d.Type == nil:
		return &DeclarationError{Field: d.Name, Reason: "missing type"}
	case len(d.Aliases) == 0:
		return &DeclarationError{Field: d.Name, Reason: "no aliases"}
	case d.Position != nil && *d.Position < 0:
		return &DeclarationError{Field: d.Name, Reason: "negative position"}
	}
	seen := set.Set[string]{}
	for _, a := range d.Aliases {
		if a == "" {
			return &DeclarationError{Field: d.Name, Reason: "empty alias"}
		}
		if seen.Contains(a) {
			return &DeclarationError{Field: d.Name, Reason: "repeated alias " + a}
		}
		seen.Add(a)
	}
	return nil
}

// Field returns the field called name.
func (r *Registry) Field(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Fields returns the fields in declaration order.
func (r *Registry) Fields() []*Field {
	return slices.Clone(r.order)
}

func (r *Registry) Len() int { return len(r.order) }

// DisplayOrder returns the fields sorted with SortForDisplay.
func (r *Registry) DisplayOrder() []*Field {
	fields := r.Fields()
	SortForDisplay(fields)
	return fields
}

// SortForDisplay orders fields required-first, then by ascending position
// (fields without one last), then by name. It is used for help output only;
// resolution never depends on field order.
func SortForDisplay(fields []*Field) {
	slices.SortStableFunc(fields, func(a, b *Field) int {
		if a.Required != b.Required {
			if a.Required {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(displayPosition(a), displayPosition(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func displayPosition(f *Field) int {
	if p, ok := f.Position(); ok {
		return p
	}
	return math.MaxInt
}
