// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemafile loads argument schemas from TOML or YAML documents.
//
// A document names the program, optionally versions it, tunes the help
// layout, and lists its fields:
//
//	name = "application"
//	version = "1.2.0"
//
//	[help]
//	split = "space"
//
//	[[field]]
//	name = "input_file"
//	type = "path"
//	aliases = ["input_file"]
//	position = 0
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/argh/pkg/cast"
	"github.com/yeetrun/argh/pkg/help"
	"github.com/yeetrun/argh/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Format is a schema document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// searchNames are the file names Find looks for, in order.
var searchNames = []string{"argh.toml", "argh.yaml", "argh.yml"}

const optionalPrefix, optionalSuffix = "optional<", ">"

// Document is a decoded schema file.
type Document struct {
	Name        string       `toml:"name" yaml:"name"`
	Version     string       `toml:"version,omitempty" yaml:"version,omitempty"`
	Description string       `toml:"description,omitempty" yaml:"description,omitempty"`
	Help        HelpTable    `toml:"help,omitempty" yaml:"help,omitempty"`
	Fields      []FieldEntry `toml:"field" yaml:"field"`
}

// HelpTable overrides help.DefaultOptions. Unset keys keep the default.
type HelpTable struct {
	DescriptionOffset    *int   `toml:"description_offset,omitempty" yaml:"description_offset,omitempty"`
	DescriptionMaxLength *int   `toml:"description_max_length,omitempty" yaml:"description_max_length,omitempty"`
	Split                string `toml:"split,omitempty" yaml:"split,omitempty"`
	NewlineExtraPadding  *int   `toml:"newline_extra_padding,omitempty" yaml:"newline_extra_padding,omitempty"`
	IndentLength         *int   `toml:"indent_length,omitempty" yaml:"indent_length,omitempty"`
}

// FieldEntry is one [[field]] table.
type FieldEntry struct {
	Name string `toml:"name" yaml:"name"`
	// Type is a built-in type name such as "int", or "optional<int>".
	Type        string   `toml:"type" yaml:"type"`
	Optional    bool     `toml:"optional,omitempty" yaml:"optional,omitempty"`
	Aliases     []string `toml:"aliases" yaml:"aliases"`
	Position    *int     `toml:"position,omitempty" yaml:"position,omitempty"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty"`
	// Default is a string, number or bool. Non-string scalars are turned
	// back into text and parsed with Type like any other default.
	Default any `toml:"default,omitempty" yaml:"default,omitempty"`
}

// Error reports a malformed document. It matches schema.ErrSchema.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid schema document: %v", e.Err)
	}
	return fmt.Sprintf("invalid schema document %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == schema.ErrSchema }

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("cannot tell schema format of %s: want a .toml, .yaml or .yml file", path)
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, format)
	if err != nil {
		var se *Error
		if errors.As(err, &se) && se.Path == "" {
			se.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Decode parses and validates data. Unknown keys are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, &Error{Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, &Error{Err: fmt.Errorf("unknown key %s", undecoded[0])}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, &Error{Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	if err := doc.validate(); err != nil {
		return nil, &Error{Err: err}
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Name == "" {
		return errors.New("missing program name")
	}
	if _, err := d.ProgramVersion(); err != nil {
		return err
	}
	if _, err := d.HelpOptions(); err != nil {
		return err
	}
	return nil
}

// ProgramVersion returns the parsed version, or nil when the document has
// none.
func (d *Document) ProgramVersion() (*semver.Version, error) {
	if d.Version == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", d.Version, err)
	}
	return v, nil
}

// HelpOptions returns help.DefaultOptions with the [help] table applied.
func (d *Document) HelpOptions() (help.Options, error) {
	opts := help.DefaultOptions()
	h := d.Help
	setIfPresent(&opts.DescriptionOffset, h.DescriptionOffset)
	setIfPresent(&opts.DescriptionMaxLength, h.DescriptionMaxLength)
	setIfPresent(&opts.NewlineExtraPadding, h.NewlineExtraPadding)
	setIfPresent(&opts.IndentLength, h.IndentLength)
	if h.Split != "" {
		split, err := help.ParseSplitPolicy(h.Split)
		if err != nil {
			return help.Options{}, err
		}
		opts.Split = split
	}
	if err := opts.Validate(); err != nil {
		return help.Options{}, err
	}
	return opts, nil
}

func setIfPresent(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Declarations converts the field entries into schema declarations.
func (d *Document) Declarations() ([]schema.Declaration, error) {
	decls := make([]schema.Declaration, 0, len(d.Fields))
	for _, fe := range d.Fields {
		typ, err := fieldType(fe)
		if err != nil {
			return nil, err
		}
		def, err := defaultText(fe)
		if err != nil {
			return nil, err
		}
		decls = append(decls, schema.Declaration{
			Name:        fe.Name,
			Type:        typ,
			Aliases:     slices.Clone(fe.Aliases),
			Position:    fe.Position,
			Description: fe.Description,
			Default:     def,
		})
	}
	return decls, nil
}

// Registry builds the registry the document describes.
func (d *Document) Registry() (*schema.Registry, error) {
	decls, err := d.Declarations()
	if err != nil {
		return nil, err
	}
	return schema.Build(decls)
}

func fieldType(fe FieldEntry) (cast.Type, error) {
	name, optional := fe.Type, fe.Optional
	if inner, ok := strings.CutPrefix(name, optionalPrefix); ok {
		if inner, ok = strings.CutSuffix(inner, optionalSuffix); ok {
			if optional {
				return nil, &schema.DeclarationError{Field: fe.Name, Reason: fmt.Sprintf("type %s is already optional", name)}
			}
			name, optional = inner, true
		}
	}
	typ, ok := cast.Lookup(name)
	if !ok {
		return nil, &schema.DeclarationError{
			Field:  fe.Name,
			Reason: fmt.Sprintf("unknown type %q (known: %s)", fe.Type, strings.Join(cast.Names(), ", ")),
		}
	}
	if !optional {
		return typ, nil
	}
	wrapped, err := cast.OptionalOf(typ)
	if err != nil {
		return nil, &schema.DeclarationError{Field: fe.Name, Reason: err.Error()}
	}
	return wrapped, nil
}

func defaultText(fe FieldEntry) (*string, error) {
	switch v := fe.Default.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case bool, int, int64, uint64, float64:
		text := fmt.Sprint(v)
		return &text, nil
	}
	return nil, &schema.DeclarationError{
		Field:  fe.Name,
		Reason: fmt.Sprintf("default must be a string, number or bool, got %T", fe.Default),
	}
}

// Find looks for a schema file in dir and each of its parents, returning
// the first match. It returns an error matching os.ErrNotExist when there is
// none.
func Find(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		for _, name := range searchNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s found: %w", strings.Join(searchNames, ", "), os.ErrNotExist)
}
