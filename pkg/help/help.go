// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help renders usage lines and field listings for a schema.Registry.
//
// Output is returned as text; callers decide where it goes.
package help

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/argh/pkg/schema"
)

// minWrapWidth is the narrowest description column Fit will produce.
const minWrapWidth = 20

// Options controls the field listing layout.
type Options struct {
	// DescriptionOffset is the gap between the longest alias list and the
	// description column.
	DescriptionOffset int
	// DescriptionMaxLength is the soft wrap width of a description. Zero or
	// less disables wrapping.
	DescriptionMaxLength int
	Split                SplitPolicy
	// NewlineExtraPadding indents continuation lines past the description
	// column.
	NewlineExtraPadding int
	IndentLength        int
}

// DefaultOptions returns the standard layout.
func DefaultOptions() Options {
	return Options{
		DescriptionOffset:    8,
		DescriptionMaxLength: 50,
		Split:                SplitSpace,
		NewlineExtraPadding:  2,
		IndentLength:         4,
	}
}

// Validate rejects negative widths.
func (o Options) Validate() error {
	for _, v := range []struct {
		name string
		n    int
	}{
		{"description_offset", o.DescriptionOffset},
		{"description_max_length", o.DescriptionMaxLength},
		{"newline_extra_padding", o.NewlineExtraPadding},
		{"indent_length", o.IndentLength},
	} {
		if v.n < 0 {
			return fmt.Errorf("help option %s must not be negative, got %d", v.name, v.n)
		}
	}
	return nil
}

// Usage returns the one-line synopsis: the executable followed by each field
// in display order, <required> or [optional].
func Usage(reg *schema.Registry, exe string) string {
	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(exe)
	for _, f := range reg.DisplayOrder() {
		if f.Required {
			fmt.Fprintf(&b, " <%s>", f.PrettyName())
		} else {
			fmt.Fprintf(&b, " [%s]", f.PrettyName())
		}
	}
	return b.String()
}

// Format returns the usage line, a blank line, and one block per field.
// Negative lengths in opts count as zero; Validate reports them.
func Format(reg *schema.Registry, exe string, opts Options) string {
	opts = opts.nonNegative()
	fields := reg.DisplayOrder()
	nameWidth := longestName(fields) + opts.DescriptionOffset
	indent := strings.Repeat(" ", opts.IndentLength)
	contPad := strings.Repeat(" ", max(0, opts.IndentLength+nameWidth-1+opts.NewlineExtraPadding))

	var b strings.Builder
	b.WriteString(Usage(reg, exe))
	b.WriteString("\n\n")
	for _, f := range fields {
		lines := Wrap(f.Description, opts.DescriptionMaxLength, opts.Split)
		if len(lines) == 0 {
			b.WriteString(indent)
			b.WriteString(f.PrettyName())
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "%s%-*s%s\n", indent, nameWidth, f.PrettyName(), lines[0])
		for _, l := range lines[1:] {
			b.WriteString(contPad)
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (o Options) nonNegative() Options {
	o.DescriptionOffset = max(0, o.DescriptionOffset)
	o.NewlineExtraPadding = max(0, o.NewlineExtraPadding)
	o.IndentLength = max(0, o.IndentLength)
	return o
}

// Fit narrows opts.DescriptionMaxLength so that description lines end within
// cols terminal columns. It never goes below a small minimum, and leaves opts
// alone when cols is not positive.
func Fit(reg *schema.Registry, opts Options, cols int) Options {
	if cols <= 0 {
		return opts
	}
	avail := cols - opts.IndentLength - longestName(reg.Fields()) - opts.DescriptionOffset
	avail = max(avail, minWrapWidth)
	if opts.DescriptionMaxLength <= 0 || opts.DescriptionMaxLength > avail {
		opts.DescriptionMaxLength = avail
	}
	return opts
}

func longestName(fields []*schema.Field) int {
	n := 0
	for _, f := range fields {
		n = max(n, utf8.RuneCountInString(f.PrettyName()))
	}
	return n
}

// Wrap splits text into segments of at most width runes. Each break falls on
// the last character within the window that split permits, and that
// character begins the next segment. A window with no permitted break is cut
// at width. SplitNever and a non-positive width return text unchanged.
//
// The break is searched backward from width, not forward to the first break
// past it, so no segment is ever longer than width.
func Wrap(text string, width int, split SplitPolicy) []string {
	if text == "" {
		return nil
	}
	if width <= 0 || split.kind == splitNever {
		return []string{text}
	}
	runes := []rune(text)
	var out []string
	start := 0
	for len(runes)-start > width {
		cut := start + width
		for i := start + width; i > start; i-- {
			if split.Matches(runes[i]) {
				cut = i
				break
			}
		}
		out = append(out, string(runes[start:cut]))
		start = cut
	}
	return append(out, string(runes[start:]))
}
