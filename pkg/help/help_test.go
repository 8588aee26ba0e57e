// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argh/pkg/cast"
	"github.com/yeetrun/argh/pkg/schema"
	"tailscale.com/types/ptr"
)

func testRegistry(t *testing.T, verboseDesc string) *schema.Registry {
	t.Helper()
	reg, err := schema.Build([]schema.Declaration{
		{Name: "verbose", Type: cast.Bool, Aliases: []string{"-V", "--verbose"}, Description: verboseDesc},
		{Name: "input_file", Type: cast.Path, Aliases: []string{"input_file"}, Position: ptr.To(0), Description: "The input file."},
	})
	if err != nil {
		t.Fatalf("schema.Build error = %v", err)
	}
	return reg
}

func TestUsage(t *testing.T) {
	reg := testRegistry(t, "")
	want := "Usage: app <input_file> [-V, --verbose]"
	if got := Usage(reg, "app"); got != want {
		t.Errorf("Usage = %q, want %q", got, want)
	}

	empty, err := schema.Build(nil)
	if err != nil {
		t.Fatalf("schema.Build error = %v", err)
	}
	if got := Usage(empty, "app"); got != "Usage: app" {
		t.Errorf("Usage of empty registry = %q", got)
	}
}

func TestFormat(t *testing.T) {
	reg := testRegistry(t, "Enables verbose logging.")
	want := "Usage: app <input_file> [-V, --verbose]\n\n" +
		"    input_file" + strings.Repeat(" ", 11) + "The input file.\n" +
		"    -V, --verbose" + strings.Repeat(" ", 8) + "Enables verbose logging.\n"
	if diff := cmp.Diff(want, Format(reg, "app", DefaultOptions())); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatContinuationLines(t *testing.T) {
	reg := testRegistry(t, "aaaa bbbb cccc dddd eeee ffff")
	opts := DefaultOptions()
	opts.DescriptionMaxLength = 20
	got := Format(reg, "app", opts)
	want := "    -V, --verbose" + strings.Repeat(" ", 8) + "aaaa bbbb cccc dddd\n" +
		strings.Repeat(" ", 26) + " eeee ffff\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("Format = %q, want suffix %q", got, want)
	}
}

func TestFormatEmptyDescription(t *testing.T) {
	reg := testRegistry(t, "")
	got := Format(reg, "app", DefaultOptions())
	if !strings.HasSuffix(got, "    -V, --verbose\n") {
		t.Errorf("Format = %q", got)
	}
}

func TestFormatCustomOptions(t *testing.T) {
	reg := testRegistry(t, "Loud.")
	opts := Options{DescriptionOffset: 1, DescriptionMaxLength: 50, IndentLength: 0}
	want := "Usage: x <input_file> [-V, --verbose]\n\n" +
		"input_file" + strings.Repeat(" ", 4) + "The input file.\n" +
		"-V, --verbose Loud.\n"
	if diff := cmp.Diff(want, Format(reg, "x", opts)); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatNegativeOptions(t *testing.T) {
	reg := testRegistry(t, "Loud.")
	neg := Options{DescriptionOffset: -5, DescriptionMaxLength: 50, NewlineExtraPadding: -2, IndentLength: -4}
	zero := Options{DescriptionMaxLength: 50}
	if diff := cmp.Diff(Format(reg, "x", zero), Format(reg, "x", neg)); diff != "" {
		t.Errorf("negative options should format like zero (-zero +negative):\n%s", diff)
	}
	if err := neg.Validate(); err == nil {
		t.Error("Validate should reject negative options")
	}
}

func TestWrapLongDescription(t *testing.T) {
	text := strings.Repeat("abcde ", 20)
	if len(text) != 120 {
		t.Fatalf("fixture length = %d", len(text))
	}
	lines := Wrap(text, 50, SplitSpace)
	if len(lines) < 3 {
		t.Fatalf("Wrap produced %d lines, want at least 3: %q", len(lines), lines)
	}
	for _, l := range lines {
		if utf8.RuneCountInString(l) > 50 {
			t.Errorf("line %q exceeds 50 characters", l)
		}
	}
	if got := strings.Join(lines, ""); got != text {
		t.Errorf("Wrap lost text: %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		split SplitPolicy
		want  []string
	}{
		{"empty", "", 10, SplitSpace, nil},
		{"fits", "short", 10, SplitSpace, []string{"short"}},
		{"exact width", "0123456789", 10, SplitSpace, []string{"0123456789"}},
		{"space", "one two three", 8, SplitSpace, []string{"one two", " three"}},
		{"no space in window", "abcdefghijkl", 5, SplitSpace, []string{"abcde", "fghij", "kl"}},
		{"any", "abcdefg", 3, SplitAny, []string{"abc", "def", "g"}},
		{"never", strings.Repeat("x", 30), 5, SplitNever, []string{strings.Repeat("x", 30)}},
		{"chars", "a,b,c,d", 4, SplitOn(","), []string{"a,b", ",c,d"}},
		{"no width", "one two", 0, SplitSpace, []string{"one two"}},
		{"tab", "abc\tdef", 4, SplitSpace, []string{"abc", "\tdef"}},
		{"runes", "ééé ééé", 4, SplitSpace, []string{"ééé", " ééé"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, tt.split)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q, %d, %v) mismatch (-want +got):\n%s", tt.text, tt.width, tt.split, diff)
			}
		})
	}
}

func TestFit(t *testing.T) {
	reg := testRegistry(t, "x")
	opts := DefaultOptions()

	if got := Fit(reg, opts, 0); got != opts {
		t.Errorf("Fit with no width changed options: %+v", got)
	}
	if got := Fit(reg, opts, 200); got.DescriptionMaxLength != 50 {
		t.Errorf("wide terminal: DescriptionMaxLength = %d, want 50", got.DescriptionMaxLength)
	}
	// 60 - 4 indent - 13 name - 8 offset = 35.
	if got := Fit(reg, opts, 60); got.DescriptionMaxLength != 35 {
		t.Errorf("60 columns: DescriptionMaxLength = %d, want 35", got.DescriptionMaxLength)
	}
	if got := Fit(reg, opts, 10); got.DescriptionMaxLength != minWrapWidth {
		t.Errorf("narrow terminal: DescriptionMaxLength = %d, want %d", got.DescriptionMaxLength, minWrapWidth)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions().Validate() = %v", err)
	}
	opts := DefaultOptions()
	opts.IndentLength = -1
	if err := opts.Validate(); err == nil || !strings.Contains(err.Error(), "indent_length") {
		t.Errorf("Validate() = %v, want indent_length error", err)
	}
}

func TestParseSplitPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SplitPolicy
		wantErr bool
	}{
		{"", SplitSpace, false},
		{"space", SplitSpace, false},
		{"any", SplitAny, false},
		{"never", SplitNever, false},
		{"none", SplitNever, false},
		{"chars:,;", SplitOn(",;"), false},
		{"chars:", SplitPolicy{}, true},
		{"sometimes", SplitPolicy{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSplitPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSplitPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSplitPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitPolicyText(t *testing.T) {
	for _, p := range []SplitPolicy{SplitAny, SplitSpace, SplitNever, SplitOn("-/")} {
		b, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText error = %v", err)
		}
		var back SplitPolicy
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", b, err)
		}
		if back != p {
			t.Errorf("text round trip of %v = %v", p, back)
		}
	}
}

func TestSplitPolicyMatches(t *testing.T) {
	if !SplitSpace.Matches(' ') {
		t.Error("SplitSpace should match a space")
	}
	if SplitSpace.Matches('a') || SplitNever.Matches(' ') {
		t.Error("unexpected match")
	}
	if !SplitOn("/").Matches('/') || SplitOn("/").Matches(' ') {
		t.Error("SplitOn mismatch")
	}
}
