// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argh/pkg/cast"
	"github.com/yeetrun/argh/pkg/schema"
	"tailscale.com/types/ptr"
)

func TestDecode(t *testing.T) {
	cfg, err := Resolve(appRegistry(t), []string{"prog", "in.txt", "-V", "--count=7"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}

	var dst struct {
		Input    string           `arg:"input_file"`
		Output   cast.Opt[string] `arg:"output_file"`
		Verbose  bool             `arg:"verbose"`
		Template *string          `arg:"template"`
		Count    int64            `arg:"count"`
		Skipped  string           `arg:"-"`
		Extra    string
	}
	dst.Extra = "keep"
	if err := cfg.Decode(&dst); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if dst.Input != "in.txt" || !dst.Verbose || dst.Count != 7 || dst.Extra != "keep" {
		t.Errorf("Decode = %+v", dst)
	}
	if dst.Output.IsSome() {
		t.Errorf("Output = %v, want None", dst.Output)
	}
	if dst.Template == nil || *dst.Template != "base" {
		t.Errorf("Template = %v, want base", dst.Template)
	}
}

func TestDecodeOptionalIntoPointer(t *testing.T) {
	reg := mustBuild(t, []schema.Declaration{
		{Name: "limit", Type: cast.Optional(cast.Int), Aliases: []string{"--limit"}, Default: ptr.To("10")},
	})
	tests := []struct {
		name   string
		tokens []string
		want   *int64
	}{
		{"default", []string{"prog"}, ptr.To[int64](10)},
		{"keyword", []string{"prog", "--limit=3"}, ptr.To[int64](3)},
		{"sentinel", []string{"prog", "--limit=None"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(reg, tt.tokens)
			if err != nil {
				t.Fatalf("Resolve error = %v", err)
			}
			dst := struct {
				Limit *int64 `arg:"limit"`
			}{Limit: ptr.To[int64](99)}
			if err := cfg.Decode(&dst); err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			if diff := cmp.Diff(tt.want, dst.Limit); diff != "" {
				t.Errorf("Limit mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	cfg, err := Resolve(appRegistry(t), []string{"prog", "in.txt"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}

	var notPtr struct{}
	if err := cfg.Decode(notPtr); err == nil {
		t.Error("Decode of non-pointer should fail")
	}

	var unknown struct {
		X string `arg:"nope"`
	}
	if err := cfg.Decode(&unknown); err == nil {
		t.Error("Decode of unknown name should fail")
	}

	var mismatched struct {
		Verbose string `arg:"verbose"`
	}
	if err := cfg.Decode(&mismatched); err == nil {
		t.Error("Decode of bool into string should fail")
	}

	var unexported struct {
		verbose bool `arg:"verbose"`
	}
	if err := cfg.Decode(&unexported); err == nil {
		t.Errorf("Decode into unexported field should fail (%v)", unexported.verbose)
	}
}

func TestDecodePointerField(t *testing.T) {
	cfg, err := Resolve(appRegistry(t), []string{"prog", "in.txt"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	var dst struct {
		Input *string `arg:"input_file"`
	}
	if err := cfg.Decode(&dst); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if dst.Input == nil || *dst.Input != "in.txt" {
		t.Errorf("Input = %v", dst.Input)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		key    string
		want   Probe
	}{
		{"flag", []string{"prog", "--verbose"}, "--verbose", Probe{Kind: ProbeFlag}},
		{"value", []string{"prog", "--out=a.txt"}, "--out", Probe{Kind: ProbeString, Value: "a.txt"}},
		{"empty value", []string{"prog", "--out="}, "--out", Probe{Kind: ProbeString}},
		{"first wins", []string{"prog", "--out=a", "--out=b"}, "--out", Probe{Kind: ProbeString, Value: "a"}},
		{"flag before value", []string{"prog", "--out", "--out=b"}, "--out", Probe{Kind: ProbeFlag}},
		{"absent", []string{"prog", "--other"}, "--out", Probe{}},
		{"program name skipped", []string{"--out"}, "--out", Probe{}},
		{"nil tokens", nil, "--out", Probe{}},
		{"prefix is not a match", []string{"prog", "--output=x"}, "--out", Probe{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(tt.tokens, tt.key); got != tt.want {
				t.Errorf("Lookup(%v, %q) = %+v, want %+v", tt.tokens, tt.key, got, tt.want)
			}
		})
	}
}

func TestProbeString(t *testing.T) {
	if got := (Probe{Kind: ProbeFlag}).String(); got != "true" {
		t.Errorf("flag String() = %q", got)
	}
	if got := (Probe{Kind: ProbeString, Value: "x"}).String(); got != `"x"` {
		t.Errorf("string String() = %q", got)
	}
	if got := (Probe{}).String(); got != "absent" {
		t.Errorf("absent String() = %q", got)
	}
}
