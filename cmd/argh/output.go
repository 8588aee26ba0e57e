// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argh/pkg/cli"
	"github.com/yeetrun/argh/pkg/resolve"
	"github.com/yeetrun/argh/pkg/schema"
	"gopkg.in/yaml.v3"
)

type optionalValue interface {
	Any() (any, bool)
}

// plainValue converts a resolved value into something every encoder
// understands. None becomes nil.
func plainValue(v any) any {
	if o, ok := v.(optionalValue); ok {
		inner, ok := o.Any()
		if !ok {
			return nil
		}
		return plainValue(inner)
	}
	switch x := v.(type) {
	case *url.URL:
		return x.String()
	case time.Duration:
		return x.String()
	}
	return v
}

func writeConfig(w io.Writer, reg *schema.Registry, cfg *resolve.Config, format string) error {
	switch format {
	case cli.FormatText, "":
		return writeConfigText(w, reg, cfg)
	case cli.FormatJSON:
		_, err := fmt.Fprintln(w, asJSON(plainValues(cfg, false)))
		return err
	case cli.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plainValues(cfg, false)); err != nil {
			return err
		}
		return enc.Close()
	case cli.FormatTOML:
		// TOML has no null, so absent optionals are left out.
		return toml.NewEncoder(w).Encode(plainValues(cfg, true))
	}
	return fmt.Errorf("unknown format %q", format)
}

func plainValues(cfg *resolve.Config, dropNil bool) map[string]any {
	out := make(map[string]any, len(cfg.Names()))
	for _, name := range cfg.Names() {
		v, _ := cfg.Value(name)
		p := plainValue(v)
		if p == nil && dropNil {
			continue
		}
		out[name] = p
	}
	return out
}

func writeConfigText(w io.Writer, reg *schema.Registry, cfg *resolve.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tSOURCE")
	for _, f := range reg.DisplayOrder() {
		v, _ := cfg.Value(f.Name)
		fmt.Fprintf(tw, "%s\t%v\t%s\n", f.Name, v, cfg.Source(f.Name))
	}
	return tw.Flush()
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
