// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Style names a text treatment.
type Style int

const (
	StyleNone Style = iota
	StyleError
	StyleWarn
	StyleOK
	StyleDim
	StyleBold
)

var styleAttrs = map[Style][]color.Attribute{
	StyleError: {color.FgRed, color.Bold},
	StyleWarn:  {color.FgYellow},
	StyleOK:    {color.FgGreen},
	StyleDim:   {color.FgHiBlack},
	StyleBold:  {color.Bold},
}

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns an enabled Colorizer only when enabled is true, f is
// a terminal, NO_COLOR is unset and TERM is not dumb.
func NewColorizer(f *os.File, enabled bool) Colorizer {
	if !enabled || f == nil {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	if !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Wrap(style Style, text string) string {
	attrs, ok := styleAttrs[style]
	if !c.Enabled || !ok {
		return text
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(text)
}

var (
	isTerminalFn = term.IsTerminal
	getSizeFn    = term.GetSize
)

// Width returns the column count of the terminal behind f, or 0 when f is
// not a terminal.
func Width(f *os.File) (int, error) {
	if f == nil {
		return 0, nil
	}
	fd := int(f.Fd())
	if !isTerminalFn(fd) {
		return 0, nil
	}
	cols, _, err := getSizeFn(fd)
	if err != nil {
		return 0, err
	}
	return cols, nil
}
