// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package cachewriter renders an extracted function tree as JSON. It is a
// diagnostic/interchange writer, not the authoritative on-disk symbol
// cache format - downstream systems that need a binary cache format
// implement their own writer against the same dwarf.Function tree.
package cachewriter

import (
	"encoding/json"
	"io"

	"github.com/jetsetilly/dwarfsym/internal/dwarf"
)

type line struct {
	Addr     uint64 `json:"addr"`
	FileID   uint64 `json:"file_id"`
	Filename string `json:"filename,omitempty"`
	Dir      string `json:"dir,omitempty"`
	Line     uint16 `json:"line"`
}

type function struct {
	Depth   uint16     `json:"depth"`
	Addr    uint64     `json:"addr"`
	Len     uint32     `json:"len"`
	Name    string     `json:"name,omitempty"`
	CompDir string     `json:"comp_dir,omitempty"`
	Lang    string     `json:"lang"`
	Inlines []function `json:"inlines,omitempty"`
	Lines   []line     `json:"lines,omitempty"`
}

func convert(f *dwarf.Function) function {
	out := function{
		Depth:   f.Depth,
		Addr:    f.Addr,
		Len:     f.Len,
		Name:    f.Name,
		CompDir: string(f.CompDir),
		Lang:    f.Lang.String(),
	}
	for _, in := range f.Inlines {
		out.Inlines = append(out.Inlines, convert(in))
	}
	for _, ln := range f.Lines {
		out.Lines = append(out.Lines, line{
			Addr:     ln.Addr,
			FileID:   ln.OriginalFileID,
			Filename: string(ln.Filename),
			Dir:      string(ln.BaseDir),
			Line:     ln.Line,
		})
	}
	return out
}

// Write renders functions as indented JSON, one top-level array entry per
// function (inline children nested beneath their parent). A failure here
// is reported as a dwarf.WriteFailed error.
func Write(w io.Writer, functions []*dwarf.Function) error {
	out := make([]function, 0, len(functions))
	for _, f := range functions {
		out = append(out, convert(f))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return dwarf.WriteError(err)
	}
	return nil
}
