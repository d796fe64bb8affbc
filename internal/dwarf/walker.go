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

package dwarf

import (
	"io"
	"sort"
)

// getFunctions walks u's DIE tree, building the unit's address-sorted
// top-level function list with inline children nested beneath their
// enclosing function. vmaddr is subtracted from every address in
// the result; for non-inline functions, a symbol from symbols (if non-nil)
// that contains the first range's start and ends at or before the last
// range's end is preferred over the DWARF name.
func (u *Unit) getFunctions(ec *extractionContext, lp *LineProgram, vmaddr uint64, symbols SymbolTable) ([]*Function, error) {
	r := newDIEReader(ec.sections, u.Header, u.abbrev, u.Header.DIEOffset)

	// The top DIE is the compile_unit itself, already consumed by
	// parseUnit; walk past it here since this reader starts fresh.
	if _, _, err := r.next(); err != nil && err != io.EOF {
		return nil, err
	}

	var funcs []*Function
	skipping := false
	var skippedDepth int

	for {
		d, e, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if skipping {
			if d > skippedDepth {
				continue
			}
			skipping = false
		}

		if e.Tag != tagSubprogram && e.Tag != tagInlinedSubroutine {
			continue
		}
		inline := e.Tag == tagInlinedSubroutine

		loc, err := parseLocation(ec.sections, u, e)
		if err != nil {
			return nil, err
		}

		if len(loc.Ranges) == 0 {
			skipping = true
			skippedDepth = d
			continue
		}

		first := loc.Ranges[0]
		last := loc.Ranges[len(loc.Ranges)-1]

		name := ""
		if !inline && symbols != nil {
			if sym, ok := symbols.Lookup(first.Begin); ok && sym.Addr+sym.Len <= last.End {
				name = sym.Name
			}
		}
		if name == "" {
			name, err = resolveFunctionName(ec, e)
			if err != nil {
				return nil, err
			}
		}

		fn := &Function{
			Depth:   uint16(d),
			Addr:    first.Begin - vmaddr,
			Len:     uint32(last.End - first.Begin),
			Name:    name,
			CompDir: u.CompDir,
			Lang:    u.Language,
		}

		for _, rg := range loc.Ranges {
			rows, err := lp.getRows(rg)
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				row.Addr -= vmaddr
				fn.AppendLine(row)
			}
		}

		if !inline {
			funcs = append(funcs, fn)
			continue
		}

		if len(funcs) == 0 {
			return nil, conversionError("could not find inline parent function")
		}
		parent := funcs[len(funcs)-1]
		for len(parent.Inlines) > 0 && parent.Inlines[len(parent.Inlines)-1].Depth < uint16(d) {
			parent = parent.Inlines[len(parent.Inlines)-1]
		}
		parent.Inlines = append(parent.Inlines, fn)

		if loc.HasCallSite {
			filename, baseDir, err := lp.getFilename(loc.CallFile)
			if err != nil {
				return nil, err
			}
			patchCallSite(parent, Line{
				Addr:           fn.Addr,
				OriginalFileID: loc.CallFile,
				Filename:       filename,
				BaseDir:        baseDir,
				Line:           saturateUint16(loc.CallLine),
			})
		}
	}

	sort.SliceStable(funcs, func(i, j int) bool { return funcs[i].Addr < funcs[j].Addr })
	return funcs, nil
}

// patchCallSite records where an inlined call happened in the caller's own
// line list: it overwrites an existing row at the same address (preserving
// Addr) or inserts a new one at the sorted position.
func patchCallSite(parent *Function, line Line) {
	lines := parent.Lines
	i := sort.Search(len(lines), func(i int) bool { return lines[i].Addr >= line.Addr })

	if i < len(lines) && lines[i].Addr == line.Addr {
		lines[i] = line
		return
	}

	parent.Lines = append(lines, Line{})
	copy(parent.Lines[i+1:], parent.Lines[i:])
	parent.Lines[i] = line
}
