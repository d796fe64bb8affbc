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

import "io"

// Unit is a parsed compile_unit DIE: the handful of attributes needed to
// walk its functions and resolve its line program.
type Unit struct {
	Index  int
	Header *CompilationUnitHeader

	// BaseAddress is the unit's low_pc, falling back to entry_pc, falling
	// back to 0. Range-list entries are relative to this value.
	BaseAddress uint64

	CompDir  []byte
	Language Language

	// LineOffset is the debug_line offset named by DW_AT_stmt_list. A unit
	// with no stmt_list attribute carries no line information and is
	// skipped entirely by the caller (parseUnit returns a nil *Unit for
	// it, not a Unit with a zero LineOffset).
	LineOffset uint64

	// abbrev is kept alongside the unit so function-walking doesn't need to
	// re-fetch it from the cache. Name resolution does not use it: it looks
	// the table up through extractionContext.entryAt on every hop.
	abbrev *abbrevTable
}

// parseUnit decodes the top DIE of a compilation unit. It returns a nil
// Unit, with no error, when the unit has no DW_AT_stmt_list: such a unit
// carries no line information and contributes nothing to symbolication.
func parseUnit(sections *SectionSet, index int, header *CompilationUnitHeader, abbrev *abbrevTable) (*Unit, error) {
	r := newDIEReader(sections, header, abbrev, header.DIEOffset)

	depth, e, err := r.next()
	if err == io.EOF {
		return nil, conversionError("compilation unit has no top-level entry")
	}
	if err != nil {
		return nil, err
	}
	if depth != 0 {
		return nil, conversionError("compilation unit's top-level entry is not at depth 0")
	}
	if e.Tag != tagCompileUnit {
		return nil, conversionErrorf("expected DW_TAG_compile_unit, found %#x", e.Tag)
	}

	var baseAddress uint64
	if v, ok := e.attr(attrLowpc); ok {
		baseAddress = v.Uint
	} else if v, ok := e.attr(attrEntryPC); ok {
		baseAddress = v.Uint
	}

	var compDir []byte
	if v, ok := e.attr(attrCompDir); ok {
		compDir = v.Bytes
	}

	lang := LanguageUnknown
	if v, ok := e.attr(attrLanguage); ok {
		lang = languageFromDWARF(v.Uint)
	}

	stmtList, ok := e.attr(attrStmtList)
	if !ok {
		return nil, nil
	}

	return &Unit{
		Index:       index,
		Header:      header,
		BaseAddress: baseAddress,
		CompDir:     compDir,
		Language:    lang,
		LineOffset:  stmtList.Uint,
		abbrev:      abbrev,
	}, nil
}
