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

// Package dwarf implements the DWARF extraction pipeline: it turns the raw
// debug_info/debug_abbrev/debug_line/debug_str/debug_ranges/debug_rnglists
// sections of a compiled object into an address-sorted tree of functions
// with per-address line records, suitable for symbolication. Object-file
// parsing, the downstream cache format, and CLI packaging are all external
// collaborators - see Object and the cachewriter package.
package dwarf

// Range is an address interval [Begin, End) in the object's own address
// space (not yet adjusted for VMADDR).
type Range struct {
	Begin uint64
	End   uint64
}

func (r Range) Size() uint64 {
	if r.End <= r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// Line is a single address-to-source-line record, VMADDR-relative.
type Line struct {
	Addr uint64

	// OriginalFileID is the line program's file index this record was
	// resolved against - retained so downstream consumers can distinguish
	// records that happen to share a Filename but came from distinct file
	// table entries.
	OriginalFileID uint64

	Filename []byte
	BaseDir  []byte

	// Line is saturated at 0xffff.
	Line uint16
}

// AppendLineIfChanged appends line to lines unless it is a no-op
// continuation of the previous entry sharing the same OriginalFileID and
// Line.
func AppendLineIfChanged(lines []Line, line Line) []Line {
	if n := len(lines); n > 0 {
		last := lines[n-1]
		if last.OriginalFileID == line.OriginalFileID && last.Line == line.Line {
			return lines
		}
	}
	return append(lines, line)
}

// Function is a subprogram or inlined_subroutine DIE turned into a node of
// the per-unit function tree. Addr is VMADDR-relative.
type Function struct {
	Depth   uint16
	Addr    uint64
	Len     uint32
	Name    string
	CompDir []byte
	Lang    Language

	Inlines []*Function
	Lines   []Line
}

// IsEmpty reports whether f carries no line information and every inline
// descendant is, transitively, also empty.
func (f *Function) IsEmpty() bool {
	if len(f.Lines) != 0 {
		return false
	}
	for _, in := range f.Inlines {
		if !in.IsEmpty() {
			return false
		}
	}
	return true
}

// AppendLine appends a line record to f, applying the dedup invariant.
func (f *Function) AppendLine(line Line) {
	f.Lines = AppendLineIfChanged(f.Lines, line)
}

// SectionSet is the bundle of six byte buffers the section loader
// produces. All slices are borrowed for the lifetime of the extraction;
// output byte slices (filenames, directories, comp_dir) reference these
// buffers directly. A caller that needs results to outlive the buffers
// must copy them.
type SectionSet struct {
	Info     []byte
	Abbrev   []byte
	Line     []byte
	Str      []byte
	Ranges   []byte
	RngLists []byte

	LittleEndian bool
}
