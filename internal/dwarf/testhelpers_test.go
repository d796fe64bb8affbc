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

import "encoding/binary"

// The helpers in this file hand-assemble just enough of the DWARF wire
// format to exercise the extraction pipeline without a real compiler or
// object file. They intentionally favour directness over generality: each
// test builds exactly the bytes it needs.

func uleb(v uint64) []byte {
	var buf []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			break
		}
	}
	return buf
}

func sleb(v int64) []byte {
	var buf []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return buf
}

func cstr(s string) []byte { return append([]byte(s), 0) }

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// abbrevAttrSpec is one (attribute, form) pair used when assembling a test
// abbreviation declaration.
type abbrevAttrSpec struct {
	attr dwAttr
	form dwForm
}

// appendAbbrevDecl appends one abbreviation declaration (a code, a tag, a
// has-children flag, its attribute/form pairs and their terminator) to buf.
func appendAbbrevDecl(buf []byte, code uint64, tag dwTag, hasChildren bool, attrs ...abbrevAttrSpec) []byte {
	buf = append(buf, uleb(code)...)
	buf = append(buf, uleb(uint64(tag))...)
	if hasChildren {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, a := range attrs {
		buf = append(buf, uleb(uint64(a.attr))...)
		buf = append(buf, uleb(uint64(a.form))...)
	}
	buf = append(buf, uleb(0)...)
	buf = append(buf, uleb(0)...)
	return buf
}

// testObject is a minimal in-memory Object backed by plain byte slices.
type testObject struct {
	sections map[string][]byte
	vmaddr   uint64
	symbols  SymbolTable
}

func (o *testObject) GetSection(name string) ([]byte, bool) {
	b, ok := o.sections[name]
	return b, ok
}

func (o *testObject) Endianness() Endianness { return LittleEndian }
func (o *testObject) VMAddr() uint64         { return o.vmaddr }
func (o *testObject) Symbols() SymbolTable   { return o.symbols }

// buildSingleUnitObject assembles a minimal, single compilation-unit DWARF4
// object: one compile_unit DIE (name, comp_dir, low_pc, stmt_list) with one
// subprogram child (name, low_pc, high_pc-as-data4), plus a matching
// debug_line program describing one row at funcLow, followed by
// end_sequence at funcLow+funcLen. Every encoded length is measured from
// the actual assembled bytes rather than computed by hand.
func buildSingleUnitObject(compDir, cuName, funcName string, funcLow, funcLen uint32, line uint32) *testObject {
	abbrev := appendAbbrevDecl(nil, 1, tagCompileUnit, true,
		abbrevAttrSpec{attrName, formString},
		abbrevAttrSpec{attrCompDir, formString},
		abbrevAttrSpec{attrLowpc, formAddr},
		abbrevAttrSpec{attrStmtList, formSecOffset},
	)
	abbrev = appendAbbrevDecl(abbrev, 2, tagSubprogram, false,
		abbrevAttrSpec{attrName, formString},
		abbrevAttrSpec{attrLowpc, formAddr},
		abbrevAttrSpec{attrHighpc, formData4},
	)
	abbrev = append(abbrev, uleb(0)...)

	var dies []byte
	dies = append(dies, uleb(1)...)
	dies = append(dies, cstr(cuName)...)
	dies = append(dies, cstr(compDir)...)
	dies = append(dies, le32(funcLow)...)
	dies = append(dies, le32(0)...) // stmt_list offset: start of debug_line

	dies = append(dies, uleb(2)...)
	dies = append(dies, cstr(funcName)...)
	dies = append(dies, le32(funcLow)...)
	dies = append(dies, le32(funcLen)...)

	dies = append(dies, 0) // terminates the CU's children

	var cuBody []byte
	cuBody = append(cuBody, le16(4)...) // version
	cuBody = append(cuBody, le32(0)...) // debug_abbrev_offset
	cuBody = append(cuBody, 4)          // address_size
	cuBody = append(cuBody, dies...)

	var info []byte
	info = append(info, le32(uint32(len(cuBody)))...)
	info = append(info, cuBody...)

	lineSection := buildLineProgramBytes(funcLow, funcLen, line)

	return &testObject{sections: map[string][]byte{
		sectionInfo:   info,
		sectionAbbrev: abbrev,
		sectionLine:   lineSection,
	}}
}

// buildLineProgramBytes assembles a single-sequence DWARF4 debug_line
// program: DW_LNE_set_address to low, DW_LNS_advance_line to line,
// DW_LNS_copy, DW_LNS_advance_pc by length, DW_LNE_end_sequence.
func buildLineProgramBytes(low, length uint32, line uint32) []byte {
	stdOpcodeLengths := []byte{0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1}

	var preamble []byte
	preamble = append(preamble, 1)     // minimum_instruction_length
	preamble = append(preamble, 1)     // maximum_operations_per_instruction
	preamble = append(preamble, 1)     // default_is_stmt
	preamble = append(preamble, 0xfb)  // line_base = -5
	preamble = append(preamble, 14)    // line_range
	preamble = append(preamble, 13)    // opcode_base
	preamble = append(preamble, stdOpcodeLengths...)
	preamble = append(preamble, 0) // include_directories terminator (none)
	preamble = append(preamble, cstr("test.c")...)
	preamble = append(preamble, uleb(0)...) // dir index
	preamble = append(preamble, uleb(0)...) // mtime
	preamble = append(preamble, uleb(0)...) // length
	preamble = append(preamble, 0)          // file_names terminator

	var program []byte
	setAddr := append([]byte{0x02}, le32(low)...)
	program = append(program, 0x00)
	program = append(program, uleb(uint64(len(setAddr)))...)
	program = append(program, setAddr...)

	program = append(program, 0x03) // DW_LNS_advance_line
	program = append(program, sleb(int64(line)-1)...)
	program = append(program, 0x01) // DW_LNS_copy
	program = append(program, 0x02) // DW_LNS_advance_pc
	program = append(program, uleb(uint64(length))...)
	program = append(program, 0x00, 0x01, 0x01) // DW_LNE_end_sequence

	var body []byte
	body = append(body, le16(4)...) // version
	body = append(body, le32(uint32(len(preamble)))...)
	body = append(body, preamble...)
	body = append(body, program...)

	var out []byte
	out = append(out, le32(uint32(len(body)))...)
	out = append(out, body...)
	return out
}
