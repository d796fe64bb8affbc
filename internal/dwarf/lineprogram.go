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

import "sort"

// lineRow is one row of a sequence's line table, after the DW_LNS_copy /
// special-opcode dedup rules have already been applied.
type lineRow struct {
	Address uint64
	File    uint64
	Line    uint32
}

// lineSequence is a contiguous run of addresses terminated by
// DW_LNE_end_sequence. Sequences never overlap and are kept sorted by Low.
type lineSequence struct {
	Low, High uint64
	Rows      []lineRow
}

type fileEntry struct {
	Name     []byte
	DirIndex uint64
}

// LineProgram is a decoded debug_line program for one compilation unit.
// Its sequences and file/directory tables are immutable once
// parsed; getRows never mutates it.
type LineProgram struct {
	Sequences []lineSequence
	Files     []fileEntry
	Dirs      [][]byte
	fileBase  int
}

// parseLineProgram decodes the line number program at the given
// debug_line offset. compDir is the owning unit's DW_AT_comp_dir, used to
// seed directory index 0 for DWARF2-4 programs.
func parseLineProgram(sections *SectionSet, offset uint64, addressSize int, compDir []byte) (*LineProgram, error) {
	if offset > uint64(len(sections.Line)) {
		return nil, conversionError("stmt_list offset out of range")
	}

	c := newCursor(sections.Line, sections.LittleEndian)
	c.seek(int(offset))

	first, err := c.u32()
	if err != nil {
		return nil, wrapBadDebugFile("reading line program unit_length", err)
	}
	dwarf64 := false
	unitLength := uint64(first)
	if first == 0xffffffff {
		dwarf64 = true
		if unitLength, err = c.u64(); err != nil {
			return nil, wrapBadDebugFile("reading 64-bit line program unit_length", err)
		}
	}
	programEnd := c.tell() + int(unitLength)

	version, err := c.u16()
	if err != nil {
		return nil, wrapBadDebugFile("reading line program version", err)
	}

	if version >= 5 {
		if _, err := c.u8(); err != nil { // address_size
			return nil, wrapBadDebugFile("reading line program address_size", err)
		}
		if _, err := c.u8(); err != nil { // segment_selector_size
			return nil, wrapBadDebugFile("reading line program segment_selector_size", err)
		}
	}

	headerLength, err := c.offset(dwarf64)
	if err != nil {
		return nil, wrapBadDebugFile("reading line program header_length", err)
	}
	programStart := c.tell() + int(headerLength)

	minInstLen, err := c.u8()
	if err != nil {
		return nil, wrapBadDebugFile("reading minimum_instruction_length", err)
	}
	if version >= 4 {
		if _, err := c.u8(); err != nil { // maximum_operations_per_instruction
			return nil, wrapBadDebugFile("reading maximum_operations_per_instruction", err)
		}
	}
	if _, err := c.u8(); err != nil { // default_is_stmt
		return nil, wrapBadDebugFile("reading default_is_stmt", err)
	}
	lineBase, err := c.i8()
	if err != nil {
		return nil, wrapBadDebugFile("reading line_base", err)
	}
	lineRange, err := c.u8()
	if err != nil {
		return nil, wrapBadDebugFile("reading line_range", err)
	}
	opcodeBase, err := c.u8()
	if err != nil {
		return nil, wrapBadDebugFile("reading opcode_base", err)
	}

	stdOpcodeLengths := make([]uint8, 0, opcodeBase-1)
	for i := uint8(1); i < opcodeBase; i++ {
		n, err := c.u8()
		if err != nil {
			return nil, wrapBadDebugFile("reading standard_opcode_lengths", err)
		}
		stdOpcodeLengths = append(stdOpcodeLengths, n)
	}

	var dirs [][]byte
	var files []fileEntry
	fileBase := 1

	if version >= 5 {
		dirs, err = readLineEntryTable(c, sections.Str, dwarf64, lnctPath)
		if err != nil {
			return nil, err
		}
		files, err = readLineFileTable(c, sections.Str, dwarf64)
		if err != nil {
			return nil, err
		}
		fileBase = 0
	} else {
		dirs = append(dirs, compDir)
		for {
			s, err := c.cstring()
			if err != nil {
				return nil, wrapBadDebugFile("reading include_directories", err)
			}
			if len(s) == 0 {
				break
			}
			dirs = append(dirs, s)
		}

		// file indices are 1-based here; fileBase maps index 1 to files[0]
		for {
			name, err := c.cstring()
			if err != nil {
				return nil, wrapBadDebugFile("reading file_names", err)
			}
			if len(name) == 0 {
				break
			}
			dirIndex, err := c.uleb128()
			if err != nil {
				return nil, wrapBadDebugFile("reading file directory index", err)
			}
			if _, err := c.uleb128(); err != nil { // mtime
				return nil, wrapBadDebugFile("reading file mtime", err)
			}
			if _, err := c.uleb128(); err != nil { // length
				return nil, wrapBadDebugFile("reading file length", err)
			}
			files = append(files, fileEntry{Name: name, DirIndex: dirIndex})
		}
	}

	c.seek(programStart)
	sequences, err := runLineProgram(c, programEnd, addressSize, minInstLen, lineBase, lineRange, opcodeBase, stdOpcodeLengths)
	if err != nil {
		return nil, err
	}

	return &LineProgram{Sequences: sequences, Files: files, Dirs: dirs, fileBase: fileBase}, nil
}

// runLineProgram executes the line number program's byte-code state
// machine from c's current position to end, producing one lineSequence per
// DW_LNE_end_sequence.
func runLineProgram(c *cursor, end int, addressSize int, minInstLen uint8, lineBase int8, lineRange, opcodeBase uint8, stdOpcodeLengths []uint8) ([]lineSequence, error) {
	var sequences []lineSequence
	var rows []lineRow
	var address uint64
	var file uint64 = 1
	var line uint32 = 1

	reset := func() {
		address = 0
		file = 1
		line = 1
	}

	closeSequence := func() {
		if len(rows) > 0 {
			sequences = append(sequences, lineSequence{Low: rows[0].Address, High: address, Rows: rows})
		}
		rows = nil
		reset()
	}

	emitRow := func() {
		if n := len(rows); n > 0 {
			switch {
			case address < rows[n-1].Address:
				return
			case address == rows[n-1].Address:
				rows[n-1] = lineRow{Address: address, File: file, Line: line}
				return
			}
		}
		rows = append(rows, lineRow{Address: address, File: file, Line: line})
	}

	if lineRange == 0 {
		return nil, conversionError("line program has zero line_range")
	}

	for c.tell() < end {
		opcode, err := c.u8()
		if err != nil {
			return nil, wrapBadDebugFile("reading line program opcode", err)
		}

		switch {
		case opcode == 0:
			length, err := c.uleb128()
			if err != nil {
				return nil, wrapBadDebugFile("reading extended opcode length", err)
			}
			instrEnd := c.tell() + int(length)

			sub, err := c.u8()
			if err != nil {
				return nil, wrapBadDebugFile("reading extended opcode", err)
			}
			switch sub {
			case lneEndSequence:
				closeSequence()
			case lneSetAddress:
				if address, err = c.addr(addressSize); err != nil {
					return nil, wrapBadDebugFile("reading DW_LNE_set_address", err)
				}
			case lneSetDiscriminator:
				if _, err := c.uleb128(); err != nil {
					return nil, wrapBadDebugFile("reading DW_LNE_set_discriminator", err)
				}
			default:
				// DW_LNE_define_file or a vendor extension: the length
				// prefix lets us skip it without understanding it.
			}
			c.seek(instrEnd)

		case opcode < opcodeBase:
			switch opcode {
			case lnsCopy:
				emitRow()
			case lnsAdvancePc:
				adv, err := c.uleb128()
				if err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_advance_pc", err)
				}
				address += adv * uint64(minInstLen)
			case lnsAdvanceLine:
				d, err := c.sleb128()
				if err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_advance_line", err)
				}
				line = uint32(int64(line) + d)
			case lnsSetFile:
				if file, err = c.uleb128(); err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_set_file", err)
				}
			case lnsSetColumn:
				if _, err := c.uleb128(); err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_set_column", err)
				}
			case lnsNegateStmt, lnsSetBasicBlock, lnsPrologueEnd, lnsEpilogueBegin:
				// state-machine flags this package never reads back.
			case lnsConstAddPc:
				adjusted := uint8(255) - opcodeBase
				address += uint64(adjusted/lineRange) * uint64(minInstLen)
			case lnsFixedAdvancePc:
				adv, err := c.u16()
				if err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_fixed_advance_pc", err)
				}
				address += uint64(adv)
			case lnsSetIsa:
				if _, err := c.uleb128(); err != nil {
					return nil, wrapBadDebugFile("reading DW_LNS_set_isa", err)
				}
			default:
				n := 0
				if int(opcode) <= len(stdOpcodeLengths) {
					n = int(stdOpcodeLengths[opcode-1])
				}
				for i := 0; i < n; i++ {
					if _, err := c.uleb128(); err != nil {
						return nil, wrapBadDebugFile("skipping unknown standard opcode operand", err)
					}
				}
			}

		default:
			adjusted := opcode - opcodeBase
			address += uint64(adjusted/lineRange) * uint64(minInstLen)
			line = uint32(int64(line) + int64(lineBase) + int64(adjusted%lineRange))
			emitRow()
		}
	}

	// A malformed or truncated program can leave a sequence open with no
	// end_sequence; close it defensively rather than discard the rows.
	if len(rows) > 0 {
		sequences = append(sequences, lineSequence{Low: rows[0].Address, High: rows[len(rows)-1].Address + 1, Rows: rows})
	}

	sort.Slice(sequences, func(i, j int) bool { return sequences[i].Low < sequences[j].Low })
	return sequences, nil
}

// getFilename resolves a line program file index to its name and owning
// directory, kept as separate byte slices (Line.Filename / Line.BaseDir)
// rather than joined into a path.
func (lp *LineProgram) getFilename(fileIndex uint64) ([]byte, []byte, error) {
	idx := int(fileIndex) - lp.fileBase
	if idx < 0 || idx >= len(lp.Files) {
		return nil, nil, conversionError("invalid file reference")
	}
	f := lp.Files[idx]
	var dir []byte
	if int(f.DirIndex) < len(lp.Dirs) {
		dir = lp.Dirs[f.DirIndex]
	}
	return f.Name, dir, nil
}

// getRows returns the line entries covering rng, consulting only the
// single sequence whose own range contains rng.Begin. Rows are never
// stitched across sequences.
func (lp *LineProgram) getRows(rng Range) ([]Line, error) {
	n := len(lp.Sequences)
	i := sort.Search(n, func(i int) bool { return lp.Sequences[i].Low > rng.Begin })
	if i == 0 {
		return nil, nil
	}
	seq := lp.Sequences[i-1]
	if rng.Begin < seq.Low || rng.Begin >= seq.High {
		return nil, nil
	}

	rows := seq.Rows
	lo := sort.Search(len(rows), func(i int) bool { return rows[i].Address > rng.Begin })
	if lo > 0 {
		lo--
	}
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Address >= rng.End })
	if hi < lo {
		hi = lo
	}

	var out []Line
	for i := lo; i < hi && i < len(rows); i++ {
		name, dir, err := lp.getFilename(rows[i].File)
		if err != nil {
			return nil, err
		}
		out = append(out, Line{
			Addr:           rows[i].Address,
			OriginalFileID: rows[i].File,
			Filename:       name,
			BaseDir:        dir,
			Line:           saturateUint16(rows[i].Line),
		})
	}
	return out, nil
}

// saturateUint16 clamps rather than truncates, matching Line.Line's
// saturated-at-0xffff field - a wrapped compiler-emitted line number
// would otherwise alias an unrelated, much smaller one.
func saturateUint16(v uint32) uint16 {
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

const (
	lnsCopy           = 1
	lnsAdvancePc      = 2
	lnsAdvanceLine    = 3
	lnsSetFile        = 4
	lnsSetColumn      = 5
	lnsNegateStmt     = 6
	lnsSetBasicBlock  = 7
	lnsConstAddPc     = 8
	lnsFixedAdvancePc = 9
	lnsPrologueEnd    = 10
	lnsEpilogueBegin  = 11
	lnsSetIsa         = 12

	lneEndSequence      = 1
	lneSetAddress       = 2
	lneSetDiscriminator = 4
)

// DW_LNCT_* content type codes used by DWARF5 directory/file tables.
const (
	lnctPath          = 1
	lnctDirectoryIdx  = 2
	lnctTimestamp     = 3
	lnctSize          = 4
	lnctMD5           = 5
)

// readLineEntryTable decodes a DWARF5 directory_entry_format table
// (filter keeps only entries with content type wanted, in practice always
// lnctPath for the directory table).
func readLineEntryTable(c *cursor, strTab []byte, dwarf64 bool, wanted int) ([][]byte, error) {
	formatCount, err := c.u8()
	if err != nil {
		return nil, wrapBadDebugFile("reading directory_entry_format_count", err)
	}
	type fieldSpec struct {
		contentType uint64
		form        dwForm
	}
	formats := make([]fieldSpec, formatCount)
	for i := range formats {
		ct, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading directory entry content type", err)
		}
		form, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading directory entry form", err)
		}
		formats[i] = fieldSpec{contentType: ct, form: dwForm(form)}
	}

	count, err := c.uleb128()
	if err != nil {
		return nil, wrapBadDebugFile("reading directories_count", err)
	}

	entries := make([][]byte, count)
	for i := range entries {
		for _, f := range formats {
			bs, _, err := readLineFormValue(c, f.form, strTab, dwarf64)
			if err != nil {
				return nil, err
			}
			if int(f.contentType) == wanted {
				entries[i] = bs
			}
		}
	}
	return entries, nil
}

// readLineFileTable decodes a DWARF5 file_name_entry_format table.
func readLineFileTable(c *cursor, strTab []byte, dwarf64 bool) ([]fileEntry, error) {
	formatCount, err := c.u8()
	if err != nil {
		return nil, wrapBadDebugFile("reading file_name_entry_format_count", err)
	}
	type fieldSpec struct {
		contentType uint64
		form        dwForm
	}
	formats := make([]fieldSpec, formatCount)
	for i := range formats {
		ct, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading file entry content type", err)
		}
		form, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading file entry form", err)
		}
		formats[i] = fieldSpec{contentType: ct, form: dwForm(form)}
	}

	count, err := c.uleb128()
	if err != nil {
		return nil, wrapBadDebugFile("reading file_names_count", err)
	}

	files := make([]fileEntry, count)
	for i := range files {
		var entry fileEntry
		for _, f := range formats {
			bs, v, err := readLineFormValue(c, f.form, strTab, dwarf64)
			if err != nil {
				return nil, err
			}
			switch int(f.contentType) {
			case lnctPath:
				entry.Name = bs
			case lnctDirectoryIdx:
				entry.DirIndex = v
			}
		}
		files[i] = entry
	}
	return files, nil
}

// readLineFormValue decodes just the forms a DWARF5 line table header
// actually uses: inline/indirect strings, small integers, and opaque
// blocks (MD5 checksums) it only needs to skip over.
func readLineFormValue(c *cursor, form dwForm, strTab []byte, dwarf64 bool) ([]byte, uint64, error) {
	switch form {
	case formString:
		s, err := c.cstring()
		return s, 0, err
	case formStrp:
		off, err := c.offset(dwarf64)
		if err != nil {
			return nil, 0, err
		}
		return cstringAt(strTab, int(off)), 0, nil
	case formLineStrp:
		_, err := c.offset(dwarf64)
		return nil, 0, err
	case formStrx:
		v, err := c.uleb128()
		return nil, v, err
	case formStrx1:
		v, err := c.u8()
		return nil, uint64(v), err
	case formStrx2:
		v, err := c.u16()
		return nil, uint64(v), err
	case formStrx4:
		v, err := c.u32()
		return nil, uint64(v), err
	case formUdata:
		v, err := c.uleb128()
		return nil, v, err
	case formData1:
		v, err := c.u8()
		return nil, uint64(v), err
	case formData2:
		v, err := c.u16()
		return nil, uint64(v), err
	case formData4:
		v, err := c.u32()
		return nil, uint64(v), err
	case formData8:
		v, err := c.u64()
		return nil, v, err
	case formData16:
		_, err := c.bytes(16)
		return nil, 0, err
	case formBlock:
		n, err := c.uleb128()
		if err != nil {
			return nil, 0, err
		}
		_, err = c.bytes(int(n))
		return nil, 0, err
	default:
		return nil, 0, conversionErrorf("unsupported line table form %#x", form)
	}
}
