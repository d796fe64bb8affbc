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

// CompilationUnitHeader is one entry of the unit index: enough of a
// compilation-unit header to locate its DIEs and its abbreviation table
// without re-parsing the whole unit.
type CompilationUnitHeader struct {
	// Offset is this header's own offset into debug_info.
	Offset uint64

	// UnitLength is the value of the initial-length field: the number of
	// bytes in the unit *after* that field.
	UnitLength uint64

	// Dwarf64 records whether UnitLength (and any offsets within the unit)
	// use the 8-byte DWARF64 encoding instead of the usual 4-byte one.
	Dwarf64 bool

	Version uint16

	AddressSize int

	AbbrevOffset uint64

	// DIEOffset is the debug_info offset of the first DIE in this unit,
	// i.e. Offset + (bytes consumed by the header fields above).
	DIEOffset uint64
}

// End is the offset one past the end of this unit.
func (h *CompilationUnitHeader) End() uint64 {
	lengthFieldSize := uint64(4)
	if h.Dwarf64 {
		lengthFieldSize = 12
	}
	return h.Offset + lengthFieldSize + h.UnitLength
}

// unitIndex parses every compilation-unit header out of debug_info up
// front, sorted by construction (file order is monotonic by offset), and
// answers the random-access and cross-unit offset queries the rest of the
// pipeline needs.
type unitIndex struct {
	headers []CompilationUnitHeader
}

// buildUnitIndex walks debug_info sequentially, parsing just the headers
// (not the DIE trees).
func buildUnitIndex(info []byte, littleEndian bool) (*unitIndex, error) {
	var headers []CompilationUnitHeader

	c := newCursor(info, littleEndian)
	for !c.atEnd() {
		if c.remaining() < 4 {
			break
		}

		offset := uint64(c.tell())

		first, err := c.u32()
		if err != nil {
			return nil, wrapBadDebugFile("reading unit_length", err)
		}

		dwarf64 := false
		unitLength := uint64(first)
		if first == 0xffffffff {
			dwarf64 = true
			unitLength, err = c.u64()
			if err != nil {
				return nil, wrapBadDebugFile("reading 64-bit unit_length", err)
			}
		} else if first >= 0xfffffff0 {
			return nil, conversionErrorf("reserved unit_length value %#x", first)
		}

		unitEndOff := c.tell() + int(unitLength)

		version, err := c.u16()
		if err != nil {
			return nil, wrapBadDebugFile("reading version", err)
		}

		var abbrevOffset uint64
		var addressSize int

		if version >= 5 {
			// unit_type(1), address_size(1), debug_abbrev_offset(4 or 8)
			if _, err := c.u8(); err != nil {
				return nil, wrapBadDebugFile("reading unit_type", err)
			}
			as, err := c.u8()
			if err != nil {
				return nil, wrapBadDebugFile("reading address_size", err)
			}
			addressSize = int(as)
			abbrevOffset, err = c.offset(dwarf64)
			if err != nil {
				return nil, wrapBadDebugFile("reading debug_abbrev_offset", err)
			}
		} else {
			abbrevOffset, err = c.offset(dwarf64)
			if err != nil {
				return nil, wrapBadDebugFile("reading debug_abbrev_offset", err)
			}
			as, err := c.u8()
			if err != nil {
				return nil, wrapBadDebugFile("reading address_size", err)
			}
			addressSize = int(as)
		}

		headers = append(headers, CompilationUnitHeader{
			Offset:       offset,
			UnitLength:   unitLength,
			Dwarf64:      dwarf64,
			Version:      version,
			AddressSize:  addressSize,
			AbbrevOffset: abbrevOffset,
			DIEOffset:    uint64(c.tell()),
		})

		if unitEndOff <= c.tell() || unitEndOff > len(info) {
			return nil, conversionError("unit length extends past end of section")
		}
		c.seek(unitEndOff)
	}

	return &unitIndex{headers: headers}, nil
}

func (idx *unitIndex) unitCount() int { return len(idx.headers) }

// getUnitHeader returns unit i by ordinal.
func (idx *unitIndex) getUnitHeader(i int) (*CompilationUnitHeader, error) {
	if i < 0 || i >= len(idx.headers) {
		return nil, conversionError("compilation unit does not exist")
	}
	return &idx.headers[i], nil
}

// findUnitOffset binary-searches for the unit whose header offset is the
// largest one not exceeding globalOffset, then validates that globalOffset
// actually falls within that unit. This predecessor-search behaviour
// (not an exact match) is required for cross-unit DebugInfoRef resolution,
// where globalOffset usually points at a DIE deep inside a unit, not at its
// header.
func (idx *unitIndex) findUnitOffset(globalOffset uint64) (int, uint64, error) {
	n := len(idx.headers)
	i := sort.Search(n, func(i int) bool { return idx.headers[i].Offset > globalOffset })
	if i == 0 {
		return 0, 0, conversionError("could not find compilation unit at address")
	}
	idx2 := i - 1
	header := &idx.headers[idx2]

	if globalOffset < header.Offset || globalOffset >= header.End() {
		return 0, 0, conversionError("compilation unit out of range")
	}

	return idx2, globalOffset - header.Offset, nil
}
