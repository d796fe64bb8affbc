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

// location is the address-range and inline call-site information scraped
// off a single DIE's attributes. A DIE with no low_pc/high_pc/ranges
// at all (typically an optimised-out function) comes back with an empty
// Ranges slice rather than an error.
type location struct {
	Ranges      []Range
	CallFile    uint64
	CallLine    uint32
	HasCallSite bool
}

// parseLocation decodes the address information of a DW_TAG_subprogram or
// DW_TAG_inlined_subroutine entry, preferring DW_AT_ranges over a
// low_pc/high_pc pair when both are present, and normalising high_pc's two
// attribute classes - an absolute DW_FORM_addr, or a DWARF4+ length
// relative to low_pc - into a single Range.
func parseLocation(sections *SectionSet, unit *Unit, e *entry) (location, error) {
	var loc location

	var lowPC uint64
	var hasLow bool
	var highAddr uint64
	var hasHighAddr bool
	var highRel uint64
	var hasHighRel bool
	var rangesOffset uint64
	var hasRanges bool

	for _, a := range e.Attrs {
		switch a.Attr {
		case attrRanges:
			rangesOffset = a.Value.Uint
			hasRanges = true
		case attrLowpc:
			lowPC = a.Value.Uint
			hasLow = true
		case attrHighpc:
			if a.Value.Class == classAddr {
				highAddr = a.Value.Uint
				hasHighAddr = true
			} else {
				highRel = a.Value.Uint
				hasHighRel = true
			}
		case attrCallFile:
			loc.CallFile = a.Value.Uint
			loc.HasCallSite = true
		case attrCallLine:
			loc.CallLine = uint32(a.Value.Uint)
		}
	}

	if hasRanges {
		ranges, err := parseRanges(sections, unit, rangesOffset)
		if err != nil {
			return location{}, err
		}
		loc.Ranges = ranges
		return loc, nil
	}

	if !hasLow || lowPC == 0 {
		return loc, nil
	}

	var high uint64
	switch {
	case hasHighAddr:
		high = highAddr
	case hasHighRel:
		high = lowPC + highRel
	default:
		return loc, nil
	}

	if lowPC == high {
		return loc, nil
	}
	if lowPC > high {
		return location{}, conversionError("invalid function with inverted range")
	}

	loc.Ranges = []Range{{Begin: lowPC, End: high}}
	return loc, nil
}

// parseRanges resolves a DW_AT_ranges offset against the section the
// owning unit's DWARF version actually uses: debug_ranges for DWARF2-4,
// debug_rnglists for DWARF5.
func parseRanges(sections *SectionSet, unit *Unit, offset uint64) ([]Range, error) {
	if unit.Header.Version >= 5 {
		return parseRngLists(sections.RngLists, sections.LittleEndian, unit.Header.AddressSize, unit.BaseAddress, offset)
	}
	return parseDebugRanges(sections.Ranges, sections.LittleEndian, unit.Header.AddressSize, unit.BaseAddress, offset)
}

// parseDebugRanges decodes a classic (DWARF2-4) debug_ranges list: pairs of
// address-sized begin/end values, an all-ones begin selecting a new base
// address, and a (0,0) pair terminating the list.
func parseDebugRanges(buf []byte, littleEndian bool, addressSize int, baseAddress, offset uint64) ([]Range, error) {
	if offset > uint64(len(buf)) {
		return nil, conversionError("DW_AT_ranges offset out of range")
	}

	c := newCursor(buf, littleEndian)
	c.seek(int(offset))

	maxAddr := uint64(0xffffffff)
	if addressSize == 8 {
		maxAddr = ^uint64(0)
	}

	base := baseAddress
	var out []Range
	for {
		begin, err := c.addr(addressSize)
		if err != nil {
			return nil, wrapBadDebugFile("reading debug_ranges begin", err)
		}
		end, err := c.addr(addressSize)
		if err != nil {
			return nil, wrapBadDebugFile("reading debug_ranges end", err)
		}
		if begin == 0 && end == 0 {
			return out, nil
		}
		if begin == maxAddr {
			base = end
			continue
		}
		out = append(out, Range{Begin: base + begin, End: base + end})
	}
}

// DW_RLE_* range list entry kinds (DWARF5 §7.25).
const (
	rleEndOfList    = 0x00
	rleBaseAddressx = 0x01
	rleStartxEndx   = 0x02
	rleStartxLength = 0x03
	rleOffsetPair   = 0x04
	rleBaseAddress  = 0x05
	rleStartEnd     = 0x06
	rleStartLength  = 0x07
)

// parseRngLists decodes a DWARF5 debug_rnglists range list reached
// directly via DW_FORM_sec_offset. Entries indexed through .debug_addr
// (rleBaseAddressx/StartxEndx/StartxLength) need an address index table
// this package does not load; encountering one stops the list at whatever
// ranges were already collected rather than misreading the remaining
// bytes as something else.
func parseRngLists(buf []byte, littleEndian bool, addressSize int, baseAddress, offset uint64) ([]Range, error) {
	if offset > uint64(len(buf)) {
		return nil, conversionError("DW_AT_ranges offset out of range")
	}

	c := newCursor(buf, littleEndian)
	c.seek(int(offset))

	base := baseAddress
	var out []Range
	for {
		kind, err := c.u8()
		if err != nil {
			return nil, wrapBadDebugFile("reading range list entry kind", err)
		}

		switch kind {
		case rleEndOfList:
			return out, nil
		case rleBaseAddressx, rleStartxEndx, rleStartxLength:
			return out, nil
		case rleOffsetPair:
			b, err := c.uleb128()
			if err != nil {
				return nil, err
			}
			e, err := c.uleb128()
			if err != nil {
				return nil, err
			}
			out = append(out, Range{Begin: base + b, End: base + e})
		case rleBaseAddress:
			a, err := c.addr(addressSize)
			if err != nil {
				return nil, err
			}
			base = a
		case rleStartEnd:
			b, err := c.addr(addressSize)
			if err != nil {
				return nil, err
			}
			e, err := c.addr(addressSize)
			if err != nil {
				return nil, err
			}
			out = append(out, Range{Begin: b, End: e})
		case rleStartLength:
			b, err := c.addr(addressSize)
			if err != nil {
				return nil, err
			}
			l, err := c.uleb128()
			if err != nil {
				return nil, err
			}
			out = append(out, Range{Begin: b, End: b + l})
		default:
			return out, nil
		}
	}
}
