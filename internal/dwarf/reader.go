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

// cursor is a small forward-only byte reader shared by the unit index, the
// abbreviation decoder, the DIE reader, and the line program interpreter.
// It never panics on underrun - every read reports an error so a malformed
// section surfaces as BadDebugFile rather than crashing the process.
type cursor struct {
	buf    []byte
	off    int
	order  binary.ByteOrder
}

func newCursor(buf []byte, littleEndian bool) *cursor {
	var order binary.ByteOrder = binary.LittleEndian
	if !littleEndian {
		order = binary.BigEndian
	}
	return &cursor{buf: buf, order: order}
}

func (c *cursor) atEnd() bool { return c.off >= len(c.buf) }

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) tell() int { return c.off }

func (c *cursor) seek(off int) { c.off = off }

func (c *cursor) u8() (uint8, error) {
	if c.remaining() < 1 {
		return 0, conversionError("unexpected end of section")
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// i8 reads a signed byte, used only by the line program header's line_base
// field.
func (c *cursor) i8() (int8, error) {
	v, err := c.u8()
	return int8(v), err
}

func (c *cursor) u16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, conversionError("unexpected end of section")
	}
	v := c.order.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, conversionError("unexpected end of section")
	}
	v := c.order.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, conversionError("unexpected end of section")
	}
	v := c.order.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// addr reads an address-sized (4 or 8 byte) value.
func (c *cursor) addr(addressSize int) (uint64, error) {
	switch addressSize {
	case 4:
		v, err := c.u32()
		return uint64(v), err
	case 8:
		return c.u64()
	default:
		return 0, conversionErrorf("unsupported address size %d", addressSize)
	}
}

// offset reads a section offset: 4 bytes, or 8 bytes when dwarf64 is set.
// The caller has already consumed any 0xffffffff initial-length escape.
func (c *cursor) offset(dwarf64 bool) (uint64, error) {
	if dwarf64 {
		return c.u64()
	}
	v, err := c.u32()
	return uint64(v), err
}

// uleb128 decodes an unsigned LEB128 value directly off the cursor, one
// byte at a time, per the algorithm in figure 46 of the "DWARF4 Standard"
// (page 218).
func (c *cursor) uleb128() (uint64, error) {
	var result uint64
	var shift uint64
	for {
		b, err := c.u8()
		if err != nil {
			return 0, conversionError("malformed ULEB128")
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// sleb128 decodes a signed LEB128 value directly off the cursor, per the
// algorithm in figure 47 of the "DWARF4 Standard" (page 218).
func (c *cursor) sleb128() (int64, error) {
	const size = 64

	var result int64
	var shift uint64
	var b uint8

	for {
		var err error
		b, err = c.u8()
		if err != nil {
			return 0, conversionError("malformed SLEB128")
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}

	// sign extend the last byte read
	if shift < size && b&0x40 > 0 {
		result |= -(1 << shift)
	}

	return result, nil
}

// cstring reads a NUL-terminated byte string (not including the NUL).
func (c *cursor) cstring() ([]byte, error) {
	start := c.off
	for c.off < len(c.buf) {
		if c.buf[c.off] == 0 {
			s := c.buf[start:c.off]
			c.off++
			return s, nil
		}
		c.off++
	}
	return nil, conversionError("unterminated string")
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, conversionError("unexpected end of section")
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	if c.remaining() < n {
		return conversionError("unexpected end of section")
	}
	c.off += n
	return nil
}

// cstringAt reads a NUL-terminated string out of buf starting at off,
// without disturbing any cursor - used to pull strings out of debug_str by
// absolute offset.
func cstringAt(buf []byte, off int) []byte {
	if off < 0 || off >= len(buf) {
		return nil
	}
	end := off
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return buf[off:end]
}
