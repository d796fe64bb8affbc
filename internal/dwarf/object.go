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
	"debug/elf"
	"sort"
)

// Endianness is the byte order of the object's DWARF sections.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// Symbol is a single entry from the object's linker symbol table, as
// consulted by the function walker to prefer a symbol name over a
// DWARF-resolved one when the symbol contains the DIE's start address and
// does not extend past the DIE's end.
type Symbol struct {
	Addr uint64
	Len  uint64 // 0 means "unknown length"; newSliceSymbolTable drops such symbols
	Name string
}

// SymbolTable answers "what symbol, if any, covers this address" queries.
type SymbolTable interface {
	Lookup(addr uint64) (Symbol, bool)
}

// Object is the collaborator this package borrows raw bytes and metadata
// from. Object-file parsing itself - ELF, Mach-O, PE section layout -
// is explicitly out of this package's scope; Object is the seam.
type Object interface {
	// GetSection returns the named section's bytes, or (nil, false) if the
	// object has no such section.
	GetSection(name string) ([]byte, bool)
	Endianness() Endianness
	// VMAddr is the image's base virtual address; emitted Function/Line
	// addresses are relative to it.
	VMAddr() uint64
	// Symbols returns the object's linker symbol table, or nil if none is
	// available (e.g. a stripped binary).
	Symbols() SymbolTable
}

// sliceSymbolTable is a sorted-by-address symbol table usable by any Object
// implementation; ELFObject builds one from debug/elf.Symbols.
type sliceSymbolTable []Symbol

func newSliceSymbolTable(syms []Symbol) sliceSymbolTable {
	filtered := make([]Symbol, 0, len(syms))
	for _, s := range syms {
		if s.Len > 0 {
			filtered = append(filtered, s)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Addr < filtered[j].Addr })
	return sliceSymbolTable(filtered)
}

func (t sliceSymbolTable) Lookup(addr uint64) (Symbol, bool) {
	i := sort.Search(len(t), func(i int) bool { return t[i].Addr+t[i].Len > addr })
	if i < len(t) && t[i].Addr <= addr {
		return t[i], true
	}
	return Symbol{}, false
}

// ELFObject adapts a debug/elf.File to the Object interface. It is the
// reference implementation of the external object collaborator - ELF
// parsing proper (section layout, relocation, program headers) is stdlib's
// job, not this package's.
type ELFObject struct {
	ef      *elf.File
	symbols SymbolTable
}

// NewELFObject wraps an already-opened ELF file.
func NewELFObject(ef *elf.File) *ELFObject {
	return &ELFObject{ef: ef}
}

// OpenELF opens path and wraps it as an Object.
func OpenELF(path string) (*ELFObject, error) {
	ef, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	return NewELFObject(ef), nil
}

func (o *ELFObject) GetSection(name string) ([]byte, bool) {
	sec := o.ef.Section(name)
	if sec == nil {
		return nil, false
	}
	data, err := sec.Data()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (o *ELFObject) Endianness() Endianness {
	if o.ef.ByteOrder.String() == "BigEndian" {
		return BigEndian
	}
	return LittleEndian
}

func (o *ELFObject) VMAddr() uint64 {
	for _, prog := range o.ef.Progs {
		if prog.Type == elf.PT_LOAD {
			return prog.Vaddr - prog.Off
		}
	}
	return 0
}

func (o *ELFObject) Symbols() SymbolTable {
	if o.symbols != nil {
		return o.symbols
	}

	raw, err := o.ef.Symbols()
	if err != nil || len(raw) == 0 {
		return nil
	}

	syms := make([]Symbol, 0, len(raw))
	for _, s := range raw {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC {
			continue
		}
		syms = append(syms, Symbol{Addr: s.Value, Len: s.Size, Name: s.Name})
	}
	o.symbols = newSliceSymbolTable(syms)
	return o.symbols
}
