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

import "testing"

func TestSliceSymbolTableLookup(t *testing.T) {
	tbl := newSliceSymbolTable([]Symbol{
		{Addr: 0x2000, Len: 0x10, Name: "b"},
		{Addr: 0x1000, Len: 0x10, Name: "a"},
		{Addr: 0x3000, Len: 0, Name: "zero-length, dropped"},
	})

	if sym, ok := tbl.Lookup(0x1008); !ok || sym.Name != "a" {
		t.Fatalf("Lookup(0x1008) = %+v, %v, want a", sym, ok)
	}
	if sym, ok := tbl.Lookup(0x2000); !ok || sym.Name != "b" {
		t.Fatalf("Lookup(0x2000) = %+v, %v, want b", sym, ok)
	}
	if _, ok := tbl.Lookup(0x1fff); ok {
		t.Fatalf("Lookup(0x1fff) should miss (between symbol a's end and b's start)")
	}
	if _, ok := tbl.Lookup(0x3000); ok {
		t.Fatalf("a zero-length symbol must be dropped, not matched")
	}
	if _, ok := tbl.Lookup(0); ok {
		t.Fatalf("Lookup(0) should miss on an empty region before the first symbol")
	}
}
