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

func TestDecodeAbbrevTable(t *testing.T) {
	buf := appendAbbrevDecl(nil, 1, tagCompileUnit, true,
		abbrevAttrSpec{attrName, formString},
		abbrevAttrSpec{attrStmtList, formSecOffset},
	)
	buf = appendAbbrevDecl(buf, 5, tagSubprogram, false,
		abbrevAttrSpec{attrLowpc, formAddr},
	)
	buf = append(buf, uleb(0)...)

	table, err := decodeAbbrevTable(buf, 0, true)
	if err != nil {
		t.Fatalf("decodeAbbrevTable: %v", err)
	}

	decl, ok := table.lookup(1)
	if !ok {
		t.Fatal("expected abbreviation code 1 to be present")
	}
	if decl.Tag != tagCompileUnit || !decl.HasChildren {
		t.Fatalf("decl = %+v, want tagCompileUnit with children", decl)
	}
	if len(decl.Attrs) != 2 || decl.Attrs[0].Attr != attrName || decl.Attrs[1].Form != formSecOffset {
		t.Fatalf("unexpected attrs: %+v", decl.Attrs)
	}

	decl5, ok := table.lookup(5)
	if !ok || decl5.Tag != tagSubprogram || decl5.HasChildren {
		t.Fatalf("decl5 = %+v, ok=%v, want tagSubprogram without children", decl5, ok)
	}

	if _, ok := table.lookup(99); ok {
		t.Fatal("expected code 99 to be absent")
	}
}

func TestDecodeAbbrevTableImplicitConst(t *testing.T) {
	var buf []byte
	buf = append(buf, uleb(1)...)
	buf = append(buf, uleb(uint64(tagSubprogram))...)
	buf = append(buf, 0)
	buf = append(buf, uleb(uint64(attrDeclLine))...)
	buf = append(buf, uleb(uint64(formImplicitConst))...)
	buf = append(buf, sleb(42)...)
	buf = append(buf, uleb(0)...)
	buf = append(buf, uleb(0)...)
	buf = append(buf, uleb(0)...)

	table, err := decodeAbbrevTable(buf, 0, true)
	if err != nil {
		t.Fatalf("decodeAbbrevTable: %v", err)
	}
	decl, ok := table.lookup(1)
	if !ok || len(decl.Attrs) != 1 {
		t.Fatalf("decl = %+v, ok=%v", decl, ok)
	}
	if decl.Attrs[0].ImplicitConst != 42 {
		t.Fatalf("ImplicitConst = %d, want 42", decl.Attrs[0].ImplicitConst)
	}
}

func TestNewAbbrevCacheDefaultsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		c := newAbbrevCache(size)
		if c.lru.Len() != 0 {
			t.Fatalf("newAbbrevCache(%d): a fresh cache should be empty", size)
		}

		buf := appendAbbrevDecl(nil, 1, tagCompileUnit, false)
		buf = append(buf, uleb(0)...)
		header := &CompilationUnitHeader{AbbrevOffset: 0}
		if _, err := c.get(buf, header, true); err != nil {
			t.Fatalf("newAbbrevCache(%d): get: %v", size, err)
		}
		if c.lru.Len() != 1 {
			t.Fatalf("newAbbrevCache(%d): expected one cached entry, got %d", size, c.lru.Len())
		}
	}
}

func TestAbbrevCacheGetCachesByOffset(t *testing.T) {
	buf := appendAbbrevDecl(nil, 1, tagCompileUnit, false)
	buf = append(buf, uleb(0)...)
	c := newAbbrevCache(4)
	header := &CompilationUnitHeader{AbbrevOffset: 0}

	t1, err := c.get(buf, header, true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t2, err := c.get(buf, header, true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if t1 != t2 {
		t.Fatalf("expected the second get at the same offset to hit the cache and return the same table")
	}
}
