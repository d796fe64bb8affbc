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

import lru "github.com/hashicorp/golang-lru/v2"

// DefaultAbbrevCacheSize bounds the abbreviation cache: large binaries
// reuse a handful of abbreviation tables across many units, so a small LRU
// is enough to avoid re-decoding on every unit. Open's WithAbbrevCacheSize
// option overrides it.
const DefaultAbbrevCacheSize = 30

// abbrevAttr is one (attribute, form) pair from an abbreviation
// declaration. ImplicitConst only applies to DW_FORM_implicit_const.
type abbrevAttr struct {
	Attr          dwAttr
	Form          dwForm
	ImplicitConst int64
}

// abbrevDecl is one decoded abbreviation-table entry, keyed by its
// abbreviation code within the table.
type abbrevDecl struct {
	Tag         dwTag
	HasChildren bool
	Attrs       []abbrevAttr
}

// abbrevTable is a decoded, immutable abbreviation table. Tables are
// shared by reference between units that happen to reuse the same
// debug_abbrev offset - in Go that sharing falls out of storing and handing
// back the same pointer, no explicit refcounting required.
type abbrevTable struct {
	decls map[uint64]*abbrevDecl
}

func (t *abbrevTable) lookup(code uint64) (*abbrevDecl, bool) {
	d, ok := t.decls[code]
	return d, ok
}

// decodeAbbrevTable decodes the abbreviation table starting at offset
// within the debug_abbrev section.
func decodeAbbrevTable(abbrevSection []byte, offset uint64, littleEndian bool) (*abbrevTable, error) {
	if offset > uint64(len(abbrevSection)) {
		return nil, conversionError("debug_abbrev_offset out of range")
	}

	c := newCursor(abbrevSection, littleEndian)
	c.seek(int(offset))

	table := &abbrevTable{decls: make(map[uint64]*abbrevDecl)}

	for {
		code, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading abbreviation code", err)
		}
		if code == 0 {
			break
		}

		tag, err := c.uleb128()
		if err != nil {
			return nil, wrapBadDebugFile("reading abbreviation tag", err)
		}

		hasChildren, err := c.u8()
		if err != nil {
			return nil, wrapBadDebugFile("reading abbreviation children flag", err)
		}

		decl := &abbrevDecl{Tag: dwTag(tag), HasChildren: hasChildren != 0}

		for {
			attrName, err := c.uleb128()
			if err != nil {
				return nil, wrapBadDebugFile("reading attribute name", err)
			}
			attrForm, err := c.uleb128()
			if err != nil {
				return nil, wrapBadDebugFile("reading attribute form", err)
			}

			var implicitConst int64
			if dwForm(attrForm) == formImplicitConst {
				implicitConst, err = c.sleb128()
				if err != nil {
					return nil, wrapBadDebugFile("reading implicit_const value", err)
				}
			}

			if attrName == 0 && attrForm == 0 {
				break
			}

			decl.Attrs = append(decl.Attrs, abbrevAttr{
				Attr:          dwAttr(attrName),
				Form:          dwForm(attrForm),
				ImplicitConst: implicitConst,
			})
		}

		table.decls[code] = decl
	}

	return table, nil
}

// abbrevCache is the bounded, single-threaded-per-extraction cache of
// decoded abbreviation tables keyed by debug_abbrev offset.
type abbrevCache struct {
	lru *lru.Cache[uint64, *abbrevTable]
}

func newAbbrevCache(size int) *abbrevCache {
	if size <= 0 {
		size = DefaultAbbrevCacheSize
	}
	c, _ := lru.New[uint64, *abbrevTable](size)
	return &abbrevCache{lru: c}
}

// get returns the decoded table for the abbreviation section offset given
// by header, decoding and inserting on a miss.
func (ac *abbrevCache) get(abbrevSection []byte, header *CompilationUnitHeader, littleEndian bool) (*abbrevTable, error) {
	if t, ok := ac.lru.Get(header.AbbrevOffset); ok {
		return t, nil
	}

	t, err := decodeAbbrevTable(abbrevSection, header.AbbrevOffset, littleEndian)
	if err != nil {
		return nil, err
	}

	ac.lru.Add(header.AbbrevOffset, t)
	return t, nil
}
