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

// extractionContext bundles the pieces cross-unit reference resolution
// needs: the section bytes, the unit index to locate a target unit from a
// global offset, and the abbreviation cache to decode it.
type extractionContext struct {
	sections *SectionSet
	index    *unitIndex
	cache    *abbrevCache
}

// entryAt decodes the entry at a global debug_info offset, always looking
// up its owning unit and abbreviation table fresh rather than assuming it
// shares the caller's - required because offset may land in a different
// unit than the one being walked.
func (ec *extractionContext) entryAt(offset uint64) (*entry, *CompilationUnitHeader, error) {
	ordinal, _, err := ec.index.findUnitOffset(offset)
	if err != nil {
		return nil, nil, err
	}
	header, err := ec.index.getUnitHeader(ordinal)
	if err != nil {
		return nil, nil, err
	}
	table, err := ec.cache.get(ec.sections.Abbrev, header, ec.sections.LittleEndian)
	if err != nil {
		return nil, nil, err
	}
	e, err := entryAtOffset(ec.sections, header, table, offset)
	if err != nil {
		return nil, nil, err
	}
	return e, header, nil
}

// maxNameResolutionHops bounds the abstract_origin/specification chase
// against a malformed or cyclic reference chain; real toolchains never
// nest anywhere close to this deep.
const maxNameResolutionHops = 16

// resolveFunctionName finds a function's display name by attribute
// priority - DW_AT_linkage_name, then the MIPS vendor extension, then
// DW_AT_name - recursing through DW_AT_abstract_origin or
// DW_AT_specification when the entry in hand carries none of them.
func resolveFunctionName(ec *extractionContext, e *entry) (string, error) {
	cur := e

	for hop := 0; hop < maxNameResolutionHops; hop++ {
		if v, ok := cur.attr(attrLinkageName); ok {
			return string(v.Bytes), nil
		}
		if v, ok := cur.attr(attrMIPSLinkageName); ok {
			return string(v.Bytes), nil
		}
		if v, ok := cur.attr(attrName); ok {
			return string(v.Bytes), nil
		}

		var nextOffset uint64
		var hasNext bool
		if v, ok := cur.attr(attrAbstractOrigin); ok {
			nextOffset, hasNext = v.Uint, true
		} else if v, ok := cur.attr(attrSpecification); ok {
			nextOffset, hasNext = v.Uint, true
		}
		if !hasNext {
			return "", nil
		}

		next, _, err := ec.entryAt(nextOffset)
		if err != nil {
			return "", err
		}
		cur = next
	}

	return "", conversionError("name resolution recursed too deeply")
}
