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

// DwarfInfo is the extraction surface exposed to downstream consumers:
// it owns the section bytes, the unit index, and the abbreviation
// cache for one object, and turns unit ordinals into function trees.
type DwarfInfo struct {
	sections *SectionSet
	index    *unitIndex
	cache    *abbrevCache
	vmaddr   uint64
	symbols  SymbolTable
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	abbrevCacheSize int
}

// WithAbbrevCacheSize overrides the abbreviation cache's default capacity.
// Exposed so a CLI can make it tunable for unusually large objects.
func WithAbbrevCacheSize(n int) Option {
	return func(o *openOptions) { o.abbrevCacheSize = n }
}

// Open loads the six DWARF sections from obj and indexes its compilation
// units. It fails with MissingDebugSection if info/abbrev/line are absent.
func Open(obj Object, opts ...Option) (*DwarfInfo, error) {
	options := openOptions{abbrevCacheSize: DefaultAbbrevCacheSize}
	for _, opt := range opts {
		opt(&options)
	}

	sections, err := loadSections(obj)
	if err != nil {
		return nil, err
	}

	index, err := buildUnitIndex(sections.Info, sections.LittleEndian)
	if err != nil {
		return nil, err
	}

	return &DwarfInfo{
		sections: sections,
		index:    index,
		cache:    newAbbrevCache(options.abbrevCacheSize),
		vmaddr:   obj.VMAddr(),
		symbols:  obj.Symbols(),
	}, nil
}

// UnitCount returns the number of compilation units found in debug_info.
func (d *DwarfInfo) UnitCount() int { return d.index.unitCount() }

// Functions parses unit i and walks its DIE tree into a function list. A
// nil slice with a nil error is returned when the unit was skipped - its
// compile_unit DIE has no DW_AT_stmt_list, so it carries no line
// information - or when it holds no functions. A top DIE that is not a
// compile_unit is reported as an error.
func (d *DwarfInfo) Functions(i int) ([]*Function, error) {
	header, err := d.index.getUnitHeader(i)
	if err != nil {
		return nil, err
	}

	abbrev, err := d.cache.get(d.sections.Abbrev, header, d.sections.LittleEndian)
	if err != nil {
		return nil, err
	}

	unit, err := parseUnit(d.sections, i, header, abbrev)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}

	lp, err := parseLineProgram(d.sections, unit.LineOffset, header.AddressSize, unit.CompDir)
	if err != nil {
		return nil, err
	}

	ec := &extractionContext{sections: d.sections, index: d.index, cache: d.cache}
	return unit.getFunctions(ec, lp, d.vmaddr, d.symbols)
}

// AllFunctions walks every unit in file order and concatenates their
// function lists. Skipped units contribute nothing.
func (d *DwarfInfo) AllFunctions() ([]*Function, error) {
	var all []*Function
	for i := 0; i < d.UnitCount(); i++ {
		funcs, err := d.Functions(i)
		if err != nil {
			return nil, err
		}
		all = append(all, funcs...)
	}
	return all, nil
}
