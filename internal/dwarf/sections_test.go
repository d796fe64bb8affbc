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

func TestLoadSectionsRequiresInfoAbbrevLine(t *testing.T) {
	base := map[string][]byte{
		sectionInfo:   {1},
		sectionAbbrev: {2},
		sectionLine:   {3},
	}

	for _, missing := range []string{sectionInfo, sectionAbbrev, sectionLine} {
		sections := map[string][]byte{}
		for k, v := range base {
			sections[k] = v
		}
		delete(sections, missing)

		_, err := loadSections(&testObject{sections: sections})
		if err == nil {
			t.Fatalf("expected an error with %s missing", missing)
		}
		e, ok := err.(*Error)
		if !ok || e.Kind != MissingDebugSection {
			t.Fatalf("missing %s: got %v (%T), want MissingDebugSection", missing, err, err)
		}
	}
}

func TestLoadSectionsOptionalSectionsDefaultEmpty(t *testing.T) {
	obj := &testObject{sections: map[string][]byte{
		sectionInfo:   {1},
		sectionAbbrev: {2},
		sectionLine:   {3},
	}}

	sections, err := loadSections(obj)
	if err != nil {
		t.Fatalf("loadSections: %v", err)
	}
	if sections.Str != nil {
		t.Errorf("Str = %v, want nil", sections.Str)
	}
	if sections.Ranges != nil {
		t.Errorf("Ranges = %v, want nil", sections.Ranges)
	}
	if sections.RngLists != nil {
		t.Errorf("RngLists = %v, want nil", sections.RngLists)
	}
	if !sections.LittleEndian {
		t.Errorf("LittleEndian = false, want true")
	}
}
