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

package cachewriter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jetsetilly/dwarfsym/internal/dwarf"
)

func TestWriteRendersNestedInlines(t *testing.T) {
	fn := &dwarf.Function{
		Addr: 0x1000,
		Len:  0x20,
		Name: "outer",
		Lang: dwarf.LanguageC,
		Lines: []dwarf.Line{
			{Addr: 0x1000, OriginalFileID: 1, Filename: []byte("a.c"), BaseDir: []byte("/src"), Line: 10},
		},
		Inlines: []*dwarf.Function{
			{Depth: 1, Addr: 0x1008, Len: 0x4, Name: "inner", Lang: dwarf.LanguageC},
		},
	}

	var buf strings.Builder
	if err := Write(&buf, []*dwarf.Function{fn}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("decoding output: %v\noutput: %s", err, buf.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d top-level entries, want 1", len(decoded))
	}
	if decoded[0]["name"] != "outer" {
		t.Errorf("name = %v, want outer", decoded[0]["name"])
	}
	if decoded[0]["lang"] != "C" {
		t.Errorf("lang = %v, want C", decoded[0]["lang"])
	}
	inlines, ok := decoded[0]["inlines"].([]interface{})
	if !ok || len(inlines) != 1 {
		t.Fatalf("inlines = %v, want a single nested entry", decoded[0]["inlines"])
	}
	inner := inlines[0].(map[string]interface{})
	if inner["name"] != "inner" {
		t.Errorf("inner name = %v, want inner", inner["name"])
	}
}

func TestWriteEmptyFunctionList(t *testing.T) {
	var buf strings.Builder
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("got %q, want an empty JSON array", buf.String())
	}
}
