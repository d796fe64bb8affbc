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

func TestLanguageFromDWARF(t *testing.T) {
	cases := []struct {
		code uint64
		want Language
	}{
		{dwLangC, LanguageC},
		{dwLangC99, LanguageC99},
		{dwLangC11, LanguageC11},
		{dwLangCpp, LanguageCPlusPlus},
		{dwLangCpp11, LanguageCPlusPlus11},
		{dwLangRust, LanguageRust},
		{dwLangGo, LanguageGo},
		{0xdead, LanguageUnknown},
	}
	for _, c := range cases {
		if got := languageFromDWARF(c.code); got != c.want {
			t.Errorf("languageFromDWARF(%#x) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestLanguageString(t *testing.T) {
	if got := LanguageGo.String(); got != "Go" {
		t.Errorf("Go.String() = %q, want %q", got, "Go")
	}
	if got := LanguageUnknown.String(); got != "Unknown" {
		t.Errorf("Unknown.String() = %q, want %q", got, "Unknown")
	}
	if got := Language(999).String(); got != "Unknown" {
		t.Errorf("an unrecognised Language value should stringify to Unknown, got %q", got)
	}
}
