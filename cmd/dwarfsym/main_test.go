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

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/dwarfsym/internal/dwarf"
)

func TestRootCmdFlagDefaults(t *testing.T) {
	cmd := newRootCmd()

	size, err := cmd.Flags().GetInt("abbrev-cache-size")
	if err != nil {
		t.Fatalf("abbrev-cache-size: %v", err)
	}
	if size != dwarf.DefaultAbbrevCacheSize {
		t.Errorf("abbrev-cache-size default = %d, want %d", size, dwarf.DefaultAbbrevCacheSize)
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		t.Fatalf("out: %v", err)
	}
	if out != "" {
		t.Errorf("out default = %q, want empty", out)
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		t.Fatalf("quiet: %v", err)
	}
	if quiet {
		t.Errorf("quiet default = true, want false")
	}

	if cmd.Flags().ShorthandLookup("o") == nil {
		t.Error("expected -o shorthand for --out")
	}
	if cmd.Flags().ShorthandLookup("q") == nil {
		t.Error("expected -q shorthand for --quiet")
	}
}

func TestRootCmdRequiresExactlyOneArg(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("expected an error with no arguments")
	}
	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Error("expected an error with two arguments")
	}
	if err := cmd.Args(cmd, []string{"a"}); err != nil {
		t.Errorf("expected a single argument to be accepted, got %v", err)
	}
}

func TestQuietPermissionAllowLogging(t *testing.T) {
	if !(quietPermission{quiet: false}).AllowLogging() {
		t.Error("AllowLogging() = false when quiet is false, want true")
	}
	if (quietPermission{quiet: true}).AllowLogging() {
		t.Error("AllowLogging() = true when quiet is true, want false")
	}
}

func TestRunWrapsOpenError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.elf")
	err := run(missing, "", dwarf.DefaultAbbrevCacheSize, true)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error = %q, want it to mention the path %q", err.Error(), missing)
	}
}
