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

// Command dwarfsym extracts DWARF function and line information from an
// ELF object and prints it as JSON, for inspecting what the extraction
// core would hand a real symbolication cache writer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jetsetilly/dwarfsym/errors"
	"github.com/jetsetilly/dwarfsym/internal/cachewriter"
	"github.com/jetsetilly/dwarfsym/internal/dwarf"
	"github.com/jetsetilly/dwarfsym/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var abbrevCacheSize int
	var outPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:           "dwarfsym <elf-file>",
		Short:         "Extract DWARF function and line information for symbolication",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], outPath, abbrevCacheSize, quiet)
		},
	}

	cmd.Flags().IntVar(&abbrevCacheSize, "abbrev-cache-size", dwarf.DefaultAbbrevCacheSize,
		"number of decoded abbreviation tables to keep cached")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write JSON output to this file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-unit warnings on stderr")

	return cmd
}

type quietPermission struct{ quiet bool }

func (p quietPermission) AllowLogging() bool { return !p.quiet }

func run(path, outPath string, abbrevCacheSize int, quiet bool) error {
	obj, err := dwarf.OpenELF(path)
	if err != nil {
		return errors.Errorf("opening %s: %v", path, err)
	}

	info, err := dwarf.Open(obj, dwarf.WithAbbrevCacheSize(abbrevCacheSize))
	if err != nil {
		return errors.Errorf("reading debug information from %s: %v", path, err)
	}

	permission := quietPermission{quiet: quiet}

	var functions []*dwarf.Function
	for i := 0; i < info.UnitCount(); i++ {
		funcs, err := info.Functions(i)
		if err != nil {
			logger.Logf(permission, "dwarfsym", "unit %d: %v", i, err)
			continue
		}
		functions = append(functions, funcs...)
	}
	logger.Write(os.Stderr)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return cachewriter.Write(out, functions)
}
