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

import (
	"fmt"

	"github.com/jetsetilly/dwarfsym/errors"
)

// ErrorKind tags the single error type raised by this package. The pipeline
// never returns a bare error; every failure is attributed to one of these
// kinds so a driver can decide, per unit, whether to continue.
type ErrorKind int

const (
	// BadDebugFile covers every malformed-DWARF condition: a truncated
	// section, an unresolvable abbreviation, an invalid file reference, an
	// inverted function range, a missing compile_unit DIE, a missing inline
	// parent, and so on. The Kind is coarse on purpose; the wrapped cause
	// carries the detail.
	BadDebugFile ErrorKind = iota

	// MissingDebugSection means one of debug_info, debug_abbrev or
	// debug_line was absent from the object.
	MissingDebugSection

	// WriteFailed is reserved for the downstream cache writer. The
	// extraction core never raises it.
	WriteFailed
)

func (k ErrorKind) String() string {
	switch k {
	case BadDebugFile:
		return "bad debug file"
	case MissingDebugSection:
		return "missing debug section"
	case WriteFailed:
		return "write failed"
	default:
		return "unknown"
	}
}

// Error is the tagged error type raised across the package. It carries its
// own ErrorKind (shadowing the errors.Kind promoted from the embedded
// *errors.Kinded) so callers never see the package-agnostic errors.Kind,
// while reusing errors.Kinded for message formatting and Unwrap.
type Error struct {
	Kind ErrorKind
	*errors.Kinded
}

// Is lets errors.Is(err, dwarf.ErrBadDebugFile) work by comparing Kind, not
// identity - every BadDebugFile is equivalent for the purposes of routing.
// It shadows the Is promoted from *errors.Kinded, which compares against
// *errors.Kinded targets rather than *Error ones.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// newError builds an Error of the given kind. When cause is non-nil the
// rendered message is "msg: cause", matching the fmt.Sprintf this package
// used before it started routing messages through errors.Kinded.
func newError(kind ErrorKind, cause error, msg string) *Error {
	if cause != nil {
		return &Error{Kind: kind, Kinded: errors.Tag(errors.Kind(kind), cause, "%s: %v", msg, cause)}
	}
	return &Error{Kind: kind, Kinded: errors.Tag(errors.Kind(kind), nil, "%s", msg)}
}

// conversionError builds a BadDebugFile error out of a plain message.
func conversionError(msg string) error {
	return newError(BadDebugFile, nil, msg)
}

func conversionErrorf(format string, args ...interface{}) error {
	return newError(BadDebugFile, nil, fmt.Sprintf(format, args...))
}

func wrapBadDebugFile(context string, err error) error {
	if err == nil {
		return nil
	}
	return newError(BadDebugFile, err, context)
}

// missingSectionError builds the MissingDebugSection error for a named
// required DWARF section.
func missingSectionError(name string) error {
	return newError(MissingDebugSection, nil, fmt.Sprintf("missing required %s section", name))
}

// WriteError builds a WriteFailed error. It exists for the downstream cache
// writer, which is a separate package and so cannot construct an *Error
// directly - the extraction core itself never raises WriteFailed.
func WriteError(err error) error {
	return newError(WriteFailed, err, "write failed")
}

// sentinel values usable directly with errors.Is(err, dwarf.ErrBadDebugFile)
var (
	// ErrBadDebugFile matches any BadDebugFile error.
	ErrBadDebugFile = newError(BadDebugFile, nil, "bad debug file")
	// ErrMissingDebugSection matches any MissingDebugSection error.
	ErrMissingDebugSection = newError(MissingDebugSection, nil, "missing debug section")
)
