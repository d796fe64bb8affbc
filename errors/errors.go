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

package errors

import (
	"fmt"
	"strings"
)

// Values is the type used to specify arguments for FormattedErrors
type Values []interface{}

// curated erorrs allow code to specify a predefined error and not worry too
// much about the message behind that error and how the message will be
// formatted on output.
type curated struct {
	message string
	values  Values
}

// Errorf creates a new curated error
func Errorf(message string, values ...interface{}) error {
	return curated{
		message: message,
		values:  values,
	}
}

// Error returns the normalised error message. Normalisation being the removal
// of duplicate adjacent error messsage parts.
//
// Implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Errorf(er.message, er.values...).Error()

	// de-duplicate error message parts
	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// Head returns the leading part of the message.
//
// Similar to Is() but returns the string rather than a boolean. Useful for
// switches.
//
// If err is a plain error then the return of Error() is returned
func Head(err error) string {
	if er, ok := err.(curated); ok {
		return er.message
	}
	return err.Error()
}

// IsAny checks if error is being curated by this package
func IsAny(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(curated); ok {
		return true
	}
	return false
}

// Is checks if error has a specific head
func Is(err error, head string) bool {
	if err == nil {
		return false
	}

	if er, ok := err.(curated); ok {
		return er.message == head
	}
	return false
}

// Has checks if the message string appears somewhere in the error
func Has(err error, msg string) bool {
	if err == nil {
		return false
	}

	if !IsAny(err) {
		return false
	}

	if Is(err, msg) {
		return true
	}

	for i := range err.(curated).values {
		if e, ok := err.(curated).values[i].(curated); ok {
			if Has(e, msg) {
				return true
			}
		}
	}

	return false
}

// Kind is an application-defined error category. Packages that need to
// route failures by kind (rather than by matching a curated message head)
// define their own named constants of this type.
type Kind int

// Kinded layers a Kind on top of a curated message, so a caller can branch
// on Kind via errors.Is/errors.As instead of a package growing its own
// from-scratch tagged error type next to this one.
type Kinded struct {
	Kind  Kind
	cause error
	curated
}

// Tag builds a Kinded error. message and values build the text the same
// way Errorf does - including Error()'s adjacent-duplicate collapsing -
// and cause, if non-nil, is the underlying error exposed through Unwrap.
func Tag(kind Kind, cause error, message string, values ...interface{}) *Kinded {
	return &Kinded{
		Kind:    kind,
		cause:   cause,
		curated: curated{message: message, values: values},
	}
}

// Unwrap exposes cause for errors.As/errors.Unwrap.
func (k *Kinded) Unwrap() error {
	return k.cause
}

// Is lets errors.Is(err, otherKinded) match by Kind alone, the way Is(err,
// head) above matches curated errors by message head alone.
func (k *Kinded) Is(target error) bool {
	t, ok := target.(*Kinded)
	if !ok {
		return false
	}
	return k.Kind == t.Kind
}
