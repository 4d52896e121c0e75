// Package codec converts raw IMDb dataset fields into typed Go values.
//
// Every function is total over its input: it either returns a value or an
// error that matches ErrMalformedField. The dataset marks absent values with
// the two-character sentinel `\N`; the optional decoders map it to nil and
// the non-optional list decoder maps it to an empty list.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NullSentinel is the literal marker for an absent value in the dataset.
const NullSentinel = `\N`

// ListSeparator separates the items of a multi-valued field.
const ListSeparator = ","

// ErrMalformedField is matched (via errors.Is) by every conversion failure.
var ErrMalformedField = errors.New("malformed field")

// FieldError reports a raw value that could not be converted.
type FieldError struct {
	Value string // raw field text
	Want  string // target kind, e.g. "bool" or "int"
	Err   error  // underlying parse error, may be nil
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed field: cannot read %q as %s: %v", e.Value, e.Want, e.Err)
	}
	return fmt.Sprintf("malformed field: cannot read %q as %s", e.Value, e.Want)
}

// Unwrap exposes both the sentinel and the parse error.
func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedField}
	}
	return []error{ErrMalformedField, e.Err}
}

// IsNull reports whether s is the null sentinel.
func IsNull(s string) bool { return s == NullSentinel }

// Bool decodes the strict "0"/"1" boolean encoding.
func Bool(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, &FieldError{Value: s, Want: "bool"}
}

// OptionalBool is Bool with the null sentinel mapped to nil.
func OptionalBool(s string) (*bool, error) {
	if IsNull(s) {
		return nil, nil
	}
	b, err := Bool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Int decodes a required base-10 integer.
func Int(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Value: s, Want: "int", Err: unwrapNum(err)}
	}
	return n, nil
}

// OptionalInt is Int with the null sentinel mapped to nil.
func OptionalInt(s string) (*int, error) {
	if IsNull(s) {
		return nil, nil
	}
	n, err := Int(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Float decodes a required decimal number such as an average rating.
func Float(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Value: s, Want: "float", Err: unwrapNum(err)}
	}
	return f, nil
}

// Text returns a required text value. The null sentinel is rejected.
func Text(s string) (string, error) {
	if IsNull(s) {
		return "", &FieldError{Value: s, Want: "text"}
	}
	return s, nil
}

// OptionalString maps the null sentinel to nil and returns any other value
// unchanged, surrounding whitespace included.
func OptionalString(s string) *string {
	if IsNull(s) {
		return nil
	}
	return &s
}

// List splits a multi-valued field on commas. The empty string and the null
// sentinel both yield an empty, non-nil slice. Items are neither trimmed nor
// deduplicated.
func List(s string) []string {
	if s == "" || IsNull(s) {
		return []string{}
	}
	return strings.Split(s, ListSeparator)
}

// OptionalList is List except that absence yields nil.
func OptionalList(s string) []string {
	if s == "" || IsNull(s) {
		return nil
	}
	return List(s)
}

// unwrapNum strips the *strconv.NumError wrapper, whose message repeats the
// input already carried by FieldError.
func unwrapNum(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
