package records

import (
	"errors"
	"fmt"

	"cine/internal/codec"
)

// ColumnType is the logical type of a persisted column. Storage dialects map
// it onto concrete SQL types.
type ColumnType string

const (
	TypeText ColumnType = "text"
	TypeInt  ColumnType = "integer"
	TypeReal ColumnType = "real"
	TypeBool ColumnType = "bool"
)

// Column describes one persisted column of an entity table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Field is one position in a source row.
//
// Decode stores the converted raw value into the record. Value reads it back
// for insertion; a nil Value marks a field that is decoded but not persisted
// (the multi-valued list fields).
type Field[R any] struct {
	Name     string
	Type     ColumnType
	Nullable bool
	Decode   func(r *R, raw string) error
	Value    func(r *R) any
}

// Layout is the declarative description of an entity: the ordered fields of
// its source rows plus an optional stream filter.
type Layout[R any] struct {
	Entity Entity
	Fields []Field[R]
	// Keep, when set, drops records for which it returns false.
	Keep func(r *R, o Options) bool
}

// Meta returns the catalog entry of the layout's entity.
func (l *Layout[R]) Meta() Meta { return Lookup(l.Entity) }

// Validate checks that the layout can both decode and persist.
func (l *Layout[R]) Validate() error {
	if len(l.Fields) == 0 {
		return fmt.Errorf("records: %s layout has no fields", l.Entity)
	}
	seen := make(map[string]struct{}, len(l.Fields))
	persisted := 0
	for i, f := range l.Fields {
		if f.Name == "" {
			return fmt.Errorf("records: %s field %d has no name", l.Entity, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("records: %s field %q declared twice", l.Entity, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Decode == nil {
			return fmt.Errorf("records: %s field %q has no decoder", l.Entity, f.Name)
		}
		if f.Value != nil {
			if f.Type == "" {
				return fmt.Errorf("records: %s field %q is persisted without a type", l.Entity, f.Name)
			}
			persisted++
		}
	}
	if persisted == 0 {
		return fmt.Errorf("records: %s layout persists no fields", l.Entity)
	}
	return nil
}

// FromStrings decodes one row of raw fields, positionally, into a record.
// The field count must match the layout exactly.
func (l *Layout[R]) FromStrings(fields []string) (R, error) {
	var r R
	if len(fields) != len(l.Fields) {
		return r, &DecodeError{
			Entity: l.Entity,
			Column: -1,
			Err:    fmt.Errorf("%w: got %d fields, want %d", codec.ErrMalformedField, len(fields), len(l.Fields)),
		}
	}
	for i := range l.Fields {
		f := &l.Fields[i]
		if err := f.Decode(&r, fields[i]); err != nil {
			return r, &DecodeError{Entity: l.Entity, Column: i, Field: f.Name, Value: fields[i], Err: err}
		}
	}
	return r, nil
}

// Columns lists the persisted columns in field order.
func (l *Layout[R]) Columns() []Column {
	out := make([]Column, 0, len(l.Fields))
	for _, f := range l.Fields {
		if f.Value == nil {
			continue
		}
		out = append(out, Column{Name: f.Name, Type: f.Type, Nullable: f.Nullable})
	}
	return out
}

// Values appends the persisted values of r to dst, aligned with Columns.
// Absent optional values are appended as untyped nil.
func (l *Layout[R]) Values(r *R, dst []any) []any {
	for _, f := range l.Fields {
		if f.Value == nil {
			continue
		}
		dst = append(dst, f.Value(r))
	}
	return dst
}

// ErrSourceNotFound is matched by the error of a stream whose file is absent.
var ErrSourceNotFound = errors.New("source not found")

// DecodeError locates a field that could not be decoded. It always matches
// codec.ErrMalformedField.
type DecodeError struct {
	Entity Entity
	Path   string // source file, empty when decoding detached rows
	Row    int    // 1-based line in the decompressed file, 0 when unknown
	Column int    // 0-based field position, -1 for a field count mismatch
	Field  string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	loc := e.Entity.String()
	if e.Path != "" {
		loc += " " + e.Path
	}
	if e.Row > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Row)
	}
	if e.Column < 0 {
		return fmt.Sprintf("%s: %v", loc, e.Err)
	}
	return fmt.Sprintf("%s: column %d (%s): %v", loc, e.Column, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// The field constructors below bind a column to a record member through an
// accessor returning its address.

func textField[R any](name string, at func(*R) *string) Field[R] {
	return Field[R]{
		Name: name,
		Type: TypeText,
		Decode: func(r *R, raw string) error {
			v, err := codec.Text(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any { return *at(r) },
	}
}

func optTextField[R any](name string, at func(*R) **string) Field[R] {
	return Field[R]{
		Name:     name,
		Type:     TypeText,
		Nullable: true,
		Decode: func(r *R, raw string) error {
			*at(r) = codec.OptionalString(raw)
			return nil
		},
		Value: func(r *R) any {
			if p := *at(r); p != nil {
				return *p
			}
			return nil
		},
	}
}

func intField[R any](name string, at func(*R) *int) Field[R] {
	return Field[R]{
		Name: name,
		Type: TypeInt,
		Decode: func(r *R, raw string) error {
			v, err := codec.Int(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any { return int64(*at(r)) },
	}
}

func optIntField[R any](name string, at func(*R) **int) Field[R] {
	return Field[R]{
		Name:     name,
		Type:     TypeInt,
		Nullable: true,
		Decode: func(r *R, raw string) error {
			v, err := codec.OptionalInt(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any {
			if p := *at(r); p != nil {
				return int64(*p)
			}
			return nil
		},
	}
}

func floatField[R any](name string, at func(*R) *float64) Field[R] {
	return Field[R]{
		Name: name,
		Type: TypeReal,
		Decode: func(r *R, raw string) error {
			v, err := codec.Float(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any { return *at(r) },
	}
}

func boolField[R any](name string, at func(*R) *bool) Field[R] {
	return Field[R]{
		Name: name,
		Type: TypeBool,
		Decode: func(r *R, raw string) error {
			v, err := codec.Bool(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any { return *at(r) },
	}
}

func optBoolField[R any](name string, at func(*R) **bool) Field[R] {
	return Field[R]{
		Name:     name,
		Type:     TypeBool,
		Nullable: true,
		Decode: func(r *R, raw string) error {
			v, err := codec.OptionalBool(raw)
			*at(r) = v
			return err
		},
		Value: func(r *R) any {
			if p := *at(r); p != nil {
				return *p
			}
			return nil
		},
	}
}

// listField decodes a multi-valued field. Lists are not persisted.
func listField[R any](name string, at func(*R) *[]string) Field[R] {
	return Field[R]{
		Name: name,
		Decode: func(r *R, raw string) error {
			*at(r) = codec.List(raw)
			return nil
		},
	}
}

func optListField[R any](name string, at func(*R) *[]string) Field[R] {
	return Field[R]{
		Name:     name,
		Nullable: true,
		Decode: func(r *R, raw string) error {
			*at(r) = codec.OptionalList(raw)
			return nil
		},
	}
}
