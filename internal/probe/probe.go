// Package probe samples a dataset file and profiles its columns: inferred
// type, null sentinels, multi-valued cells, and how many rows the matching
// record layout fails to decode.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cine/internal/codec"
	"cine/internal/parser/tsv"
	"cine/internal/records"
)

// DefaultRows is the number of data rows sampled when Options.Rows is 0.
const DefaultRows = 1000

// Options tune a probe.
type Options struct {
	// Rows caps the sampled data rows.
	Rows int
}

// Column is the profile of one source column.
type Column struct {
	Header string
	// Name is Header as a snake_case identifier.
	Name string
	// Field is the layout field at this position; empty when the file has
	// more columns than the layout or the file is not a dataset file.
	Field    string
	Declared records.ColumnType
	Inferred records.ColumnType
	Nulls    int
	Lists    int // cells holding a comma
	MaxLen   int
}

// Profile summarizes a sample.
type Profile struct {
	Path    string
	Entity  records.Entity
	Known   bool // file name matches a dataset file
	Rows    int
	Columns []Column

	// Decode results against the entity layout; zero for unknown files.
	DecodeErrors int
	FirstError   error
}

type layoutInfo struct {
	fields []records.Column
	decode func([]string) error
}

func infoOf[R any](l *records.Layout[R]) layoutInfo {
	li := layoutInfo{decode: func(f []string) error { _, err := l.FromStrings(f); return err }}
	for _, f := range l.Fields {
		li.fields = append(li.fields, records.Column{Name: f.Name, Type: f.Type, Nullable: f.Nullable})
	}
	return li
}

func layoutFor(e records.Entity) layoutInfo {
	switch e {
	case records.EntityName:
		return infoOf(records.Names)
	case records.EntityTitleAlternate:
		return infoOf(records.TitleAlternates)
	case records.EntityTitleCore:
		return infoOf(records.TitleCores)
	case records.EntityTitleCrew:
		return infoOf(records.TitleCrews)
	case records.EntityTitleEpisode:
		return infoOf(records.TitleEpisodes)
	case records.EntityTitlePrincipal:
		return infoOf(records.TitlePrincipals)
	default:
		return infoOf(records.TitleRatings)
	}
}

// File profiles the first rows of the TSV file at path. Files ending in .gz
// are decompressed. The first line is taken as the header.
func File(ctx context.Context, path string, opts Options) (*Profile, error) {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	p := &Profile{Path: path}
	var li layoutInfo
	if e, err := records.ParseEntity(filepath.Base(path)); err == nil {
		p.Entity, p.Known = e, true
		li = layoutFor(e)
	}

	var samples [][]string
	for row, err := range tsv.Rows(ctx, path, tsv.Options{Plain: !strings.HasSuffix(path, ".gz")}) {
		if err != nil {
			return nil, err
		}
		if p.Columns == nil {
			p.Columns = make([]Column, len(row.Fields))
			for i, h := range row.Fields {
				p.Columns[i].Header = h
				p.Columns[i].Name = columnName(h)
				if i < len(li.fields) {
					p.Columns[i].Field = li.fields[i].Name
					p.Columns[i].Declared = li.fields[i].Type
				}
			}
			samples = make([][]string, len(row.Fields))
			continue
		}
		p.Rows++
		for i, v := range row.Fields {
			if i >= len(p.Columns) {
				break
			}
			p.Columns[i].observe(v)
			samples[i] = append(samples[i], v)
		}
		if li.decode != nil {
			if err := li.decode(row.Fields); err != nil {
				p.DecodeErrors++
				if p.FirstError == nil {
					p.FirstError = fmt.Errorf("line %d: %w", row.Line, err)
				}
			}
		}
		if p.Rows >= opts.Rows {
			break
		}
	}
	if p.Columns == nil {
		return nil, errors.New("probe: " + path + ": empty file")
	}
	for i := range p.Columns {
		p.Columns[i].Inferred = inferType(samples[i])
	}
	return p, nil
}

// Renamed reports whether the stored column name differs from the header.
func (c Column) Renamed() bool { return c.Field != "" && c.Field != c.Name }

func (c *Column) observe(v string) {
	if v == codec.NullSentinel {
		c.Nulls++
		return
	}
	if strings.Contains(v, ",") {
		c.Lists++
	}
	c.MaxLen = max(c.MaxLen, len(v))
}

// inferType guesses the narrowest type every non-null value satisfies.
// Columns holding only 0 and 1 are reported as bool.
func inferType(values []string) records.ColumnType {
	var seen []string
	for _, v := range values {
		if v != codec.NullSentinel && v != "" {
			seen = append(seen, v)
		}
	}
	if len(seen) == 0 {
		return records.TypeText
	}
	if allMatch(seen, isBit) {
		return records.TypeBool
	}
	if allMatch(seen, isInt) {
		return records.TypeInt
	}
	if allMatch(seen, isFloat) {
		return records.TypeReal
	}
	return records.TypeText
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// columnName turns a header such as "primaryName" or "Année de sortie" into
// a lowercase ASCII identifier: camel case and separators become single
// underscores, accents are stripped and anything else is dropped.
func columnName(h string) string {
	var split strings.Builder
	prev := rune(0)
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			split.WriteByte('_')
		}
		split.WriteRune(r)
		prev = r
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, _ := transform.String(t, strings.ToLower(split.String()))

	var b strings.Builder
	underscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !underscore {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	if name := strings.Trim(b.String(), "_"); name != "" {
		return name
	}
	return "col"
}

func isBit(s string) bool { return s == "0" || s == "1" }

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// WriteTable renders the profile as an aligned table followed by the decode
// summary.
func (p *Profile) WriteTable(w io.Writer) error {
	name := "unknown file"
	if p.Known {
		name = records.Lookup(p.Entity).Class
	}
	if _, err := fmt.Fprintf(w, "%s (%s), %d rows sampled\n", p.Path, name, p.Rows); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tHEADER\tFIELD\tDECLARED\tINFERRED\tNULLS\tLISTS\tMAXLEN")
	for i, c := range p.Columns {
		declared := string(c.Declared)
		switch {
		case c.Field == "":
			declared = "-"
		case declared == "":
			declared = "list"
		}
		field := dash(c.Field)
		if c.Renamed() {
			field += " (renamed)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			i+1, c.Header, field, declared, c.Inferred, c.Nulls, c.Lists, c.MaxLen)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !p.Known {
		return nil
	}
	if p.DecodeErrors == 0 {
		_, err := fmt.Fprintf(w, "all %d rows decode as %s\n", p.Rows, name)
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d rows fail to decode; first: %v\n", p.DecodeErrors, p.Rows, p.FirstError)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
