package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN",
			def:         TableDef{Columns: []ColumnDef{{Name: "tconst", SQLType: "TEXT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns",
			def:         TableDef{FQN: "titles"},
			errContains: "at least one column is required",
		},
		{
			name:        "column without name",
			def:         TableDef{FQN: "titles", Columns: []ColumnDef{{SQLType: "TEXT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column without type",
			def:         TableDef{FQN: "titles", Columns: []ColumnDef{{Name: "tconst"}}},
			errContains: "missing SQLType",
		},
		{
			name: "nullable and required columns",
			def: TableDef{FQN: "ratings", Columns: []ColumnDef{
				{Name: "tconst", SQLType: "TEXT"},
				{Name: "num_votes", SQLType: "INTEGER", Nullable: true},
			}},
			wantSQL: "CREATE TABLE ratings (\n  tconst TEXT NOT NULL,\n  num_votes INTEGER\n);",
		},
		{
			name: "default and primary key",
			def: TableDef{FQN: "  main.titles ", Columns: []ColumnDef{
				{Name: " id ", SQLType: " INTEGER ", PrimaryKey: true},
				{Name: "is_adult", SQLType: "INTEGER", Default: " 0 "},
			}},
			wantSQL: "CREATE TABLE main.titles (\n  id INTEGER NOT NULL,\n  is_adult INTEGER NOT NULL DEFAULT 0,\n  PRIMARY KEY (id)\n);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(tt.def)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("BuildCreateTableSQL() error = %v, want substring %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCreateTableSQL() error = %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("BuildCreateTableSQL() =\n%s\nwant:\n%s", got, tt.wantSQL)
			}
		})
	}
}

func TestRenderWithStyle(t *testing.T) {
	t.Parallel()

	bracket := func(s string) string { return "[" + strings.ReplaceAll(s, "]", "]]") + "]" }
	def := TableDef{FQN: "dbo.akas", Columns: []ColumnDef{
		{Name: "id", SQLType: "BIGINT IDENTITY(1,1)", PrimaryKey: true},
		{Name: "title", SQLType: "NVARCHAR(MAX)"},
	}}

	got, err := Render(def, Style{Quote: bracket, IfNotExists: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS [dbo].[akas] (\n  [id] BIGINT IDENTITY(1,1) NOT NULL,\n  [title] NVARCHAR(MAX) NOT NULL,\n  PRIMARY KEY ([id])\n);"
	if got != want {
		t.Fatalf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	dq := func(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }
	for in, want := range map[string]string{
		"titles":        `"titles"`,
		"main.titles":   `"main"."titles"`,
		" a . b ":       `"a"."b"`,
		`odd"name`:      `"odd""name"`,
		"trailing.dot.": `"trailing"."dot"`,
	} {
		if got := QuoteFQN(in, dq); got != want {
			t.Fatalf("QuoteFQN(%q) = %s, want %s", in, got, want)
		}
	}
}

var benchmarkSink string

func BenchmarkRender(b *testing.B) {
	def := TableDef{FQN: "titles", Columns: []ColumnDef{
		{Name: "id", SQLType: "INTEGER", Nullable: true, PrimaryKey: true},
		{Name: "tconst", SQLType: "TEXT"},
		{Name: "primary_title", SQLType: "TEXT"},
		{Name: "start_year", SQLType: "INTEGER", Nullable: true},
	}}
	style := Style{Quote: func(s string) string { return `"` + s + `"` }, IfNotExists: true}
	for i := 0; i < b.N; i++ {
		sql, err := Render(def, style)
		if err != nil {
			b.Fatal(err)
		}
		benchmarkSink = sql
	}
}
