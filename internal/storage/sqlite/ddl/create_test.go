package ddl

import (
	"strings"
	"testing"

	gddl "cine/internal/ddl"
)

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"name":      `"name"`,
		"":          `""`,
		"user name": `"user name"`,
		`weird"id`:  `"weird""id"`,
	}
	for in, want := range tests {
		if got := QuoteIdent(in); got != want {
			t.Errorf("QuoteIdent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	def := gddl.TableDef{
		FQN: "ratings",
		Columns: []gddl.ColumnDef{
			{Name: "id", SQLType: "INTEGER", Nullable: true, PrimaryKey: true},
			{Name: "tconst", SQLType: "TEXT"},
			{Name: "average_rating", SQLType: "REAL"},
		},
	}
	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL() error = %v", err)
	}
	want := "" +
		`CREATE TABLE IF NOT EXISTS "ratings" (` + "\n" +
		`  "id" INTEGER,` + "\n" +
		`  "tconst" TEXT NOT NULL,` + "\n" +
		`  "average_rating" REAL NOT NULL,` + "\n" +
		`  PRIMARY KEY ("id")` + "\n" +
		`);`
	if got != want {
		t.Fatalf("BuildCreateTableSQL() =\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	t.Parallel()

	for name, def := range map[string]gddl.TableDef{
		"empty name": {FQN: " ", Columns: []gddl.ColumnDef{{Name: "id", SQLType: "INTEGER"}}},
		"no columns": {FQN: "titles"},
		"no type":    {FQN: "titles", Columns: []gddl.ColumnDef{{Name: "id"}}},
	} {
		sql, err := BuildCreateTableSQL(def)
		if err == nil || sql != "" {
			t.Errorf("%s: got (%q, %v), want error", name, sql, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), "sqlite ddl:") {
			t.Errorf("%s: error %q lacks backend prefix", name, err)
		}
	}
}
