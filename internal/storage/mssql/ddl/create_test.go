package ddl

import (
	"strings"
	"testing"

	gddl "cine/internal/ddl"
)

// TestQuoteIdent verifies bracket quoting and escaping of closing brackets.
func TestQuoteIdent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"simple", "[simple]"},
		{"brack]et", "[brack]]et]"},
		{`weird]]name`, `[weird]]]]name]`},
	}
	for _, tc := range cases {
		if got := QuoteIdent(tc.in); got != tc.want {
			t.Fatalf("QuoteIdent(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestQuoteFQN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"titles", "[titles]"},
		{"dbo.titles", "[dbo].[titles]"},
		{" dbo . titles ", "[dbo].[titles]"},
	}
	for _, tc := range cases {
		if got := QuoteFQN(tc.in); got != tc.want {
			t.Fatalf("QuoteFQN(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

// TestBuildCreateTableSQLGuarded checks the OBJECT_ID guard around the
// CREATE TABLE body.
func TestBuildCreateTableSQLGuarded(t *testing.T) {
	def := gddl.TableDef{
		FQN: "dbo.crew",
		Columns: []gddl.ColumnDef{
			{Name: "id", SQLType: "BIGINT IDENTITY(1,1)", PrimaryKey: true},
			{Name: "tconst", SQLType: "NVARCHAR(MAX)"},
		},
	}
	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "IF OBJECT_ID(N'[dbo].[crew]', N'U') IS NULL\nBEGIN\n" +
		"CREATE TABLE [dbo].[crew] (\n" +
		"  [id] BIGINT IDENTITY(1,1) NOT NULL,\n" +
		"  [tconst] NVARCHAR(MAX) NOT NULL,\n" +
		"  PRIMARY KEY ([id])\n" +
		");\nEND;"
	if got != want {
		t.Fatalf("BuildCreateTableSQL =\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	_, err := BuildCreateTableSQL(gddl.TableDef{FQN: "crew", Columns: []gddl.ColumnDef{{Name: "id"}}})
	if err == nil || !strings.HasPrefix(err.Error(), "mssql ddl:") {
		t.Fatalf("err = %v; want mssql ddl error", err)
	}
}
