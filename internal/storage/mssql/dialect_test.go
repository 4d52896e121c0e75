package mssql

import (
	"testing"

	"cine/internal/storage"
)

func TestRegistered(t *testing.T) {
	d, err := storage.Lookup(Kind)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if d.Driver() != "sqlserver" {
		t.Fatalf("Driver() = %q", d.Driver())
	}
}

func TestDSN(t *testing.T) {
	var d Dialect
	for _, bad := range []string{"", "sqlserver://sa:pw@host:notaport?database=imdb"} {
		if _, err := d.DSN(bad); err == nil {
			t.Errorf("DSN(%q) accepted", bad)
		}
	}
	if _, err := d.DSN("sqlserver://sa:pw@localhost:1433?database=imdb"); err != nil {
		t.Errorf("DSN rejected a valid URL: %v", err)
	}
}

func TestStatements(t *testing.T) {
	var d Dialect
	q, returnsRow := d.InsertID("principals", []string{"tconst", "ordering"})
	want := "INSERT INTO [principals] ([tconst], [ordering]) OUTPUT INSERTED.[id] VALUES (@tconst, @ordering)"
	if q != want || !returnsRow {
		t.Fatalf("InsertID = (%q, %v); want (%q, true)", q, returnsRow, want)
	}
	if got := d.ColumnType("bool"); got != "BIT" {
		t.Fatalf("ColumnType(bool) = %q", got)
	}
}
