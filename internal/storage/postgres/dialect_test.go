package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	gddl "cine/internal/ddl"
	"cine/internal/storage"
)

func TestRegistered(t *testing.T) {
	d, err := storage.Lookup(Kind)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", Kind, err)
	}
	if _, ok := d.(storage.BulkCopier); !ok {
		t.Fatal("postgres dialect does not implement BulkCopier")
	}
}

func TestDSN(t *testing.T) {
	var d Dialect
	if _, err := d.DSN("  "); err == nil {
		t.Error("empty DSN accepted")
	}
	if _, err := d.DSN("postgres://user:pw@localhost:bad/imdb"); err == nil {
		t.Error("malformed DSN accepted")
	}
	got, err := d.DSN(" postgres://user:pw@localhost:5432/imdb?sslmode=disable ")
	if err != nil {
		t.Fatalf("DSN: %v", err)
	}
	if got != "postgres://user:pw@localhost:5432/imdb?sslmode=disable" {
		t.Errorf("DSN = %q", got)
	}
}

func TestInsertID(t *testing.T) {
	var d Dialect
	q, returnsRow := d.InsertID("ratings", []string{"tconst", "average_rating", "num_votes"})
	want := `INSERT INTO "ratings" ("tconst", "average_rating", "num_votes") VALUES ($1, $2, $3) RETURNING "id"`
	if q != want || !returnsRow {
		t.Errorf("InsertID = (%q, %v), want (%q, true)", q, returnsRow, want)
	}
}

func TestIDColumnRendersIdentity(t *testing.T) {
	var d Dialect
	stmt, err := d.CreateTable(ddlDef(d))
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if !strings.Contains(stmt, `"id" BIGINT GENERATED BY DEFAULT AS IDENTITY NOT NULL`) {
		t.Errorf("identity column missing:\n%s", stmt)
	}
}

func TestSplitFQN(t *testing.T) {
	tests := map[string]pgx.Identifier{
		"titles":        {"titles"},
		"imdb.titles":   {"imdb", "titles"},
		".imdb..titles": {"imdb", "titles"},
	}
	for in, want := range tests {
		if diff := cmp.Diff(want, splitFQN(in)); diff != "" {
			t.Errorf("splitFQN(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestCopyErr(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax", Detail: "COPY ratings, line 3"}
	err := copyErr(pgErr)
	if !errors.Is(err, pgErr) {
		t.Fatal("copyErr lost the driver error")
	}
	if !strings.Contains(err.Error(), "COPY ratings, line 3 (22P02)") {
		t.Errorf("copyErr = %q", err)
	}
}

func TestBackupUnsupported(t *testing.T) {
	var d Dialect
	if err := d.Backup(t.Context(), nil, "out.db"); !errors.Is(err, storage.ErrUnsupported) {
		t.Fatalf("Backup err = %v, want ErrUnsupported", err)
	}
}

func ddlDef(d Dialect) gddl.TableDef {
	return gddl.TableDef{
		FQN: "titles",
		Columns: []gddl.ColumnDef{
			d.IDColumn(),
			{Name: "tconst", SQLType: d.ColumnType("text")},
		},
	}
}
