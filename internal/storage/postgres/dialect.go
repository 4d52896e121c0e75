// Package postgres is the Postgres backend of the store. It goes through
// database/sql via the pgx stdlib driver and bulk-loads chunks with COPY.
// Importing the package registers it under "postgres".
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	gddl "cine/internal/ddl"
	"cine/internal/storage"
	pgddl "cine/internal/storage/postgres/ddl"
)

// Kind is the registered backend name.
const Kind = "postgres"

func init() {
	storage.Register(Kind, Dialect{})
}

// Dialect implements storage.Dialect and storage.BulkCopier for Postgres.
type Dialect struct{}

var (
	_ storage.Dialect    = Dialect{}
	_ storage.BulkCopier = Dialect{}
)

func (Dialect) Driver() string { return "pgx" }

// DSN accepts a URL or keyword/value connection string.
func (Dialect) DSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", fmt.Errorf("postgres: DSN must not be empty")
	}
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	return dsn, nil
}

// Tune relaxes commit durability for the session; a failed load is rerun
// from the source files.
func (Dialect) Tune(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "SET synchronous_commit = off"); err != nil {
		return fmt.Errorf("postgres: tune: %w", err)
	}
	return nil
}

func (Dialect) ColumnType(kind string) string { return pgddl.MapType(kind) }

func (Dialect) IDColumn() gddl.ColumnDef {
	return gddl.ColumnDef{Name: storage.IDColumn, SQLType: "BIGINT GENERATED BY DEFAULT AS IDENTITY", PrimaryKey: true}
}

func (Dialect) CreateTable(def gddl.TableDef) (string, error) {
	return pgddl.BuildCreateTableSQL(def)
}

func (Dialect) Quote(ident string) string { return pgddl.QuoteIdent(ident) }

func (Dialect) Placeholder(_ string, i int) string { return fmt.Sprintf("$%d", i+1) }

func (Dialect) Arg(_ string, v any) any { return v }

func (d Dialect) InsertID(table string, columns []string) (string, bool) {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		marks[i] = d.Placeholder(c, i)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		d.Quote(table), strings.Join(quoted, ", "), strings.Join(marks, ", "), d.Quote(storage.IDColumn)), true
}

func (Dialect) TableNamesQuery() string {
	return "SELECT table_name FROM information_schema.tables " +
		"WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

// Backup is left to pg_dump.
func (Dialect) Backup(context.Context, *sql.DB, string) error {
	return fmt.Errorf("postgres: backup: use pg_dump: %w", storage.ErrUnsupported)
}
