// Package sqlite is the SQLite backend of the store, built on the pure-Go
// modernc.org/sqlite driver. An empty DSN opens a private in-memory
// database. Importing the package registers it under "sqlite".
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	gddl "cine/internal/ddl"
	"cine/internal/storage"
	sqliteddl "cine/internal/storage/sqlite/ddl"
)

// Kind is the registered backend name.
const Kind = "sqlite"

// MemoryDSN selects an in-memory database. It lives as long as the store's
// single connection.
const MemoryDSN = ":memory:"

// Pragmas are applied once the handle is open. They trade durability for
// load speed: the import can always be rerun from the source files.
var Pragmas = []string{
	"PRAGMA cache_size = -16384",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = OFF",
	"PRAGMA temp_store = MEMORY",
}

func init() {
	storage.Register(Kind, Dialect{})
}

// Dialect implements storage.Dialect for SQLite.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "sqlite" }

func (Dialect) DSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return MemoryDSN, nil
	}
	return dsn, nil
}

func (Dialect) Tune(ctx context.Context, db *sql.DB) error {
	for _, p := range Pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return nil
}

func (Dialect) ColumnType(kind string) string { return sqliteddl.MapType(kind) }

func (Dialect) IDColumn() gddl.ColumnDef {
	return gddl.ColumnDef{Name: storage.IDColumn, SQLType: "INTEGER", Nullable: true, PrimaryKey: true}
}

func (Dialect) CreateTable(def gddl.TableDef) (string, error) {
	return sqliteddl.BuildCreateTableSQL(def)
}

func (Dialect) Quote(ident string) string { return sqliteddl.QuoteIdent(ident) }

func (Dialect) Placeholder(name string, _ int) string { return ":" + name }

// Arg binds v by name. Booleans are stored as 0/1.
func (Dialect) Arg(name string, v any) any {
	if b, ok := v.(bool); ok {
		if b {
			v = int64(1)
		} else {
			v = int64(0)
		}
	}
	return sql.Named(name, v)
}

func (d Dialect) InsertID(table string, columns []string) (string, bool) {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		marks[i] = d.Placeholder(c, i)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table), strings.Join(quoted, ", "), strings.Join(marks, ", ")), false
}

func (Dialect) TableNamesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

// Backup writes a compacted copy of the database to dest with VACUUM INTO.
// dest must not exist yet.
func (Dialect) Backup(ctx context.Context, db *sql.DB, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("sqlite: backup %s: %w", dest, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sqlite: backup %s: %w", dest, err)
	}
	q := "VACUUM INTO '" + strings.ReplaceAll(dest, "'", "''") + "'"
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("sqlite: backup %s: %w", dest, err)
	}
	return nil
}
