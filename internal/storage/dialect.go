package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"cine/internal/ddl"
)

// Dialect adapts the store to one database engine. Backends implement it and
// register themselves from an init function; import
// cine/internal/storage/all to make every built-in backend available.
type Dialect interface {
	// Driver is the database/sql driver name.
	Driver() string
	// DSN validates and normalizes a user-supplied connection string.
	DSN(dsn string) (string, error)
	// Tune applies engine-level settings after the handle is opened.
	Tune(ctx context.Context, db *sql.DB) error

	// ColumnType maps a logical column type ("text", "integer", "real",
	// "bool") onto a SQL type.
	ColumnType(kind string) string
	// IDColumn is the surrogate auto-increment key prepended to every table.
	IDColumn() ddl.ColumnDef
	// CreateTable renders an idempotent CREATE TABLE statement.
	CreateTable(def ddl.TableDef) (string, error)

	// Quote quotes one identifier.
	Quote(ident string) string
	// Placeholder renders the parameter marker for the i-th (0-based)
	// parameter, bound to column name.
	Placeholder(name string, i int) string
	// Arg wraps value v as the argument for column name.
	Arg(name string, v any) any
	// InsertID renders a single-row INSERT that surfaces the new id. When
	// returnsRow is true the statement yields a one-column result row;
	// otherwise the id is read from sql.Result.LastInsertId.
	InsertID(table string, columns []string) (query string, returnsRow bool)

	// TableNamesQuery lists user tables, one name per row.
	TableNamesQuery() string
	// Backup writes a consistent copy of the database to dest.
	Backup(ctx context.Context, db *sql.DB, dest string) error
}

// BulkCopier is implemented by dialects with a native bulk-load path. The
// call must insert all rows in one transaction of its own.
type BulkCopier interface {
	CopyChunk(ctx context.Context, db *sql.DB, table string, columns []string, rows [][]any) (int64, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// Register makes a dialect available under kind, replacing any previous one.
func Register(kind string, d Dialect) {
	if d == nil {
		panic("storage: Register dialect is nil")
	}
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[kind] = d
}

// Lookup returns the dialect registered under kind.
func Lookup(kind string) (Dialect, error) {
	dialectsMu.RLock()
	d, ok := dialects[kind]
	dialectsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q (registered: %v)", kind, Kinds())
	}
	return d, nil
}

// Kinds lists registered backend kinds, sorted.
func Kinds() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	out := make([]string, 0, len(dialects))
	for k := range dialects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
