// Package mssql is the SQL Server backend of the store. Chunks are loaded
// with the TDS bulk-copy API of go-mssqldb. Importing the package registers
// it under "mssql".
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	gddl "cine/internal/ddl"
	"cine/internal/storage"
	msddl "cine/internal/storage/mssql/ddl"
)

// Kind is the registered backend name.
const Kind = "mssql"

func init() {
	storage.Register(Kind, Dialect{})
}

// Dialect implements storage.Dialect and storage.BulkCopier for SQL Server.
type Dialect struct{}

var (
	_ storage.Dialect    = Dialect{}
	_ storage.BulkCopier = Dialect{}
)

func (Dialect) Driver() string { return "sqlserver" }

// DSN validates the connection string early to fail fast on obvious
// mistakes.
func (Dialect) DSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", fmt.Errorf("mssql: DSN must not be empty")
	}
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", fmt.Errorf("mssql dsn: %w", err)
	}
	return dsn, nil
}

// Tune is a no-op; SQL Server durability is a database-level setting.
func (Dialect) Tune(context.Context, *sql.DB) error { return nil }

func (Dialect) ColumnType(kind string) string { return msddl.MapType(kind) }

func (Dialect) IDColumn() gddl.ColumnDef {
	return gddl.ColumnDef{Name: storage.IDColumn, SQLType: "BIGINT IDENTITY(1,1)", PrimaryKey: true}
}

func (Dialect) CreateTable(def gddl.TableDef) (string, error) {
	return msddl.BuildCreateTableSQL(def)
}

func (Dialect) Quote(ident string) string { return msddl.QuoteIdent(ident) }

func (Dialect) Placeholder(name string, _ int) string { return "@" + name }

func (Dialect) Arg(name string, v any) any { return sql.Named(name, v) }

func (d Dialect) InsertID(table string, columns []string) (string, bool) {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		marks[i] = d.Placeholder(c, i)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) OUTPUT INSERTED.%s VALUES (%s)",
		msddl.QuoteFQN(table), strings.Join(quoted, ", "), d.Quote(storage.IDColumn), strings.Join(marks, ", ")), true
}

func (Dialect) TableNamesQuery() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES " +
		"WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = SCHEMA_NAME() ORDER BY TABLE_NAME"
}

// backupSQL backs up the current database to a file on the server host.
const backupSQL = `DECLARE @stmt NVARCHAR(MAX) = N'BACKUP DATABASE ' + QUOTENAME(DB_NAME()) + N' TO DISK = @dest WITH COPY_ONLY, INIT';
EXEC sp_executesql @stmt, N'@dest NVARCHAR(4000)', @dest = @p1;`

// Backup runs a copy-only full backup. dest is a path on the database
// server, not on the client.
func (Dialect) Backup(ctx context.Context, db *sql.DB, dest string) error {
	if _, err := db.ExecContext(ctx, backupSQL, sql.Named("p1", dest)); err != nil {
		return fmt.Errorf("mssql: backup to %s: %w", dest, err)
	}
	return nil
}

// CopyChunk bulk-inserts rows in a transaction of its own.
func (Dialect) CopyChunk(ctx context.Context, db *sql.DB, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(msddl.QuoteFQN(table), mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	// An Exec without arguments flushes the buffered rows.
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
