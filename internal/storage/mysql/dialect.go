// Package mysql is the MySQL backend of the store, built on
// go-sql-driver/mysql. Importing the package registers it under "mysql".
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	gddl "cine/internal/ddl"
	"cine/internal/storage"
	myddl "cine/internal/storage/mysql/ddl"
)

// Kind is the registered backend name.
const Kind = "mysql"

func init() {
	storage.Register(Kind, Dialect{})
}

// Dialect implements storage.Dialect for MySQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "mysql" }

// DSN parses a go-sql-driver DSN (user:pw@tcp(host:3306)/imdb) and
// normalizes it.
func (Dialect) DSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", fmt.Errorf("mysql: DSN must not be empty")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("mysql dsn: database name is required")
	}
	return cfg.FormatDSN(), nil
}

// Tune disables per-row uniqueness checks for the session.
func (Dialect) Tune(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "SET SESSION unique_checks = 0"); err != nil {
		return fmt.Errorf("mysql: tune: %w", err)
	}
	return nil
}

func (Dialect) ColumnType(kind string) string { return myddl.MapType(kind) }

func (Dialect) IDColumn() gddl.ColumnDef {
	return gddl.ColumnDef{Name: storage.IDColumn, SQLType: "BIGINT AUTO_INCREMENT", PrimaryKey: true}
}

func (Dialect) CreateTable(def gddl.TableDef) (string, error) {
	return myddl.BuildCreateTableSQL(def)
}

func (Dialect) Quote(ident string) string { return myddl.QuoteIdent(ident) }

func (Dialect) Placeholder(string, int) string { return "?" }

func (Dialect) Arg(_ string, v any) any { return v }

func (d Dialect) InsertID(table string, columns []string) (string, bool) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.Quote(table), strings.Join(quoted, ", "), marks), false
}

func (Dialect) TableNamesQuery() string {
	return "SELECT table_name FROM information_schema.tables " +
		"WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

// Backup is left to mysqldump.
func (Dialect) Backup(context.Context, *sql.DB, string) error {
	return fmt.Errorf("mysql: backup: use mysqldump: %w", storage.ErrUnsupported)
}
