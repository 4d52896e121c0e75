// Package storage persists decoded records into a relational database.
//
// A Store owns one exclusive database handle and one Table per entity type.
// Engine differences (driver, placeholder syntax, DDL, bulk paths, backup)
// are isolated behind the Dialect interface; concrete backends register
// themselves from their own packages:
//
//	import _ "cine/internal/storage/all"
//
//	st, err := storage.Open(ctx, storage.Config{Kind: "sqlite", DSN: "imdb.db"})
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"cine/internal/records"
)

// DefaultKind is the backend used when Config.Kind is empty.
const DefaultKind = "sqlite"

// Config selects and tunes a backend.
type Config struct {
	// Kind is a registered backend name: sqlite, postgres, mssql, mysql.
	Kind string
	// DSN is the backend connection string. For sqlite it is a file path,
	// and an empty DSN selects a private in-memory database.
	DSN string
	// ChunkSize is the number of records per insert transaction.
	ChunkSize int
	Logger    *zap.Logger
	// OnChunk is forwarded to every table.
	OnChunk func(ChunkStats)
}

// TableInfo is the entity-agnostic view of a Table.
type TableInfo interface {
	Name() string
	Entity() records.Entity
	Columns() []string
	Count(ctx context.Context) (int64, error)
	Select(ctx context.Context, id int64) (map[string]any, error)
	Keys(ctx context.Context, column string, fn func(string) error) error
}

// Store is an open database with every entity table created.
type Store struct {
	db      *sql.DB
	dialect Dialect
	kind    string
	log     *zap.Logger

	Names      *Table[records.Name]
	Alternates *Table[records.TitleAlternate]
	Titles     *Table[records.TitleCore]
	Crew       *Table[records.TitleCrew]
	Episodes   *Table[records.TitleEpisode]
	Principals *Table[records.TitlePrincipal]
	Ratings    *Table[records.TitleRating]
}

// Open connects to the configured backend, applies its tuning directives
// and creates all entity tables. The handle is limited to one connection:
// the store is the database's only writer.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	kind := strings.TrimSpace(cfg.Kind)
	if kind == "" {
		kind = DefaultKind
	}
	d, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	dsn, err := d.DSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open(d.Driver(), dsn)
	if err != nil {
		return nil, storeErr("open", "", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, storeErr("ping", "", err)
	}
	if err := d.Tune(ctx, db); err != nil {
		_ = db.Close()
		return nil, storeErr("tune", "", err)
	}

	s := &Store{db: db, dialect: d, kind: kind, log: log}
	if err := s.createTables(ctx, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("store opened", zap.String("kind", kind), zap.Bool("in_memory", kind == DefaultKind && cfg.DSN == ""))
	return s, nil
}

func (s *Store) createTables(ctx context.Context, cfg Config) error {
	opts := TableOptions{ChunkSize: cfg.ChunkSize, Logger: s.log, OnChunk: cfg.OnChunk}
	var err error
	if s.Titles, err = NewTable(ctx, s.db, s.dialect, records.TitleCores, opts); err != nil {
		return err
	}
	if s.Names, err = NewTable(ctx, s.db, s.dialect, records.Names, opts); err != nil {
		return err
	}
	if s.Alternates, err = NewTable(ctx, s.db, s.dialect, records.TitleAlternates, opts); err != nil {
		return err
	}
	if s.Crew, err = NewTable(ctx, s.db, s.dialect, records.TitleCrews, opts); err != nil {
		return err
	}
	if s.Episodes, err = NewTable(ctx, s.db, s.dialect, records.TitleEpisodes, opts); err != nil {
		return err
	}
	if s.Ratings, err = NewTable(ctx, s.db, s.dialect, records.TitleRatings, opts); err != nil {
		return err
	}
	if s.Principals, err = NewTable(ctx, s.db, s.dialect, records.TitlePrincipals, opts); err != nil {
		return err
	}
	return nil
}

// Kind returns the backend name.
func (s *Store) Kind() string { return s.kind }

// Tables returns every entity table in dependency order.
func (s *Store) Tables() []TableInfo {
	return []TableInfo{s.Titles, s.Names, s.Alternates, s.Crew, s.Episodes, s.Ratings, s.Principals}
}

// Table returns the table holding entity e.
func (s *Store) Table(e records.Entity) TableInfo {
	for _, t := range s.Tables() {
		if t.Entity() == e {
			return t
		}
	}
	panic(fmt.Sprintf("storage: no table for entity %d", int(e)))
}

// TableNames lists the tables present in the database, sorted by name.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.TableNamesQuery())
	if err != nil {
		return nil, storeErr("list tables", "", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, storeErr("list tables", "", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list tables", "", err)
	}
	slices.Sort(names)
	return names, nil
}

// Result is the materialized outcome of a raw query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Query runs a raw read statement and materializes its rows. It is an
// escape hatch for ad-hoc inspection, not a data path.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query", "", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, storeErr("query", "", err)
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, storeErr("query", "", err)
		}
		for i := range vals {
			vals[i] = normalize(vals[i])
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query", "", err)
	}
	return res, nil
}

// Exec runs a raw statement and returns the number of affected rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeErr("exec", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("exec", "", err)
	}
	return n, nil
}

// Backup writes a consistent snapshot of the database to dest.
func (s *Store) Backup(ctx context.Context, dest string) error {
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("storage: backup destination must not be empty")
	}
	start := time.Now()
	if err := s.dialect.Backup(ctx, s.db, dest); err != nil {
		return storeErr("backup", "", err)
	}
	s.log.Info("backup written", zap.String("dest", dest), zap.Float64("elapsed_seconds", time.Since(start).Seconds()))
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
