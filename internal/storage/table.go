package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"cine/internal/ddl"
	"cine/internal/metrics"
	"cine/internal/records"
)

// IDColumn is the name of the surrogate key every table carries.
const IDColumn = "id"

// ChunkStats describes one committed chunk.
type ChunkStats struct {
	Table   string
	Index   int // 1-based
	Records int
	Elapsed time.Duration
	Total   int64 // records committed so far, this chunk included
}

// InsertStats summarizes an InsertMany call. On error it reflects the
// chunks committed before the failure.
type InsertStats struct {
	Records int64
	Chunks  int
	Elapsed time.Duration
}

// TableOptions tune a Table.
type TableOptions struct {
	// ChunkSize is the number of records per transaction; 0 means
	// DefaultChunkSize.
	ChunkSize int
	Logger    *zap.Logger
	// OnChunk, when set, is called after every commit.
	OnChunk func(ChunkStats)
}

// Table persists one entity type. All statements are derived from the
// entity's layout, so every entity shares the same code path.
type Table[R any] struct {
	db      *sql.DB
	dialect Dialect
	layout  *records.Layout[R]
	name    string
	columns []string
	opts    TableOptions
	log     *zap.Logger

	insertSQL   string
	insertIDSQL string
	returnsRow  bool
	selectSQL   string
	countSQL    string

	rows [][]any // reusable bulk-copy buffer
}

// NewTable validates the layout and creates the table if it does not exist.
// Creating an existing table is a no-op.
func NewTable[R any](ctx context.Context, db *sql.DB, d Dialect, layout *records.Layout[R], opts TableOptions) (*Table[R], error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	t := &Table[R]{
		db:      db,
		dialect: d,
		layout:  layout,
		name:    layout.Meta().Table,
		opts:    opts,
		log:     log.With(zap.String("table", layout.Meta().Table)),
	}
	for _, c := range layout.Columns() {
		t.columns = append(t.columns, c.Name)
	}
	t.buildStatements()

	if err := t.create(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table[R]) buildStatements() {
	d := t.dialect
	quoted := make([]string, len(t.columns))
	marks := make([]string, len(t.columns))
	for i, c := range t.columns {
		quoted[i] = d.Quote(c)
		marks[i] = d.Placeholder(c, i)
	}
	tbl := d.Quote(t.name)

	t.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tbl, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	t.insertIDSQL, t.returnsRow = d.InsertID(t.name, t.columns)
	t.selectSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", strings.Join(quoted, ", "), tbl, d.Quote(IDColumn), d.Placeholder(IDColumn, 0))
	t.countSQL = "SELECT COUNT(*) FROM " + tbl
}

// Definition returns the table definition, surrogate key first.
func (t *Table[R]) Definition() ddl.TableDef {
	def := ddl.TableDef{FQN: t.name}
	def.Columns = append(def.Columns, t.dialect.IDColumn())
	for _, c := range t.layout.Columns() {
		def.Columns = append(def.Columns, ddl.ColumnDef{
			Name:     c.Name,
			SQLType:  t.dialect.ColumnType(string(c.Type)),
			Nullable: c.Nullable,
		})
	}
	return def
}

func (t *Table[R]) create(ctx context.Context) error {
	stmt, err := t.dialect.CreateTable(t.Definition())
	if err != nil {
		return storeErr("create", t.name, err)
	}
	if _, err := t.db.ExecContext(ctx, stmt); err != nil {
		return storeErr("create", t.name, err)
	}
	return nil
}

// Name returns the table name.
func (t *Table[R]) Name() string { return t.name }

// Entity returns the entity stored in the table.
func (t *Table[R]) Entity() records.Entity { return t.layout.Entity }

// Columns returns the persisted column names, without the surrogate key.
func (t *Table[R]) Columns() []string { return append([]string(nil), t.columns...) }

func (t *Table[R]) args(r *R, dst []any) []any {
	start := len(dst)
	dst = t.layout.Values(r, dst)
	for i := start; i < len(dst); i++ {
		dst[i] = t.dialect.Arg(t.columns[i-start], dst[i])
	}
	return dst
}

// Insert stores one record and returns its assigned id.
func (t *Table[R]) Insert(ctx context.Context, r R) (int64, error) {
	args := t.args(&r, make([]any, 0, len(t.columns)))
	if t.returnsRow {
		var id int64
		if err := t.db.QueryRowContext(ctx, t.insertIDSQL, args...).Scan(&id); err != nil {
			return 0, storeErr("insert", t.name, err)
		}
		return id, nil
	}
	res, err := t.db.ExecContext(ctx, t.insertIDSQL, args...)
	if err != nil {
		return 0, storeErr("insert", t.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr("insert", t.name, err)
	}
	return id, nil
}

// InsertMany drains seq into the table, one transaction per chunk of
// TableOptions.ChunkSize records.
//
// A chunk is either committed whole or not at all:
//   - an error yielded by seq discards the chunk being filled and is
//     returned as is;
//   - a database error rolls the current chunk back and is returned as a
//     *StoreError.
//
// Chunks committed before a failure stay committed. Progress is logged per
// chunk and once at the end.
func (t *Table[R]) InsertMany(ctx context.Context, seq iter.Seq2[R, error]) (InsertStats, error) {
	var (
		stats  InsertStats
		srcErr error
		start  = time.Now()
	)
	recs := func(yield func(R) bool) {
		for r, err := range seq {
			if err != nil {
				srcErr = err
				return
			}
			if !yield(r) {
				return
			}
		}
	}

	for chunk := range Chunkify(recs, t.opts.ChunkSize) {
		if srcErr != nil {
			break
		}
		chunkStart := time.Now()
		n, err := t.flush(ctx, chunk)
		if err != nil {
			stats.Elapsed = time.Since(start)
			t.log.Error("chunk failed",
				zap.Int("chunk", stats.Chunks+1),
				zap.Int("records", len(chunk)),
				zap.Int64("total", stats.Records),
				zap.Error(err),
			)
			return stats, err
		}
		elapsed := time.Since(chunkStart)
		stats.Records += n
		stats.Chunks++

		cs := ChunkStats{Table: t.name, Index: stats.Chunks, Records: int(n), Elapsed: elapsed, Total: stats.Records}
		t.log.Info("chunk inserted",
			zap.Int("chunk", cs.Index),
			zap.Int("records", cs.Records),
			zap.Float64("elapsed_seconds", elapsed.Seconds()),
			zap.Int64("total", cs.Total),
		)
		metrics.RecordChunk(t.name, cs.Records, elapsed)
		if t.opts.OnChunk != nil {
			t.opts.OnChunk(cs)
		}
	}

	stats.Elapsed = time.Since(start)
	if srcErr != nil {
		return stats, srcErr
	}
	t.log.Info("table loaded",
		zap.Int64("records", stats.Records),
		zap.Int("chunks", stats.Chunks),
		zap.Float64("elapsed_seconds", stats.Elapsed.Seconds()),
	)
	return stats, nil
}

// flush writes one chunk in a single transaction.
func (t *Table[R]) flush(ctx context.Context, chunk []R) (int64, error) {
	if bc, ok := t.dialect.(BulkCopier); ok {
		return t.copyChunk(ctx, bc, chunk)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("begin", t.name, err)
	}
	stmt, err := tx.PrepareContext(ctx, t.insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, storeErr("prepare", t.name, err)
	}
	defer stmt.Close()

	args := make([]any, 0, len(t.columns))
	for i := range chunk {
		args = t.args(&chunk[i], args[:0])
		if len(args) != len(t.columns) {
			_ = tx.Rollback()
			return 0, storeErr("insert", t.name, fmt.Errorf("record has %d values for %d columns", len(args), len(t.columns)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, storeErr("insert", t.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, storeErr("commit", t.name, err)
	}
	return int64(len(chunk)), nil
}

func (t *Table[R]) copyChunk(ctx context.Context, bc BulkCopier, chunk []R) (int64, error) {
	if cap(t.rows) < len(chunk) {
		t.rows = make([][]any, len(chunk))
	}
	rows := t.rows[:len(chunk)]
	for i := range chunk {
		rows[i] = t.layout.Values(&chunk[i], rows[i][:0])
	}
	n, err := bc.CopyChunk(ctx, t.db, t.name, t.columns, rows)
	if err != nil {
		return 0, storeErr("copy", t.name, err)
	}
	return n, nil
}

// Count returns the number of rows in the table.
func (t *Table[R]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.QueryRowContext(ctx, t.countSQL).Scan(&n); err != nil {
		return 0, storeErr("count", t.name, err)
	}
	return n, nil
}

// Select returns the persisted columns of the row with the given id, keyed
// by column name. The surrogate key itself is not included. Absent values
// map to nil.
func (t *Table[R]) Select(ctx context.Context, id int64) (map[string]any, error) {
	vals := make([]any, len(t.columns))
	ptrs := make([]any, len(t.columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	err := t.db.QueryRowContext(ctx, t.selectSQL, t.dialect.Arg(IDColumn, id)).Scan(ptrs...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s id %d: %w", t.name, id, ErrNoRow)
	}
	if err != nil {
		return nil, storeErr("select", t.name, err)
	}
	out := make(map[string]any, len(t.columns))
	for i, c := range t.columns {
		out[c] = normalize(vals[i])
	}
	return out, nil
}

// Keys streams every value of column to fn, stopping at the first error fn
// returns. NULLs are skipped.
func (t *Table[R]) Keys(ctx context.Context, column string, fn func(string) error) error {
	known := false
	for _, c := range t.columns {
		known = known || c == column
	}
	if !known {
		return fmt.Errorf("storage: %s has no column %q", t.name, column)
	}

	q := fmt.Sprintf("SELECT %s FROM %s", t.dialect.Quote(column), t.dialect.Quote(t.name))
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return storeErr("scan", t.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return storeErr("scan", t.name, err)
		}
		if !v.Valid {
			continue
		}
		if err := fn(v.String); err != nil {
			return err
		}
	}
	return storeErr("scan", t.name, rows.Err())
}

// normalize turns driver text returned as bytes into strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
