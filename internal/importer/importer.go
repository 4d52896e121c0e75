// Package importer loads a dataset directory into a store.
//
// Entity types are imported one after another in dependency order (titles
// and names before the files that reference them). Within an entity a
// decoding goroutine feeds a bounded channel drained by the store's chunked
// writer, so at most one chunk plus the channel buffer is in memory.
//
// Failure policy:
//   - a missing or malformed file fails that entity only and the run moves
//     on;
//   - a store failure or cancellation aborts the whole run;
//   - references to unknown parent ids are counted, never dropped.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cine/internal/metrics"
	"cine/internal/records"
	"cine/internal/storage"
)

// DefaultBuffer is the capacity of the decoder-to-writer channel.
const DefaultBuffer = 4096

// Options configure a run.
type Options struct {
	// Dir holds the seven *.tsv.gz dataset files.
	Dir string
	// Entities restricts the run; empty imports everything.
	Entities []records.Entity
	// IncludeAdult keeps titles flagged as adult.
	IncludeAdult bool
	// CheckOrphans counts rows whose parent id is unknown.
	CheckOrphans bool
	// Lenient skips malformed rows instead of failing the entity.
	Lenient bool
	// Buffer is the channel capacity between decoder and writer.
	Buffer int
	Logger *zap.Logger
}

// Importer runs imports into one store.
type Importer struct {
	store *storage.Store
	opts  Options
	log   *zap.Logger

	// keys holds the ids of parents fully loaded during this run.
	keys map[records.Entity]*KeySet
}

// New returns an Importer writing into st.
func New(st *storage.Store, opts Options) *Importer {
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: st, opts: opts, log: log}
}

// Run imports the selected entities. The returned error is non-nil only
// when the run was aborted (invalid directory, store failure,
// cancellation); per-entity failures are reported in the Report.
func (im *Importer) Run(ctx context.Context) (*Report, error) {
	fi, err := os.Stat(im.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("dataset dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("dataset dir %s: not a directory", im.opts.Dir)
	}

	im.keys = make(map[records.Entity]*KeySet)
	selected := im.selected()
	rep := &Report{}
	start := time.Now()

	for _, m := range records.Catalog() {
		if !selected[m.Entity] {
			continue
		}
		res := im.importEntity(ctx, m.Entity)
		rep.Results = append(rep.Results, res)
		metrics.RecordStep("load", m.Table, res.Err, res.Elapsed)

		if res.Err == nil {
			continue
		}
		if aborts(ctx, res.Err) {
			rep.Elapsed = time.Since(start)
			im.log.Error("import aborted", zap.String("table", m.Table), zap.Error(res.Err))
			return rep, fmt.Errorf("import %s: %w", m.Table, res.Err)
		}
		im.log.Error("entity failed",
			zap.String("table", m.Table),
			zap.String("file", m.File),
			zap.Int64("committed", res.Inserted),
			zap.Error(res.Err),
		)
	}

	rep.Elapsed = time.Since(start)
	im.log.Info("import finished",
		zap.Int("entities", len(rep.Results)),
		zap.Int("failed", rep.FailedCount()),
		zap.Int64("records", rep.Inserted()),
		zap.Int64("orphans", rep.Orphans()),
		zap.Float64("elapsed_seconds", rep.Elapsed.Seconds()),
	)
	return rep, nil
}

func (im *Importer) selected() map[records.Entity]bool {
	out := make(map[records.Entity]bool)
	for _, e := range im.opts.Entities {
		out[e] = true
	}
	if len(out) == 0 {
		for _, m := range records.Catalog() {
			out[m.Entity] = true
		}
	}
	return out
}

// aborts reports whether err must stop the whole run.
func aborts(ctx context.Context, err error) bool {
	return storage.IsStoreError(err) || ctx.Err() != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ref is a column of R holding the id of a parent entity.
type ref[R any] struct {
	column string
	parent records.Entity
	id     func(*R) string
}

// parentKeyColumn is the id column of each entity other rows point at.
var parentKeyColumn = map[records.Entity]string{
	records.EntityTitleCore: "tconst",
	records.EntityName:      "nconst",
}

func (im *Importer) importEntity(ctx context.Context, e records.Entity) Result {
	st := im.store
	switch e {
	case records.EntityTitleCore:
		return load(ctx, im, records.TitleCores, st.Titles, func(r *records.TitleCore) string { return r.ID }, nil)
	case records.EntityName:
		return load(ctx, im, records.Names, st.Names, func(r *records.Name) string { return r.ID }, nil)
	case records.EntityTitleAlternate:
		return load(ctx, im, records.TitleAlternates, st.Alternates, nil, []ref[records.TitleAlternate]{
			{column: "title_id", parent: records.EntityTitleCore, id: func(r *records.TitleAlternate) string { return r.TitleID }},
		})
	case records.EntityTitleCrew:
		return load(ctx, im, records.TitleCrews, st.Crew, nil, []ref[records.TitleCrew]{
			{column: "tconst", parent: records.EntityTitleCore, id: func(r *records.TitleCrew) string { return r.ID }},
		})
	case records.EntityTitleEpisode:
		return load(ctx, im, records.TitleEpisodes, st.Episodes, nil, []ref[records.TitleEpisode]{
			{column: "tconst", parent: records.EntityTitleCore, id: func(r *records.TitleEpisode) string { return r.ID }},
			{column: "parent", parent: records.EntityTitleCore, id: func(r *records.TitleEpisode) string { return r.ParentID }},
		})
	case records.EntityTitleRating:
		return load(ctx, im, records.TitleRatings, st.Ratings, nil, []ref[records.TitleRating]{
			{column: "tconst", parent: records.EntityTitleCore, id: func(r *records.TitleRating) string { return r.ID }},
		})
	case records.EntityTitlePrincipal:
		return load(ctx, im, records.TitlePrincipals, st.Principals, nil, []ref[records.TitlePrincipal]{
			{column: "tconst", parent: records.EntityTitleCore, id: func(r *records.TitlePrincipal) string { return r.TitleID }},
			{column: "nconst", parent: records.EntityName, id: func(r *records.TitlePrincipal) string { return r.PersonID }},
		})
	}
	panic(fmt.Sprintf("importer: unhandled entity %v", e))
}

// parentKeys returns the id set of parent, scanning its table when the
// parent was not loaded successfully in this run.
func (im *Importer) parentKeys(ctx context.Context, parent records.Entity) (*KeySet, error) {
	if ks, ok := im.keys[parent]; ok {
		return ks, nil
	}
	start := time.Now()
	tbl := im.store.Table(parent)
	ks := &KeySet{}
	err := tbl.Keys(ctx, parentKeyColumn[parent], func(id string) error {
		ks.Add(id)
		return nil
	})
	metrics.RecordStep("orphan scan", tbl.Name(), err, time.Since(start))
	if err != nil {
		return nil, err
	}
	im.log.Debug("parent keys scanned", zap.String("table", tbl.Name()), zap.Int("keys", ks.Len()))
	im.keys[parent] = ks
	return ks, nil
}

// check pairs a reference with the id set of its parent.
type check[R any] struct {
	ref[R]
	keys *KeySet
}

type item[R any] struct {
	rec R
	err error
}

// load streams one entity file into its table. key, when set, collects the
// ids of the entity for later orphan checks; refs are the parent references
// to verify.
func load[R any](ctx context.Context, im *Importer, layout *records.Layout[R], tbl *storage.Table[R], key func(*R) string, refs []ref[R]) Result {
	meta := layout.Meta()
	res := Result{Entity: meta.Entity, Class: meta.Class, Table: meta.Table, File: meta.File}
	start := time.Now()
	log := im.log.With(zap.String("table", meta.Table))

	var checks []check[R]
	if im.opts.CheckOrphans {
		res.Orphans = make(map[string]int64, len(refs))
		for _, r := range refs {
			ks, err := im.parentKeys(ctx, r.parent)
			if err != nil {
				res.Err, res.Elapsed = err, time.Since(start)
				return res
			}
			checks = append(checks, check[R]{ref: r, keys: ks})
			res.Orphans[r.column] = 0
		}
	}
	var collected *KeySet
	if im.opts.CheckOrphans && key != nil {
		collected = &KeySet{}
	}

	streamOpts := []records.Option{
		records.WithIncludeAdult(im.opts.IncludeAdult),
		records.WithLenient(im.opts.Lenient),
	}

	ch := make(chan item[R], im.opts.Buffer)
	g, gctx := errgroup.WithContext(ctx)

	// Decoder. Errors travel in-band so the writer drops its partial chunk.
	g.Go(func() error {
		defer close(ch)
		for rec, err := range layout.FromSource(gctx, im.opts.Dir, streamOpts...) {
			if err != nil {
				var de *records.DecodeError
				if im.opts.Lenient && errors.As(err, &de) {
					res.Skipped++
					log.Warn("row skipped", zap.String("file", de.Path), zap.Int("row", de.Row), zap.Error(err))
					continue
				}
				select {
				case ch <- item[R]{err: err}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if collected != nil {
				collected.Add(key(&rec))
			}
			for _, c := range checks {
				if !c.keys.Has(c.id(&rec)) {
					res.Orphans[c.column]++
				}
			}
			select {
			case ch <- item[R]{rec: rec}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Writer.
	var stats storage.InsertStats
	g.Go(func() error {
		seq := func(yield func(R, error) bool) {
			for it := range ch {
				if !yield(it.rec, it.err) {
					return
				}
			}
		}
		var err error
		stats, err = tbl.InsertMany(gctx, seq)
		return err
	})

	res.Err = g.Wait()
	res.Inserted = stats.Records
	res.Chunks = stats.Chunks
	res.Elapsed = time.Since(start)

	metrics.RecordRows(meta.Table, "skipped", res.Skipped)
	metrics.RecordRows(meta.Table, "orphans", res.OrphanTotal())

	if res.Err != nil {
		return res
	}
	if collected != nil {
		im.keys[meta.Entity] = collected
	}
	fields := []zap.Field{
		zap.String("file", meta.File),
		zap.Int64("records", res.Inserted),
		zap.Float64("elapsed_seconds", res.Elapsed.Seconds()),
	}
	if res.Skipped > 0 {
		fields = append(fields, zap.Int64("skipped", res.Skipped))
	}
	for col, n := range res.Orphans {
		if n > 0 {
			fields = append(fields, zap.Int64("orphans_"+col, n))
		}
	}
	log.Info("entity imported", fields...)
	return res
}
