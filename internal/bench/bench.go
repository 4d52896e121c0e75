// Package bench measures raw decode throughput: each entity file is
// streamed through its record decoder and discarded, with no store
// involved.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cine/internal/metrics"
	"cine/internal/records"
)

// Options select what to measure.
type Options struct {
	// Entities restricts the run; empty measures all, in catalog order.
	Entities []records.Entity
	// Parallel decodes all entities concurrently instead of one by one.
	Parallel     bool
	IncludeAdult bool
	Logger       *zap.Logger
}

// Result is one entity's measurement.
type Result struct {
	Entity  records.Entity
	Name    string // record class name
	Records int64
	Elapsed time.Duration
	Err     error
}

// PerSecond is the decode throughput.
func (r Result) PerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Records) / r.Elapsed.Seconds()
}

// Run decodes the selected entity files in dir. Every entity is attempted;
// the returned error joins the per-entity failures.
func Run(ctx context.Context, dir string, opts Options) ([]Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	entities := opts.Entities
	if len(entities) == 0 {
		for _, m := range records.Catalog() {
			entities = append(entities, m.Entity)
		}
	}
	recOpts := []records.Option{records.WithIncludeAdult(opts.IncludeAdult)}

	results := make([]Result, len(entities))
	measure := func(i int) {
		res := drain(ctx, entities[i], dir, recOpts)
		results[i] = res
		meta := records.Lookup(res.Entity)
		metrics.RecordStep("decode", meta.Table, res.Err, res.Elapsed)
		metrics.RecordRows(meta.Table, "decoded", res.Records)
		log.Info("decode benchmark",
			zap.String("class", res.Name),
			zap.Int64("records", res.Records),
			zap.Float64("elapsed_seconds", res.Elapsed.Seconds()),
			zap.Float64("records_per_second", res.PerSecond()),
			zap.Error(res.Err),
		)
	}

	if opts.Parallel {
		var g errgroup.Group
		for i := range entities {
			g.Go(func() error {
				measure(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range entities {
			if ctx.Err() != nil {
				results = results[:i]
				return results, ctx.Err()
			}
			measure(i)
		}
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func drain(ctx context.Context, e records.Entity, dir string, opts []records.Option) Result {
	switch e {
	case records.EntityTitleCore:
		return count(ctx, records.TitleCores, dir, opts)
	case records.EntityName:
		return count(ctx, records.Names, dir, opts)
	case records.EntityTitleAlternate:
		return count(ctx, records.TitleAlternates, dir, opts)
	case records.EntityTitleCrew:
		return count(ctx, records.TitleCrews, dir, opts)
	case records.EntityTitleEpisode:
		return count(ctx, records.TitleEpisodes, dir, opts)
	case records.EntityTitleRating:
		return count(ctx, records.TitleRatings, dir, opts)
	case records.EntityTitlePrincipal:
		return count(ctx, records.TitlePrincipals, dir, opts)
	}
	return Result{Entity: e, Name: e.String(), Err: fmt.Errorf("bench: unknown entity %v", e)}
}

func count[R any](ctx context.Context, l *records.Layout[R], dir string, opts []records.Option) Result {
	res := Result{Entity: l.Entity, Name: l.Meta().Class}
	start := time.Now()
	for _, err := range l.FromSource(ctx, dir, opts...) {
		if err != nil {
			res.Err = err
			break
		}
		res.Records++
	}
	res.Elapsed = time.Since(start)
	return res
}

// WriteTable prints results as a fixed-width table with grouped digits.
func WriteTable(w io.Writer, results []Result) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "%-16s %14s %10s %14s\n", "CLASS", "RECORDS", "SECONDS", "RECORDS/SEC"); err != nil {
		return err
	}
	var total Result
	for _, r := range results {
		if _, err := p.Fprintf(w, "%-16s %14d %10.3f %14.0f", r.Name, r.Records, r.Elapsed.Seconds(), r.PerSecond()); err != nil {
			return err
		}
		if r.Err != nil {
			p.Fprintf(w, "  error: %v", r.Err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		total.Records += r.Records
		total.Elapsed += r.Elapsed
	}
	_, err := p.Fprintf(w, "%-16s %14d %10.3f %14.0f\n", "total", total.Records, total.Elapsed.Seconds(), total.PerSecond())
	return err
}
