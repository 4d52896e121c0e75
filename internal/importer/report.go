package importer

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cine/internal/records"
)

// Result is the outcome of importing one entity type.
type Result struct {
	Entity records.Entity
	Class  string
	Table  string
	File   string

	// Inserted counts committed records; on failure it is the approximate
	// position the load reached.
	Inserted int64
	Chunks   int
	// Skipped counts malformed rows dropped in lenient mode.
	Skipped int64
	// Orphans counts rows per reference column whose parent id is unknown.
	// Nil when orphan checks are off.
	Orphans map[string]int64
	Elapsed time.Duration
	Err     error
}

// Failed reports whether the entity did not load completely.
func (r Result) Failed() bool { return r.Err != nil }

// OrphanTotal sums orphans over all reference columns.
func (r Result) OrphanTotal() int64 {
	var n int64
	for _, v := range r.Orphans {
		n += v
	}
	return n
}

// PerSecond is the insert throughput.
func (r Result) PerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Inserted) / r.Elapsed.Seconds()
}

// Report summarizes a run, one Result per entity attempted.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// Failed reports whether any entity failed. It drives the exit status.
func (r *Report) Failed() bool { return r.FailedCount() > 0 }

// FailedCount returns the number of failed entities.
func (r *Report) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Inserted sums committed records.
func (r *Report) Inserted() int64 {
	var n int64
	for _, res := range r.Results {
		n += res.Inserted
	}
	return n
}

// Orphans sums orphan references.
func (r *Report) Orphans() int64 {
	var n int64
	for _, res := range r.Results {
		n += res.OrphanTotal()
	}
	return n
}

// Result returns the result for e, if it was attempted.
func (r *Report) Result(e records.Entity) (Result, bool) {
	i := slices.IndexFunc(r.Results, func(res Result) bool { return res.Entity == e })
	if i < 0 {
		return Result{}, false
	}
	return r.Results[i], true
}

// WriteTable renders the report as an aligned text table.
func (r *Report) WriteTable(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TABLE\tRECORDS\tSKIPPED\tORPHANS\tSECONDS\tRECORDS/SEC\tSTATUS\t")
	for _, res := range r.Results {
		status := "ok"
		if res.Failed() {
			status = "FAILED"
		}
		p.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.0f\t%s\t\n",
			res.Table, res.Inserted, res.Skipped, res.OrphanTotal(),
			res.Elapsed.Seconds(), res.PerSecond(), status)
	}
	p.Fprintf(tw, "total\t%d\t\t%d\t%.2f\t\t\t\n", r.Inserted(), r.Orphans(), r.Elapsed.Seconds())
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, res := range r.Results {
		if res.Failed() {
			if _, err := fmt.Fprintf(w, "%s: %v\n", res.Table, res.Err); err != nil {
				return err
			}
		}
	}
	return nil
}
