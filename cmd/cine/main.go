// Command cine loads the IMDb non-commercial dataset files into a
// relational store and measures decode throughput.
//
//	cine import ./imdb --db imdb.db
//	cine bench ./imdb --parallel
//	cine tables --db imdb.db
//	cine query --db imdb.db "SELECT COUNT(*) FROM titles"
//	cine backup --db imdb.db snapshot.db
//	cine probe ./imdb/title.basics.tsv.gz
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// register all backends with the storage factory.
	_ "cine/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "cine: %v\n", err)
		}
		os.Exit(1)
	}
}
