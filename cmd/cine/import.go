package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cine/internal/importer"
)

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [DIR]",
		Short: "Import the dataset files in DIR into the store",
		Long: `
Imports every *.tsv.gz dataset file found in DIR, in dependency order:
titles, names, akas, crew, episodes, ratings, principals.

A missing or malformed file fails that table only; the others are still
imported. A database failure stops the run. The command exits non-zero when
any table failed.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.dataDir(args)
			if err != nil {
				return err
			}
			entities, err := a.cfg.Import.ParseEntities()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			im := importer.New(st, importer.Options{
				Dir:          dir,
				Entities:     entities,
				IncludeAdult: a.cfg.Import.IncludeAdult,
				CheckOrphans: a.cfg.Import.CheckOrphans,
				Lenient:      a.cfg.Import.Lenient,
				Buffer:       a.cfg.Runtime.ChannelBuffer,
				Logger:       a.log,
			})
			rep, runErr := im.Run(ctx)
			if rep != nil {
				if err := rep.WriteTable(a.stdout); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			if rep.Failed() {
				fmt.Fprintf(a.stdout, "%d of %d tables failed\n", rep.FailedCount(), len(rep.Results))
				return errReported
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addStoreFlags(flags)
	flags.Int("chunk-size", 0, "records per insert transaction")
	flags.Int("buffer", 0, "records buffered between decoder and writer")
	flags.StringSlice("only", nil, "import only these tables, classes or files")
	flags.Bool("include-adult", false, "keep titles flagged as adult")
	flags.Bool("no-orphans", false, "do not count rows referencing unknown ids")
	flags.Bool("lenient", false, "skip malformed rows instead of failing the table")
	return cmd
}
