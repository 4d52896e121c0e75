package main

import (
	"github.com/spf13/cobra"

	"cine/internal/bench"
)

func newBenchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [DIR]",
		Short: "Measure decode throughput of the dataset files in DIR",
		Long: `
Decodes every dataset file in DIR without storing anything and prints, per
record class, the record count, elapsed seconds and records per second.
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
			results, runErr := bench.Run(cmd.Context(), dir, bench.Options{
				Entities:     entities,
				Parallel:     a.cfg.Runtime.ParallelBench,
				IncludeAdult: a.cfg.Import.IncludeAdult,
				Logger:       a.log,
			})
			if err := bench.WriteTable(a.stdout, results); err != nil {
				return err
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.Bool("parallel", false, "decode all files concurrently")
	flags.StringSlice("only", nil, "measure only these tables, classes or files")
	flags.Bool("include-adult", false, "keep titles flagged as adult")
	return cmd
}
