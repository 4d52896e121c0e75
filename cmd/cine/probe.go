package main

import (
	"github.com/spf13/cobra"

	"cine/internal/probe"
)

func newProbeCommand(a *app) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "probe FILE",
		Short: "Profile the first rows of a dataset file",
		Long: `
Samples FILE (gzip when it ends in .gz) and prints, per column, the inferred
type, null and multi-value counts, and the field it maps to. Dataset files
are also decoded with their record layout and decode failures counted.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := probe.File(cmd.Context(), args[0], probe.Options{Rows: rows})
			if err != nil {
				return err
			}
			return p.WriteTable(a.stdout)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", probe.DefaultRows, "data rows to sample")
	return cmd
}
