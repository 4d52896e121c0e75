package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cine/internal/records"
	"cine/internal/storage"
)

func newTablesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the store with their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.TableNames(ctx)
			if err != nil {
				return err
			}
			known := map[string]storage.TableInfo{}
			for _, t := range st.Tables() {
				known[t.Name()] = t
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tCLASS\tROWS")
			for _, name := range names {
				t, ok := known[name]
				if !ok {
					fmt.Fprintf(tw, "%s\t-\t-\n", name)
					continue
				}
				n, err := t.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", name, records.Lookup(t.Entity()).Class, n)
			}
			return tw.Flush()
		},
	}
	addStoreFlags(cmd.Flags())
	return cmd
}

func newQueryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query SQL [ARG...]",
		Short: "Run a read-only SQL statement and print its rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			params := make([]any, 0, len(args)-1)
			for _, s := range args[1:] {
				params = append(params, s)
			}
			res, err := st.Query(ctx, args[0], params...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for i, c := range res.Columns {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprint(tw, c)
			}
			fmt.Fprintln(tw)
			for _, row := range res.Rows {
				for i, v := range row {
					if i > 0 {
						fmt.Fprint(tw, "\t")
					}
					if v == nil {
						v = "NULL"
					}
					fmt.Fprint(tw, v)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	addStoreFlags(cmd.Flags())
	return cmd
}

func newBackupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup DEST",
		Short: "Write a consistent copy of the store to DEST",
		Long: `
Writes a snapshot of the database to DEST. For sqlite DEST is a file path
that must not exist yet; for mssql it is a path on the database server.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Backup(ctx, args[0])
		},
	}
	addStoreFlags(cmd.Flags())
	return cmd
}
