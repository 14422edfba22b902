package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ukrlit/internal/config"
	"ukrlit/internal/records"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var fromSQLite bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the rows of a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(config.MasterStore)
			if err != nil {
				return err
			}
			var recs []records.Record
			if fromSQLite {
				recs, err = store.Query(cmd.Context(), limit)
			} else {
				recs, err = store.Load(cmd.Context())
				if err == nil && limit > 0 && len(recs) > limit {
					recs = recs[:limit]
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintf(out, "Store %s is empty\n", store.Name())
				return nil
			}
			rows := make([][]string, 0, len(recs))
			for _, rec := range recs {
				rows = append(rows, []string{rec.Title, rec.Author, yearCell(rec.YearWritten), yearCell(rec.YearPublished)})
			}
			headers := []string{"Title", "Author", "Written", "Published"}
			fmt.Fprintln(out, renderTable(out, headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&fromSQLite, "sqlite", false, "Read the SQLite table instead of the CSV file")
	return cmd
}

func yearCell(year int) string {
	if year <= 0 {
		return "-"
	}
	return strconv.Itoa(year)
}
