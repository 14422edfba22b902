package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ukrlit/internal/config"
	"ukrlit/internal/neardup"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "List rows that look like duplicates under different keys",
		Long: "List rows that look like duplicates under different keys.\n\n" +
			"The report is for manual review; stores are never modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold <= 0 || threshold > 1 {
				return fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
			}
			store, err := ctx.openStore(config.MasterStore)
			if err != nil {
				return err
			}
			recs, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pairs := neardup.Find(recs, threshold)
			if len(pairs) == 0 {
				fmt.Fprintf(out, "No near-duplicates at threshold %.2f among %d rows\n", threshold, len(recs))
				return nil
			}
			rows := make([][]string, 0, len(pairs))
			for _, p := range pairs {
				rows = append(rows, []string{
					fmt.Sprintf("%.3f", p.Similarity),
					p.Left.Author + " / " + p.Left.Title,
					p.Right.Author + " / " + p.Right.Title,
				})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Score", "Row", "Similar row"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", neardup.DefaultThreshold, "Minimum Jaro-Winkler similarity to report")
	return cmd
}
