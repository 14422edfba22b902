package main

import (
	"github.com/spf13/cobra"

	"ukrlit/internal/config"
	"ukrlit/internal/sources/csvfile"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Merge a CSV export into a store",
		Long: "Merge a CSV export into a store. The file needs title and author columns;\n" +
			"year_written and year_published are read when present. Use --store to pick\n" +
			"the target, for example to fold the wikidata export into the master store.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return runSource(cmd, ctx, csvfile.New(path, logger), logger)
		},
	}
}
