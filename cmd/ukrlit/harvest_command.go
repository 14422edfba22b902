package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ukrlit/internal/config"
	"ukrlit/internal/harvest"
	"ukrlit/internal/sources"
	"ukrlit/internal/sources/irbis"
	"ukrlit/internal/sources/oaipmh"
	"ukrlit/internal/sources/sru"
	"ukrlit/internal/sources/wikidata"
	"ukrlit/internal/sources/z3950"
)

// harvestSources lists the sources reachable through `ukrlit harvest`.
var harvestSources = []string{irbis.ListName, irbis.ElibName, oaipmh.Name, sru.Name, z3950.Name, wikidata.Name}

func newHarvestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "harvest <source>",
		Short:     "Harvest one source and merge it into its store",
		Long:      "Harvest one source and merge it into its store.\n\nSources: " + strings.Join(harvestSources, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: harvestSources,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			src, err := buildSource(cfg, args[0], logger)
			if err != nil {
				return err
			}
			return runSource(cmd, ctx, src, logger)
		},
	}
}

func buildSource(cfg *config.Config, name string, logger *slog.Logger) (sources.Source, error) {
	client := sources.NewHTTPClient(sources.HTTPOptionsFrom(cfg.Harvest, logger))
	switch name {
	case irbis.ListName:
		return irbis.NewListSource(cfg.IRBIS, client, logger), nil
	case irbis.ElibName:
		return irbis.NewElibSource(cfg.Elib, client, logger), nil
	case oaipmh.Name:
		return oaipmh.New(cfg.OAI, client, logger), nil
	case sru.Name:
		return sru.New(cfg.SRU, client, logger), nil
	case z3950.Name:
		return z3950.New(cfg.Z3950, logger), nil
	case wikidata.Name:
		return wikidata.New(cfg.Wikidata, cfg.Harvest, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q (known: %s)", name, strings.Join(harvestSources, ", "))
	}
}

// runSource resolves the policy and store configured for src and runs the
// harvest pipeline.
func runSource(cmd *cobra.Command, ctx *commandContext, src sources.Source, logger *slog.Logger) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.Policy(src.Name())
	if err != nil {
		return err
	}
	policy, err := sources.PolicyFrom(settings)
	if err != nil {
		return err
	}
	store, err := ctx.openStore(settings.Store)
	if err != nil {
		return err
	}

	summary, err := harvest.Run(cmd.Context(), harvest.Options{
		Source: src,
		Policy: policy,
		Filter: cfg.ScopeFilter(),
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary, store.CSVPath(), store.Table())
	return nil
}

func printSummary(out io.Writer, s harvest.Summary, csvPath, table string) {
	fmt.Fprintf(out, "Source %s: %d candidates, %d accepted, %d rejected\n", s.Source, s.Harvested, s.Accepted, s.RejectedTotal())
	if len(s.Rejected) > 0 {
		reasons := make([]string, 0, len(s.Rejected))
		for reason := range s.Rejected {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(out, "  %s: %d\n", reason, s.Rejected[reason])
		}
	}
	fmt.Fprintf(out, "Added %d new rows (%d duplicates dropped)\n", s.Added, s.Duplicates)
	fmt.Fprintf(out, "Saved %d rows to %s and table %s\n", s.Total, csvPath, table)
}
