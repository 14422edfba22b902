package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ukrlit/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the harvester configuration",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx), newConfigInitCommand())
	return configCmd
}

// newConfigInitCommand writes the sample file and reports where each store
// it defines will be persisted once data_dir is resolved.
func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration and list its stores",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, statErr := os.Stat(target); {
				case statErr == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			printStores(out, cfg)
			fmt.Fprintf(out, "Requests identify as %q; put a contact address in harvest.user_agent or UKRLIT_USER_AGENT\n", cfg.Harvest.UserAgent)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration, create its directories and list its stores",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source += " (missing, built-in defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)
			printStores(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// printStores renders one row per configured store in name order.
func printStores(out io.Writer, cfg *config.Config) {
	names := cfg.StoreNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		store := cfg.Stores[name]
		rows = append(rows, []string{name, store.CSVPath, store.Table, store.SQLitePath})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Store", "CSV", "Table", "SQLite"}, rows, nil))
}
