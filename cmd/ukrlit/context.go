package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/master"
)

type commandContext struct {
	configFlag   *string
	storeFlag    *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, storeFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		storeFlag:    storeFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// storeName returns the --store override, or fallback when it is unset.
func (c *commandContext) storeName(fallback string) string {
	if c.storeFlag != nil {
		if name := strings.TrimSpace(*c.storeFlag); name != "" {
			return name
		}
	}
	return fallback
}

func (c *commandContext) openStore(fallback string) (*master.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	name := c.storeName(fallback)
	store, err := master.Open(cfg, name)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", name, err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
