package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ukrlit/internal/records"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStores(); err != nil {
		return err
	}
	if err := c.validateHarvest(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("log_dir must be set")
	}
	return nil
}

func (c *Config) validateStores() error {
	if len(c.Stores) == 0 {
		return errors.New("at least one store must be configured")
	}
	for _, name := range c.StoreNames() {
		store := c.Stores[name]
		if name == "" {
			return errors.New("store names must not be empty")
		}
		if store.CSVPath == "" {
			return fmt.Errorf("stores.%s.csv_path must be set", name)
		}
		if store.SQLitePath == "" {
			return fmt.Errorf("stores.%s.sqlite_path must be set", name)
		}
		if !tableNamePattern.MatchString(store.Table) {
			return fmt.Errorf("stores.%s.table %q is not a valid SQL identifier", name, store.Table)
		}
	}
	return nil
}

func (c *Config) validateHarvest() error {
	if c.Harvest.YearMin > c.Harvest.YearMax {
		return fmt.Errorf("harvest.year_min (%d) must not exceed harvest.year_max (%d)", c.Harvest.YearMin, c.Harvest.YearMax)
	}
	if c.Harvest.RequestTimeout <= 0 {
		return errors.New("harvest.request_timeout must be positive")
	}
	if c.Harvest.RetryWait < 0 {
		return errors.New("harvest.retry_wait must be non-negative")
	}
	return nil
}

func (c *Config) validateSources() error {
	if err := validateURL("irbis.start_url", c.IRBIS.StartURL); err != nil {
		return err
	}
	if err := validateURL("irbis.form_url", c.IRBIS.FormURL); err != nil {
		return err
	}
	if c.IRBIS.PageSize <= 0 {
		return errors.New("irbis.page_size must be positive")
	}
	if c.IRBIS.MaxStart <= 0 {
		return errors.New("irbis.max_start must be positive")
	}
	if err := validateURL("elib.start_url", c.Elib.StartURL); err != nil {
		return err
	}
	if c.Elib.MaxPages <= 0 {
		return errors.New("elib.max_pages must be positive")
	}
	if err := validateURL("oai.base_url", c.OAI.BaseURL); err != nil {
		return err
	}
	if err := validateURL("sru.base_url", c.SRU.BaseURL); err != nil {
		return err
	}
	if c.SRU.Query == "" {
		return errors.New("sru.query must be set")
	}
	if c.SRU.PageSize <= 0 {
		return errors.New("sru.page_size must be positive")
	}
	if err := validateURL("wikidata.endpoint", c.Wikidata.Endpoint); err != nil {
		return err
	}
	if c.Wikidata.LanguageItem == "" {
		return errors.New("wikidata.language_item must be set")
	}
	if c.Wikidata.DecadeStep <= 0 {
		return errors.New("wikidata.decade_step must be positive")
	}

	for _, name := range SourceNames {
		policy, err := c.Policy(name)
		if err != nil {
			return err
		}
		if _, err := records.ParseYearField(policy.PrimaryYear); err != nil {
			return fmt.Errorf("%s.primary_year: %w", sectionName(name), err)
		}
		if _, ok := c.Stores[policy.Store]; !ok {
			return fmt.Errorf("%s.store %q is not a configured store", sectionName(name), policy.Store)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", field, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("%s: missing host", field)
	}
	return nil
}

func sectionName(source string) string {
	if source == "csv" {
		return "import"
	}
	return source
}
