package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStores(); err != nil {
		return err
	}
	c.normalizeHarvest()
	c.normalizeSources()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}
	dump := strings.TrimSpace(c.Z3950.DumpPath)
	if dump == "" {
		dump = defaultDumpFile
	}
	if c.Z3950.DumpPath, err = c.dataPath(dump); err != nil {
		return fmt.Errorf("z3950.dump_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeStores() error {
	normalized := make(map[string]Store, len(c.Stores))
	for name, store := range c.Stores {
		key := strings.TrimSpace(name)
		defaults := defaultStores[key]
		csvPath := firstNonEmpty(store.CSVPath, defaults.CSVPath)
		sqlitePath := firstNonEmpty(store.SQLitePath, defaults.SQLitePath)
		var err error
		if store.CSVPath, err = c.dataPath(csvPath); err != nil {
			return fmt.Errorf("stores.%s.csv_path: %w", key, err)
		}
		if store.SQLitePath, err = c.dataPath(sqlitePath); err != nil {
			return fmt.Errorf("stores.%s.sqlite_path: %w", key, err)
		}
		store.Table = firstNonEmpty(store.Table, defaults.Table)
		normalized[key] = store
	}
	c.Stores = normalized
	return nil
}

func (c *Config) normalizeHarvest() {
	if c.Harvest.UserAgent = strings.TrimSpace(c.Harvest.UserAgent); c.Harvest.UserAgent == "" {
		if value, ok := os.LookupEnv("UKRLIT_USER_AGENT"); ok {
			c.Harvest.UserAgent = strings.TrimSpace(value)
		}
	}
	if c.Harvest.UserAgent == "" {
		c.Harvest.UserAgent = defaultUserAgent
	}
	genres := c.Harvest.ExcludeGenres[:0]
	for _, genre := range c.Harvest.ExcludeGenres {
		if trimmed := strings.TrimSpace(genre); trimmed != "" {
			genres = append(genres, trimmed)
		}
	}
	c.Harvest.ExcludeGenres = genres
	if c.Harvest.Retries < 0 {
		c.Harvest.Retries = 0
	}
	if c.Harvest.PageDelayMS < 0 {
		c.Harvest.PageDelayMS = 0
	}
}

func (c *Config) normalizeSources() {
	c.IRBIS.StartURL = strings.TrimSpace(c.IRBIS.StartURL)
	c.IRBIS.FormURL = strings.TrimSpace(c.IRBIS.FormURL)
	c.IRBIS.PrimaryYear = normalizeYear(c.IRBIS.PrimaryYear)
	c.IRBIS.Store = normalizeStoreName(c.IRBIS.Store)

	c.Elib.StartURL = strings.TrimSpace(c.Elib.StartURL)
	c.Elib.PrimaryYear = normalizeYear(c.Elib.PrimaryYear)
	c.Elib.Store = normalizeStoreName(c.Elib.Store)

	c.OAI.BaseURL = strings.TrimSpace(c.OAI.BaseURL)
	c.OAI.Set = strings.TrimSpace(c.OAI.Set)
	if c.OAI.MetadataPrefix = strings.TrimSpace(c.OAI.MetadataPrefix); c.OAI.MetadataPrefix == "" {
		c.OAI.MetadataPrefix = "marcxml"
	}
	c.OAI.PrimaryYear = normalizeYear(c.OAI.PrimaryYear)
	c.OAI.Store = normalizeStoreName(c.OAI.Store)

	c.SRU.BaseURL = strings.TrimSpace(c.SRU.BaseURL)
	if c.SRU.Version = strings.TrimSpace(c.SRU.Version); c.SRU.Version == "" {
		c.SRU.Version = "1.2"
	}
	c.SRU.Query = strings.TrimSpace(c.SRU.Query)
	c.SRU.PrimaryYear = normalizeYear(c.SRU.PrimaryYear)
	c.SRU.Store = normalizeStoreName(c.SRU.Store)

	c.Z3950.PrimaryYear = normalizeYear(c.Z3950.PrimaryYear)
	c.Z3950.Store = normalizeStoreName(c.Z3950.Store)

	c.Wikidata.Endpoint = strings.TrimSpace(c.Wikidata.Endpoint)
	c.Wikidata.LanguageItem = strings.TrimSpace(c.Wikidata.LanguageItem)
	if c.Wikidata.LabelLangs = strings.TrimSpace(c.Wikidata.LabelLangs); c.Wikidata.LabelLangs == "" {
		c.Wikidata.LabelLangs = "uk,en"
	}
	c.Wikidata.PrimaryYear = normalizeYear(c.Wikidata.PrimaryYear)
	if strings.TrimSpace(c.Wikidata.Store) == "" {
		c.Wikidata.Store = WikidataStore
	}
	c.Wikidata.Store = strings.TrimSpace(c.Wikidata.Store)

	c.Import.PrimaryYear = normalizeYear(c.Import.PrimaryYear)
	c.Import.Store = normalizeStoreName(c.Import.Store)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func normalizeYear(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "written"
	}
	return value
}

// dataPath expands value and places relative paths under paths.data_dir.
// It expects normalizePaths to have run. An empty value stays empty.
func (c *Config) dataPath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Paths.DataDir, value)
	}
	return expandPath(value)
}

func firstNonEmpty(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func normalizeStoreName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return MasterStore
	}
	return value
}
