package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ukrlit/internal/scope"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Store describes one persisted master table: a CSV file and an SQLite table.
type Store struct {
	CSVPath    string `toml:"csv_path"`
	SQLitePath string `toml:"sqlite_path"`
	Table      string `toml:"table"`
}

// Harvest contains settings shared by every source adapter.
type Harvest struct {
	YearMin        int      `toml:"year_min"`
	YearMax        int      `toml:"year_max"`
	ExcludeGenres  []string `toml:"exclude_genres"`
	RequestTimeout int      `toml:"request_timeout"`
	Retries        int      `toml:"retries"`
	RetryWait      int      `toml:"retry_wait"`
	PageDelayMS    int      `toml:"page_delay_ms"`
	UserAgent      string   `toml:"user_agent"`
}

// IRBIS configures the IRBIS "preitem" list-page scraper.
type IRBIS struct {
	StartURL      string `toml:"start_url"`
	FormURL       string `toml:"form_url"`
	Database      string `toml:"database"`
	Query         string `toml:"query"`
	PageSize      int    `toml:"page_size"`
	MaxStart      int    `toml:"max_start"`
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// Elib configures the digital-library scraper that follows full records.
type Elib struct {
	StartURL      string `toml:"start_url"`
	MaxPages      int    `toml:"max_pages"`
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// OAI configures the OAI-PMH harvester.
type OAI struct {
	BaseURL        string `toml:"base_url"`
	Set            string `toml:"set"`
	MetadataPrefix string `toml:"metadata_prefix"`
	RequireAuthor  bool   `toml:"require_author"`
	PrimaryYear    string `toml:"primary_year"`
	Store          string `toml:"store"`
}

// SRU configures the SRU searchRetrieve harvester.
type SRU struct {
	BaseURL       string `toml:"base_url"`
	Version       string `toml:"version"`
	Query         string `toml:"query"`
	PageSize      int    `toml:"page_size"`
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// Z3950 configures ingestion of USMARC records captured from a Z39.50
// session (for example with `yaz-client -m dump.mrc host:port/IRBIS`).
type Z3950 struct {
	DumpPath      string `toml:"dump_path"`
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// Wikidata configures the SPARQL harvester.
type Wikidata struct {
	Endpoint      string `toml:"endpoint"`
	LanguageItem  string `toml:"language_item"`
	LabelLangs    string `toml:"label_languages"`
	DecadeStep    int    `toml:"decade_step"`
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// Import configures the CSV importer.
type Import struct {
	RequireAuthor bool   `toml:"require_author"`
	PrimaryYear   string `toml:"primary_year"`
	Store         string `toml:"store"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ukrlit.
//
// Configuration sections:
//   - Paths: data and log directories
//   - Stores: named master stores (CSV + SQLite table)
//   - Harvest: year window, genre exclusions, HTTP behaviour
//   - IRBIS, Elib, OAI, SRU, Z3950, Wikidata, Import: per-source settings
//   - Logging: log format and level
type Config struct {
	Paths    Paths            `toml:"paths"`
	Stores   map[string]Store `toml:"stores"`
	Harvest  Harvest          `toml:"harvest"`
	IRBIS    IRBIS            `toml:"irbis"`
	Elib     Elib             `toml:"elib"`
	OAI      OAI              `toml:"oai"`
	SRU      SRU              `toml:"sru"`
	Z3950    Z3950            `toml:"z3950"`
	Wikidata Wikidata         `toml:"wikidata"`
	Import   Import           `toml:"import"`
	Logging  Logging          `toml:"logging"`
}

// SourcePolicy holds the per-source settings the harvest pipeline needs.
type SourcePolicy struct {
	RequireAuthor bool
	PrimaryYear   string
	Store         string
}

// SourceNames lists the sources that can be harvested, in display order.
var SourceNames = []string{"irbis", "elib", "oai", "sru", "z3950", "wikidata", "csv"}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ukrlit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ukrlit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories plus the parent
// directory of every configured store file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	for _, name := range c.StoreNames() {
		store := c.Stores[name]
		dirs = append(dirs, filepath.Dir(store.CSVPath), filepath.Dir(store.SQLitePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StoreNames returns the configured store names sorted alphabetically.
func (c *Config) StoreNames() []string {
	names := make([]string, 0, len(c.Stores))
	for name := range c.Stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store returns the named store configuration.
func (c *Config) Store(name string) (Store, error) {
	store, ok := c.Stores[strings.TrimSpace(name)]
	if !ok {
		return Store{}, fmt.Errorf("store %q is not configured (known: %s)", name, strings.Join(c.StoreNames(), ", "))
	}
	return store, nil
}

// Policy returns the author/sort/store policy configured for a source.
func (c *Config) Policy(source string) (SourcePolicy, error) {
	switch source {
	case "irbis":
		return SourcePolicy{c.IRBIS.RequireAuthor, c.IRBIS.PrimaryYear, c.IRBIS.Store}, nil
	case "elib":
		return SourcePolicy{c.Elib.RequireAuthor, c.Elib.PrimaryYear, c.Elib.Store}, nil
	case "oai":
		return SourcePolicy{c.OAI.RequireAuthor, c.OAI.PrimaryYear, c.OAI.Store}, nil
	case "sru":
		return SourcePolicy{c.SRU.RequireAuthor, c.SRU.PrimaryYear, c.SRU.Store}, nil
	case "z3950":
		return SourcePolicy{c.Z3950.RequireAuthor, c.Z3950.PrimaryYear, c.Z3950.Store}, nil
	case "wikidata":
		return SourcePolicy{c.Wikidata.RequireAuthor, c.Wikidata.PrimaryYear, c.Wikidata.Store}, nil
	case "csv":
		return SourcePolicy{c.Import.RequireAuthor, c.Import.PrimaryYear, c.Import.Store}, nil
	default:
		return SourcePolicy{}, fmt.Errorf("unknown source %q (known: %s)", source, strings.Join(SourceNames, ", "))
	}
}

// ScopeFilter returns the year window and genre exclusions as a scope filter.
func (c *Config) ScopeFilter() scope.Filter {
	return scope.Filter{
		YearMin: c.Harvest.YearMin,
		YearMax: c.Harvest.YearMax,
		Exclude: append([]string(nil), c.Harvest.ExcludeGenres...),
	}
}

// Timeout returns the per-request HTTP timeout.
func (h Harvest) Timeout() time.Duration {
	return time.Duration(h.RequestTimeout) * time.Second
}

// RetryBackoff returns the initial wait between retried requests.
func (h Harvest) RetryBackoff() time.Duration {
	return time.Duration(h.RetryWait) * time.Second
}

// PageDelay returns the pause between consecutive upstream pages.
func (h Harvest) PageDelay() time.Duration {
	return time.Duration(h.PageDelayMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath expands a leading tilde and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
