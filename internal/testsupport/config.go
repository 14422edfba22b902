package testsupport

import (
	"path/filepath"
	"testing"

	"ukrlit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Every store points below the temp dir and every endpoint keeps its default
// until an option overrides it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Stores = map[string]config.Store{
		config.MasterStore: {
			CSVPath:    filepath.Join(base, "data", "master.csv"),
			SQLitePath: filepath.Join(base, "data", "ukr_lit.sqlite"),
			Table:      "combined",
		},
		config.WikidataStore: {
			CSVPath:    filepath.Join(base, "data", "wikidata.csv"),
			SQLitePath: filepath.Join(base, "data", "ukr_lit.sqlite"),
			Table:      "wikidata",
		},
	}
	cfgVal.Z3950.DumpPath = filepath.Join(base, "data", "dump.mrc")
	cfgVal.Harvest.PageDelayMS = 0
	cfgVal.Harvest.Retries = 0
	cfgVal.Harvest.RequestTimeout = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEndpoint points every network source at baseURL (an httptest server).
func WithEndpoint(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.IRBIS.StartURL = baseURL + "/irbis/start"
		b.cfg.IRBIS.FormURL = baseURL + "/irbis/form"
		b.cfg.Elib.StartURL = baseURL + "/elib/start"
		b.cfg.OAI.BaseURL = baseURL + "/oai"
		b.cfg.SRU.BaseURL = baseURL + "/sru"
		b.cfg.Wikidata.Endpoint = baseURL + "/sparql"
	}
}

// WithYearWindow overrides the harvest year window.
func WithYearWindow(minYear, maxYear int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Harvest.YearMin = minYear
		b.cfg.Harvest.YearMax = maxYear
	}
}
