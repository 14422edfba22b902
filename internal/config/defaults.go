package config

import "ukrlit/internal/scope"

// Default values for configuration fields.
const (
	defaultDataDir = "~/.local/share/ukrlit"
	defaultLogDir  = "~/.local/share/ukrlit/logs"

	// MasterStore is the store every source writes to unless configured otherwise.
	MasterStore = "master"
	// WikidataStore keeps Wikidata harvests apart from the catalogue master.
	WikidataStore = "wikidata"

	defaultSQLiteFile = "ukr_lit.sqlite"
	defaultDumpFile   = "z3950_dump.mrc"

	defaultUserAgent = "ukrlit/1.0 (bibliographic research harvester)"
)

// defaultStores holds the built-in stores. Their file names are relative and
// resolve under paths.data_dir during normalization.
var defaultStores = map[string]Store{
	MasterStore: {
		CSVPath:    "ukrainian_literature_1700-2024.csv",
		SQLitePath: defaultSQLiteFile,
		Table:      "combined",
	},
	WikidataStore: {
		CSVPath:    "wikidata_ukr_lit.csv",
		SQLitePath: defaultSQLiteFile,
		Table:      "wikidata",
	},
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Stores: map[string]Store{
			MasterStore:   defaultStores[MasterStore],
			WikidataStore: defaultStores[WikidataStore],
		},
		Harvest: Harvest{
			YearMin:        scope.DefaultYearMin,
			YearMax:        scope.DefaultYearMax,
			ExcludeGenres:  append([]string(nil), scope.DefaultExclude...),
			RequestTimeout: 30,
			Retries:        3,
			RetryWait:      2,
			PageDelayMS:    300,
			UserAgent:      defaultUserAgent,
		},
		IRBIS: IRBIS{
			StartURL:    "https://irbis-nbuv.gov.ua/cgi-bin/ua/elib.exe?S21CNR=20&S21REF=10&S21STN=1&C21COM=S&I21DBN=UKRLIB&P21DBN=UKRLIB&S21All=%28%3C.%3EJ%3Dukr%3C.%3E%29&S21FMT=preitem&S21SRW=dz&S21SRD=UP",
			FormURL:     "https://irbis-nbuv.gov.ua/cgi-bin/ua/elib.exe",
			Database:    "UKRLIB",
			Query:       "(<.>J=ukr<.>)",
			PageSize:    20,
			MaxStart:    40000,
			PrimaryYear: "published",
			Store:       MasterStore,
		},
		Elib: Elib{
			StartURL:    "https://irbis-nbuv.gov.ua/cgi-bin/irbis_ir/cgiirbis_64.exe?C21COM=S&I21DBN=ELIB&P21DBN=ELIB&S21FMT=preitem&S21ALL=%28%3C.%3ERPUB%3D%21%3C.%3E%29%2A%28%3C.%3EJ%3Dukr%3C.%3E%29&S21SRW=GOD&S21SRD=UP&S21STN=1&S21CNR=20",
			MaxPages:    2000,
			PrimaryYear: "written",
			Store:       MasterStore,
		},
		OAI: OAI{
			BaseURL:        "https://irbis-nbuv.gov.ua/cgi-bin/irbis64r_2018/oai",
			Set:            "ELIB",
			MetadataPrefix: "marcxml",
			RequireAuthor:  true,
			PrimaryYear:    "written",
			Store:          MasterStore,
		},
		SRU: SRU{
			BaseURL:       "http://irbis-nbuv.gov.ua/cgi-bin/irbis64r_2018/sru",
			Version:       "1.2",
			Query:         `language="ukr" AND date>=1700 AND date<=2024 AND (subject any "художня" OR subject any "поезія" OR subject any "проза")`,
			PageSize:      100,
			RequireAuthor: true,
			PrimaryYear:   "written",
			Store:         MasterStore,
		},
		Z3950: Z3950{
			DumpPath:      defaultDumpFile,
			RequireAuthor: true,
			PrimaryYear:   "written",
			Store:         MasterStore,
		},
		Wikidata: Wikidata{
			Endpoint:     "https://query.wikidata.org/sparql",
			LanguageItem: "Q8798",
			LabelLangs:   "uk,en",
			DecadeStep:   10,
			PrimaryYear:  "written",
			Store:        WikidataStore,
		},
		Import: Import{
			PrimaryYear: "written",
			Store:       MasterStore,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
