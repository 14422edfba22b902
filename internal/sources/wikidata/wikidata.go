// Package wikidata harvests literary works from the Wikidata Query Service.
package wikidata

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// Name identifies the Wikidata source.
const Name = "wikidata"

// queryTemplate selects works in the configured language whose inception or
// first publication falls inside [{FROM}, {TO}). Plays and essays are
// excluded upstream; the genre filter in scope handles the rest.
const queryTemplate = `PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>

SELECT ?work ?workLabel ?authorLabel ?inception ?pubDate
WHERE {
  ?work wdt:P407 wd:{LANGUAGE} ;
        wdt:P571 ?inception .

  OPTIONAL { ?work wdt:P577 ?pubDate. }
  OPTIONAL { ?work wdt:P50  ?author.  }

  FILTER NOT EXISTS { ?work wdt:P31 wd:Q25379 }
  FILTER NOT EXISTS { ?work wdt:P136 wd:Q35760 }

  FILTER (
       (YEAR(?inception) >= {FROM} && YEAR(?inception) < {TO})
    || (BOUND(?pubDate) &&
        YEAR(?pubDate)  >= {FROM} && YEAR(?pubDate)  < {TO})
  )

  SERVICE wikibase:label { bd:serviceParam wikibase:language "{LABELS}". }
}`

// entityID matches the bare item id WDQS returns when no label exists.
var entityID = regexp.MustCompile(`^Q\d+$`)

type binding struct {
	Value string `json:"value"`
}

type results struct {
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

// Window is a half-open year range [From, To).
type Window struct {
	From int
	To   int
}

// Source walks the configured year window in fixed steps.
type Source struct {
	cfg     config.Wikidata
	minYear int
	maxYear int
	client  *resty.Client
	logger  *slog.Logger
}

// New builds a Source covering the harvest year window.
func New(cfg config.Wikidata, harvest config.Harvest, client *resty.Client, logger *slog.Logger) *Source {
	return &Source{
		cfg:     cfg,
		minYear: harvest.YearMin,
		maxYear: harvest.YearMax,
		client:  client,
		logger:  logging.NewComponentLogger(logger, "wikidata"),
	}
}

func (s *Source) Name() string { return Name }

// Windows splits [minYear, maxYear] into steps of step years. The last
// window is clipped to maxYear.
func Windows(minYear, maxYear, step int) []Window {
	if step <= 0 || maxYear < minYear {
		return nil
	}
	var out []Window
	for from := minYear; from <= maxYear; from += step {
		out = append(out, Window{From: from, To: min(from+step, maxYear+1)})
	}
	return out
}

// Query renders the SPARQL text for one window.
func (s *Source) Query(w Window) string {
	return strings.NewReplacer(
		"{LANGUAGE}", s.cfg.LanguageItem,
		"{LABELS}", s.cfg.LabelLangs,
		"{FROM}", strconv.Itoa(w.From),
		"{TO}", strconv.Itoa(w.To),
	).Replace(queryTemplate)
}

// Harvest runs one query per window. Rows where neither inception nor
// publication date yields a year are dropped.
func (s *Source) Harvest(ctx context.Context) ([]records.Candidate, error) {
	var out []records.Candidate
	for _, w := range Windows(s.minYear, s.maxYear, s.cfg.DecadeStep) {
		var payload results
		res, err := s.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/sparql-results+json").
			SetFormData(map[string]string{"query": s.Query(w)}).
			SetResult(&payload).
			Post(s.cfg.Endpoint)
		op := "query " + strconv.Itoa(w.From) + "-" + strconv.Itoa(w.To-1)
		if err := sources.CheckResponse(Name, op, res, err); err != nil {
			return nil, err
		}

		rows := 0
		for _, b := range payload.Results.Bindings {
			cand, ok := candidate(b)
			if !ok {
				continue
			}
			rows++
			out = append(out, cand)
		}
		s.logger.Debug("wikidata window harvested",
			logging.Int("from", w.From),
			logging.Int("to", w.To-1),
			logging.Int("bindings", len(payload.Results.Bindings)),
			logging.Int("rows", rows),
		)
	}
	return out, nil
}

func candidate(b map[string]binding) (records.Candidate, bool) {
	written := sources.LeadingYear(b["inception"].Value)
	published := sources.LeadingYear(b["pubDate"].Value)
	if written == 0 && published == 0 {
		return records.Candidate{}, false
	}
	return records.Candidate{
		Title:         label(b["workLabel"].Value),
		Author:        label(b["authorLabel"].Value),
		YearWritten:   written,
		YearPublished: published,
	}, true
}

func label(value string) string {
	value = strings.TrimSpace(value)
	if entityID.MatchString(value) {
		return ""
	}
	return value
}
