// Package csvfile imports candidate rows from a CSV export, such as an
// earlier Wikidata harvest, so they can be merged into another store.
package csvfile

import (
	"context"
	"log/slog"
	"os"

	"ukrlit/internal/logging"
	"ukrlit/internal/master"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// Name identifies the CSV importer.
const Name = "csv"

// Source reads one CSV file with at least title and author columns.
type Source struct {
	path   string
	logger *slog.Logger
}

// New builds a Source for path.
func New(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logging.NewComponentLogger(logger, "import")}
}

func (s *Source) Name() string { return Name }

// Harvest reads the file. Unknown columns are ignored and missing year
// columns read as unknown.
func (s *Source) Harvest(ctx context.Context) ([]records.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, sources.Wrap(Name, "open", s.path, err)
	}
	defer f.Close()

	recs, err := master.ReadCSV(f, master.Lenient())
	if err != nil {
		return nil, sources.Wrap(Name, "read", s.path, err)
	}
	out := make([]records.Candidate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Candidate())
	}
	s.logger.Debug("csv read", logging.String("path", s.path), logging.Int("rows", len(out)))
	return out, nil
}
