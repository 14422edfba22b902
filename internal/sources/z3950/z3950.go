// Package z3950 ingests USMARC records captured from a Z39.50 session.
//
// The adapter does not speak the Z39.50 protocol itself. It reads the
// ISO 2709 stream a client such as yaz-client writes with "-m dump.mrc".
package z3950

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// Name identifies the Z39.50 dump source.
const Name = "z3950"

// Source reads one dump file.
type Source struct {
	cfg    config.Z3950
	logger *slog.Logger
}

// New builds a Source.
func New(cfg config.Z3950, logger *slog.Logger) *Source {
	return &Source{cfg: cfg, logger: logging.NewComponentLogger(logger, "z3950")}
}

func (s *Source) Name() string { return Name }

// Harvest decodes every record in the dump. Records lacking a title, an
// author or a catalogue year are skipped.
func (s *Source) Harvest(ctx context.Context) ([]records.Candidate, error) {
	f, err := os.Open(s.cfg.DumpPath)
	if err != nil {
		return nil, sources.Wrap(Name, "open dump", s.cfg.DumpPath, err)
	}
	defer f.Close()

	reader := sources.NewMARCReader(f)
	var (
		out     []records.Candidate
		read    int
		skipped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sources.Wrap(Name, "decode dump", s.cfg.DumpPath, err)
		}
		read++
		cand, ok := candidate(rec)
		if !ok {
			skipped++
			continue
		}
		out = append(out, cand)
	}
	s.logger.Debug("dump decoded",
		logging.String("path", s.cfg.DumpPath),
		logging.Int("records", read),
		logging.Int("skipped", skipped),
	)
	return out, nil
}

func candidate(rec sources.MARCRecord) (records.Candidate, bool) {
	title, author := rec.Title(), rec.Author()
	if title == "" || author == "" {
		return records.Candidate{}, false
	}
	year := sources.FirstYear(rec.PublicationDate() + " " + rec.Subfield("260", "c"))
	if year == 0 {
		return records.Candidate{}, false
	}
	return records.Candidate{Title: title, Author: author, YearPublished: year}, true
}
