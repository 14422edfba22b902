// Package sru harvests MARCXML records through SRU searchRetrieve.
package sru

import (
	"bytes"
	"context"
	"encoding/xml"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// Name identifies the SRU source.
const Name = "sru"

type response struct {
	XMLName         xml.Name `xml:"searchRetrieveResponse"`
	NumberOfRecords string   `xml:"numberOfRecords"`
	Records         []struct {
		Data struct {
			MARC *sources.MARCXML `xml:"record"`
		} `xml:"recordData"`
	} `xml:"records>record"`
	Diagnostics []struct {
		URI     string `xml:"uri"`
		Message string `xml:"message"`
		Details string `xml:"details"`
	} `xml:"diagnostics>diagnostic"`
}

// Source pages through one CQL query.
type Source struct {
	cfg    config.SRU
	client *resty.Client
	logger *slog.Logger
}

// New builds a Source.
func New(cfg config.SRU, client *resty.Client, logger *slog.Logger) *Source {
	return &Source{cfg: cfg, client: client, logger: logging.NewComponentLogger(logger, "sru")}
}

func (s *Source) Name() string { return Name }

// Harvest requests page after page until the server returns an empty page or
// startRecord passes numberOfRecords.
func (s *Source) Harvest(ctx context.Context) ([]records.Candidate, error) {
	var out []records.Candidate
	for start := 1; ; start += s.cfg.PageSize {
		payload, err := s.fetch(ctx, start)
		if err != nil {
			return nil, err
		}
		if len(payload.Records) == 0 {
			break
		}
		skipped := 0
		for _, rec := range payload.Records {
			if rec.Data.MARC == nil {
				skipped++
				continue
			}
			cand, ok := candidate(rec.Data.MARC.Record())
			if !ok {
				skipped++
				continue
			}
			out = append(out, cand)
		}
		total, _ := strconv.Atoi(strings.TrimSpace(payload.NumberOfRecords))
		s.logger.Debug("sru page harvested",
			logging.Int("start_record", start),
			logging.Int("records", len(payload.Records)),
			logging.Int("skipped", skipped),
			logging.Int("total", total),
		)
		if start+s.cfg.PageSize > total {
			break
		}
	}
	return out, nil
}

func (s *Source) fetch(ctx context.Context, start int) (*response, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"operation":      "searchRetrieve",
			"version":        s.cfg.Version,
			"query":          s.cfg.Query,
			"recordSchema":   "marcxml",
			"maximumRecords": strconv.Itoa(s.cfg.PageSize),
			"startRecord":    strconv.Itoa(start),
		}).
		Get(s.cfg.BaseURL)
	if err := sources.CheckResponse(Name, "searchRetrieve", res, err); err != nil {
		return nil, err
	}
	var payload response
	if err := xml.NewDecoder(bytes.NewReader(res.Body())).Decode(&payload); err != nil {
		return nil, sources.Wrap(Name, "searchRetrieve", "decode response", err)
	}
	if len(payload.Diagnostics) > 0 && len(payload.Records) == 0 {
		d := payload.Diagnostics[0]
		msg := strings.TrimSpace(strings.Join([]string{d.Message, d.Details}, " "))
		return nil, sources.Wrap(Name, "searchRetrieve", "diagnostic "+d.URI+": "+msg, nil)
	}
	return &payload, nil
}

// candidate prefers the main entry and falls back to the first added author.
// Records without a four-digit date in 260/264 $c are dropped.
func candidate(marc sources.MARCRecord) (records.Candidate, bool) {
	title := marc.Subfield("245", "a")
	author := marc.Subfield("100", "a")
	if author == "" {
		author = marc.AddedAuthor()
	}
	year := sources.FirstDigits(marc.PublicationDate())
	if title == "" || year == 0 {
		return records.Candidate{}, false
	}
	return records.Candidate{Title: title, Author: author, YearPublished: year}, true
}
