// Package oaipmh harvests MARCXML records over OAI-PMH ListRecords.
package oaipmh

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// Name identifies the OAI-PMH source.
const Name = "oai"

// codeNoRecords is the OAI-PMH error code for an empty result set.
const codeNoRecords = "noRecordsMatch"

type response struct {
	XMLName     xml.Name     `xml:"OAI-PMH"`
	Error       *oaiError    `xml:"error"`
	ListRecords *listRecords `xml:"ListRecords"`
}

type oaiError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

func (e oaiError) Error() string {
	return fmt.Sprintf("OAI-PMH error (%s): %s", e.Code, e.Message)
}

type listRecords struct {
	Records         []record `xml:"record"`
	ResumptionToken string   `xml:"resumptionToken"`
}

type record struct {
	Header struct {
		Identifier string `xml:"identifier"`
		Status     string `xml:"status,attr"`
	} `xml:"header"`
	Metadata struct {
		MARC *sources.MARCXML `xml:"record"`
	} `xml:"metadata"`
}

// Source harvests one OAI-PMH set.
type Source struct {
	cfg    config.OAI
	client *resty.Client
	logger *slog.Logger
}

// New builds a Source.
func New(cfg config.OAI, client *resty.Client, logger *slog.Logger) *Source {
	return &Source{cfg: cfg, client: client, logger: logging.NewComponentLogger(logger, "oai")}
}

func (s *Source) Name() string { return Name }

// Harvest issues ListRecords and follows resumption tokens until the server
// returns an empty token. Deleted records and records without a usable year
// are skipped.
func (s *Source) Harvest(ctx context.Context) ([]records.Candidate, error) {
	params := map[string]string{
		"verb":           "ListRecords",
		"metadataPrefix": s.cfg.MetadataPrefix,
	}
	if s.cfg.Set != "" {
		params["set"] = s.cfg.Set
	}

	var out []records.Candidate
	seenTokens := map[string]bool{}
	for page := 1; ; page++ {
		payload, err := s.fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			break
		}
		skipped := 0
		for _, rec := range payload.Records {
			cand, ok := candidate(rec)
			if !ok {
				skipped++
				continue
			}
			out = append(out, cand)
		}
		s.logger.Debug("oai page harvested",
			logging.Int("page", page),
			logging.Int("records", len(payload.Records)),
			logging.Int("skipped", skipped),
		)

		token := payload.ResumptionToken
		if token == "" || seenTokens[token] {
			break
		}
		seenTokens[token] = true
		params = map[string]string{"verb": "ListRecords", "resumptionToken": token}
	}
	return out, nil
}

// fetch returns nil without error when the server reports noRecordsMatch.
func (s *Source) fetch(ctx context.Context, params map[string]string) (*listRecords, error) {
	res, err := s.client.R().SetContext(ctx).SetQueryParams(params).Get(s.cfg.BaseURL)
	if err := sources.CheckResponse(Name, "ListRecords", res, err); err != nil {
		return nil, err
	}
	var payload response
	if err := xml.NewDecoder(bytes.NewReader(res.Body())).Decode(&payload); err != nil {
		return nil, sources.Wrap(Name, "ListRecords", "decode response", err)
	}
	if payload.Error != nil {
		if payload.Error.Code == codeNoRecords {
			return nil, nil
		}
		return nil, sources.Wrap(Name, "ListRecords", "", *payload.Error)
	}
	if payload.ListRecords == nil {
		return nil, sources.Wrap(Name, "ListRecords", "response has no ListRecords element", nil)
	}
	return payload.ListRecords, nil
}

func candidate(rec record) (records.Candidate, bool) {
	if rec.Header.Status == "deleted" || rec.Metadata.MARC == nil {
		return records.Candidate{}, false
	}
	marc := rec.Metadata.MARC.Record()
	year := sources.FirstYear(marc.PublicationDate() + " " + marc.Subfield("260", "c"))
	if year == 0 {
		return records.Candidate{}, false
	}
	return records.Candidate{
		Title:         marc.Title(),
		Author:        marc.Author(),
		YearPublished: year,
	}, true
}
