package irbis

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// ElibName identifies the digital-library scraper.
const ElibName = "elib"

var (
	nextLink    = regexp.MustCompile(`(?i)Наступн|Далі`)
	titleLabel  = regexp.MustCompile(`(?i)Назва`)
	authorLabel = regexp.MustCompile(`(?i)Автор`)
	dateLabel   = regexp.MustCompile(`(?i)Дата`)

	errNoTitle = errors.New("record page has no title")
)

// ElibSource walks digital-library result pages and reads every full record.
type ElibSource struct {
	cfg    config.Elib
	client *resty.Client
	logger *slog.Logger
}

// NewElibSource builds an ElibSource.
func NewElibSource(cfg config.Elib, client *resty.Client, logger *slog.Logger) *ElibSource {
	return &ElibSource{cfg: cfg, client: client, logger: logging.NewComponentLogger(logger, "elib")}
}

func (s *ElibSource) Name() string { return ElibName }

// Harvest follows "next" links from the start URL. A failing result page
// aborts the harvest; a failing record page is logged and skipped.
func (s *ElibSource) Harvest(ctx context.Context) ([]records.Candidate, error) {
	var out []records.Candidate
	visited := map[string]bool{}
	pageURL := s.cfg.StartURL
	for pages := 0; pageURL != "" && pages < s.cfg.MaxPages; pages++ {
		if visited[pageURL] {
			break
		}
		visited[pageURL] = true

		pg, err := fetch(ctx, s.client, ElibName, pageURL)
		if err != nil {
			return nil, err
		}
		links := recordLinks(pg)
		s.logger.Debug("result page scanned", logging.String("url", pageURL), logging.Int("records", len(links)))
		for _, link := range links {
			cand, err := s.record(ctx, link)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logging.WarnWithContext(s.logger, "record page skipped", "record_skipped",
					logging.String("url", link),
					logging.Error(err),
					logging.String(logging.FieldImpact, "record missing from this harvest"),
				)
				continue
			}
			out = append(out, cand)
		}
		pageURL = nextPage(pg)
	}
	return out, nil
}

func recordLinks(pg *page) []string {
	var links []string
	seen := map[string]bool{}
	pg.doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, "S21FMT=fullwebr") {
			return
		}
		if abs, ok := pg.resolve(href); ok && !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links
}

func nextPage(pg *page) string {
	var next string
	pg.doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !nextLink.MatchString(a.Text()) {
			return true
		}
		next, _ = pg.resolve(a.AttrOr("href", ""))
		return false
	})
	return next
}

func (s *ElibSource) record(ctx context.Context, link string) (records.Candidate, error) {
	pg, err := fetch(ctx, s.client, ElibName, link)
	if err != nil {
		return records.Candidate{}, err
	}
	return parseRecordPage(pg.doc)
}

// labelValue returns the text of the labelled block with the label removed.
// Table layouts put the value in the next cell, which is used when the block
// holds nothing but the label.
func labelValue(doc *goquery.Document, label *regexp.Regexp, literal string) (string, bool) {
	block := labelBlock(doc, label)
	if block == nil {
		return "", false
	}
	value := strings.TrimSpace(strings.ReplaceAll(joinedText(block), literal, ""))
	if value == "" {
		value = strings.TrimSpace(joinedText(block.Next()))
	}
	return value, true
}

// parseRecordPage reads a fullwebr page. The title is the first <h1> unless a
// "Назва(и):" block exists; the year comes from the "Дата" block or, failing
// that, the first plausible year anywhere on the page.
func parseRecordPage(doc *goquery.Document) (records.Candidate, error) {
	var cand records.Candidate
	cand.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	if title, ok := labelValue(doc, titleLabel, "Назва(и):"); ok {
		cand.Title = title
	}
	if author, ok := labelValue(doc, authorLabel, "Автор(и):"); ok {
		cand.Author = author
	}
	if block := labelBlock(doc, dateLabel); block != nil {
		cand.YearPublished = sources.FirstYear(joinedText(block))
	}
	if cand.YearPublished == 0 {
		cand.YearPublished = sources.FirstYear(joinedText(doc.Find("body")))
	}
	if cand.Title == "" {
		return records.Candidate{}, errNoTitle
	}
	return cand, nil
}
