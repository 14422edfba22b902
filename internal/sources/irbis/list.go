package irbis

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

// ListName identifies the preitem list scraper.
const ListName = "irbis"

var (
	sessionToken  = regexp.MustCompile(`Z21ID=([^&"'>]+)`)
	ordinalCell   = regexp.MustCompile(`^\d+\.`)
	ordinalMarker = regexp.MustCompile(`<b>(\d+)\.</b>`)
	hiddenStart   = regexp.MustCompile(`name="S21STN"\s+value="(\d+)"`)
	recordLink    = regexp.MustCompile(`S21FMT=fullwebr|/dlib/item/`)
	yearCell      = regexp.MustCompile(`^\d{4}$`)
)

// ListSource pages through IRBIS "preitem" result lists.
type ListSource struct {
	cfg    config.IRBIS
	client *resty.Client
	logger *slog.Logger
}

// NewListSource builds a ListSource.
func NewListSource(cfg config.IRBIS, client *resty.Client, logger *slog.Logger) *ListSource {
	return &ListSource{cfg: cfg, client: client, logger: logging.NewComponentLogger(logger, "irbis")}
}

func (s *ListSource) Name() string { return ListName }

// Harvest fetches the start page, then POSTs the search form with an
// advancing S21STN until a page yields no rows or the start index stops
// moving forward.
func (s *ListSource) Harvest(ctx context.Context) ([]records.Candidate, error) {
	first, err := fetch(ctx, s.client, ListName, s.cfg.StartURL)
	if err != nil {
		return nil, err
	}
	out := extractHits(first.doc)
	token := ""
	if m := sessionToken.FindStringSubmatch(first.html); m != nil {
		token = m[1]
	}
	s.logger.Debug("start page scraped", logging.Int("rows", len(out)), logging.Bool("session_token", token != ""))

	start := nextStart(first.html, 0)
	if start == 0 {
		start = 1
	}
	for start <= s.cfg.MaxStart {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.client.R().SetContext(ctx).SetFormData(s.form(start, token)).Post(s.cfg.FormURL)
		if err := sources.CheckResponse(ListName, "post S21STN="+strconv.Itoa(start), res, err); err != nil {
			return nil, err
		}
		pg, err := newPage(res, ListName)
		if err != nil {
			return nil, err
		}
		hits := extractHits(pg.doc)
		if len(hits) == 0 {
			break
		}
		out = append(out, hits...)

		next := nextStart(pg.html, start)
		s.logger.Debug("list page scraped", logging.Int("start", start), logging.Int("rows", len(hits)), logging.Int("next_start", next))
		if next <= start {
			break
		}
		start = next
	}
	return out, nil
}

func (s *ListSource) form(start int, token string) map[string]string {
	return map[string]string{
		"C21COM": "S",
		"P21DBN": s.cfg.Database,
		"I21DBN": s.cfg.Database,
		"S21FMT": "preitem",
		"S21ALL": s.cfg.Query,
		"S21CNR": strconv.Itoa(s.cfg.PageSize),
		"S21REF": "10",
		"S21SRD": "UP",
		"S21SRW": "dz",
		"S21STN": strconv.Itoa(start),
		"Z21ID":  token,
	}
}

// extractHits reads every numbered record row of a preitem list page.
func extractHits(doc *goquery.Document) []records.Candidate {
	var out []records.Candidate
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		ordinal := tr.Find("b").First()
		if ordinal.Length() == 0 || !ordinalCell.MatchString(strings.TrimSpace(ordinal.Text())) {
			return
		}
		link := tr.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return recordLink.MatchString(a.AttrOr("href", ""))
		}).First()
		if link.Length() == 0 {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		cand := records.Candidate{
			Title:  title,
			Author: strings.TrimSpace(tr.Find("em").First().Text()),
		}
		year := tr.Find("span").FilterFunction(func(_ int, span *goquery.Selection) bool {
			return yearCell.MatchString(strings.TrimSpace(span.Text()))
		}).First()
		if year.Length() > 0 {
			cand.YearPublished, _ = strconv.Atoi(strings.TrimSpace(year.Text()))
		}
		out = append(out, cand)
	})
	return out
}

// nextStart picks the record index the following page starts at: one past
// the highest ordinal on the page, else the lowest hidden S21STN beyond
// current. It returns 0 when neither is found.
func nextStart(pageHTML string, current int) int {
	highest := 0
	for _, m := range ordinalMarker.FindAllStringSubmatch(pageHTML, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	if highest > 0 {
		return highest + 1
	}
	next := 0
	for _, m := range hiddenStart.FindAllStringSubmatch(pageHTML, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > current && (next == 0 || n < next) {
			next = n
		}
	}
	return next
}
