package irbis

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"ukrlit/internal/sources"
)

// page is a fetched and decoded result or record page.
type page struct {
	url  *url.URL
	html string
	doc  *goquery.Document
}

func newPage(res *resty.Response, source string) (*page, error) {
	text, err := sources.DecodeHTML(res.Body(), res.Header().Get("Content-Type"))
	if err != nil {
		return nil, sources.Wrap(source, "decode page", res.Request.URL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(text))
	if err != nil {
		return nil, sources.Wrap(source, "parse page", res.Request.URL, err)
	}
	pageURL, err := url.Parse(res.Request.URL)
	if err != nil {
		return nil, sources.Wrap(source, "parse page url", res.Request.URL, err)
	}
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		pageURL = raw.Request.URL
	}
	return &page{url: pageURL, html: text, doc: doc}, nil
}

func fetch(ctx context.Context, client *resty.Client, source, rawURL string) (*page, error) {
	res, err := client.R().SetContext(ctx).Get(rawURL)
	if err := sources.CheckResponse(source, "get "+rawURL, res, err); err != nil {
		return nil, err
	}
	return newPage(res, source)
}

// resolve turns an href found on p into an absolute URL.
func (p *page) resolve(href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || href == "" {
		return "", false
	}
	return p.url.ResolveReference(ref).String(), true
}

// labelBlock returns the element whose own text first matches label, in
// document order.
func labelBlock(doc *goquery.Document, label *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("body *").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, node := range sel.Nodes {
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == html.TextNode && label.MatchString(child.Data) {
					found = sel
					return false
				}
			}
		}
		return true
	})
	return found
}

// joinedText concatenates the trimmed text nodes under sel with single spaces.
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
