package irbis_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"ukrlit/internal/records"
	"ukrlit/internal/sources"
	"ukrlit/internal/sources/irbis"
	"ukrlit/internal/testsupport"
)

type hit struct {
	n            int
	title, autor string
	year         string
}

func listPage(token string, hits ...hit) string {
	var b strings.Builder
	b.WriteString(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=windows-1251"></head><body><table>`)
	for _, h := range hits {
		fmt.Fprintf(&b, `<tr><td><b>%d.</b></td><td><a href="elib.exe?Z21ID=%s&S21FMT=fullwebr&S21STN=%d">%s</a>`, h.n, token, h.n, h.title)
		if h.autor != "" {
			fmt.Fprintf(&b, ` <em>%s</em>`, h.autor)
		}
		if h.year != "" {
			fmt.Fprintf(&b, ` <span>%s</span>`, h.year)
		}
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`<tr><td><b>Увага:</b> службовий рядок</td></tr></table></body></html>`)
	return b.String()
}

func writeCP1251(t *testing.T, w http.ResponseWriter, body string) {
	encoded, err := charmap.Windows1251.NewEncoder().String(body)
	if err != nil {
		t.Errorf("encode page: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(encoded))
}

func TestListSourcePagesWithSessionToken(t *testing.T) {
	var (
		mu     sync.Mutex
		posted []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/irbis/start":
			writeCP1251(t, w, listPage("tok42",
				hit{1, "Кобзар", "Шевченко Т.", "1840"},
				hit{2, "Енеїда", "Котляревський І.", ""},
			))
		case r.Method == http.MethodPost && r.URL.Path == "/irbis/form":
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.PostForm.Get("Z21ID") != "tok42" || r.PostForm.Get("S21ALL") != "(<.>J=ukr<.>)" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			start := r.PostForm.Get("S21STN")
			mu.Lock()
			posted = append(posted, start)
			mu.Unlock()
			switch start {
			case "3":
				writeCP1251(t, w, listPage("tok42", hit{3, "Лісова пісня", "Леся Українка", "1912"}))
			default:
				writeCP1251(t, w, listPage("tok42"))
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithEndpoint(server.URL))
	client := sources.NewHTTPClient(sources.HTTPOptionsFrom(cfg.Harvest, nil))
	src := irbis.NewListSource(cfg.IRBIS, client, nil)
	require.Equal(t, "irbis", src.Name())

	got, err := src.Harvest(context.Background())
	require.NoError(t, err)

	want := []records.Candidate{
		{Title: "Кобзар", Author: "Шевченко Т.", YearPublished: 1840},
		{Title: "Енеїда", Author: "Котляревський І."},
		{Title: "Лісова пісня", Author: "Леся Українка", YearPublished: 1912},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"3", "4"}, posted)
}

func TestListSourceStartFailureIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithEndpoint(server.URL))
	client := sources.NewHTTPClient(sources.HTTPOptionsFrom(cfg.Harvest, nil))
	_, err := irbis.NewListSource(cfg.IRBIS, client, nil).Harvest(context.Background())
	require.ErrorIs(t, err, sources.ErrUpstream)
}

func TestListSourceStopsAtMaxStart(t *testing.T) {
	var posts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		writeCP1251(t, w, listPage("", hit{1, "Думи", "", ""}, hit{2, "Поема", "", ""}))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithEndpoint(server.URL))
	cfg.IRBIS.MaxStart = 2
	client := sources.NewHTTPClient(sources.HTTPOptionsFrom(cfg.Harvest, nil))
	got, err := irbis.NewListSource(cfg.IRBIS, client, nil).Harvest(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Zero(t, posts.Load())
}
