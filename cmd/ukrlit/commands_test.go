package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ukrlit/internal/master"
	"ukrlit/internal/sources"
)

const sruPage = `<?xml version="1.0" encoding="UTF-8"?>
<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/"><numberOfRecords>2</numberOfRecords><records>
<record><recordData><record xmlns="http://www.loc.gov/MARC21/slim">
<datafield tag="100" ind1="1" ind2=" "><subfield code="a">Шевченко Т.</subfield></datafield>
<datafield tag="245" ind1="1" ind2="0"><subfield code="a">Кобзар /</subfield></datafield>
<datafield tag="260" ind1=" " ind2=" "><subfield code="c">1840</subfield></datafield>
</record></recordData></record>
<record><recordData><record xmlns="http://www.loc.gov/MARC21/slim">
<datafield tag="245" ind1="1" ind2="0"><subfield code="a">Анонімна збірка</subfield></datafield>
<datafield tag="260" ind1=" " ind2=" "><subfield code="c">1901</subfield></datafield>
</record></recordData></record>
</records></searchRetrieveResponse>`

func TestHarvestSRUThenShow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sru" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sruPage))
	}))
	defer server.Close()
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, []string{"harvest", "sru"}, env.configPath)
	if err != nil {
		t.Fatalf("harvest sru: %v", err)
	}
	requireContains(t, out, "Source sru: 2 candidates, 1 accepted, 1 rejected")
	requireContains(t, out, "empty_author: 1")
	requireContains(t, out, "Added 1 new rows")
	requireContains(t, out, "Saved 1 rows to "+env.masterCSV)

	out, _, err = runCLI(t, []string{"harvest", "sru"}, env.configPath)
	if err != nil {
		t.Fatalf("second harvest: %v", err)
	}
	requireContains(t, out, "Added 0 new rows (1 duplicates dropped)")

	out, _, err = runCLI(t, []string{"show", "--sqlite"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Кобзар")
	requireContains(t, out, "1840")
}

func TestHarvestUpstreamFailureLeavesStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	env := setupCLITestEnv(t, server.URL)

	original := "title,author,year_written,year_published\nЕнеїда,Котляревський І.,1798,\n"
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(env.masterCSV, []byte(original), 0o644); err != nil {
		t.Fatalf("seed csv: %v", err)
	}

	_, _, err := runCLI(t, []string{"harvest", "oai"}, env.configPath)
	if !errors.Is(err, sources.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if hint := errorHint(err); !strings.Contains(hint, "left unchanged") {
		t.Fatalf("unexpected hint %q", hint)
	}
	content, err := os.ReadFile(env.masterCSV)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if string(content) != original {
		t.Fatalf("store was modified:\n%s", content)
	}
}

func TestHarvestMalformedStoreIsFatal(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(env.masterCSV, []byte("title,author\nКобзар,Шевченко Т.\n"), 0o644); err != nil {
		t.Fatalf("seed csv: %v", err)
	}
	_, _, err := runCLI(t, []string{"harvest", "sru"}, env.configPath)
	if !errors.Is(err, master.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestHarvestRejectsUnknownSource(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, _, err := runCLI(t, []string{"harvest", "gopher"}, env.configPath); err == nil {
		t.Fatal("expected unknown source to fail")
	}
}

func TestImportIntoMasterAndDupes(t *testing.T) {
	env := setupCLITestEnv(t, "")
	export := env.baseDir + "/wikidata_export.csv"
	rows := []string{
		"title,author,year_written,year_published",
		"Кобзар,Тарас Шевченко,1838,1840",
		"Кобзарь,Тарас Шевченко,1838,",
		"Лісова пісня,Леся Українка,1911,1912",
		"Лісова пісня,Леся Українка,1911,1912",
	}
	if err := os.WriteFile(export, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	out, _, err := runCLI(t, []string{"import", export}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Source csv: 4 candidates, 4 accepted, 0 rejected")
	requireContains(t, out, "Saved 3 rows")

	out, _, err = runCLI(t, []string{"show", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Кобзар")
	if strings.Contains(out, "Лісова пісня") {
		t.Fatalf("expected --limit 1 to print one row:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"dupes"}, env.configPath)
	if err != nil {
		t.Fatalf("dupes: %v", err)
	}
	requireContains(t, out, "Тарас Шевченко / Кобзарь")

	if _, _, err := runCLI(t, []string{"dupes", "--threshold", "1.5"}, env.configPath); err == nil {
		t.Fatal("expected out-of-range threshold to fail")
	}
}

func TestImportIntoNamedStore(t *testing.T) {
	env := setupCLITestEnv(t, "")
	export := env.baseDir + "/rows.csv"
	if err := os.WriteFile(export, []byte("title,author\nЕнеїда,Котляревський І.\n"), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	out, _, err := runCLI(t, []string{"--store", "wikidata", "import", export}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, fmt.Sprintf("Saved 1 rows to %s/wikidata.csv and table wikidata", env.dataDir))

	if _, _, err := runCLI(t, []string{"--store", "nowhere", "show"}, env.configPath); err == nil {
		t.Fatal("expected unknown store to fail")
	}
}

func TestShowEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, _, err := runCLI(t, []string{"show"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Store master is empty")
}

func TestErrorHintMatchesFailure(t *testing.T) {
	readErr := fmt.Errorf("%w: store master: open csv: denied", master.ErrPersistence)
	staleErr := fmt.Errorf("%w: %w", master.ErrStaleTable, readErr)
	upstreamErr := fmt.Errorf("%w: irbis: 503", sources.ErrUpstream)

	if hint := errorHint(readErr); strings.Contains(hint, "out of date") || strings.Contains(hint, "nothing was changed") {
		t.Fatalf("unexpected read hint %q", hint)
	}
	if hint := errorHint(staleErr); !strings.Contains(hint, "csv was saved") {
		t.Fatalf("unexpected save hint %q", hint)
	}
	if hint := errorHint(upstreamErr); !strings.Contains(hint, "left unchanged") {
		t.Fatalf("unexpected upstream hint %q", hint)
	}
	if hint := errorHint(errors.New("boom")); hint != "" {
		t.Fatalf("expected no hint, got %q", hint)
	}
}
