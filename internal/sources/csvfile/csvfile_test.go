package csvfile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ukrlit/internal/records"
	"ukrlit/internal/sources"
	"ukrlit/internal/sources/csvfile"
	"ukrlit/internal/testsupport"
)

func TestHarvestReadsExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikidata_ukr_lit.csv")
	testsupport.WriteCSV(t, path, "work,title,author,year_written",
		"Q1,Кобзар,Тарас Шевченко,1838.0",
		"Q2,Енеїда,Іван Котляревський,",
	)

	src := csvfile.New(path, nil)
	require.Equal(t, "csv", src.Name())
	got, err := src.Harvest(context.Background())
	require.NoError(t, err)

	want := []records.Candidate{
		{Title: "Кобзар", Author: "Тарас Шевченко", YearWritten: 1838},
		{Title: "Енеїда", Author: "Іван Котляревський"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestHarvestMissingFileIsUpstream(t *testing.T) {
	_, err := csvfile.New(filepath.Join(t.TempDir(), "absent.csv"), nil).Harvest(context.Background())
	require.ErrorIs(t, err, sources.ErrUpstream)
}

func TestHarvestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	testsupport.WriteCSV(t, path, "title,year_written", "Кобзар,1838")

	_, err := csvfile.New(path, nil).Harvest(context.Background())
	require.ErrorIs(t, err, sources.ErrUpstream)
	require.ErrorContains(t, err, `missing column "author"`)
}
