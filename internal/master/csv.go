package master

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ukrlit/internal/records"
)

// Column names of the persisted CSV, in write order.
const (
	ColumnTitle         = "title"
	ColumnAuthor        = "author"
	ColumnYearWritten   = "year_written"
	ColumnYearPublished = "year_published"

	// legacyKeyColumn was written by earlier exports; it is recomputed, so it is skipped.
	legacyKeyColumn = "work_key"
)

// Header is the exact column set of the persisted store.
var Header = []string{ColumnTitle, ColumnAuthor, ColumnYearWritten, ColumnYearPublished}

// ReadOption adjusts how ReadCSV treats its input.
type ReadOption func(*readOptions)

type readOptions struct {
	lenient bool
}

// Lenient accepts unknown columns and missing year columns. Importers use it
// for third-party exports; the master store itself is always read strictly.
func Lenient() ReadOption {
	return func(o *readOptions) { o.lenient = true }
}

// ReadCSV decodes a four-column record CSV. An empty input yields no records.
func ReadCSV(r io.Reader, opts ...ReadOption) ([]records.Record, error) {
	var options readOptions
	for _, opt := range opts {
		opt(&options)
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header, options.lenient)
	if err != nil {
		return nil, err
	}

	var out []records.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := decodeRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// columnIndex maps each known column to its position, -1 when absent.
func columnIndex(header []string, lenient bool) (map[string]int, error) {
	index := map[string]int{
		ColumnTitle:         -1,
		ColumnAuthor:        -1,
		ColumnYearWritten:   -1,
		ColumnYearPublished: -1,
	}
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		pos, known := index[name]
		switch {
		case known && pos >= 0:
			return nil, fmt.Errorf("duplicate column %q", name)
		case known:
			index[name] = i
		case name == legacyKeyColumn || lenient:
		default:
			return nil, fmt.Errorf("unexpected column %q", name)
		}
	}
	required := Header
	if lenient {
		required = []string{ColumnTitle, ColumnAuthor}
	}
	for _, name := range required {
		if index[name] < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return index, nil
}

func decodeRow(row []string, index map[string]int) (records.Record, error) {
	field := func(name string) string {
		if pos := index[name]; pos >= 0 && pos < len(row) {
			return row[pos]
		}
		return ""
	}
	written, err := ParseYear(field(ColumnYearWritten))
	if err != nil {
		return records.Record{}, fmt.Errorf("%s: %w", ColumnYearWritten, err)
	}
	published, err := ParseYear(field(ColumnYearPublished))
	if err != nil {
		return records.Record{}, fmt.Errorf("%s: %w", ColumnYearPublished, err)
	}
	return records.Record{
		Title:         field(ColumnTitle),
		Author:        field(ColumnAuthor),
		YearWritten:   written,
		YearPublished: published,
	}, nil
}

// ParseYear decodes a nullable year cell. Empty means unknown; a trailing
// ".0" left by float-typed exports is accepted.
func ParseYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if whole, frac, ok := strings.Cut(value, "."); ok && strings.Trim(frac, "0") == "" {
		value = whole
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", value)
	}
	if year < 0 {
		return 0, nil
	}
	return year, nil
}

func formatYear(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// WriteCSV encodes recs with the canonical header. Unknown years are empty.
func WriteCSV(w io.Writer, recs []records.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(Header))
	for _, rec := range recs {
		row[0] = rec.Title
		row[1] = rec.Author
		row[2] = formatYear(rec.YearWritten)
		row[3] = formatYear(rec.YearPublished)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
