package records

import (
	"fmt"
	"slices"
	"strings"
)

// YearField selects one of the two year columns.
type YearField string

const (
	YearWritten   YearField = "year_written"
	YearPublished YearField = "year_published"
)

// SortOrder lists the year fields used to order merged output, most
// significant first.
type SortOrder []YearField

// DefaultOrder sorts by year written, then year published.
var DefaultOrder = SortOrder{YearWritten, YearPublished}

// ParseYearField accepts "written", "published" or the full column names.
func ParseYearField(value string) (YearField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "written", string(YearWritten):
		return YearWritten, nil
	case "published", string(YearPublished):
		return YearPublished, nil
	default:
		return "", fmt.Errorf("unknown year field %q", value)
	}
}

// OrderFor puts primary first and the other year field second.
func OrderFor(primary YearField) SortOrder {
	if primary == YearPublished {
		return SortOrder{YearPublished, YearWritten}
	}
	return DefaultOrder
}

// MergeResult is the deduplicated, sorted union of two record sequences.
type MergeResult struct {
	Records []Record
	// Added counts surviving rows that came from the incoming sequence.
	Added int
	// Duplicates counts rows dropped because their key was already taken.
	Duplicates int
}

// Merge concatenates existing and incoming, keeps the first record for each
// identity key, and stable-sorts the survivors by order. Unknown years sort
// after every known year. Existing rows always win a key collision and no
// fields are merged across duplicates.
func Merge(existing, incoming []Record, order SortOrder) MergeResult {
	if len(order) == 0 {
		order = DefaultOrder
	}

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]Record, 0, len(existing)+len(incoming))
	var result MergeResult

	keep := func(recs []Record, fromIncoming bool) {
		for _, rec := range recs {
			key := rec.Key()
			if _, dup := seen[key]; dup {
				result.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
			if fromIncoming {
				result.Added++
			}
		}
	}
	keep(existing, false)
	keep(incoming, true)

	slices.SortStableFunc(out, func(a, b Record) int {
		for _, field := range order {
			if c := compareYears(a.Year(field), b.Year(field)); c != 0 {
				return c
			}
		}
		return 0
	})

	result.Records = out
	return result
}

func compareYears(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}
