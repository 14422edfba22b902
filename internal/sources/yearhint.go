package sources

import (
	"regexp"
	"strconv"
)

// catalogueYear matches 1700-2029, the span catalogues use for dates in scope.
var catalogueYear = regexp.MustCompile(`\b(17\d{2}|18\d{2}|19\d{2}|20[0-2]\d)\b`)

var anyYear = regexp.MustCompile(`\d{4}`)

// FirstYear returns the first plausible publication year in free text, or 0.
// It is a best-effort heuristic and happily picks up page counts or
// shelf marks that look like years.
func FirstYear(text string) int {
	m := catalogueYear.FindString(text)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

// FirstDigits returns the first run of four digits in text, or 0.
func FirstDigits(text string) int {
	m := anyYear.FindString(text)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

// LeadingYear reads the year of an ISO-8601 date such as
// "1840-01-01T00:00:00Z", falling back to FirstDigits.
func LeadingYear(value string) int {
	if len(value) >= 4 {
		if year, err := strconv.Atoi(value[:4]); err == nil && year > 0 {
			return year
		}
	}
	return FirstDigits(value)
}
