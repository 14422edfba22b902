// Package scope holds the year-window and genre predicate every source
// adapter applies before handing candidates to the normalizer.
package scope

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ukrlit/internal/records"
)

const (
	DefaultYearMin = 1700
	DefaultYearMax = 2024
)

// DefaultExclude lists title fragments that mark drama and essays.
var DefaultExclude = []string{"п'єс", "п’єс", "драма", "комедія", "трагедія", "есе"}

// Filter decides whether a candidate belongs to the fiction/poetry corpus.
type Filter struct {
	YearMin int
	YearMax int
	Exclude []string
}

// Default returns the 1700-2024 window with the drama/essay exclusions.
func Default() Filter {
	return Filter{
		YearMin: DefaultYearMin,
		YearMax: DefaultYearMax,
		Exclude: append([]string(nil), DefaultExclude...),
	}
}

// InScope reports whether a record with this year and title should be kept.
// An unknown year (zero) never excludes a record on its own.
func (f Filter) InScope(year int, title string) bool {
	if f.excludedTitle(title) {
		return false
	}
	return year <= 0 || f.inWindow(year)
}

// Candidate keeps c when its title passes the genre check and either no year
// is known or at least one known year falls inside the window.
func (f Filter) Candidate(c records.Candidate) bool {
	if f.excludedTitle(c.Title) {
		return false
	}
	written, published := c.YearWritten > 0, c.YearPublished > 0
	if !written && !published {
		return true
	}
	return (written && f.inWindow(c.YearWritten)) || (published && f.inWindow(c.YearPublished))
}

func (f Filter) inWindow(year int) bool {
	if f.YearMin > 0 && year < f.YearMin {
		return false
	}
	if f.YearMax > 0 && year > f.YearMax {
		return false
	}
	return true
}

func (f Filter) excludedTitle(title string) bool {
	if len(f.Exclude) == 0 {
		return false
	}
	// Casers carry state; build one per call.
	lower := cases.Lower(language.Ukrainian)
	lowered := lower.String(title)
	for _, fragment := range f.Exclude {
		fragment = lower.String(strings.TrimSpace(fragment))
		if fragment != "" && strings.Contains(lowered, fragment) {
			return true
		}
	}
	return false
}
