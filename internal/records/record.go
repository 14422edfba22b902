package records

// Candidate is a raw row produced by a source adapter before normalization.
type Candidate struct {
	Title         string
	Author        string
	YearWritten   int
	YearPublished int
}

// Record is a normalized bibliographic record as persisted in the master store.
type Record struct {
	Title         string
	Author        string
	YearWritten   int
	YearPublished int
}

// Key returns the identity key used for deduplication.
func (r Record) Key() string {
	return IdentityKey(r.Author, r.Title)
}

// Year returns the value of the requested year field (zero when unknown).
func (r Record) Year(field YearField) int {
	switch field {
	case YearWritten:
		return r.YearWritten
	case YearPublished:
		return r.YearPublished
	default:
		return 0
	}
}

// Candidate converts the record back into adapter shape, which importers use
// to feed previously exported tables through Normalize again.
func (r Record) Candidate() Candidate {
	return Candidate{
		Title:         r.Title,
		Author:        r.Author,
		YearWritten:   r.YearWritten,
		YearPublished: r.YearPublished,
	}
}

func knownYear(year int) int {
	if year <= 0 {
		return 0
	}
	return year
}
