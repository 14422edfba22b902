package sources

import (
	"context"
	"log/slog"
	"strings"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/scope"
)

// Source harvests raw candidate records from one upstream system.
type Source interface {
	Name() string
	Harvest(ctx context.Context) ([]records.Candidate, error)
}

// Policy carries the per-source decisions the pipeline applies after harvest.
type Policy struct {
	RequireAuthor bool
	Order         records.SortOrder
}

// PolicyFrom converts configured source settings into a Policy.
func PolicyFrom(settings config.SourcePolicy) (Policy, error) {
	primary, err := records.ParseYearField(settings.PrimaryYear)
	if err != nil {
		return Policy{}, err
	}
	return Policy{RequireAuthor: settings.RequireAuthor, Order: records.OrderFor(primary)}, nil
}

// Batch is the outcome of Collect.
type Batch struct {
	Records  []records.Record
	Rejected map[string]int
}

// RejectedTotal sums rejections across reasons.
func (b Batch) RejectedTotal() int {
	total := 0
	for _, n := range b.Rejected {
		total += n
	}
	return total
}

// Collect filters and normalizes candidates. Rejected candidates are logged
// at debug level and dropped.
func Collect(cands []records.Candidate, policy Policy, filter scope.Filter, logger *slog.Logger) Batch {
	if logger == nil {
		logger = logging.NewNop()
	}
	batch := Batch{Records: make([]records.Record, 0, len(cands)), Rejected: map[string]int{}}
	for _, cand := range cands {
		rec, err := accept(cand, policy, filter)
		if err != nil {
			reason := records.RejectionReason(err)
			batch.Rejected[reason]++
			logger.Debug("candidate rejected",
				logging.String(logging.FieldReason, reason),
				logging.String("title", strings.TrimSpace(cand.Title)),
				logging.String("author", strings.TrimSpace(cand.Author)),
			)
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch
}

func accept(cand records.Candidate, policy Policy, filter scope.Filter) (records.Record, error) {
	if !filter.Candidate(cand) {
		return records.Record{}, records.Reject(records.ReasonOutOfScope)
	}
	if policy.RequireAuthor && records.CleanAuthor(cand.Author) == "" {
		return records.Record{}, records.Reject(records.ReasonEmptyAuthor)
	}
	return records.Normalize(cand)
}
