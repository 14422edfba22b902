package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ukrlit/internal/logging"
	"ukrlit/internal/records"
	"ukrlit/internal/scope"
	"ukrlit/internal/sources"
)

// Store is the persistence contract a run needs.
type Store interface {
	Name() string
	Load(ctx context.Context) ([]records.Record, error)
	Save(ctx context.Context, recs []records.Record) error
}

// Options wires one run.
type Options struct {
	Source sources.Source
	Policy sources.Policy
	Filter scope.Filter
	Store  Store
	Logger *slog.Logger
}

// Summary reports what a run did.
type Summary struct {
	RunID      string
	Source     string
	Store      string
	Harvested  int
	Accepted   int
	Rejected   map[string]int
	Existing   int
	Added      int
	Duplicates int
	Total      int
	Duration   time.Duration
}

// RejectedTotal sums rejections across reasons.
func (s Summary) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// Run executes the pipeline. The returned summary is partially filled when
// an error occurs after the store was loaded.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Source == nil {
		return Summary{}, errors.New("harvest source is required")
	}
	if opts.Store == nil {
		return Summary{}, errors.New("harvest store is required")
	}
	started := time.Now()
	summary := Summary{
		RunID:  uuid.NewString(),
		Source: opts.Source.Name(),
		Store:  opts.Store.Name(),
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "harvest").With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldSource, summary.Source),
		logging.String(logging.FieldStore, summary.Store),
	)

	existing, err := opts.Store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load store %s: %w", summary.Store, err)
	}
	summary.Existing = len(existing)
	logger.Info("harvest started",
		logging.String(logging.FieldEventType, "harvest_start"),
		logging.Int("existing_count", summary.Existing),
	)

	cands, err := opts.Source.Harvest(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "harvest failed", "harvest_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "store left unchanged; rerun once the upstream recovers"),
		)
		return summary, err
	}
	summary.Harvested = len(cands)

	batch := sources.Collect(cands, opts.Policy, opts.Filter, logger)
	summary.Accepted = len(batch.Records)
	summary.Rejected = batch.Rejected

	merged := records.Merge(existing, batch.Records, opts.Policy.Order)
	summary.Added = merged.Added
	summary.Duplicates = merged.Duplicates
	summary.Total = len(merged.Records)

	if err := opts.Store.Save(ctx, merged.Records); err != nil {
		return summary, fmt.Errorf("save store %s: %w", summary.Store, err)
	}
	summary.Duration = time.Since(started)

	logger.Info("records merged",
		logging.String(logging.FieldEventType, "harvest_complete"),
		logging.Int("harvested_count", summary.Harvested),
		logging.Int("accepted_count", summary.Accepted),
		logging.Int("rejected_count", summary.RejectedTotal()),
		logging.Int("added_count", summary.Added),
		logging.Int("duplicate_count", summary.Duplicates),
		logging.Int("total_count", summary.Total),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}
