package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ukrlit/internal/master"
	"ukrlit/internal/records"
	"ukrlit/internal/sources"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			if hint := errorHint(err); hint != "" {
				fmt.Fprintln(os.Stderr, "hint:", hint)
			}
		}
		os.Exit(1)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, master.ErrStaleTable):
		return "the csv was saved but the sqlite table is out of date; fix the sqlite path and rerun to rebuild it"
	case errors.Is(err, master.ErrPersistence):
		return "the store could not be read or written; check the csv and sqlite paths"
	case errors.Is(err, sources.ErrUpstream):
		return "the upstream source failed; the store was left unchanged, retry later or raise harvest.retries"
	case errors.Is(err, records.ErrMalformedRecord):
		return "a record is missing a required field"
	default:
		return ""
	}
}
