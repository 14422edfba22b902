package sources

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUpstream marks network and parse failures inside a source adapter.
var ErrUpstream = errors.New("upstream error")

// Wrap tags err with ErrUpstream and the source/operation that failed.
func Wrap(source, operation, message string, err error) error {
	parts := make([]string, 0, 3)
	for _, part := range []string{source, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "harvest failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, detail, err)
	}
	return fmt.Errorf("%w: %s", ErrUpstream, detail)
}
