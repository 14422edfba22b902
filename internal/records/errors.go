package records

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks candidates that are missing a required field.
var ErrMalformedRecord = errors.New("malformed record")

// Rejection reasons reported by Normalize and adapter policies.
const (
	ReasonEmptyTitle  = "empty_title"
	ReasonEmptyAuthor = "empty_author"
	ReasonOutOfScope  = "out_of_scope"
)

// RejectedError describes why a candidate did not become a Record.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrMalformedRecord
}

// Reject builds a RejectedError for the given reason.
func Reject(reason string) error {
	return &RejectedError{Reason: reason}
}

// RejectionReason extracts the reason from a rejection error, or "" when err
// is not a rejection.
func RejectionReason(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason
	}
	return ""
}
