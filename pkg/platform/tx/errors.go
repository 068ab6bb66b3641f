package tx

import (
	"context"
	"errors"

	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/sentinel"
)

// DomainError maps the error of a failed unit of work onto the domain
// taxonomy. Domain errors raised inside fn pass through unchanged. Unique
// violations become conflictMsg, deadline expiry a timeout, and anything
// else an opaque transaction failure.
func DomainError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, conflictMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "the operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeTransaction, "the operation could not be completed")
	}
}
