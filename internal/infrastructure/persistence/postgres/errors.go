package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/turtacn/coursehub/pkg/errors"
)

// translateError maps driver errors onto AppErrors. Context errors pass
// through unchanged so callers can tell cancellation from failure.
func translateError(err error, conflictDescription string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ErrConflict(conflictDescription).WithCause(err)
	default:
		return errors.ErrDatabaseOperation(err)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}
