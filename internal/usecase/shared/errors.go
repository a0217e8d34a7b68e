package shared

import (
	"context"

	"restaurant-console/internal/infra"
	"restaurant-console/internal/pkg/errs"
)

// MarkStoreError classifies an error coming back from a store or directory.
// notFound is the sentinel to use for a missing record.
func MarkStoreError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errs.Is(err, context.Canceled), errs.Is(err, context.DeadlineExceeded):
		return errs.Mark(err, errs.ErrOperationCanceled)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindVersionConflict):
		return errs.Mark(err, errs.ErrConcurrentModification)
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, errs.ErrRestaurantNotFound)
	case infra.IsKind(err, infra.KindDuplicateKey):
		return errs.Mark(err, errs.ErrDuplicateReservation)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

// CheckContext reports a done context as an operation cancellation.
func CheckContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.Mark(err, errs.ErrOperationCanceled)
	}
	return nil
}
