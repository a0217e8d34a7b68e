package commands

import (
	"context"

	"restaurant-console/internal/domain/notification"
	"restaurant-console/internal/usecase/notify"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock

// Dispatcher is satisfied by *notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, e notification.Event) *notify.Receipt
}
