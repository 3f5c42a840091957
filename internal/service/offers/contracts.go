//go:generate mockgen -source=contracts.go -destination=offers_mocks_test.go -package=offers_test

package offers

import (
	"context"

	"food-rescue-matching/internal/domain"
)

// Notifier delivers push notifications to assignees.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Publisher announces assignment status changes to the triggers.
type Publisher interface {
	PublishTransition(ctx context.Context, t domain.Transition) error
}
