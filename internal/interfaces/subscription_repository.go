package interfaces

import (
	"context"

	"birthday-server/internal/models"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription edge persistence.
type SubscriptionRepository interface {
	// CreateSubscription inserts a new edge. Returns
	// models.ErrAlreadySubscribed when the (subscriber, target) pair already
	// exists, including the case where a concurrent subscribe won the race.
	CreateSubscription(ctx context.Context, sub *models.Subscription) error

	// GetSubscription retrieves the edge for the pair.
	// Returns models.ErrSubscriptionNotFound if no edge exists.
	GetSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*models.Subscription, error)

	// DeleteSubscription removes the edge by its ID.
	// Returns models.ErrSubscriptionNotFound if nothing was deleted.
	DeleteSubscription(ctx context.Context, id uuid.UUID) error

	// ListTargetsBySubscriber returns the users the subscriber follows, in
	// insertion order.
	ListTargetsBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error)
}
