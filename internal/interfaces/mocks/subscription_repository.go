package mocks

import (
	"context"

	"birthday-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock SubscriptionRepository
type SubscriptionRepository struct {
	mock.Mock
}

func (m *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubscriptionRepository) GetSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, subscriberID, targetID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *SubscriptionRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SubscriptionRepository) ListTargetsBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, subscriberID)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}
