package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"birthday-server/internal/interfaces"
	"birthday-server/internal/models"

	"go.uber.org/zap"
)

// Compile-time check to ensure subscriptionServiceImpl implements SubscriptionService
var _ SubscriptionService = (*subscriptionServiceImpl)(nil)

// subscriptionServiceImpl implements the SubscriptionService interface.
type subscriptionServiceImpl struct {
	userRepo interfaces.UserRepository
	subRepo  interfaces.SubscriptionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubscriptionService creates a new instance of subscriptionServiceImpl.
func NewSubscriptionService(userRepo interfaces.UserRepository, subRepo interfaces.SubscriptionRepository, logger *zap.Logger) SubscriptionService {
	return &subscriptionServiceImpl{
		userRepo: userRepo,
		subRepo:  subRepo,
		logger:   logger.Named("SubscriptionService"),
		now:      time.Now,
	}
}

// Subscribe adds an edge from the subscriber to the target user.
func (s *subscriptionServiceImpl) Subscribe(ctx context.Context, subscriber *models.User, targetUsername string) (*models.User, error) {
	logFields := []zap.Field{zap.String("subscriberID", subscriber.ID.String()), zap.String("targetUsername", targetUsername)}
	s.logger.Info("Creating subscription", logFields...)

	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Subscribe failed: target user not found", logFields...)
			return nil, models.ErrUserNotFound
		}
		s.logger.Error("Subscribe failed: error getting target user", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}

	_, err = s.subRepo.GetSubscription(ctx, subscriber.ID, target.ID)
	if err == nil {
		s.logger.Warn("Subscribe failed: already subscribed", logFields...)
		return nil, models.ErrAlreadySubscribed
	}
	if !errors.Is(err, models.ErrSubscriptionNotFound) {
		s.logger.Error("Subscribe failed: error checking existing subscription", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}

	sub := &models.Subscription{
		SubscriberID: subscriber.ID,
		TargetID:     target.ID,
	}
	if err := s.subRepo.CreateSubscription(ctx, sub); err != nil {
		// Concurrent subscribes for the same pair surface the same
		// ErrAlreadySubscribed via the unique-violation mapping.
		if !errors.Is(err, models.ErrAlreadySubscribed) {
			s.logger.Error("Subscribe failed: error creating subscription", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("Subscription created", append(logFields, zap.String("subscriptionID", sub.ID.String()))...)
	return target, nil
}

// Unsubscribe removes the edge to the target user.
func (s *subscriptionServiceImpl) Unsubscribe(ctx context.Context, subscriber *models.User, targetUsername string) (*models.User, error) {
	logFields := []zap.Field{zap.String("subscriberID", subscriber.ID.String()), zap.String("targetUsername", targetUsername)}
	s.logger.Info("Removing subscription", logFields...)

	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Unsubscribe failed: target user not found", logFields...)
			return nil, models.ErrUserNotFound
		}
		s.logger.Error("Unsubscribe failed: error getting target user", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}

	sub, err := s.subRepo.GetSubscription(ctx, subscriber.ID, target.ID)
	if err != nil {
		if errors.Is(err, models.ErrSubscriptionNotFound) {
			s.logger.Warn("Unsubscribe failed: no subscription for pair", logFields...)
			return nil, models.ErrSubscriptionNotFound
		}
		s.logger.Error("Unsubscribe failed: error getting subscription", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := s.subRepo.DeleteSubscription(ctx, sub.ID); err != nil {
		if !errors.Is(err, models.ErrSubscriptionNotFound) {
			s.logger.Error("Unsubscribe failed: error deleting subscription", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("Subscription removed", logFields...)
	return target, nil
}

// ListSubscriptions returns the users the subscriber follows, in insertion order.
func (s *subscriptionServiceImpl) ListSubscriptions(ctx context.Context, subscriber *models.User) ([]models.User, error) {
	targets, err := s.subRepo.ListTargetsBySubscriber(ctx, subscriber.ID)
	if err != nil {
		s.logger.Error("Failed to list subscriptions", zap.Error(err), zap.String("subscriberID", subscriber.ID.String()))
		return nil, err
	}
	return targets, nil
}

// Notifications derives today's and tomorrow's birthday lists from the
// subscriber's edges. Comparison is by month and day against the current
// date, so a Feb 29 birthday matches only in leap years.
func (s *subscriptionServiceImpl) Notifications(ctx context.Context, subscriber *models.User) (*models.Notifications, error) {
	targets, err := s.subRepo.ListTargetsBySubscriber(ctx, subscriber.ID)
	if err != nil {
		s.logger.Error("Failed to list subscriptions for notifications", zap.Error(err), zap.String("subscriberID", subscriber.ID.String()))
		return nil, err
	}

	today := s.now()
	tomorrow := today.AddDate(0, 0, 1)

	notifications := &models.Notifications{
		Today:    make([]models.User, 0),
		Tomorrow: make([]models.User, 0),
	}

	for _, target := range targets {
		if target.Birthday.Month() == today.Month() && target.Birthday.Day() == today.Day() {
			notifications.Today = append(notifications.Today, target)
		}
		if target.Birthday.Month() == tomorrow.Month() && target.Birthday.Day() == tomorrow.Day() {
			notifications.Tomorrow = append(notifications.Tomorrow, target)
		}
	}

	return notifications, nil
}
