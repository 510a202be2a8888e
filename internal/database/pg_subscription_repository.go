package database

import (
	"context"
	"errors"
	"fmt"

	"birthday-server/internal/interfaces"
	"birthday-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgSubscriptionRepository implements SubscriptionRepository
var _ interfaces.SubscriptionRepository = (*pgSubscriptionRepository)(nil)

type pgSubscriptionRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgSubscriptionRepository creates a new PostgreSQL-backed SubscriptionRepository.
func NewPgSubscriptionRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.SubscriptionRepository {
	return &pgSubscriptionRepository{
		db:     db,
		logger: logger.Named("PgSubscriptionRepo"),
	}
}

// CreateSubscription inserts a new subscription edge.
func (r *pgSubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	query := `INSERT INTO subscriptions (subscriber_id, target_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("subscriberID", sub.SubscriberID.String()), zap.String("targetID", sub.TargetID.String()))

	err := r.db.QueryRow(ctx, query, sub.SubscriberID, sub.TargetID).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Two concurrent subscribes for the same pair race; the unique
			// constraint decides the loser.
			r.logger.Warn("Attempted to create duplicate subscription",
				zap.String("subscriberID", sub.SubscriberID.String()),
				zap.String("targetID", sub.TargetID.String()))
			return models.ErrAlreadySubscribed
		}
		r.logger.Error("Failed to create subscription in postgres", zap.Error(err),
			zap.String("subscriberID", sub.SubscriberID.String()), zap.String("targetID", sub.TargetID.String()))
		return fmt.Errorf("failed to create subscription in postgres: %w", err)
	}

	r.logger.Info("Subscription created successfully", zap.String("subscriptionID", sub.ID.String()))
	return nil
}

// GetSubscription retrieves the edge for a (subscriber, target) pair.
func (r *pgSubscriptionRepository) GetSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*models.Subscription, error) {
	query := `SELECT id, subscriber_id, target_id, created_at
		FROM subscriptions WHERE subscriber_id = $1 AND target_id = $2`
	sub := &models.Subscription{}
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("subscriberID", subscriberID.String()), zap.String("targetID", targetID.String()))

	err := r.db.QueryRow(ctx, query, subscriberID, targetID).
		Scan(&sub.ID, &sub.SubscriberID, &sub.TargetID, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Subscription not found",
				zap.String("subscriberID", subscriberID.String()), zap.String("targetID", targetID.String()))
			return nil, models.ErrSubscriptionNotFound
		}
		r.logger.Error("Failed to get subscription from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription from postgres: %w", err)
	}
	return sub, nil
}

// DeleteSubscription removes the edge by its ID.
func (r *pgSubscriptionRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("subscriptionID", id.String()))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete subscription from postgres", zap.Error(err), zap.String("subscriptionID", id.String()))
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent subscription", zap.String("subscriptionID", id.String()))
		return models.ErrSubscriptionNotFound
	}

	r.logger.Info("Subscription deleted successfully", zap.String("subscriptionID", id.String()))
	return nil
}

// ListTargetsBySubscriber returns the users the subscriber follows, in the
// order the edges were inserted.
func (r *pgSubscriptionRepository) ListTargetsBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	query := `SELECT u.id, u.username, u.password_hash, u.name, u.surname, u.birthday, u.created_at, u.updated_at
		FROM subscriptions s
		JOIN users u ON u.id = s.target_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at ASC`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("subscriberID", subscriberID.String()))

	users := make([]models.User, 0)
	if err := pgxscan.Select(ctx, r.db, &users, query, subscriberID); err != nil {
		r.logger.Error("Failed to list subscription targets from postgres", zap.Error(err), zap.String("subscriberID", subscriberID.String()))
		return nil, fmt.Errorf("failed to list subscription targets: %w", err)
	}

	return users, nil
}
