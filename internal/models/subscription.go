package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: the subscriber wants birthday
// notifications for the target user.
type Subscription struct {
	ID           uuid.UUID `json:"id"`
	SubscriberID uuid.UUID `db:"subscriber_id" json:"subscriberId"`
	TargetID     uuid.UUID `db:"target_id" json:"targetId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Notifications holds the birthday lists for the current and the next day.
type Notifications struct {
	Today    []User `json:"today_birthdays"`
	Tomorrow []User `json:"tomorrow_birthdays"`
}
