package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSubscriberNotFound = errors.New("newsletter subscriber not found")
	ErrDuplicateEmail     = errors.New("email already registered")
)

const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

type NewsletterSubscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	IPAddress      string     `json:"ip_address,omitempty"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (s *NewsletterSubscriber) IsActive() bool {
	return s.Status == SubscriberActive
}

type NewsletterRepositoryInterface interface {
	// FindByEmail returns ErrSubscriberNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*NewsletterSubscriber, error)
	// Create returns ErrDuplicateEmail on a unique violation.
	Create(ctx context.Context, s *NewsletterSubscriber) error
	Reactivate(ctx context.Context, id string, at time.Time) error
	Unsubscribe(ctx context.Context, id string, at time.Time) error
}
