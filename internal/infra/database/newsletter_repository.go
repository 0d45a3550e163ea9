package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/jetleads/internal/entity"
)

type NewsletterRepository struct {
	DB *sql.DB
}

func NewNewsletterRepository(db *sql.DB) *NewsletterRepository {
	return &NewsletterRepository{DB: db}
}

func (r *NewsletterRepository) FindByEmail(ctx context.Context, email string) (*entity.NewsletterSubscriber, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, email, status, ip_address, subscribed_at, unsubscribed_at, created_at, updated_at
		FROM newsletter_subscribers WHERE email = $1
	`

	var (
		s              entity.NewsletterSubscriber
		ip             sql.NullString
		unsubscribedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&s.ID, &s.Email, &s.Status, &ip, &s.SubscribedAt, &unsubscribedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select subscriber: %w", err)
	}

	s.IPAddress = ip.String
	if unsubscribedAt.Valid {
		t := unsubscribedAt.Time
		s.UnsubscribedAt = &t
	}
	return &s, nil
}

func (r *NewsletterRepository) Create(ctx context.Context, s *entity.NewsletterSubscriber) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO newsletter_subscribers (id, email, status, ip_address, subscribed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Email, s.Status, nullString(s.IPAddress),
		s.SubscribedAt.UTC(), s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// Reactivate flips an unsubscribed row back to active, keeping its id.
func (r *NewsletterRepository) Reactivate(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE newsletter_subscribers
		SET status = $1, subscribed_at = $2, unsubscribed_at = NULL, updated_at = $3
		WHERE id = $4
	`
	return r.update(ctx, query, entity.SubscriberActive, at.UTC(), at.UTC(), id)
}

func (r *NewsletterRepository) Unsubscribe(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE newsletter_subscribers
		SET status = $1, unsubscribed_at = $2, updated_at = $3
		WHERE id = $4
	`
	return r.update(ctx, query, entity.SubscriberUnsubscribed, at.UTC(), at.UTC(), id)
}

func (r *NewsletterRepository) update(ctx context.Context, query string, args ...any) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	if n == 0 {
		return entity.ErrSubscriberNotFound
	}
	return nil
}
