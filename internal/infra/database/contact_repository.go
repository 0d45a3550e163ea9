package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/jetleads/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.ContactSubmission) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO contact_submissions (
			id, name, email, phone, subject, message, ip_address, user_agent,
			status, data_retention_expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, nullString(c.Phone), c.Subject, c.Message,
		nullString(c.IPAddress), nullString(c.UserAgent),
		c.Status, c.DataRetentionExpiresAt.UTC(), c.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

func (r *ContactRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `DELETE FROM contact_submissions WHERE data_retention_expires_at < $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired contact submissions: %w", err)
	}
	return res.RowsAffected()
}
