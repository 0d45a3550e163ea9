package entity

import (
	"context"
	"time"
)

const ContactStatusNew = "new"

type ContactSubmission struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`

	Status                 string    `json:"status"`
	DataRetentionExpiresAt time.Time `json:"data_retention_expires_at"`
	CreatedAt              time.Time `json:"created_at"`
}

type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *ContactSubmission) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
