package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements use only types understood by both Postgres and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		from_city TEXT NOT NULL,
		to_city TEXT NOT NULL,
		departure_date DATE NOT NULL,
		passengers INTEGER NOT NULL CHECK (passengers BETWEEN 1 AND 20),
		aircraft_preference TEXT,
		message TEXT,
		gdpr_consent BOOLEAN NOT NULL CHECK (gdpr_consent),
		gdpr_consent_at TIMESTAMP NOT NULL,
		marketing_consent BOOLEAN NOT NULL DEFAULT FALSE,
		lead_score INTEGER NOT NULL CHECK (lead_score BETWEEN 1 AND 10),
		lead_quality TEXT NOT NULL CHECK (lead_quality IN ('hot', 'warm', 'cold')),
		affiliate_id TEXT NOT NULL,
		referral_code TEXT NOT NULL,
		commission_status TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		device_type TEXT,
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		utm_term TEXT,
		utm_content TEXT,
		referrer TEXT,
		status TEXT NOT NULL,
		data_retention_expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_retention ON leads (data_retention_expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_affiliate ON leads (affiliate_id)`,

	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		status TEXT NOT NULL,
		data_retention_expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_retention ON contact_submissions (data_retention_expires_at)`,

	`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL CHECK (status IN ('active', 'unsubscribed')),
		ip_address TEXT,
		subscribed_at TIMESTAMP NOT NULL,
		unsubscribed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Migrate creates missing tables and indexes. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
