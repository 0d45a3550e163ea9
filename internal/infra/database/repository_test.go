package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/jetleads/internal/entity"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDBConnection(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleLead(id string, expires time.Time) *entity.Lead {
	return &entity.Lead{
		ID:                     id,
		Name:                   "John Doe",
		Email:                  "john@example.com",
		Phone:                  "5551234567",
		FromCity:               "NYC",
		ToCity:                 "MIA",
		DepartureDate:          time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		Passengers:             8,
		AircraftPreference:     "heavy-jets",
		GDPRConsent:            true,
		GDPRConsentAt:          now,
		MarketingConsent:       true,
		LeadScore:              10,
		LeadQuality:            entity.QualityHot,
		AffiliateID:            "affiliate-1",
		ReferralCode:           "SKY-001",
		CommissionStatus:       entity.CommissionPending,
		IPAddress:              "203.0.113.7",
		DeviceType:             entity.DeviceDesktop,
		UTM:                    entity.UTM{Source: "google", Campaign: "winter"},
		Status:                 entity.LeadStatusNew,
		DataRetentionExpiresAt: expires,
		CreatedAt:              now,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db))
}

func TestNewDBConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewDBConnection("mysql", "")
	assert.Error(t, err)
}

func TestLeadRepositoryRoundTrip(t *testing.T) {
	repo := NewLeadRepository(openTestDB(t))
	ctx := context.Background()

	in := sampleLead("lead-1", now.AddDate(2, 0, 0))
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.FindByID(ctx, "lead-1")
	require.NoError(t, err)

	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, 8, got.Passengers)
	assert.Equal(t, 10, got.LeadScore)
	assert.Equal(t, entity.QualityHot, got.LeadQuality)
	assert.Equal(t, "heavy-jets", got.AircraftPreference)
	assert.Empty(t, got.Message)
	assert.True(t, got.GDPRConsent)
	assert.Equal(t, in.UTM, got.UTM)
	assert.WithinDuration(t, in.DepartureDate, got.DepartureDate, time.Millisecond)
	assert.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadRepositoryRejectsScoreOutsideRange(t *testing.T) {
	repo := NewLeadRepository(openTestDB(t))

	bad := sampleLead("lead-bad", now)
	bad.LeadScore = 11
	assert.Error(t, repo.Create(context.Background(), bad))
}

func TestDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	leads := NewLeadRepository(db)
	contacts := NewContactRepository(db)
	ctx := context.Background()

	require.NoError(t, leads.Create(ctx, sampleLead("old", now.Add(-24*time.Hour))))
	require.NoError(t, leads.Create(ctx, sampleLead("fresh", now.Add(24*time.Hour))))
	require.NoError(t, contacts.Create(ctx, &entity.ContactSubmission{
		ID: "c-old", Name: "Jane", Email: "jane@example.com", Subject: "Hello there", Message: "Long enough message",
		Status: entity.ContactStatusNew, DataRetentionExpiresAt: now.Add(-time.Hour), CreatedAt: now.AddDate(-2, 0, 0),
	}))

	n, err := leads.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = leads.FindByID(ctx, "fresh")
	assert.NoError(t, err)
	_, err = leads.FindByID(ctx, "old")
	assert.ErrorIs(t, err, ErrLeadNotFound)

	n, err = contacts.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewsletterRepositoryLifecycle(t *testing.T) {
	repo := NewNewsletterRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "jane@example.com")
	require.ErrorIs(t, err, entity.ErrSubscriberNotFound)

	sub := &entity.NewsletterSubscriber{
		ID: "sub-1", Email: "jane@example.com", Status: entity.SubscriberActive,
		SubscribedAt: now, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, sub))

	dup := *sub
	dup.ID = "sub-2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), entity.ErrDuplicateEmail)

	later := now.Add(time.Hour)
	require.NoError(t, repo.Unsubscribe(ctx, "sub-1", later))

	got, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriberUnsubscribed, got.Status)
	require.NotNil(t, got.UnsubscribedAt)
	assert.WithinDuration(t, later, *got.UnsubscribedAt, time.Millisecond)

	require.NoError(t, repo.Reactivate(ctx, "sub-1", later.Add(time.Hour)))

	got, err = repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.ID)
	assert.True(t, got.IsActive())
	assert.Nil(t, got.UnsubscribedAt)

	assert.ErrorIs(t, repo.Reactivate(ctx, "ghost", now), entity.ErrSubscriberNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(sql.ErrNoRows))
	assert.False(t, isUniqueViolation(nil))
}
