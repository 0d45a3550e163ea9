package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/jetleads/internal/entity"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO leads (
			id, name, email, phone, from_city, to_city, departure_date, passengers,
			aircraft_preference, message, gdpr_consent, gdpr_consent_at, marketing_consent,
			lead_score, lead_quality, affiliate_id, referral_code, commission_status,
			ip_address, user_agent, device_type,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, referrer,
			status, data_retention_expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18,
			$19, $20, $21,
			$22, $23, $24, $25, $26, $27,
			$28, $29, $30
		)
	`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.FromCity, l.ToCity, l.DepartureDate.UTC(), l.Passengers,
		nullString(l.AircraftPreference), nullString(l.Message), l.GDPRConsent, l.GDPRConsentAt.UTC(), l.MarketingConsent,
		l.LeadScore, l.LeadQuality, l.AffiliateID, l.ReferralCode, l.CommissionStatus,
		nullString(l.IPAddress), nullString(l.UserAgent), nullString(l.DeviceType),
		nullString(l.UTM.Source), nullString(l.UTM.Medium), nullString(l.UTM.Campaign), nullString(l.UTM.Term), nullString(l.UTM.Content), nullString(l.Referrer),
		l.Status, l.DataRetentionExpiresAt.UTC(), l.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, name, email, phone, from_city, to_city, departure_date, passengers,
			aircraft_preference, message, gdpr_consent, gdpr_consent_at, marketing_consent,
			lead_score, lead_quality, affiliate_id, referral_code, commission_status,
			ip_address, user_agent, device_type,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, referrer,
			status, data_retention_expires_at, created_at
		FROM leads WHERE id = $1
	`

	var l entity.Lead
	var pref, msg, ip, ua, device, referrer sql.NullString
	var utmSrc, utmMed, utmCamp, utmTerm, utmCont sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.FromCity, &l.ToCity, &l.DepartureDate, &l.Passengers,
		&pref, &msg, &l.GDPRConsent, &l.GDPRConsentAt, &l.MarketingConsent,
		&l.LeadScore, &l.LeadQuality, &l.AffiliateID, &l.ReferralCode, &l.CommissionStatus,
		&ip, &ua, &device,
		&utmSrc, &utmMed, &utmCamp, &utmTerm, &utmCont, &referrer,
		&l.Status, &l.DataRetentionExpiresAt, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select lead: %w", err)
	}

	l.AircraftPreference = pref.String
	l.Message = msg.String
	l.IPAddress = ip.String
	l.UserAgent = ua.String
	l.DeviceType = device.String
	l.Referrer = referrer.String
	l.UTM = entity.UTM{
		Source:   utmSrc.String,
		Medium:   utmMed.String,
		Campaign: utmCamp.String,
		Term:     utmTerm.String,
		Content:  utmCont.String,
	}
	return &l, nil
}

// DeleteExpired removes leads whose retention window ended before now.
func (r *LeadRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE data_retention_expires_at < $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired leads: %w", err)
	}
	return res.RowsAffected()
}
