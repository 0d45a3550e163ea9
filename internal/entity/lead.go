package entity

import (
	"context"
	"time"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"

	CommissionPending = "pending"

	QualityHot  = "hot"
	QualityWarm = "warm"
	QualityCold = "cold"

	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"

	MinLeadScore = 1
	MaxLeadScore = 10
)

type UTM struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Term     string `json:"utm_term,omitempty"`
	Content  string `json:"utm_content,omitempty"`
}

// Lead is a charter quote request. Score, quality, affiliate and retention
// expiry are computed once at intake and never rewritten.
type Lead struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	FromCity           string    `json:"from_city"`
	ToCity             string    `json:"to_city"`
	DepartureDate      time.Time `json:"departure_date"`
	Passengers         int       `json:"passengers"`
	AircraftPreference string    `json:"aircraft_preference,omitempty"`
	Message            string    `json:"message,omitempty"`

	GDPRConsent      bool      `json:"gdpr_consent"`
	GDPRConsentAt    time.Time `json:"gdpr_consent_at"`
	MarketingConsent bool      `json:"marketing_consent"`

	LeadScore        int    `json:"lead_score"`
	LeadQuality      string `json:"lead_quality"`
	AffiliateID      string `json:"affiliate_id"`
	ReferralCode     string `json:"referral_code"`
	CommissionStatus string `json:"commission_status"`

	IPAddress  string `json:"ip_address"`
	UserAgent  string `json:"user_agent"`
	DeviceType string `json:"device_type"`
	UTM        UTM    `json:"utm"`
	Referrer   string `json:"referrer,omitempty"`

	Status                 string    `json:"status"`
	DataRetentionExpiresAt time.Time `json:"data_retention_expires_at"`
	CreatedAt              time.Time `json:"created_at"`
}

// QualityFromScore maps a lead score to its tier: >=8 hot, >=5 warm, else cold.
func QualityFromScore(score int) string {
	switch {
	case score >= 8:
		return QualityHot
	case score >= 5:
		return QualityWarm
	default:
		return QualityCold
	}
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
