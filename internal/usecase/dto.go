package usecase

import (
	"time"

	"github.com/xavierca1/jetleads/internal/entity"
)

// LeadRequest is the raw quote form as decoded from JSON. Passengers may
// arrive as a number or a numeric string.
type LeadRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	FromCity           string `json:"from_city"`
	ToCity             string `json:"to_city"`
	Date               string `json:"date"`
	Passengers         any    `json:"passengers"`
	AircraftPreference string `json:"aircraft_preference"`
	Message            string `json:"message"`
	GDPRConsent        *bool  `json:"gdpr_consent"`
	MarketingConsent   *bool  `json:"marketing_consent"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

// RequestContext carries what the transport knows about the caller.
// BodyErr is set when the request body could not be decoded; it is reported
// only after the rate limiter has counted the request.
type RequestContext struct {
	ClientKey string
	IPAddress string
	UserAgent string
	Referrer  string
	UTM       entity.UTM
	BodyErr   error
}

// ValidLead is a lead form that passed validation.
type ValidLead struct {
	Name               string
	Email              string
	Phone              string
	FromCity           string
	ToCity             string
	DepartureDate      time.Time
	Passengers         int
	AircraftPreference string
	Message            string
	GDPRConsent        bool
	MarketingConsent   bool
}

type ValidContact struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type ValidNewsletter struct {
	Email string
}

type SubmitLeadOutput struct {
	LeadID      string `json:"leadId"`
	Score       int    `json:"-"`
	Quality     string `json:"-"`
	AffiliateID string `json:"-"`
	Message     string `json:"message"`
}

type SubmitContactOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type SubscribeNewsletterOutput struct {
	ID          string `json:"id"`
	Reactivated bool   `json:"-"`
	Message     string `json:"message"`
}
