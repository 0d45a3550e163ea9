package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/jetleads/internal/entity"
)

func sampleLeadData() LeadNotificationData {
	return LeadNotificationData{
		Lead: &entity.Lead{
			ID:            "lead-1",
			Name:          "Ana Souza",
			Email:         "ana@example.com",
			Phone:         "+15551234567",
			FromCity:      "NYC",
			ToCity:        "MIA",
			DepartureDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			Passengers:    8,
			Message:       "<b>need catering</b>",
			LeadScore:     10,
			LeadQuality:   entity.QualityHot,
			ReferralCode:  "SKY-001",
		},
		Affiliate: entity.AffiliateConfig{
			ID:                "affiliate-1",
			Name:              "SkyCharter",
			NotificationEmail: "ops@skycharter.example",
			ReferralCode:      "SKY-001",
			CommissionRate:    0.1,
		},
		Site: SiteInfo{Name: "JetLeads", URL: "https://jetleads.example", Phone: "+1 800 000 0000", ResponseWindow: "2-4 hours"},
	}
}

func TestRenderLeadTemplates(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	data := sampleLeadData()

	admin, err := r.Render(TemplateLeadAdmin, data)
	require.NoError(t, err)
	assert.Equal(t, "[HOT] New charter lead NYC → MIA (score 10/10)", admin.Subject)
	assert.Contains(t, admin.HTML, "ana@example.com")
	assert.Contains(t, admin.HTML, "&lt;b&gt;need catering&lt;/b&gt;")
	assert.NotContains(t, admin.HTML, "<b>need catering</b>")

	aff, err := r.Render(TemplateLeadAffiliate, data)
	require.NoError(t, err)
	assert.Contains(t, aff.Subject, "SKY-001")
	assert.Contains(t, aff.HTML, "&#43;15551234567")
	assert.Contains(t, aff.HTML, "10%")

	customer, err := r.Render(TemplateLeadCustomer, data)
	require.NoError(t, err)
	assert.Contains(t, customer.HTML, "2-4 hours")
	assert.Contains(t, customer.HTML, "Tue, Dec 1 2026")
}

func TestRenderNewsletterWelcome(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	data := NewsletterNotificationData{
		Subscriber: &entity.NewsletterSubscriber{Email: "a@b.co"},
		Site:       SiteInfo{Name: "JetLeads"},
	}
	out, err := r.Render(TemplateNewsletterWelcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to JetLeads", out.Subject)

	data.Reactivated = true
	out, err = r.Render(TemplateNewsletterWelcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome back to JetLeads", out.Subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, err = r.Render("nope", nil)
	assert.Error(t, err)
}
