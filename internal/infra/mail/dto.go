package mail

import "github.com/xavierca1/jetleads/internal/entity"

const (
	TemplateLeadAdmin         = "lead_admin"
	TemplateLeadAffiliate     = "lead_affiliate"
	TemplateLeadCustomer      = "lead_customer"
	TemplateContactAdmin      = "contact_admin"
	TemplateContactCustomer   = "contact_customer"
	TemplateNewsletterWelcome = "newsletter_welcome"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Rendered struct {
	Subject string
	HTML    string
}

// SiteInfo is the public brand data quoted inside email bodies.
type SiteInfo struct {
	Name  string
	URL   string
	Phone string
	// ResponseWindow is the promised operator callback window, e.g. "2-4 hours".
	ResponseWindow string
}

type LeadNotificationData struct {
	Lead      *entity.Lead
	Affiliate entity.AffiliateConfig
	Site      SiteInfo
}

type ContactNotificationData struct {
	Contact *entity.ContactSubmission
	Site    SiteInfo
}

type NewsletterNotificationData struct {
	Subscriber  *entity.NewsletterSubscriber
	Reactivated bool
	Site        SiteInfo
}
