package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

type emailTemplate struct {
	subject string
	body    string
}

var funcs = map[string]any{
	"upper": strings.ToUpper,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Mon, Jan 2 2006")
	},
	"percent": func(rate float64) string {
		return fmt.Sprintf("%.0f%%", rate*100)
	},
}

const layoutStart = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #1f2933; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 1px solid #e4e7eb; padding-bottom: 10px; }
        table { border-collapse: collapse; width: 100%; }
        td { padding: 6px 8px; border-bottom: 1px solid #f0f2f5; vertical-align: top; }
        td.label { color: #616e7c; width: 40%; }
        .badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-weight: bold; }
        .hot { background: #fde2e1; color: #b42318; }
        .warm { background: #fef0c7; color: #b54708; }
        .cold { background: #e0eaff; color: #3538cd; }
        .footer { margin-top: 30px; font-size: 12px; color: #7b8794; text-align: center; }
    </style>
</head>
<body>`

const layoutEnd = `
    <div class="footer">
        <p>{{.Site.Name}} · <a href="{{.Site.URL}}">{{.Site.URL}}</a> · {{.Site.Phone}}</p>
    </div>
</body>
</html>`

const tripRows = `
        <tr><td class="label">Route</td><td>{{.Lead.FromCity}} → {{.Lead.ToCity}}</td></tr>
        <tr><td class="label">Departure</td><td>{{date .Lead.DepartureDate}}</td></tr>
        <tr><td class="label">Passengers</td><td>{{.Lead.Passengers}}</td></tr>
        {{if .Lead.AircraftPreference}}<tr><td class="label">Aircraft</td><td>{{.Lead.AircraftPreference}}</td></tr>{{end}}`

var emailTemplates = map[string]emailTemplate{
	TemplateLeadAdmin: {
		subject: `[{{upper .Lead.LeadQuality}}] New charter lead {{.Lead.FromCity}} → {{.Lead.ToCity}} (score {{.Lead.LeadScore}}/10)`,
		body: layoutStart + `
    <div class="header">
        <h2>New charter lead</h2>
        <span class="badge {{.Lead.LeadQuality}}">{{upper .Lead.LeadQuality}} · {{.Lead.LeadScore}}/10</span>
    </div>
    <table>
        <tr><td class="label">Lead ID</td><td>{{.Lead.ID}}</td></tr>
        <tr><td class="label">Name</td><td>{{.Lead.Name}}</td></tr>
        <tr><td class="label">Email</td><td>{{.Lead.Email}}</td></tr>
        <tr><td class="label">Phone</td><td>{{.Lead.Phone}}</td></tr>` + tripRows + `
        {{if .Lead.Message}}<tr><td class="label">Message</td><td>{{.Lead.Message}}</td></tr>{{end}}
        <tr><td class="label">Marketing consent</td><td>{{if .Lead.MarketingConsent}}yes{{else}}no{{end}}</td></tr>
        <tr><td class="label">Assigned affiliate</td><td>{{.Affiliate.Name}} ({{.Affiliate.ID}}, ref {{.Lead.ReferralCode}})</td></tr>
        <tr><td class="label">Device</td><td>{{.Lead.DeviceType}}</td></tr>
        {{if .Lead.UTM.Source}}<tr><td class="label">UTM</td><td>{{.Lead.UTM.Source}} / {{.Lead.UTM.Medium}} / {{.Lead.UTM.Campaign}}</td></tr>{{end}}
        {{if .Lead.Referrer}}<tr><td class="label">Referrer</td><td>{{.Lead.Referrer}}</td></tr>{{end}}
        <tr><td class="label">IP</td><td>{{.Lead.IPAddress}}</td></tr>
    </table>` + layoutEnd,
	},
	TemplateLeadAffiliate: {
		subject: `New charter request {{.Lead.FromCity}} → {{.Lead.ToCity}} · {{.Lead.Passengers}} pax · ref {{.Affiliate.ReferralCode}}`,
		body: layoutStart + `
    <div class="header">
        <h2>New business lead for {{.Affiliate.Name}}</h2>
        <p>Referral code: <strong>{{.Affiliate.ReferralCode}}</strong> · Commission {{percent .Affiliate.CommissionRate}}</p>
    </div>
    <p>A client has requested a private charter quote. Please contact them directly.</p>
    <table>` + tripRows + `
        {{if .Lead.Message}}<tr><td class="label">Client notes</td><td>{{.Lead.Message}}</td></tr>{{end}}
        <tr><td class="label">Client name</td><td>{{.Lead.Name}}</td></tr>
        <tr><td class="label">Client email</td><td>{{.Lead.Email}}</td></tr>
        <tr><td class="label">Client phone</td><td>{{.Lead.Phone}}</td></tr>
    </table>
    <p>Please quote the referral code <strong>{{.Affiliate.ReferralCode}}</strong> on your booking so the commission is attributed.</p>` + layoutEnd,
	},
	TemplateLeadCustomer: {
		subject: `Your charter request {{.Lead.FromCity}} → {{.Lead.ToCity}} has been received`,
		body: layoutStart + `
    <div class="header">
        <h2>Thank you, {{.Lead.Name}}</h2>
    </div>
    <p>We have received your private jet charter request. A vetted operator will contact you within {{.Site.ResponseWindow}} with quotes.</p>
    <table>` + tripRows + `
    </table>
    <p>Reference: {{.Lead.ID}}</p>
    <p>Questions in the meantime? Call us at {{.Site.Phone}}.</p>` + layoutEnd,
	},
	TemplateContactAdmin: {
		subject: `New contact message: {{.Contact.Subject}}`,
		body: layoutStart + `
    <div class="header">
        <h2>New contact form submission</h2>
    </div>
    <table>
        <tr><td class="label">Name</td><td>{{.Contact.Name}}</td></tr>
        <tr><td class="label">Email</td><td>{{.Contact.Email}}</td></tr>
        {{if .Contact.Phone}}<tr><td class="label">Phone</td><td>{{.Contact.Phone}}</td></tr>{{end}}
        <tr><td class="label">Subject</td><td>{{.Contact.Subject}}</td></tr>
        <tr><td class="label">Message</td><td>{{.Contact.Message}}</td></tr>
    </table>` + layoutEnd,
	},
	TemplateContactCustomer: {
		subject: `We received your message: {{.Contact.Subject}}`,
		body: layoutStart + `
    <div class="header">
        <h2>Thanks for reaching out, {{.Contact.Name}}</h2>
    </div>
    <p>Our team will reply to your message within one business day.</p>
    <blockquote>{{.Contact.Message}}</blockquote>` + layoutEnd,
	},
	TemplateNewsletterWelcome: {
		subject: `{{if .Reactivated}}Welcome back to {{.Site.Name}}{{else}}Welcome to {{.Site.Name}}{{end}}`,
		body: layoutStart + `
    <div class="header">
        <h2>{{if .Reactivated}}Welcome back!{{else}}You're on the list!{{end}}</h2>
    </div>
    <p>You'll receive empty-leg deals and charter news at {{.Subscriber.Email}}.</p>` + layoutEnd,
	},
}

type compiledTemplate struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

// TemplateRenderer turns a notification kind and its data into subject and body.
type TemplateRenderer struct {
	templates map[string]compiledTemplate
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: make(map[string]compiledTemplate, len(emailTemplates))}
	for kind, t := range emailTemplates {
		subj, err := texttemplate.New(kind + "_subject").Funcs(funcs).Parse(t.subject)
		if err != nil {
			return nil, fmt.Errorf("parse subject template %s: %w", kind, err)
		}
		body, err := htmltemplate.New(kind).Funcs(funcs).Parse(t.body)
		if err != nil {
			return nil, fmt.Errorf("parse body template %s: %w", kind, err)
		}
		r.templates[kind] = compiledTemplate{subject: subj, body: body}
	}
	return r, nil
}

func (r *TemplateRenderer) Render(kind string, data any) (Rendered, error) {
	t, ok := r.templates[kind]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown email template %q", kind)
	}

	var subject bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Rendered{}, fmt.Errorf("render subject %s: %w", kind, err)
	}

	var body bytes.Buffer
	if err := t.body.Execute(&body, data); err != nil {
		return Rendered{}, fmt.Errorf("render body %s: %w", kind, err)
	}

	return Rendered{Subject: subject.String(), HTML: body.String()}, nil
}
