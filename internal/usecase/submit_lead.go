package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/infra/queue"
	"github.com/xavierca1/jetleads/internal/logger"
	"github.com/xavierca1/jetleads/internal/metrics"
	"github.com/xavierca1/jetleads/internal/ratelimit"
)

// IntakeSettings is shared by the intake use cases.
type IntakeSettings struct {
	AdminEmail      string
	RetentionWindow time.Duration
	Site            mail.SiteInfo
}

type SubmitLeadUseCase struct {
	Limiter    ratelimit.Limiter
	Repo       entity.LeadRepositoryInterface
	Selector   AffiliateSelector
	Affiliates *entity.AffiliateDirectory
	Renderer   Renderer
	Mailer     Mailer
	Events     LeadEventPublisher
	Settings   IntakeSettings

	Now func() time.Time
}

func NewSubmitLeadUseCase(
	limiter ratelimit.Limiter,
	repo entity.LeadRepositoryInterface,
	selector AffiliateSelector,
	affiliates *entity.AffiliateDirectory,
	renderer Renderer,
	mailer Mailer,
	events LeadEventPublisher,
	settings IntakeSettings,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Limiter:    limiter,
		Repo:       repo,
		Selector:   selector,
		Affiliates: affiliates,
		Renderer:   renderer,
		Mailer:     mailer,
		Events:     events,
		Settings:   settings,
		Now:        time.Now,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, req LeadRequest, rc RequestContext) (*SubmitLeadOutput, error) {
	decision := uc.Limiter.Check(ctx, rc.ClientKey)
	if !decision.Admitted {
		metrics.RecordRejection("lead", "rate_limited")
		return nil, &ThrottledError{RetryAt: decision.ResetAt}
	}
	if rc.BodyErr != nil {
		metrics.RecordRejection("lead", "validation")
		return nil, malformedBody()
	}

	valid, fields := ValidateLead(req)
	if len(fields) > 0 {
		metrics.RecordRejection("lead", "validation")
		return nil, &ValidationError{Fields: fields}
	}

	now := uc.Now().UTC()
	score := ScoreLead(scoreInputFrom(valid), now)
	quality := entity.QualityFromScore(score)

	affiliateID := uc.Selector.SelectAffiliate(LeadContext{
		Score:      score,
		Quality:    quality,
		FromCity:   valid.FromCity,
		ToCity:     valid.ToCity,
		Passengers: valid.Passengers,
	})
	affiliate, err := uc.Affiliates.Lookup(affiliateID)
	if err != nil {
		return nil, fmt.Errorf("resolve selected affiliate: %w", err)
	}

	lead := &entity.Lead{
		ID:                     uuid.New().String(),
		Name:                   valid.Name,
		Email:                  valid.Email,
		Phone:                  valid.Phone,
		FromCity:               valid.FromCity,
		ToCity:                 valid.ToCity,
		DepartureDate:          valid.DepartureDate,
		Passengers:             valid.Passengers,
		AircraftPreference:     valid.AircraftPreference,
		Message:                valid.Message,
		GDPRConsent:            true,
		GDPRConsentAt:          now,
		MarketingConsent:       valid.MarketingConsent,
		LeadScore:              score,
		LeadQuality:            quality,
		AffiliateID:            affiliate.ID,
		ReferralCode:           affiliate.ReferralCode,
		CommissionStatus:       entity.CommissionPending,
		IPAddress:              rc.IPAddress,
		UserAgent:              rc.UserAgent,
		DeviceType:             DeviceTypeFromUserAgent(rc.UserAgent),
		UTM:                    rc.UTM,
		Referrer:               rc.Referrer,
		Status:                 entity.LeadStatusNew,
		DataRetentionExpiresAt: now.Add(uc.Settings.RetentionWindow),
		CreatedAt:              now,
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		logger.LogError("lead_persist_failed", err, map[string]interface{}{
			"affiliate": affiliate.ID,
			"quality":   quality,
		})
		return nil, &PersistenceError{Op: "create lead", Err: err}
	}

	metrics.RecordLead(quality, affiliate.ID)
	logrus.WithFields(logrus.Fields{
		"lead_id":   lead.ID,
		"score":     score,
		"quality":   quality,
		"affiliate": affiliate.ID,
	}).Info("lead captured")

	data := mail.LeadNotificationData{Lead: lead, Affiliate: affiliate, Site: uc.Settings.Site}
	dispatch(ctx, uc.Renderer, uc.Mailer, lead.ID, []notification{
		{channel: ChannelAdmin, template: mail.TemplateLeadAdmin, to: uc.Settings.AdminEmail, replyTo: lead.Email, data: data},
		{channel: ChannelAffiliate, template: mail.TemplateLeadAffiliate, to: affiliate.NotificationEmail, replyTo: lead.Email, data: data},
		{channel: ChannelCustomer, template: mail.TemplateLeadCustomer, to: lead.Email, data: data},
	})

	uc.publish(ctx, lead)

	return &SubmitLeadOutput{
		LeadID:      lead.ID,
		Score:       score,
		Quality:     quality,
		AffiliateID: affiliate.ID,
		Message:     leadConfirmation(uc.Settings.Site.ResponseWindow),
	}, nil
}

func (uc *SubmitLeadUseCase) publish(ctx context.Context, lead *entity.Lead) {
	if uc.Events == nil {
		return
	}
	err := uc.Events.PublishLeadCreated(context.WithoutCancel(ctx), queue.NewLeadCreatedEvent(lead))
	metrics.RecordEventPublished(err)
	if err != nil {
		logger.LogError("lead_event_publish_failed", err, map[string]interface{}{
			"lead_id": lead.ID,
		})
	}
}

func leadConfirmation(window string) string {
	if window == "" {
		return "Thank you! Your charter request has been received. An operator will contact you shortly."
	}
	return "Thank you! Your charter request has been received. An operator will contact you within " + window + "."
}
