package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/logger"
	"github.com/xavierca1/jetleads/internal/metrics"
	"github.com/xavierca1/jetleads/internal/ratelimit"
)

type SubmitContactUseCase struct {
	Limiter  ratelimit.Limiter
	Repo     entity.ContactRepositoryInterface
	Renderer Renderer
	Mailer   Mailer
	Settings IntakeSettings

	Now func() time.Time
}

func NewSubmitContactUseCase(
	limiter ratelimit.Limiter,
	repo entity.ContactRepositoryInterface,
	renderer Renderer,
	mailer Mailer,
	settings IntakeSettings,
) *SubmitContactUseCase {
	return &SubmitContactUseCase{
		Limiter:  limiter,
		Repo:     repo,
		Renderer: renderer,
		Mailer:   mailer,
		Settings: settings,
		Now:      time.Now,
	}
}

func (uc *SubmitContactUseCase) Execute(ctx context.Context, req ContactRequest, rc RequestContext) (*SubmitContactOutput, error) {
	decision := uc.Limiter.Check(ctx, rc.ClientKey)
	if !decision.Admitted {
		metrics.RecordRejection("contact", "rate_limited")
		return nil, &ThrottledError{RetryAt: decision.ResetAt}
	}
	if rc.BodyErr != nil {
		metrics.RecordRejection("contact", "validation")
		return nil, malformedBody()
	}

	valid, fields := ValidateContact(req)
	if len(fields) > 0 {
		metrics.RecordRejection("contact", "validation")
		return nil, &ValidationError{Fields: fields}
	}

	now := uc.Now().UTC()
	submission := &entity.ContactSubmission{
		ID:                     uuid.New().String(),
		Name:                   valid.Name,
		Email:                  valid.Email,
		Phone:                  valid.Phone,
		Subject:                valid.Subject,
		Message:                valid.Message,
		IPAddress:              rc.IPAddress,
		UserAgent:              rc.UserAgent,
		Status:                 entity.ContactStatusNew,
		DataRetentionExpiresAt: now.Add(uc.Settings.RetentionWindow),
		CreatedAt:              now,
	}

	if err := uc.Repo.Create(ctx, submission); err != nil {
		logger.LogError("contact_persist_failed", err, nil)
		return nil, &PersistenceError{Op: "create contact submission", Err: err}
	}

	logrus.WithField("contact_id", submission.ID).Info("contact submission stored")

	data := mail.ContactNotificationData{Contact: submission, Site: uc.Settings.Site}
	dispatch(ctx, uc.Renderer, uc.Mailer, submission.ID, []notification{
		{channel: ChannelAdmin, template: mail.TemplateContactAdmin, to: uc.Settings.AdminEmail, replyTo: submission.Email, data: data},
		{channel: ChannelCustomer, template: mail.TemplateContactCustomer, to: submission.Email, data: data},
	})

	return &SubmitContactOutput{
		ID:      submission.ID,
		Message: "Thank you for your message. We will get back to you soon.",
	}, nil
}
