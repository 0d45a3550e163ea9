package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/logger"
	"github.com/xavierca1/jetleads/internal/metrics"
	"github.com/xavierca1/jetleads/internal/ratelimit"
)

var errAlreadySubscribed = &ConflictError{
	Code:    CodeAlreadySubscribed,
	Message: "this email is already subscribed",
}

type SubscribeNewsletterUseCase struct {
	Limiter  ratelimit.Limiter
	Repo     entity.NewsletterRepositoryInterface
	Renderer Renderer
	Mailer   Mailer
	Settings IntakeSettings

	Now func() time.Time
}

func NewSubscribeNewsletterUseCase(
	limiter ratelimit.Limiter,
	repo entity.NewsletterRepositoryInterface,
	renderer Renderer,
	mailer Mailer,
	settings IntakeSettings,
) *SubscribeNewsletterUseCase {
	return &SubscribeNewsletterUseCase{
		Limiter:  limiter,
		Repo:     repo,
		Renderer: renderer,
		Mailer:   mailer,
		Settings: settings,
		Now:      time.Now,
	}
}

// Execute creates a subscriber, or reactivates the existing row for an
// address that previously unsubscribed. Active addresses get a ConflictError.
func (uc *SubscribeNewsletterUseCase) Execute(ctx context.Context, req NewsletterRequest, rc RequestContext) (*SubscribeNewsletterOutput, error) {
	decision := uc.Limiter.Check(ctx, rc.ClientKey)
	if !decision.Admitted {
		metrics.RecordRejection("newsletter", "rate_limited")
		return nil, &ThrottledError{RetryAt: decision.ResetAt}
	}
	if rc.BodyErr != nil {
		metrics.RecordRejection("newsletter", "validation")
		return nil, malformedBody()
	}

	valid, fields := ValidateNewsletter(req)
	if len(fields) > 0 {
		metrics.RecordRejection("newsletter", "validation")
		return nil, &ValidationError{Fields: fields}
	}

	now := uc.Now().UTC()

	existing, err := uc.Repo.FindByEmail(ctx, valid.Email)
	if err != nil && !errors.Is(err, entity.ErrSubscriberNotFound) {
		logger.LogError("newsletter_lookup_failed", err, nil)
		return nil, &PersistenceError{Op: "find subscriber", Err: err}
	}

	var (
		sub         *entity.NewsletterSubscriber
		reactivated bool
	)

	switch {
	case existing != nil && existing.IsActive():
		metrics.RecordRejection("newsletter", "already_subscribed")
		return nil, errAlreadySubscribed

	case existing != nil:
		if err := uc.Repo.Reactivate(ctx, existing.ID, now); err != nil {
			logger.LogError("newsletter_reactivate_failed", err, map[string]interface{}{"subscriber_id": existing.ID})
			return nil, &PersistenceError{Op: "reactivate subscriber", Err: err}
		}
		existing.Status = entity.SubscriberActive
		existing.SubscribedAt = now
		existing.UnsubscribedAt = nil
		existing.UpdatedAt = now
		sub, reactivated = existing, true

	default:
		sub = &entity.NewsletterSubscriber{
			ID:           uuid.New().String(),
			Email:        valid.Email,
			Status:       entity.SubscriberActive,
			IPAddress:    rc.IPAddress,
			SubscribedAt: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.Repo.Create(ctx, sub); err != nil {
			// lost a race with a concurrent subscribe for the same address
			if errors.Is(err, entity.ErrDuplicateEmail) {
				return nil, errAlreadySubscribed
			}
			logger.LogError("newsletter_persist_failed", err, nil)
			return nil, &PersistenceError{Op: "create subscriber", Err: err}
		}
	}

	logrus.WithFields(logrus.Fields{
		"subscriber_id": sub.ID,
		"reactivated":   reactivated,
	}).Info("newsletter subscription stored")

	data := mail.NewsletterNotificationData{Subscriber: sub, Reactivated: reactivated, Site: uc.Settings.Site}
	dispatch(ctx, uc.Renderer, uc.Mailer, sub.ID, []notification{
		{channel: ChannelCustomer, template: mail.TemplateNewsletterWelcome, to: sub.Email, data: data},
	})

	msg := "Thank you for subscribing!"
	if reactivated {
		msg = "Welcome back! Your subscription has been reactivated."
	}
	return &SubscribeNewsletterOutput{ID: sub.ID, Reactivated: reactivated, Message: msg}, nil
}

type UnsubscribeNewsletterUseCase struct {
	Limiter ratelimit.Limiter
	Repo    entity.NewsletterRepositoryInterface

	Now func() time.Time
}

func NewUnsubscribeNewsletterUseCase(limiter ratelimit.Limiter, repo entity.NewsletterRepositoryInterface) *UnsubscribeNewsletterUseCase {
	return &UnsubscribeNewsletterUseCase{Limiter: limiter, Repo: repo, Now: time.Now}
}

// Execute is a no-op for an already unsubscribed address.
func (uc *UnsubscribeNewsletterUseCase) Execute(ctx context.Context, req NewsletterRequest, rc RequestContext) error {
	decision := uc.Limiter.Check(ctx, rc.ClientKey)
	if !decision.Admitted {
		metrics.RecordRejection("newsletter_unsubscribe", "rate_limited")
		return &ThrottledError{RetryAt: decision.ResetAt}
	}
	if rc.BodyErr != nil {
		return malformedBody()
	}

	valid, fields := ValidateNewsletter(req)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	existing, err := uc.Repo.FindByEmail(ctx, valid.Email)
	if errors.Is(err, entity.ErrSubscriberNotFound) {
		return &NotFoundError{Code: CodeNotFound, Message: "email is not subscribed"}
	}
	if err != nil {
		logger.LogError("newsletter_lookup_failed", err, nil)
		return &PersistenceError{Op: "find subscriber", Err: err}
	}
	if !existing.IsActive() {
		return nil
	}

	if err := uc.Repo.Unsubscribe(ctx, existing.ID, uc.Now().UTC()); err != nil {
		logger.LogError("newsletter_unsubscribe_failed", err, map[string]interface{}{"subscriber_id": existing.ID})
		return &PersistenceError{Op: "unsubscribe", Err: err}
	}

	logger.LogEvent("newsletter_unsubscribed", map[string]interface{}{"subscriber_id": existing.ID})
	return nil
}
