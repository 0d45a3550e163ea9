package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/config"
	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/featureflag"
	"github.com/xavierca1/jetleads/internal/infra/database"
	"github.com/xavierca1/jetleads/internal/infra/http/handlers"
	"github.com/xavierca1/jetleads/internal/infra/integration/crm"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/infra/queue"
	"github.com/xavierca1/jetleads/internal/infra/worker"
	"github.com/xavierca1/jetleads/internal/ratelimit"
	"github.com/xavierca1/jetleads/internal/usecase"
)

const limiterSweepInterval = time.Minute

type app struct {
	cfg       *config.Config
	db        *sql.DB
	redis     *redis.Client
	rabbit    *queue.RabbitMQ
	sender    *mail.EmailSender
	assigner  *featureflag.Assigner
	retention *worker.RetentionWorker
	leads     *database.LeadRepository
	contacts  *database.ContactRepository
	subs      *database.NewsletterRepository
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.NewDBConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	assigner, err := featureflag.NewAssigner(cfg.FeatureFlags)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("feature flags: %w", err)
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		assigner: assigner,
		sender:   mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From),
		leads:    database.NewLeadRepository(db),
		contacts: database.NewContactRepository(db),
		subs:     database.NewNewsletterRepository(db),
	}
	a.retention = worker.NewRetentionWorker(map[string]worker.Purger{
		"leads":               a.leads,
		"contact_submissions": a.contacts,
	}, cfg.RetentionSweepInterval)

	if cfg.Redis.Address != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logrus.WithError(err).Warn("lead events disabled")
		} else {
			a.rabbit = rabbit
		}
	}

	return a, nil
}

// limiter returns a Redis-backed limiter when Redis is configured, otherwise
// an in-process one. Either way an in-process sweeper runs until ctx ends.
func (a *app) limiter(ctx context.Context, name string, rl config.RateLimit) ratelimit.Limiter {
	cfg := ratelimit.Config{MaxRequests: rl.MaxRequests, Window: rl.Window}
	if a.redis != nil {
		l := ratelimit.NewRedisLimiter(a.redis, name, cfg)
		go l.Fallback().StartSweeper(ctx, limiterSweepInterval)
		return l
	}
	l := ratelimit.NewMemoryLimiter(cfg)
	go l.StartSweeper(ctx, limiterSweepInterval)
	return l
}

func (a *app) routes(ctx context.Context) (routes, error) {
	directory, err := entity.NewAffiliateDirectory(a.cfg.Affiliates)
	if err != nil {
		return routes{}, err
	}
	selector, err := usecase.NewRoundRobinSelector(directory.IDs())
	if err != nil {
		return routes{}, err
	}
	renderer, err := mail.NewTemplateRenderer()
	if err != nil {
		return routes{}, err
	}

	settings := usecase.IntakeSettings{
		AdminEmail:      a.cfg.AdminEmail,
		RetentionWindow: a.cfg.RetentionWindow,
		Site: mail.SiteInfo{
			Name:           a.cfg.Site.Name,
			URL:            a.cfg.Site.URL,
			Phone:          a.cfg.Site.Phone,
			ResponseWindow: a.cfg.Site.ResponseWindow,
		},
	}

	var events usecase.LeadEventPublisher
	if a.rabbit != nil {
		events = queue.NewProducer(a.rabbit.Ch)
	}

	submitLead := usecase.NewSubmitLeadUseCase(
		a.limiter(ctx, "lead", a.cfg.LeadRateLimit),
		a.leads, selector, directory, renderer, a.sender, events, settings,
	)
	submitContact := usecase.NewSubmitContactUseCase(
		a.limiter(ctx, "contact", a.cfg.ContactRateLimit),
		a.contacts, renderer, a.sender, settings,
	)
	newsletterLimiter := a.limiter(ctx, "newsletter", a.cfg.NewsletterRateLimit)
	subscribe := usecase.NewSubscribeNewsletterUseCase(newsletterLimiter, a.subs, renderer, a.sender, settings)
	unsubscribe := usecase.NewUnsubscribeNewsletterUseCase(newsletterLimiter, a.subs)

	return routes{
		lead:       handlers.NewLeadHandler(submitLead),
		contact:    handlers.NewContactHandler(submitContact),
		newsletter: handlers.NewNewsletterHandler(subscribe, unsubscribe),
		variants:   handlers.NewVariantHandler(a.assigner),
		health:     handlers.NewHealthHandler(handlers.PingFunc(a.db.PingContext), a.sender),
	}, nil
}

// startCRMSync consumes lead events into the CRM until ctx ends. It needs both
// the broker and CRM credentials.
func (a *app) startCRMSync(ctx context.Context) {
	if a.rabbit == nil || a.cfg.CRMAPIURL == "" {
		return
	}
	ch, err := a.rabbit.Conn.Channel()
	if err != nil {
		logrus.WithError(err).Error("failed to open consumer channel")
		return
	}

	w := queue.NewWorker(ch, crm.NewClient(a.cfg.CRMAPIURL, a.cfg.CRMAPIToken))
	go func() {
		defer ch.Close()
		if err := w.Start(ctx, queue.QueueName); err != nil {
			logrus.WithError(err).Error("crm sync worker stopped")
		}
	}()
}

func (a *app) Close() {
	if a.rabbit != nil {
		a.rabbit.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}
