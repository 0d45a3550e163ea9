package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/infra/queue"
	"github.com/xavierca1/jetleads/internal/ratelimit"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *entity.ContactSubmission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockNewsletterRepository struct {
	mock.Mock
}

func (m *MockNewsletterRepository) FindByEmail(ctx context.Context, email string) (*entity.NewsletterSubscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NewsletterSubscriber), args.Error(1)
}

func (m *MockNewsletterRepository) Create(ctx context.Context, s *entity.NewsletterSubscriber) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockNewsletterRepository) Reactivate(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockNewsletterRepository) Unsubscribe(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(kind string, data any) (mail.Rendered, error) {
	args := m.Called(kind, data)
	return args.Get(0).(mail.Rendered), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCreated(ctx context.Context, event queue.LeadCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testAffiliates() *entity.AffiliateDirectory {
	d, err := entity.NewAffiliateDirectory([]entity.AffiliateConfig{
		{ID: "affiliate-1", Name: "SkyCharter", NotificationEmail: "a1@partners.example", ReferralCode: "SKY-001"},
		{ID: "affiliate-2", Name: "JetWay", NotificationEmail: "a2@partners.example", ReferralCode: "JET-002"},
		{ID: "affiliate-3", Name: "AirElite", NotificationEmail: "a3@partners.example", ReferralCode: "AIR-003"},
	})
	if err != nil {
		panic(err)
	}
	return d
}

func testSettings() IntakeSettings {
	return IntakeSettings{
		AdminEmail:      "admin@jetleads.example",
		RetentionWindow: 730 * 24 * time.Hour,
		Site: mail.SiteInfo{
			Name:           "JetLeads",
			URL:            "https://jetleads.example",
			Phone:          "+1 800 555 0100",
			ResponseWindow: "2-4 hours",
		},
	}
}

func testLimiter(max int) *ratelimit.MemoryLimiter {
	l := ratelimit.NewMemoryLimiter(ratelimit.Config{MaxRequests: max, Window: time.Minute})
	l.SetClock(clock)
	return l
}

func testRenderer() *mail.TemplateRenderer {
	r, err := mail.NewTemplateRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func boolPtr(b bool) *bool { return &b }
