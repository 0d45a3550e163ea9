package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/infra/queue"
)

type leadFixture struct {
	repo      *MockLeadRepository
	mailer    *MockMailer
	publisher *MockPublisher
	uc        *SubmitLeadUseCase
}

func newLeadFixture(t *testing.T, limit int) *leadFixture {
	t.Helper()
	selector, err := NewRoundRobinSelector(testAffiliates().IDs())
	require.NoError(t, err)

	f := &leadFixture{
		repo:      new(MockLeadRepository),
		mailer:    new(MockMailer),
		publisher: new(MockPublisher),
	}
	f.uc = NewSubmitLeadUseCase(
		testLimiter(limit),
		f.repo,
		selector,
		testAffiliates(),
		testRenderer(),
		f.mailer,
		f.publisher,
		testSettings(),
	)
	f.uc.Now = clock
	return f
}

func scenarioRequest(departure time.Time) LeadRequest {
	return LeadRequest{
		Name:               "John Doe",
		Email:              "john@example.com",
		Phone:              "5551234567",
		FromCity:           "NYC",
		ToCity:             "MIA",
		Date:               departure.Format("2006-01-02"),
		Passengers:         float64(8),
		AircraftPreference: "heavy-jets",
		Message:            strings.Repeat("We need catering and ground transport. ", 3),
		GDPRConsent:        boolPtr(true),
		MarketingConsent:   boolPtr(true),
	}
}

func requestContext() RequestContext {
	return RequestContext{
		ClientKey: "203.0.113.7",
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148",
		Referrer:  "https://google.com/",
		UTM:       entity.UTM{Source: "google", Medium: "cpc", Campaign: "winter"},
	}
}

func sentTo(msg mail.Message, addr string) bool { return msg.To == addr }

func TestSubmitLeadHappyPath(t *testing.T) {
	f := newLeadFixture(t, 10)

	var saved *entity.Lead
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*entity.Lead) }).
		Return(nil).Once()
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Times(3)
	f.publisher.On("PublishLeadCreated", mock.Anything, mock.AnythingOfType("queue.LeadCreatedEvent")).Return(nil).Once()

	out, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(10)), requestContext())
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, saved.ID, out.LeadID)
	assert.Equal(t, 10, out.Score)
	assert.Equal(t, entity.QualityHot, out.Quality)
	assert.Contains(t, out.Message, "2-4 hours")

	assert.Equal(t, 10, saved.LeadScore)
	assert.Equal(t, entity.QualityHot, saved.LeadQuality)
	assert.Equal(t, "affiliate-1", saved.AffiliateID)
	assert.Equal(t, "SKY-001", saved.ReferralCode)
	assert.Equal(t, entity.CommissionPending, saved.CommissionStatus)
	assert.Equal(t, entity.LeadStatusNew, saved.Status)
	assert.Equal(t, entity.DeviceMobile, saved.DeviceType)
	assert.Equal(t, "google", saved.UTM.Source)
	assert.Equal(t, "https://google.com/", saved.Referrer)
	assert.Equal(t, fixedNow, saved.CreatedAt)
	assert.Equal(t, fixedNow.Add(730*24*time.Hour), saved.DataRetentionExpiresAt)
	assert.True(t, saved.GDPRConsent)

	f.mailer.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return sentTo(m, "admin@jetleads.example") && m.ReplyTo == "john@example.com" && strings.HasPrefix(m.Subject, "[HOT]")
	}))
	f.mailer.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return sentTo(m, "a1@partners.example") && strings.Contains(m.HTML, "5551234567") && strings.Contains(m.HTML, "SKY-001")
	}))
	f.mailer.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return sentTo(m, "john@example.com") && strings.Contains(m.HTML, "2-4 hours")
	}))
	f.publisher.AssertCalled(t, "PublishLeadCreated", mock.Anything, mock.MatchedBy(func(e queue.LeadCreatedEvent) bool {
		return e.LeadID == saved.ID && e.LeadQuality == entity.QualityHot
	}))
	f.repo.AssertExpectations(t)
}

func TestSubmitLeadPastDateScoresEight(t *testing.T) {
	f := newLeadFixture(t, 10)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishLeadCreated", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(-1)), requestContext())
	require.NoError(t, err)

	assert.Equal(t, 8, out.Score)
	assert.Equal(t, entity.QualityHot, out.Quality)
}

func TestSubmitLeadGDPRGateHasNoSideEffects(t *testing.T) {
	f := newLeadFixture(t, 10)

	req := scenarioRequest(daysFromNow(10))
	req.GDPRConsent = boolPtr(false)

	_, err := f.uc.Execute(context.Background(), req, requestContext())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gdpr_consent", verr.Fields[0].Field)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishLeadCreated", mock.Anything, mock.Anything)
}

func TestSubmitLeadThrottlesBeforeValidation(t *testing.T) {
	f := newLeadFixture(t, 1)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishLeadCreated", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(10)), requestContext())
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), LeadRequest{}, requestContext())
	var terr *ThrottledError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, fixedNow.Add(time.Minute), terr.RetryAt)
	f.repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSubmitLeadMalformedBodyCountsAgainstLimit(t *testing.T) {
	f := newLeadFixture(t, 1)
	rc := requestContext()
	rc.BodyErr = errors.New("unexpected EOF")

	_, err := f.uc.Execute(context.Background(), LeadRequest{}, rc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body", verr.Fields[0].Field)

	_, err = f.uc.Execute(context.Background(), LeadRequest{}, rc)
	var terr *ThrottledError
	require.ErrorAs(t, err, &terr)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitLeadPersistenceFailureSkipsNotifications(t *testing.T) {
	f := newLeadFixture(t, 10)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(10)), requestContext())

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failed to save, please try again", err.Error())
	assert.NotContains(t, err.Error(), "connection refused")
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishLeadCreated", mock.Anything, mock.Anything)
}

func TestSubmitLeadNotificationFailureStillSucceeds(t *testing.T) {
	f := newLeadFixture(t, 10)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return sentTo(m, "a1@partners.example")
	})).Return(errors.New("smtp 421"))
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishLeadCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(10)), requestContext())
	require.NoError(t, err)
	assert.NotEmpty(t, out.LeadID)
	f.mailer.AssertNumberOfCalls(t, "Send", 3)
}

func TestSubmitLeadRotatesAffiliates(t *testing.T) {
	f := newLeadFixture(t, 100)
	var assigned []string
	f.repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { assigned = append(assigned, args.Get(1).(*entity.Lead).AffiliateID) }).
		Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.uc.Events = nil

	for i := 0; i < 4; i++ {
		_, err := f.uc.Execute(context.Background(), scenarioRequest(daysFromNow(10)), requestContext())
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"affiliate-1", "affiliate-2", "affiliate-3", "affiliate-1"}, assigned)
}

func TestDispatchRenderFailureIsPerChannel(t *testing.T) {
	renderer := new(MockRenderer)
	mailer := new(MockMailer)
	renderer.On("Render", "broken", mock.Anything).Return(mail.Rendered{}, errors.New("template error"))
	renderer.On("Render", "ok", mock.Anything).Return(mail.Rendered{Subject: "s", HTML: "h"}, nil)
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := dispatch(ctx, renderer, mailer, "ref-1", []notification{
		{channel: ChannelAdmin, template: "broken", to: "a@x.co"},
		{channel: ChannelCustomer, template: "ok", to: "b@x.co"},
	})

	require.Len(t, errs, 1)
	var nerr *NotificationError
	require.ErrorAs(t, errs[0], &nerr)
	assert.Equal(t, ChannelAdmin, nerr.Channel)
	mailer.AssertNumberOfCalls(t, "Send", 1)
	mailer.AssertCalled(t, "Send", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything)
}
