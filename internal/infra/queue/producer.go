package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/jetleads/internal/entity"
)

type LeadCreatedEvent struct {
	LeadID        string    `json:"lead_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	FromCity      string    `json:"from_city"`
	ToCity        string    `json:"to_city"`
	DepartureDate string    `json:"departure_date"`
	Passengers    int       `json:"passengers"`
	LeadScore     int       `json:"lead_score"`
	LeadQuality   string    `json:"lead_quality"`
	AffiliateID   string    `json:"affiliate_id"`
	ReferralCode  string    `json:"referral_code"`
	UTMSource     string    `json:"utm_source,omitempty"`
	UTMCampaign   string    `json:"utm_campaign,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewLeadCreatedEvent(l *entity.Lead) LeadCreatedEvent {
	return LeadCreatedEvent{
		LeadID:        l.ID,
		Name:          l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		FromCity:      l.FromCity,
		ToCity:        l.ToCity,
		DepartureDate: l.DepartureDate.Format("2006-01-02"),
		Passengers:    l.Passengers,
		LeadScore:     l.LeadScore,
		LeadQuality:   l.LeadQuality,
		AffiliateID:   l.AffiliateID,
		ReferralCode:  l.ReferralCode,
		UTMSource:     l.UTM.Source,
		UTMCampaign:   l.UTM.Campaign,
		CreatedAt:     l.CreatedAt,
	}
}

// Channel is the subset of *amqp.Channel the producer needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Channel
}

func NewProducer(ch Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadCreated(ctx context.Context, event LeadCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.LeadID,
			Timestamp:    event.CreatedAt,
			Type:         RoutingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return nil
}
