package usecase

import (
	"context"

	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/infra/queue"
)

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Renderer interface {
	Render(kind string, data any) (mail.Rendered, error)
}

type LeadEventPublisher interface {
	PublishLeadCreated(ctx context.Context, event queue.LeadCreatedEvent) error
}
