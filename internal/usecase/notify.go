package usecase

import (
	"context"
	"sync"

	"github.com/xavierca1/jetleads/internal/infra/mail"
	"github.com/xavierca1/jetleads/internal/logger"
	"github.com/xavierca1/jetleads/internal/metrics"
)

const (
	ChannelAdmin     = "admin"
	ChannelAffiliate = "affiliate"
	ChannelCustomer  = "customer"
)

type notification struct {
	channel  string
	template string
	to       string
	replyTo  string
	data     any
}

// dispatch sends every notification concurrently and waits for all of them.
// A failing channel never cancels or delays the others. The returned errors
// are already logged.
func dispatch(ctx context.Context, renderer Renderer, mailer Mailer, ref string, notes []notification) []error {
	// Delivery continues even if the client disconnects.
	ctx = context.WithoutCancel(ctx)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, n := range notes {
		wg.Add(1)
		go func(n notification) {
			defer wg.Done()

			err := deliver(ctx, renderer, mailer, n)
			metrics.RecordNotification(n.channel, err)
			if err == nil {
				return
			}

			logger.LogError("notification_failed", err, map[string]interface{}{
				"channel":  n.channel,
				"template": n.template,
				"ref":      ref,
			})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(n)
	}

	wg.Wait()
	return errs
}

func deliver(ctx context.Context, renderer Renderer, mailer Mailer, n notification) error {
	rendered, err := renderer.Render(n.template, n.data)
	if err != nil {
		return &NotificationError{Channel: n.channel, Err: err}
	}

	msg := mail.Message{
		To:      n.to,
		ReplyTo: n.replyTo,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
	}
	if err := mailer.Send(ctx, msg); err != nil {
		return &NotificationError{Channel: n.channel, Err: err}
	}
	return nil
}
