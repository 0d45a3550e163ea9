package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

const defaultSendTimeout = 15 * time.Second

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Timeout:  defaultSendTimeout,
	}
}

func (s *EmailSender) dialer() *gomail.Dialer {
	return gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
}

func (s *EmailSender) buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

// Send delivers one message over SMTP. It returns when the server accepted the
// message, the timeout elapsed, or ctx was cancelled.
func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email has no recipient")
	}
	if s.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	m := s.buildMessage(msg)
	d := s.dialer()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email over SMTP: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s aborted: %w", msg.To, ctx.Err())
	}
}

// Ping opens and closes an SMTP session; used by the health check.
func (s *EmailSender) Ping(ctx context.Context) error {
	if s.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	done := make(chan error, 1)
	go func() {
		closer, err := s.dialer().Dial()
		if err != nil {
			done <- err
			return
		}
		done <- closer.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
