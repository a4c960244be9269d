// Package mailer sends outbound email such as contact form notifications.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"folio/internal/config"
	"folio/internal/middleware"

	gomail "github.com/wneessen/go-mail"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers a message. Implementations make a single attempt.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipients is returned for messages without a To address.
var ErrNoRecipients = errors.New("mailer: no recipients")

// New returns an SMTP mailer when SMTP_HOST is configured and a logging
// mailer otherwise.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		timeout:  10 * time.Second,
	}
}

// SMTPMailer sends through an SMTP relay with go-mail.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	timeout  time.Duration
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	em := gomail.NewMsg()
	if err := em.From(m.from); err != nil {
		return fmt.Errorf("mailer: from: %w", err)
	}
	if err := em.To(msg.To...); err != nil {
		return fmt.Errorf("mailer: to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := em.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("mailer: reply-to: %w", err)
		}
	}
	em.Subject(msg.Subject)
	em.SetBodyString(gomail.TypeTextPlain, msg.Body)

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTimeout(m.timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}
	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("mailer: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, em); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	middleware.Logger.InfoContext(ctx, "email not sent (SMTP disabled)",
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
