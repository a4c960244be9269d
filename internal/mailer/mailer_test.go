package mailer

import (
	"context"
	"testing"

	"folio/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNew_PicksImplementation(t *testing.T) {
	assert.IsType(t, LogMailer{}, New(&config.Config{}))
	assert.IsType(t, &SMTPMailer{}, New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, MailFrom: "a@example.com"}))
}

func TestSend_RequiresRecipients(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, LogMailer{}.Send(ctx, Message{Subject: "x"}), ErrNoRecipients)

	m := New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, MailFrom: "a@example.com"})
	assert.ErrorIs(t, m.Send(ctx, Message{Subject: "x"}), ErrNoRecipients)
}

func TestLogMailer_Send(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Message{To: []string{"admin@example.com"}, Subject: "hi"}))
}
