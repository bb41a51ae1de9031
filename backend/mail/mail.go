// Package mail delivers notification emails. Delivery is best effort: every
// message is sent on its own goroutine and failures are logged, never returned.
package mail

import (
	"learning_platform/backend/config"
	"learning_platform/backend/utils"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

func (m *Message) HasRecipient() bool { return m.ToEmail != "" }

// EmailService is anything that can send emails.
type EmailService interface {
	// SendMessages returns immediately; delivery happens in the background.
	SendMessages(messages ...*Message)
}

// New picks the SendGrid transport when an API key is configured and the
// console transport otherwise.
func New(cfg *config.Config, logger *utils.Logger) EmailService {
	if cfg.SendgridAPIKey != "" {
		return NewSendgridService(cfg.SendgridAPIKey, cfg.AppName, cfg.MailFrom, logger)
	}
	return NewConsoleService(cfg.AppName, logger)
}

// deliver runs send on a goroutine and swallows its failure.
func deliver(logger *utils.Logger, msg *Message, send func(*Message) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("email delivery panicked", "subject", msg.Subject, "panic", r)
			}
		}()
		if err := send(msg); err != nil {
			logger.Warn("email delivery failed", "subject", msg.Subject, "error", err)
		}
	}()
}
