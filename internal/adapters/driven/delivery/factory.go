package delivery

import (
	"context"
	"fmt"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// FromSettings builds a deliverer for every supported method. When email is
// not configured the email deliverers are still returned; each delivery
// attempt then fails with domain.ErrNotConfigured.
func FromSettings(cfg domain.DeliverySettings) []driven.Deliverer {
	sender, err := NewSender(cfg)
	if err != nil {
		sender = failingSender{err: err}
	}
	return []driven.Deliverer{
		NewConsole(),
		NewTextFile(cfg.OutputDir),
		NewHTMLFile(cfg.OutputDir),
		NewTextEmail(sender, cfg.EmailFrom, cfg.EmailTo),
		NewHTMLEmail(sender, cfg.EmailFrom, cfg.EmailTo),
	}
}

// NewSender picks the email transport. Resend wins over SMTP.
func NewSender(cfg domain.DeliverySettings) (Sender, error) {
	switch {
	case cfg.ResendAPIKey != "":
		return NewResendSender(cfg.ResendAPIKey), nil
	case cfg.SMTPHost != "":
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}), nil
	default:
		return nil, fmt.Errorf("%w: set delivery.smtp_host or delivery.resend_api_key", domain.ErrNotConfigured)
	}
}

type failingSender struct {
	err error
}

func (f failingSender) Send(context.Context, Message) error {
	return f.err
}
