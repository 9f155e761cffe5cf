package delivery

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// Ensure ResendSender implements the interface.
var _ Sender = (*ResendSender)(nil)

// ResendSender sends mail through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a Resend sender.
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// Send transmits msg.
func (s *ResendSender) Send(_ context.Context, msg Message) error {
	if _, err := s.client.Emails.Send(resendRequest(msg)); err != nil {
		return fmt.Errorf("send via Resend: %w", err)
	}
	return nil
}

func resendRequest(msg Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
}
