package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Email implements the interface.
var _ driven.Deliverer = (*Email)(nil)

// DefaultFrom is the sender address used when none is configured.
const DefaultFrom = "pickles@ephemere.io"

// Message is an email ready to send. HTML is optional; Text is always sent.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender transmits email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Email mails reports through a Sender.
type Email struct {
	sender Sender
	from   string
	to     string
	html   bool
}

// NewTextEmail creates a deliverer sending plain-text reports.
func NewTextEmail(sender Sender, from, to string) *Email {
	return newEmail(sender, from, to, false)
}

// NewHTMLEmail creates a deliverer sending HTML reports with a text
// alternative.
func NewHTMLEmail(sender Sender, from, to string) *Email {
	return newEmail(sender, from, to, true)
}

func newEmail(sender Sender, from, to string, html bool) *Email {
	if from == "" {
		from = DefaultFrom
	}
	return &Email{sender: sender, from: from, to: to, html: html}
}

// Method returns the delivery method name.
func (e *Email) Method() string {
	if e.html {
		return domain.DeliveryEmailHTML
	}
	return domain.DeliveryEmailText
}

// Recipient returns the destination address.
func (e *Email) Recipient() string {
	return e.to
}

// Deliver sends the report and returns the recipient.
func (e *Email) Deliver(ctx context.Context, report domain.Report) (string, error) {
	if e.to == "" {
		return "", fmt.Errorf("%w: email recipient", domain.ErrNotConfigured)
	}

	msg := Message{
		From:    e.from,
		To:      e.to,
		Subject: Subject,
		Text:    RenderText(report),
	}
	if e.html {
		html, err := RenderHTML(report)
		if err != nil {
			return "", err
		}
		msg.HTML = html
	}

	if err := e.sender.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	return e.to, nil
}

// Compose encodes msg as an RFC 5322 message. Messages with HTML become
// multipart/alternative.
func Compose(msg Message, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: msg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})

	var buf bytes.Buffer
	if msg.HTML == "" {
		setTextPart(&h.Header, "text/plain")
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		if err != nil {
			return nil, fmt.Errorf("create message: %w", err)
		}
		if err := writeAndClose(w, msg.Text); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline: %w", err)
	}
	parts := []struct{ contentType, body string }{
		{"text/plain", msg.Text},
		{"text/html", msg.HTML},
	}
	for _, p := range parts {
		var ph mail.InlineHeader
		setTextPart(&ph.Header, p.contentType)
		pw, err := iw.CreatePart(ph)
		if err != nil {
			return nil, fmt.Errorf("create %s part: %w", p.contentType, err)
		}
		if err := writeAndClose(pw, p.body); err != nil {
			return nil, err
		}
	}
	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("close inline: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}

type contentHeader interface {
	SetContentType(t string, params map[string]string)
	Set(k, v string)
}

func setTextPart(h contentHeader, contentType string) {
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
}

func writeAndClose(w io.WriteCloser, body string) error {
	if _, err := io.WriteString(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return nil
}
