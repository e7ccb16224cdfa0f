// Package mailer sends booking confirmation emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Confirmation is the data rendered into the confirmation email.
type Confirmation struct {
	To            string
	Name          string
	TransactionID string
	OrderID       string
	Route         string
	Departure     string
	Total         string
	Currency      string
}

type Mailer interface {
	SendBookingConfirmation(ctx context.Context, c Confirmation) error
}

const confirmationText = `Hello {{if .Name}}{{.Name}}{{else}}traveler{{end}},

Your flight booking is confirmed.

Transaction: {{.TransactionID}}
{{- if .OrderID}}
Booking reference: {{.OrderID}}
{{- end}}
Route: {{.Route}}
{{- if .Departure}}
Departure: {{.Departure}}
{{- end}}
Total paid: {{.Total}} {{.Currency}}

Keep this email for your records.
`

var confirmationTemplate = template.Must(template.New("confirmation").Parse(confirmationText))

// RenderConfirmation returns the plain text body for c.
func RenderConfirmation(c Confirmation) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("mailer: render confirmation: %w", err)
	}
	return buf.String(), nil
}

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: new client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendBookingConfirmation(ctx context.Context, c Confirmation) error {
	msg, err := m.message(c)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", c.To, err)
	}
	return nil
}

func (m *SMTPMailer) message(c Confirmation) (*mail.Msg, error) {
	body, err := RenderConfirmation(c)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(c.To); err != nil {
		return nil, fmt.Errorf("mailer: to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Booking confirmed - %s", c.TransactionID))
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// Noop discards every email. Used when SMTP is not configured.
type Noop struct{}

func (Noop) SendBookingConfirmation(context.Context, Confirmation) error { return nil }
