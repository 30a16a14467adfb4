package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avelinof/linkup-be/internal/config"
)

// Email is one outbound message.
type Email struct {
	Recipient string
	Subject   string
	Body      string
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// APIMailer sends email through a transactional-mail HTTP API.
type APIMailer struct {
	client   *resty.Client
	fromAddr string
	fromName string
}

// NewAPIMailer creates a mail client for the configured API endpoint.
func NewAPIMailer(cfg *config.Config) *APIMailer {
	client := resty.New().
		SetBaseURL(cfg.MailAPIURL).
		SetAuthToken(cfg.MailAPIKey).
		SetTimeout(10 * time.Second)

	return &APIMailer{
		client:   client,
		fromAddr: cfg.MailFromAddr,
		fromName: cfg.MailFromName,
	}
}

// Send posts the message to the mail API's send endpoint.
func (m *APIMailer) Send(ctx context.Context, email Email) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"from":    map[string]string{"email": m.fromAddr, "name": m.fromName},
			"to":      []map[string]string{{"email": email.Recipient}},
			"subject": email.Subject,
			"html":    email.Body,
		}).
		Post("/send")
	if err != nil {
		return fmt.Errorf("mail API request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail API returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// WelcomeEmail builds the message sent after a successful signup.
func WelcomeEmail(recipient, name, profileURL string) Email {
	return Email{
		Recipient: recipient,
		Subject:   "Welcome to LinkUp",
		Body: fmt.Sprintf(
			`<p>Hi %s,</p><p>Welcome to LinkUp! Your profile is live at <a href="%s">%s</a>.</p>`,
			name, profileURL, profileURL),
	}
}
