// Package email delivers outbound notifications through the configured
// provider. Delivery is never load-bearing: callers treat a send failure as a
// warning on the operation that triggered it.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/go-resty/resty/v2"
)

const requestTimeout = 15 * time.Second

// Sender sends transactional email through the provider's REST API.
type Sender struct {
	http *resty.Client
	from string
	log  *logger.Logger
}

// New creates a Sender for the configured provider.
func New(cfg config.EmailConfig, log *logger.Logger) *Sender {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Sender{http: http, from: cfg.FromAddress, log: log}
}

// SendSigningLink emails the signing URL to the client.
func (s *Sender) SendSigningLink(ctx context.Context, to, clientName, signingURL string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour letter of engagement is ready for signature:\n\n%s\n\nChinook Valuation Services",
		clientName, signingURL,
	)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"from":    s.from,
			"to":      []string{to},
			"subject": "Your Letter of Engagement is ready to sign",
			"text":    body,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email send failed: http %d: %s", resp.StatusCode(), resp.String())
	}

	s.log.Info("Signing link emailed", map[string]interface{}{"to": to})
	return nil
}
