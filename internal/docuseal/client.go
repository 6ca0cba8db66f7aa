// Package docuseal submits the rendered letter of engagement to the
// e-signature service and tracks the resulting signing session.
package docuseal

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/go-resty/resty/v2"
)

const requestTimeout = 30 * time.Second

// PlaceholderEmail is the recipient used when the job's client email is
// missing or malformed. A bad email must not block submission; the signing
// link is recovered from the dashboard instead.
const PlaceholderEmail = "signing-pending@chinookvaluation.ca"

// Submission is a signing session created for one rendered document.
type Submission struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	SignerEmail string `json:"email"`
	Status      string `json:"status"`
}

// Client is the e-signature API client.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// New creates a Client for the configured endpoint.
func New(cfg config.DocuSealConfig, log *logger.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(requestTimeout).
		SetHeader("X-Auth-Token", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, log: log}
}

// CreateSubmission uploads the rendered document as a one-off template and
// opens a signing session for the signer. A missing or malformed signer email
// is replaced with the placeholder address rather than rejected.
func (c *Client) CreateSubmission(ctx context.Context, documentHTML, signerName, signerEmail string) (*Submission, error) {
	email := signerEmail
	if _, err := mail.ParseAddress(email); err != nil {
		c.log.Warn("Signer email missing or malformed, using placeholder", map[string]interface{}{
			"email": signerEmail,
		})
		email = PlaceholderEmail
	}

	var template struct {
		ID int `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"name": "Letter of Engagement",
			"html": documentHTML,
		}).
		SetResult(&template).
		Post("/templates/html")
	if err != nil {
		return nil, fmt.Errorf("template upload failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("template upload failed: http %d: %s", resp.StatusCode(), resp.String())
	}

	var submissions []Submission
	resp, err = c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"template_id": template.ID,
			"send_email":  false,
			"submitters": []map[string]string{
				{"name": signerName, "email": email},
			},
		}).
		SetResult(&submissions).
		Post("/submissions")
	if err != nil {
		return nil, fmt.Errorf("submission creation failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("submission creation failed: http %d: %s", resp.StatusCode(), resp.String())
	}
	if len(submissions) == 0 {
		return nil, fmt.Errorf("submission creation returned no submitters")
	}

	c.log.Info("Signing session created", map[string]interface{}{
		"submission_id": submissions[0].ID,
		"signer":        email,
	})
	return &submissions[0], nil
}

// SigningLink returns the public signing URL for a submission slug.
func SigningLink(slug string) string {
	return fmt.Sprintf("https://docuseal.com/s/%s", slug)
}
