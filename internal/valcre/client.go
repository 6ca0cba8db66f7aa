// Package valcre is the REST client for the external practice-management
// system. Entity creation follows the system's dependency order: contacts and
// properties exist before parcels, assessments and jobs that reference them.
//
// The API sometimes reports failure inside an HTTP 200 body, so every call
// inspects the parsed envelope as well as the status code.
package valcre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/go-resty/resty/v2"
)

const requestTimeout = 30 * time.Second

// ErrAuthentication is returned when the password-grant token exchange fails.
// The wrapped error carries the raw provider response body.
var ErrAuthentication = errors.New("valcre authentication failed")

// Client is the practice-management API client.
type Client struct {
	http *resty.Client
	cfg  config.ValcreConfig
	log  *logger.Logger
}

// New creates a Client for the environment selected in cfg.
func New(cfg config.ValcreConfig, log *logger.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL()).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http: http,
		cfg:  cfg,
		log:  log,
	}
}

// NewWithBaseURL creates a Client against an explicit endpoint. Used by tests
// to point the client at a local server.
func NewWithBaseURL(baseURL string, cfg config.ValcreConfig, log *logger.Logger) *Client {
	c := New(cfg, log)
	c.http.SetBaseURL(baseURL)
	return c
}

// Authenticate performs the password-grant token exchange and stores the
// bearer token on the client. There is no retry: a failed exchange aborts the
// calling operation.
func (c *Client) Authenticate(ctx context.Context) error {
	var token tokenResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "password",
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"username":      c.cfg.Username,
			"password":      c.cfg.Password,
		}).
		SetResult(&token).
		Post("/connect/token")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if resp.IsError() || token.AccessToken == "" {
		return fmt.Errorf("%w: %s", ErrAuthentication, resp.String())
	}

	c.http.SetAuthToken(token.AccessToken)

	c.log.Info("Authenticated to practice-management API", map[string]interface{}{
		"environment": c.cfg.Environment,
		"expires_in":  token.ExpiresIn,
	})
	return nil
}

// FindContactByEmail searches for a contact with an exact server-side email
// filter. Returns nil, nil when no contact matches.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*Contact, error) {
	var result contactSearchResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("filter", fmt.Sprintf("Email eq '%s'", email)).
		SetResult(&result).
		Get("/api/v1/contacts")
	if err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}

	if len(result.Contacts) == 0 {
		return nil, nil
	}
	return &result.Contacts[0], nil
}

// CreateContact creates a Client or PropertyContact entity.
func (c *Client) CreateContact(ctx context.Context, contact Contact) (*Contact, error) {
	var result contactResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(contact).
		SetResult(&result).
		Post("/api/v1/contacts")
	if err != nil {
		return nil, fmt.Errorf("contact creation failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("contact creation failed: %w", err)
	}

	return &result.Contact, nil
}

// CreateProperty creates a Property entity.
func (c *Client) CreateProperty(ctx context.Context, property Property) (*Property, error) {
	var result propertyResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(property).
		SetResult(&result).
		Post("/api/v1/properties")
	if err != nil {
		return nil, fmt.Errorf("property creation failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("property creation failed: %w", err)
	}

	return &result.Property, nil
}

// CreateParcel creates a PropertyParcel entity under an existing property.
func (c *Client) CreateParcel(ctx context.Context, parcel PropertyParcel) (*PropertyParcel, error) {
	var result parcelResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(parcel).
		SetResult(&result).
		Post("/api/v1/propertyparcels")
	if err != nil {
		return nil, fmt.Errorf("parcel creation failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("parcel creation failed: %w", err)
	}

	return &result.PropertyParcel, nil
}

// CreateAssessment creates an assessment record under an existing parcel.
func (c *Client) CreateAssessment(ctx context.Context, assessment PropertyParcelAssessment) (*PropertyParcelAssessment, error) {
	var result assessmentResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(assessment).
		SetResult(&result).
		Post("/api/v1/propertyparcelassessments")
	if err != nil {
		return nil, fmt.Errorf("assessment creation failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("assessment creation failed: %w", err)
	}

	return &result.PropertyParcelAssessment, nil
}

// CreateJob creates the Job entity and returns it with the assigned job
// number. A 200 response with success=false in the body is a failure.
func (c *Client) CreateJob(ctx context.Context, job Job) (*Job, error) {
	var result jobResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(job).
		SetResult(&result).
		Post("/api/v1/jobs")
	if err != nil {
		return nil, fmt.Errorf("job creation failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return nil, fmt.Errorf("job creation failed: %w", err)
	}

	return &result.Job, nil
}

// UpdateJob partially updates an existing job. Only the fields carried by
// JobUpdate are accepted on this path; see that type for the create-only set.
func (c *Client) UpdateJob(ctx context.Context, jobID int, patch JobUpdate) error {
	var result jobResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(patch).
		SetResult(&result).
		Patch(fmt.Sprintf("/api/v1/jobs/%d", jobID))
	if err != nil {
		return fmt.Errorf("job update failed: %w", err)
	}
	if err := checkResponse(resp, result.apiStatus); err != nil {
		return fmt.Errorf("job update failed: %w", err)
	}

	return nil
}

// checkResponse treats both non-2xx statuses and failure envelopes inside a
// 2xx body as errors, preserving the raw body for diagnosis.
func checkResponse(resp *resty.Response, status apiStatus) error {
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	if status.failed() {
		return fmt.Errorf("api reported failure: %s", status.reason())
	}
	return nil
}
