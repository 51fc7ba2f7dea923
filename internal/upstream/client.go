// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/internhub/gateway/internal/config"
	"github.com/internhub/gateway/internal/models"
)

// Client is a typed wrapper over the marketplace REST API. Every call
// carries the caller's bearer token unchanged; the gateway never holds
// credentials of its own. Outbound traffic is throttled with a shared
// token bucket so a burst of dashboard refreshes cannot hammer the
// marketplace.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
	}
}

// NewWithHTTPClient builds a client around a caller-supplied http.Client
// with throttling disabled. Intended for tests against httptest servers.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
}

// MyApplications fetches the calling intern's applications.
func (c *Client) MyApplications(ctx context.Context, token string) ([]models.ApplicationRecord, error) {
	var records []models.ApplicationRecord
	if err := c.do(ctx, token, http.MethodGet, "/api/v1/applications/my-applications", nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MyOffers fetches the calling intern's offers (applications in offered
// or accepted state, with offer dates attached).
func (c *Client) MyOffers(ctx context.Context, token string) ([]models.Offer, error) {
	var offers []models.Offer
	if err := c.do(ctx, token, http.MethodGet, "/api/v1/applications/my-offers", nil, nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// RespondToOffer accepts or declines a pending offer. The server is
// authoritative: callers re-fetch after success instead of trusting the
// returned record as final view state.
func (c *Client) RespondToOffer(ctx context.Context, token, applicationID string, response models.OfferResponseChoice) (*models.Offer, error) {
	query := url.Values{"response": {string(response)}}
	path := fmt.Sprintf("/api/v1/applications/%s/respond", url.PathEscape(applicationID))

	var offer models.Offer
	if err := c.do(ctx, token, http.MethodPatch, path, query, struct{}{}, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// Apply submits an application to an internship. A duplicate submission
// is rejected by the server with a bad-request error.
func (c *Client) Apply(ctx context.Context, token, internshipID string) (*models.ApplicationRecord, error) {
	body := map[string]string{"internship_id": internshipID}

	var record models.ApplicationRecord
	if err := c.do(ctx, token, http.MethodPost, "/api/v1/applications/", nil, body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// InternshipsWithMatch fetches active internships annotated with the
// calling intern's match percentages. This feeds the match join; callers
// treat failures as best-effort.
func (c *Client) InternshipsWithMatch(ctx context.Context, token string) ([]models.Internship, error) {
	var internships []models.Internship
	if err := c.do(ctx, token, http.MethodGet, "/api/v1/internships/with-match", nil, nil, &internships); err != nil {
		return nil, err
	}
	return internships, nil
}

// Internships fetches the public browse listing.
func (c *Client) Internships(ctx context.Context, token string) ([]models.Internship, error) {
	var internships []models.Internship
	if err := c.do(ctx, token, http.MethodGet, "/api/v1/internships/", nil, nil, &internships); err != nil {
		return nil, err
	}
	return internships, nil
}

// ApplicantsForInternship fetches the company-side applicant list for
// one posting, with match scores.
func (c *Client) ApplicantsForInternship(ctx context.Context, token, internshipID string) ([]models.Applicant, error) {
	path := fmt.Sprintf("/api/v1/applications/%s/applicants", url.PathEscape(internshipID))

	var applicants []models.Applicant
	if err := c.do(ctx, token, http.MethodGet, path, nil, nil, &applicants); err != nil {
		return nil, err
	}
	return applicants, nil
}

// AllCompanyApplicants fetches applicants across all of the company's
// postings.
func (c *Client) AllCompanyApplicants(ctx context.Context, token string) ([]models.Applicant, error) {
	var applicants []models.Applicant
	if err := c.do(ctx, token, http.MethodGet, "/api/v1/applications/company/all-applicants", nil, nil, &applicants); err != nil {
		return nil, err
	}
	return applicants, nil
}

// UpdateApplicationStatus moves an application through the company-side
// pipeline (reviewed, offered, rejected, ...).
func (c *Client) UpdateApplicationStatus(ctx context.Context, token, applicationID, status string) (*models.ApplicationRecord, error) {
	query := url.Values{"status": {status}}
	path := fmt.Sprintf("/api/v1/applications/%s/status", url.PathEscape(applicationID))

	var record models.ApplicationRecord
	if err := c.do(ctx, token, http.MethodPatch, path, query, struct{}{}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed errorPayload
		json.Unmarshal(responseBody, &parsed)
		return classifyStatus(resp.StatusCode, parsed.Detail)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
