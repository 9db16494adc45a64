// Package eventsapi is the console's client for the remote events API.
//
// The console holds no domain data of its own; events, CFP submissions,
// attendees and sponsorships are queried per request with the signed-in
// user's bearer token.
package eventsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote events API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an events API client. A zero timeout falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Events lists the events visible to the bearer.
func (c *Client) Events(ctx context.Context, token string) ([]Event, error) {
	var out []Event
	if err := c.get(ctx, token, "/v1/events", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Submissions lists CFP submissions, optionally scoped to one event.
func (c *Client) Submissions(ctx context.Context, token, eventID string) ([]Submission, error) {
	var out []Submission
	if err := c.get(ctx, token, "/v1/submissions", eventQuery(eventID), &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Attendees lists attendees, optionally scoped to one event.
func (c *Client) Attendees(ctx context.Context, token, eventID string) ([]Attendee, error) {
	var out []Attendee
	if err := c.get(ctx, token, "/v1/attendees", eventQuery(eventID), &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Sponsorships lists sponsor engagements, optionally scoped to one event.
func (c *Client) Sponsorships(ctx context.Context, token, eventID string) ([]Sponsorship, error) {
	var out []Sponsorship
	if err := c.get(ctx, token, "/v1/sponsorships", eventQuery(eventID), &out); err != nil {
		return nil, err
	}

	return out, nil
}

func eventQuery(eventID string) url.Values {
	if eventID == "" {
		return nil
	}

	return url.Values{"event": {eventID}}
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("events api request failed: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("events api returned %d for %s", resp.StatusCode, path)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode events api response: %w", err)
	}

	return nil
}
