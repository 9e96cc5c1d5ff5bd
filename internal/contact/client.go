package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ContactPath is the create endpoint under the backend base address.
const ContactPath = "/api/contact"

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contact backend responded %d %s", e.Code, http.StatusText(e.Code))
}

// Client posts messages to the contact backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the backend at baseURL. The address is not
// checked here; a bad value makes every Submit fail.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: hc}
}

var _ Submitter = (*Client)(nil)

// Submit issues exactly one POST carrying msg. Any 2xx response counts as
// acknowledged; the body is discarded.
func (c *Client) Submit(ctx context.Context, msg Message) error {
	endpoint, err := url.JoinPath(c.baseURL, ContactPath)
	if err != nil {
		return fmt.Errorf("build contact url: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode contact message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post contact message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
