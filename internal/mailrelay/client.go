package mailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const clientTimeout = 15 * time.Second

// RelayError is a non-2xx response from the relay.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("mail relay returned status %d: %s", e.Status, e.Message)
}

// Client calls the relay endpoints over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the relay at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: clientTimeout},
	}
}

// SendContactEmail posts a contact notification.
func (c *Client) SendContactEmail(ctx context.Context, e ContactEmail) error {
	return c.post(ctx, "/api/send-contact-email", e)
}

// SendCareersEmail posts a careers notification.
func (c *Client) SendCareersEmail(ctx context.Context, e CareersEmail) error {
	return c.post(ctx, "/api/send-careers-email", e)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var out struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &out) == nil {
		switch {
		case out.Details != "":
			msg = out.Details
		case out.Error != "":
			msg = out.Error
		}
	}
	return &RelayError{Status: resp.StatusCode, Message: msg}
}
