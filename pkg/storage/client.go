package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client resolves stable serve-URLs from the document-storage service.
// Binaries never pass through this backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// DocumentURL returns the serve-URL for a stored document id.
func (c *Client) DocumentURL(ctx context.Context, documentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/documents/%s/url", c.baseURL, documentID), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("storage: decoding response: %w", err)
	}

	return body.URL, nil
}
