package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProfileDraft is the structured extraction the parsing service returns for
// an uploaded CV document. The core consumes this contract as-is; the
// natural-language extraction itself lives entirely in the external service.
type ProfileDraft struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Title     string   `json:"title"`
	Skills    []string `json:"skills"`
}

// Client is a narrow HTTP client for the CV-parsing service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured reports whether a parsing service endpoint was provided.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// ParseDocument asks the parsing service to extract a profile draft from the
// stored document. Failures degrade to an empty draft at the call site:
// parsing is a convenience, never a precondition for creating a profile.
func (c *Client) ParseDocument(ctx context.Context, documentID string) (*ProfileDraft, error) {
	payload, err := json.Marshal(map[string]string{"document_id": documentID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser: unexpected status %d", resp.StatusCode)
	}

	var draft ProfileDraft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return nil, fmt.Errorf("parser: decoding response: %w", err)
	}

	return &draft, nil
}
