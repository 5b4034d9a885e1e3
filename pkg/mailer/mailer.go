package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sender delivers one message to a batch of recipients.
type Sender interface {
	SendBatch(ctx context.Context, to []string, subject, html string) (string, error)
}

// Config holds the bulk email provider settings.
type Config struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an HTTP Sender for a provider exposing POST {base_url}/emails.
func NewClient(cfg Config) Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) SendBatch(ctx context.Context, to []string, subject, html string) (string, error) {
	if len(to) == 0 {
		return "", errors.New("no recipients")
	}

	payload, err := json.Marshal(sendRequest{From: c.cfg.From, To: to, Subject: subject, HTML: html})
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/emails"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send email batch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read email provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sendResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return "", fmt.Errorf("failed to decode email provider response: %w", err)
		}
	}
	return out.ID, nil
}
