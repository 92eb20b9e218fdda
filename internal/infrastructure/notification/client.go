package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/iho/smartwallet/internal/domain"
)

// Client implements usecase.NotificationGateway against the notification
// service's HTTP API. Deliveries are retried with bounded exponential
// backoff; the caller's context caps the total time spent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxElapsed time.Duration
}

// NewClient creates a new notification Client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		maxElapsed: 3 * timeout,
	}
}

type sendRequest struct {
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type preferenceRequest struct {
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Enabled     bool   `json:"enabled"`
	ContactInfo string `json:"contact_info"`
}

type preferenceResponse struct {
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Enabled     bool   `json:"enabled"`
	ContactInfo string `json:"contact_info"`
}

// Send delivers a notification to the user.
func (c *Client) Send(ctx context.Context, userID, subject, body string) error {
	err := c.postWithRetry(ctx, "/api/v1/notifications", sendRequest{
		UserID:  userID,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		c.logger.Warn("notification delivery failed",
			slog.String("user_id", userID),
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return err
	}

	return nil
}

// UpsertPreference saves the user's contact preference.
func (c *Client) UpsertPreference(ctx context.Context, userID string, enabled bool, email string) error {
	err := c.postWithRetry(ctx, "/api/v1/preferences", preferenceRequest{
		UserID:      userID,
		Type:        "email",
		Enabled:     enabled,
		ContactInfo: email,
	})
	if err != nil {
		c.logger.Warn("notification preference upsert failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return err
	}

	return nil
}

// GetPreference fetches the user's contact preference.
func (c *Client) GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/preferences/"+userID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notification service returned %d", resp.StatusCode)
	}

	var pref preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("decode preference: %w", err)
	}

	return &domain.NotificationPreference{
		UserID:      pref.UserID,
		Type:        pref.Type,
		Enabled:     pref.Enabled,
		ContactInfo: pref.ContactInfo,
	}, nil
}

func (c *Client) postWithRetry(ctx context.Context, path string, payload any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = c.maxElapsed

	return backoff.Retry(func() error {
		return c.post(ctx, path, payload)
	}, backoff.WithContext(b, ctx))
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	err = fmt.Errorf("notification service returned %d", resp.StatusCode)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// Client errors will not heal on retry
		return backoff.Permanent(err)
	}

	return err
}
