// Package mail relays formatted HTML email through the Resend HTTP API.
// The API key is server-held; callers only see success or an error.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender sends a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendClient talks to the Resend transactional-email API.
type ResendClient struct {
	endpoint string
	apiKey   string
	from     string
	http     *http.Client
	logger   *zap.Logger
}

// NewResendClient constructs the client.
func NewResendClient(cfg config.EmailConfig, logger *zap.Logger) *ResendClient {
	return &ResendClient{
		endpoint: cfg.ResendEndpoint,
		apiKey:   cfg.ResendAPIKey,
		from:     cfg.FromAddress,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the message to the Resend API. Non-2xx responses surface
// the provider's error text so callers can propagate it.
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not set")
	}

	payload := resendPayload{
		From:    c.from,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to send email: %s", string(errText))
	}

	c.logger.Debug("email relayed",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
