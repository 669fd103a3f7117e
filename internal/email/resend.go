package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hammercms/internal/config"
)

// Package email sends transactional mail through the Resend API
// (https://resend.com/docs/api-reference/emails/send-email).

// Message is one outbound email.
type Message struct {
	Subject string
	To      []string
	Text    string
	HTML    string
	ReplyTo string
	Tags    map[string]string
}

// Mailer sends messages. The concrete client is swapped for a mock in tests.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResendClient is a Mailer backed by the Resend HTTP API.
type ResendClient struct {
	apiKey  string
	from    string
	replyTo string
	baseURL string
	http    *http.Client
}

// NewResend validates the configuration and returns a ready client.
// Outbound requests are traced via the otelhttp transport.
func NewResend(cfg config.ResendConfig) (*ResendClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("resend sender address is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.resend.com"
	}
	return &ResendClient{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		replyTo: cfg.ReplyTo,
		baseURL: strings.TrimRight(base, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}, nil
}

var _ Mailer = (*ResendClient)(nil)

type resendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type resendPayload struct {
	From    string      `json:"from"`
	To      []string    `json:"to"`
	Subject string      `json:"subject"`
	Text    string      `json:"text"`
	HTML    string      `json:"html,omitempty"`
	ReplyTo []string    `json:"reply_to,omitempty"`
	Tags    []resendTag `json:"tags,omitempty"`
}

// Send posts the message to the /emails endpoint. Non-2xx responses come
// back as an error carrying the status and a snippet of the body.
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	payload := resendPayload{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	if rt := firstNonEmpty(msg.ReplyTo, c.replyTo); rt != "" {
		payload.ReplyTo = []string{rt}
	}
	for k, v := range msg.Tags {
		payload.Tags = append(payload.Tags, resendTag{Name: k, Value: v})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
