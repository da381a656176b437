// Package email sends transactional mail through a Resend-style HTTP
// API. Every send is best-effort: callers log failures and carry on, so
// a mail outage never blocks signups or upgrades.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender delivers a single message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// HTTPSender posts messages to <BaseURL>/emails with a bearer key.
type HTTPSender struct {
	BaseURL string
	APIKey  string
	From    string
	Client  *http.Client
}

// NewSender returns an HTTP sender, or the no-op sender when apiKey is
// empty.
func NewSender(baseURL, apiKey, from string) Sender {
	if apiKey == "" {
		return Noop{}
	}
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &HTTPSender{
		BaseURL: baseURL,
		APIKey:  apiKey,
		From:    from,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers one message. A non-2xx response is an error.
func (s *HTTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(map[string]any{
		"from":    s.From,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email send: status %d: %s", resp.StatusCode, b)
	}
	return nil
}

// Noop is the sender used when no API key is configured. It logs at
// debug level and reports success.
type Noop struct{}

// Send drops the message.
func (Noop) Send(ctx context.Context, to, subject, htmlBody string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("email disabled, message dropped")
	return nil
}

// Recorder captures sent messages for tests.
type Recorder struct {
	Sent []RecordedMail
}

// RecordedMail is one captured message.
type RecordedMail struct {
	To      string
	Subject string
}

// Send records the message and succeeds.
func (r *Recorder) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.Sent = append(r.Sent, RecordedMail{To: to, Subject: subject})
	return nil
}
