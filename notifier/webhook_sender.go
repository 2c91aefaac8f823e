package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"timeboss-backend/models"
)

const (
	SignatureHeader = "X-Signature"
	KindHeader      = "X-Event-Type"
)

// WebhookSender posts each message as JSON to an SMS/e-mail gateway
type WebhookSender struct {
	URL         string
	Secret      string
	HTTP        *http.Client
	MaxAttempts int
	BaseBackoff time.Duration
}

func NewWebhookSender(url, secret string) *WebhookSender {
	return &WebhookSender{
		URL:         url,
		Secret:      secret,
		HTTP:        &http.Client{Timeout: 5 * time.Second},
		MaxAttempts: 3,
		BaseBackoff: 200 * time.Millisecond,
	}
}

// permanentError marks a response that retrying cannot fix
type permanentError struct{ code int }

func (e *permanentError) Error() string { return fmt.Sprintf("gateway rejected message: status %d", e.code) }

func (s *WebhookSender) Send(ctx context.Context, msg models.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("webhook send cancelled after %d attempts: %w", attempt, lastErr)
			case <-time.After(nextBackoff(s.BaseBackoff, attempt-1)):
			}
		}
		lastErr = s.post(ctx, msg, body)
		if lastErr == nil {
			return nil
		}
		if _, ok := lastErr.(*permanentError); ok {
			return lastErr
		}
	}
	return lastErr
}

func (s *WebhookSender) post(ctx context.Context, msg models.Message, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(KindHeader, string(msg.Kind))
	if s.Secret != "" {
		req.Header.Set(SignatureHeader, SignHMAC(s.Secret, body))
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return &permanentError{code: resp.StatusCode}
	default:
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}

func nextBackoff(base time.Duration, attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 10 {
		attempts = 10
	}
	d := base * time.Duration(1<<attempts)
	if d > time.Minute {
		d = time.Minute
	}
	return d
}
