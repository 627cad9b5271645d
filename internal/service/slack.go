package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SlackService delivers text to an incoming-webhook URL. A non-2xx response
// is a delivery failure and its body is surfaced verbatim.
type SlackService struct {
	defaultWebhook string
	client         *http.Client
}

func NewSlackService(defaultWebhook string) *SlackService {
	return &SlackService{defaultWebhook: defaultWebhook, client: &http.Client{}}
}

func (s *SlackService) Send(ctx context.Context, webhookURL, text string) error {
	if webhookURL == "" {
		webhookURL = s.defaultWebhook
	}
	if webhookURL == "" {
		return fmt.Errorf("%w: slack webhook url", ErrNotConfigured)
	}

	payload, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return externalErr("slack send", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return externalErrf("slack send failed: %s", msg)
	}
	return nil
}
