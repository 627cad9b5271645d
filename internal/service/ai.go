package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Completer is the text-completion capability: callers hand it a system and
// user prompt and get back raw JSON text to validate themselves.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AIService talks to an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(baseURL, apiKey, model string) *AIService {
	return &AIService{baseURL: baseURL, apiKey: apiKey, model: model, client: &http.Client{}}
}

func (s *AIService) Complete(ctx context.Context, system, user string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY", ErrNotConfigured)
	}

	body := map[string]interface{}{
		"model":           s.model,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", externalErr("llm call", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return "", externalErrf("llm status %d: %s", resp.StatusCode, data)
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", externalErr("decode response", err)
	}
	if len(result.Choices) == 0 {
		return "", externalErrf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}
