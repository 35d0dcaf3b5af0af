package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const DefaultTextbeltURL = "https://textbelt.com/text"

// TextbeltSender sends SMS through the Textbelt HTTP API.
type TextbeltSender struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewTextbeltSender returns nil when no key is configured.
func NewTextbeltSender(key, endpoint string, client *http.Client) *TextbeltSender {
	if key == "" {
		return nil
	}
	if endpoint == "" {
		endpoint = DefaultTextbeltURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TextbeltSender{endpoint: endpoint, key: key, client: client}
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *TextbeltSender) SendSMS(ctx context.Context, phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.key,
	})
	if err != nil {
		return fmt.Errorf("textbelt: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(postBody))
	if err != nil {
		return fmt.Errorf("textbelt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt: send: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt: decode response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success {
		if result.Error == "" {
			return errors.New("textbelt: message rejected")
		}
		return fmt.Errorf("textbelt: %s", result.Error)
	}
	return nil
}
