package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"eventmarket/internal/domain"
)

// Config holds configuration for the external media host.
type Config struct {
	UploadURL string
	APIKey    string
}

type httpStore struct {
	client    *http.Client
	uploadURL string
	apiKey    string
}

// NewHTTPStore returns a MediaStore that uploads assets to the configured
// media host and returns the hosted URL from its response.
func NewHTTPStore(client *http.Client, cfg Config) domain.MediaStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpStore{client: client, uploadURL: cfg.UploadURL, apiKey: cfg.APIKey}
}

func (s *httpStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload to media host: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("media host returned status: %d", resp.StatusCode)
	}

	var data struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode media host response: %w", err)
	}
	if data.SecureURL != "" {
		return data.SecureURL, nil
	}
	if data.URL == "" {
		return "", fmt.Errorf("media host response missing url")
	}
	return data.URL, nil
}
