package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gemini_chat/pkg/logging"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"
	DefaultTimeout    = 30 * time.Second
)

// RESTBackend calls generateContent over plain HTTPS. The API key is only
// ever sent as the "key" query parameter.
type RESTBackend struct {
	BaseURL    string
	APIVersion string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewRESTBackend creates a backend with a per-attempt timeout.
func NewRESTBackend(apiKey string, timeout time.Duration) *RESTBackend {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RESTBackend{
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		APIKey:     apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Logger: slog.Default(),
	}
}

// Endpoint returns the generateContent URL for model, without the key.
func (b *RESTBackend) Endpoint(model string) string {
	base := strings.TrimRight(b.BaseURL, "/")
	version := strings.Trim(b.APIVersion, "/")
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("%s/%s/models/%s:generateContent", base, version, url.PathEscape(model))
}

// GenerateContent sends one request and decodes a 200 reply.
func (b *RESTBackend) GenerateContent(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error) {
	logger := b.logger()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		var prettyJSON bytes.Buffer
		if err := json.Indent(&prettyJSON, jsonData, "", "  "); err == nil {
			logger.Debug("API request body", "json", prettyJSON.String())
		}
	}

	endpoint := b.Endpoint(model)
	query := url.Values{}
	query.Set("key", b.APIKey)

	logger.Debug("Sending API request",
		"url", endpoint,
		logging.KeyAPIKey, logging.MaskKey(b.APIKey),
		"request_size", len(jsonData))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+query.Encode(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client().Do(httpReq)
	if err != nil {
		// url.Error embeds the full URL, key included.
		return nil, fmt.Errorf("failed to send request: %s", redactKey(err.Error(), b.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug("Received API response",
		"status_code", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"response_size", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}

func (b *RESTBackend) client() *http.Client {
	if b.HTTPClient == nil {
		return http.DefaultClient
	}
	return b.HTTPClient
}

func (b *RESTBackend) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(s, key, "REDACTED")
}
