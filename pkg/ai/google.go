package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const googleAPIKeyHeader = "x-goog-api-key"

type googleModelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGoogleClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// SDKBackend calls generateContent through the genai SDK. Its HTTP client
// moves the key from the SDK's header into the "key" query parameter, so the
// request on the wire matches RESTBackend.
type SDKBackend struct {
	models googleModelsClient
	logger *slog.Logger
}

// SDKOptions configures NewSDKBackend.
type SDKOptions struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewSDKBackend creates a genai-backed backend.
func NewSDKBackend(ctx context.Context, opts SDKOptions) (*SDKBackend, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("google api_key is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: &keyQueryTransport{key: apiKey, base: http.DefaultTransport},
	}

	client, err := newGoogleClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(opts.BaseURL, "/") + "/",
			APIVersion: opts.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create google client: %w", err)
	}

	opts.Logger.Debug("google_sdk_backend_ready", "api_version", opts.APIVersion, "timeout", opts.Timeout)
	return &SDKBackend{models: client.Models, logger: opts.Logger}, nil
}

// GenerateContent sends one request through the SDK.
func (b *SDKBackend) GenerateContent(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error) {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, c := range req.Contents {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{Role: c.Role, Parts: parts})
	}

	resp, err := b.models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		if apiErr, ok := asGoogleAPIError(err); ok {
			b.logger.Debug("google_sdk_api_error", "code", apiErr.Code, "status", apiErr.Status)
			return nil, &StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return nil, err
	}
	return fromGoogleResponse(resp), nil
}

func asGoogleAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func fromGoogleResponse(resp *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{}
	if resp == nil {
		return out
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		out.PromptFeedback = &PromptFeedback{BlockReason: string(resp.PromptFeedback.BlockReason)}
	}
	for _, cand := range resp.Candidates {
		// Keep the slot so the first candidate stays first.
		if cand == nil {
			out.Candidates = append(out.Candidates, Candidate{})
			continue
		}
		converted := Candidate{FinishReason: string(cand.FinishReason)}
		if cand.Content != nil {
			content := &Content{Role: cand.Content.Role}
			for _, part := range cand.Content.Parts {
				if part == nil {
					continue
				}
				content.Parts = append(content.Parts, Part{Text: part.Text})
			}
			converted.Content = content
		}
		out.Candidates = append(out.Candidates, converted)
	}
	return out
}

// keyQueryTransport rewrites the SDK's API key header into a query parameter.
type keyQueryTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyQueryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Del(googleAPIKeyHeader)
	query := clone.URL.Query()
	query.Set("key", t.key)
	clone.URL.RawQuery = query.Encode()
	return t.base.RoundTrip(clone)
}
