package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"google.golang.org/genai"
)

type stubGoogleModelsClient struct {
	generateResp *genai.GenerateContentResponse
	generateErr  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (s *stubGoogleModelsClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.gotModel = model
	s.gotContents = contents
	s.gotConfig = cfg
	return s.generateResp, s.generateErr
}

func newStubSDKBackend(stub *stubGoogleModelsClient) *SDKBackend {
	return &SDKBackend{models: stub, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestNewSDKBackend_RequiresAPIKey(t *testing.T) {
	if _, err := NewSDKBackend(context.Background(), SDKOptions{APIKey: " "}); err == nil {
		t.Fatal("Expected error when API key is missing")
	}
}

func TestNewSDKBackend_ClientConfig(t *testing.T) {
	origNewClient := newGoogleClient
	defer func() {
		newGoogleClient = origNewClient
	}()

	var gotClientCfg *genai.ClientConfig
	newGoogleClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
		gotClientCfg = cfg
		return &genai.Client{}, nil
	}

	_, err := NewSDKBackend(context.Background(), SDKOptions{
		APIKey:  "test-google-key",
		BaseURL: "https://example.test",
	})
	if err != nil {
		t.Fatalf("NewSDKBackend() error: %v", err)
	}

	if gotClientCfg == nil {
		t.Fatal("Expected client config to be captured")
	}
	if gotClientCfg.APIKey != "test-google-key" {
		t.Fatalf("Expected API key to be forwarded, got %q", gotClientCfg.APIKey)
	}
	if gotClientCfg.Backend != genai.BackendGeminiAPI {
		t.Fatalf("Expected BackendGeminiAPI, got %v", gotClientCfg.Backend)
	}
	if gotClientCfg.HTTPOptions.BaseURL != "https://example.test/" {
		t.Fatalf("Unexpected base URL %q", gotClientCfg.HTTPOptions.BaseURL)
	}
	if gotClientCfg.HTTPOptions.APIVersion != DefaultAPIVersion {
		t.Fatalf("Expected API version %q, got %q", DefaultAPIVersion, gotClientCfg.HTTPOptions.APIVersion)
	}
	if gotClientCfg.HTTPClient == nil || gotClientCfg.HTTPClient.Timeout != DefaultTimeout {
		t.Fatalf("Expected HTTP client with default timeout, got %+v", gotClientCfg.HTTPClient)
	}
	if _, ok := gotClientCfg.HTTPClient.Transport.(*keyQueryTransport); !ok {
		t.Fatalf("Expected keyQueryTransport, got %T", gotClientCfg.HTTPClient.Transport)
	}
}

func TestNewSDKBackend_ClientError(t *testing.T) {
	origNewClient := newGoogleClient
	defer func() {
		newGoogleClient = origNewClient
	}()
	newGoogleClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
		return nil, errors.New("boom")
	}

	if _, err := NewSDKBackend(context.Background(), SDKOptions{APIKey: "k", Timeout: time.Second}); err == nil {
		t.Fatal("Expected client construction error")
	}
}

func TestSDKBackend_MapsContents(t *testing.T) {
	stub := &stubGoogleModelsClient{
		generateResp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Role:  genai.RoleModel,
						Parts: []*genai.Part{{Text: "sdk reply"}},
					},
					FinishReason: genai.FinishReasonStop,
				},
			},
		},
	}
	backend := newStubSDKBackend(stub)

	req := BuildRequest([]Turn{{Role: RoleUser, Text: "q1"}, {Role: RoleModel, Text: "a1"}}, "q2")
	resp, err := backend.GenerateContent(context.Background(), "gemini-test", req)
	if err != nil {
		t.Fatalf("GenerateContent() error: %v", err)
	}

	if stub.gotModel != "gemini-test" {
		t.Errorf("Expected model gemini-test, got %q", stub.gotModel)
	}
	if len(stub.gotContents) != 3 {
		t.Fatalf("Expected 3 contents, got %d", len(stub.gotContents))
	}
	wantRoles := []string{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	wantTexts := []string{"q1", "a1", "q2"}
	for i, c := range stub.gotContents {
		if c.Role != wantRoles[i] || len(c.Parts) != 1 || c.Parts[0].Text != wantTexts[i] {
			t.Fatalf("Content %d = %+v", i, c)
		}
	}

	outcome := Interpret(resp, "q2", NewConversation())
	if outcome.Message() != "sdk reply" {
		t.Fatalf("Expected sdk reply, got %q", outcome.Message())
	}
	if resp.Candidates[0].FinishReason != "STOP" {
		t.Errorf("Expected finish reason STOP, got %q", resp.Candidates[0].FinishReason)
	}
}

func TestSDKBackend_BlockReason(t *testing.T) {
	stub := &stubGoogleModelsClient{
		generateResp: &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
				BlockReason: genai.BlockedReasonSafety,
			},
		},
	}

	resp, err := newStubSDKBackend(stub).GenerateContent(context.Background(), "m", BuildRequest(nil, "x"))
	if err != nil {
		t.Fatalf("GenerateContent() error: %v", err)
	}
	if _, ok := Interpret(resp, "x", NewConversation()).(SafetyBlocked); !ok {
		t.Fatalf("Expected SafetyBlocked, got %+v", resp)
	}
}

func TestSDKBackend_NilFirstCandidateIsEmpty(t *testing.T) {
	stub := &stubGoogleModelsClient{
		generateResp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				nil,
				{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: "second"}}}},
			},
		},
	}

	resp, err := newStubSDKBackend(stub).GenerateContent(context.Background(), "m", BuildRequest(nil, "x"))
	if err != nil {
		t.Fatalf("GenerateContent() error: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("Expected candidate positions kept, got %d", len(resp.Candidates))
	}
	conv := NewConversation()
	if _, ok := Interpret(resp, "x", conv).(Empty); !ok {
		t.Fatalf("Expected Empty when the first candidate is missing, got %+v", resp)
	}
	if conv.Len() != 0 {
		t.Fatal("Empty outcome must not change history")
	}
}

func TestSDKBackend_APIErrorBecomesStatusError(t *testing.T) {
	stub := &stubGoogleModelsClient{
		generateErr: fmt.Errorf("wrapped: %w", genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}),
	}

	_, err := newStubSDKBackend(stub).GenerateContent(context.Background(), "m", BuildRequest(nil, "x"))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != 429 || statusErr.Body != "quota" {
		t.Fatalf("Unexpected status error %+v", statusErr)
	}
}

func TestSDKBackend_OtherErrorPassesThrough(t *testing.T) {
	netErr := errors.New("no route to host")
	stub := &stubGoogleModelsClient{generateErr: netErr}

	_, err := newStubSDKBackend(stub).GenerateContent(context.Background(), "m", BuildRequest(nil, "x"))
	if !errors.Is(err, netErr) {
		t.Fatalf("Expected network error, got %v", err)
	}
}

func TestClientWithSDKBackend_NotFound(t *testing.T) {
	stub := &stubGoogleModelsClient{generateErr: genai.APIError{Code: 404, Message: "models/x is not found"}}
	rec := &sleepRecorder{}

	outcome := newStubClient(newStubSDKBackend(stub), rec).Send(context.Background(), NewConversation(), "hi")

	if _, ok := outcome.(ModelNotFound); !ok {
		t.Fatalf("Expected ModelNotFound, got %#v", outcome)
	}
	if len(rec.delays) != 0 {
		t.Fatalf("Expected no retry, got %v", rec.delays)
	}
}

func TestKeyQueryTransport(t *testing.T) {
	var got *http.Request
	transport := &keyQueryTransport{
		key: "k/ey",
		base: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			got = req
			return newHTTPResponse(req, http.StatusOK, "", nil), nil
		}),
	}

	req, err := http.NewRequest(http.MethodPost, "https://example.test/v1beta/models/m:generateContent?alt=json", nil)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	req.Header.Set("x-goog-api-key", "k/ey")
	req.Header.Set("Content-Type", "application/json")

	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error: %v", err)
	}

	if got.Header.Get("x-goog-api-key") != "" {
		t.Error("Expected API key header to be removed")
	}
	if got.URL.Query().Get("key") != "k/ey" {
		t.Errorf("Expected key query parameter, got %q", got.URL.RawQuery)
	}
	if got.URL.Query().Get("alt") != "json" {
		t.Errorf("Expected existing query to be kept, got %q", got.URL.RawQuery)
	}
	if req.Header.Get("x-goog-api-key") == "" {
		t.Error("Original request must not be modified")
	}
}
