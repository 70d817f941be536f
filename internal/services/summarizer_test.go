package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wild-trails/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() ReviewRequest {
	return ReviewRequest{
		JourneyLog: []state.JourneyEntry{
			{Encounter: "Old Oak", Choice: "Look inside"},
			{Encounter: "Cold Stream", Choice: "Wade"},
		},
		UnlockedGallery: []string{"Grey Feather (Rare)"},
	}
}

// fakeCompletions serves /v1/chat/completions and records the decoded request body.
func fakeCompletions(t *testing.T, status int, content string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			return
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSummarizer(baseURL, key string) *OpenAISummarizer {
	return NewOpenAISummarizer(OpenAIConfig{
		APIKey:      key,
		BaseURL:     baseURL,
		Model:       "gpt-4o-mini",
		Temperature: 0.8,
		MaxTokens:   800,
		Timeout:     5 * time.Second,
	}, testLogger())
}

func TestOpenAISummarizer_Success(t *testing.T) {
	var body map[string]any
	srv := fakeCompletions(t, http.StatusOK, "  What a trip through the oaks.  ", &body)
	s := newTestSummarizer(srv.URL+"/v1/", "test-key")

	resp, err := s.Summarize(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "What a trip through the oaks.", resp.Review)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.8, body["temperature"], 0.001)
	assert.EqualValues(t, 800, body["max_tokens"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "system", msg["role"])
	prompt := msg["content"].(string)
	assert.Contains(t, prompt, "<encounter>Old Oak</encounter>")
	assert.Contains(t, prompt, "- Grey Feather (Rare)")
}

func TestOpenAISummarizer_ClosingLine(t *testing.T) {
	var body map[string]any
	srv := fakeCompletions(t, http.StatusOK, "Fine walk.", &body)
	s := NewOpenAISummarizer(OpenAIConfig{
		APIKey:      "k",
		BaseURL:     srv.URL + "/v1",
		ClosingLine: "See you on the trail.",
	}, testLogger())

	_, err := s.Summarize(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg := body["messages"].([]any)[0].(map[string]any)
	assert.Contains(t, msg["content"], "See you on the trail.")
	assert.NotContains(t, msg["content"], "Step outside, learn the species")
}

func TestOpenAISummarizer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		key     string
		req     ReviewRequest
		wantErr error
	}{
		{name: "missing key", status: http.StatusOK, content: "x", key: "", req: sampleRequest(), wantErr: ErrMissingCredential},
		{name: "empty journey", status: http.StatusOK, content: "x", key: "k", req: ReviewRequest{}, wantErr: ErrMalformedRequest},
		{name: "upstream 500", status: http.StatusInternalServerError, key: "k", req: sampleRequest(), wantErr: ErrUpstreamUnavailable},
		{name: "upstream 401", status: http.StatusUnauthorized, key: "k", req: sampleRequest(), wantErr: ErrMissingCredential},
		{name: "empty completion", status: http.StatusOK, content: "   ", key: "k", req: sampleRequest(), wantErr: ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeCompletions(t, tt.status, tt.content, nil)
			s := newTestSummarizer(srv.URL+"/v1", tt.key)

			resp, err := s.Summarize(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, tt.wantErr), "error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestOpenAISummarizer_RejectsMalformedRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unexpected", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	s := newTestSummarizer(srv.URL+"/v1", "k")

	tests := []struct {
		name string
		req  ReviewRequest
	}{
		{name: "nil journey", req: ReviewRequest{UnlockedGallery: []string{"Grey Feather (Rare)"}}},
		{name: "empty journey", req: ReviewRequest{JourneyLog: []state.JourneyEntry{}}},
		{name: "entry without encounter", req: ReviewRequest{JourneyLog: []state.JourneyEntry{{Choice: "Wade"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.Summarize(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrMalformedRequest)
		})
	}
	assert.Zero(t, calls, "malformed requests must not reach the upstream")
}

func TestReviewRequest_Validate(t *testing.T) {
	assert.NoError(t, sampleRequest().Validate())
	assert.ErrorIs(t, ReviewRequest{}.Validate(), ErrMalformedRequest)
}

func TestOpenAISummarizer_Ready(t *testing.T) {
	assert.ErrorIs(t, newTestSummarizer("", " ").Ready(context.Background()), ErrMissingCredential)
	assert.NoError(t, newTestSummarizer("", "k").Ready(context.Background()))
}

func TestDispatch(t *testing.T) {
	mock := NewMockSummarizer()
	mock.SummarizeFunc = func(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
		return &ReviewResponse{Success: true, Review: strings.Repeat("a", len(req.JourneyLog))}, nil
	}

	result := <-Dispatch(context.Background(), mock, sampleRequest())
	require.NoError(t, result.Err)
	assert.Equal(t, "aa", result.Response.Review)
	assert.Len(t, mock.Calls(), 1)
}

func TestDispatch_AbandonedResultDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	mock := NewMockSummarizer()
	mock.SummarizeFunc = func(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
		<-release
		defer close(done)
		return nil, ErrUpstreamUnavailable
	}

	results := Dispatch(context.Background(), mock, sampleRequest())
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("summarizer never returned")
	}

	// Nobody was reading while the worker finished; the result is still buffered.
	result, ok := <-results
	require.True(t, ok)
	assert.ErrorIs(t, result.Err, ErrUpstreamUnavailable)

	_, ok = <-results
	assert.False(t, ok, "channel should be closed after the single result")
}
