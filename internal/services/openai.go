package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"

	"github.com/jwebster45206/wild-trails/internal/metrics"
	"github.com/jwebster45206/wild-trails/pkg/prompts"
)

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // Empty uses the public OpenAI endpoint
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	ClosingLine string // Overrides the review's fixed last paragraph
}

// OpenAISummarizer implements Summarizer with go-openai.
type OpenAISummarizer struct {
	client *openaigo.Client
	cfg    OpenAIConfig
	logger *slog.Logger
}

// Ensure OpenAISummarizer implements Summarizer interface
var _ Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer creates a summarizer. A missing API key is not an
// error here; Summarize and Ready report ErrMissingCredential instead.
func NewOpenAISummarizer(cfg OpenAIConfig, logger *slog.Logger) *OpenAISummarizer {
	clientCfg := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = openaigo.GPT4oMini
	}

	return &OpenAISummarizer{
		client: openaigo.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *OpenAISummarizer) Ready(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return ErrMissingCredential
	}
	return nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		metrics.SummariesTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}
	if err := s.Ready(ctx); err != nil {
		metrics.SummariesTotal.WithLabelValues("missing_credential").Inc()
		return nil, err
	}

	prompt, err := prompts.New().
		WithJourney(req.JourneyLog).
		WithGallery(req.UnlockedGallery).
		WithClosingLine(s.cfg.ClosingLine).
		Build()
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Debug("Sending summary request",
		"model", s.cfg.Model,
		"journey_events", len(req.JourneyLog),
		"prompt_bytes", len(prompt))

	resp, err := s.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: prompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	metrics.SummaryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SummariesTotal.WithLabelValues("error").Inc()
		s.logger.Error("Summary request failed", "error", err, "duration", time.Since(start))
		var apiErr *openaigo.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 401 {
			return nil, fmt.Errorf("%w: %v", ErrMissingCredential, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.SummariesTotal.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: empty completion", ErrUpstreamUnavailable)
	}

	metrics.SummariesTotal.WithLabelValues("success").Inc()
	s.logger.Info("Summary generated",
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens)

	return &ReviewResponse{
		Success: true,
		Review:  strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}
