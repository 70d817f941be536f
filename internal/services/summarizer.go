package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jwebster45206/wild-trails/pkg/state"
)

var (
	ErrUpstreamUnavailable = errors.New("summarizer upstream unavailable")
	ErrMissingCredential   = errors.New("summarizer credential not configured")
	ErrMalformedRequest    = errors.New("malformed summary request")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReviewRequest is the journey handed to the summarizer.
type ReviewRequest struct {
	JourneyLog      []state.JourneyEntry `json:"journeyLog" validate:"required,min=1,dive"`
	UnlockedGallery []string             `json:"unlockedGallery"`
}

// Validate checks the request shape. Failures wrap ErrMalformedRequest.
func (r ReviewRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return nil
}

// ReviewResponse carries the generated prose.
type ReviewResponse struct {
	Success bool   `json:"success"`
	Review  string `json:"review"`
}

// ReviewResult is delivered on the channel returned by Dispatch.
type ReviewResult struct {
	Response *ReviewResponse
	Err      error
}

// Summarizer turns a journey into a freeform review.
type Summarizer interface {
	// Summarize generates a review. Failures wrap one of the Err* values above.
	Summarize(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// Ready reports whether the summarizer can serve requests.
	Ready(ctx context.Context) error
}

// Dispatch runs Summarize in the background and delivers exactly one
// result. The channel is buffered so an abandoned request never blocks
// the worker; cancel ctx to stop waiting on the upstream.
func Dispatch(ctx context.Context, s Summarizer, req ReviewRequest) <-chan ReviewResult {
	out := make(chan ReviewResult, 1)
	go func() {
		defer close(out)
		resp, err := s.Summarize(ctx, req)
		out <- ReviewResult{Response: resp, Err: err}
	}()
	return out
}
