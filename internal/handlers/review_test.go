package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/state"
)

func TestReviewHandler_Success(t *testing.T) {
	srv := newTestServer(t, state.DefaultOptions())
	id := srv.create(t).ProfileID.String()
	rr := srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/choice", map[string]int{"choice": 0})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/review", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp services.ReviewResponse
	decode(t, rr, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Mock review", resp.Review)

	calls := srv.summarizer.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []state.JourneyEntry{{Encounter: "Old Oak", Choice: "Look inside"}}, calls[0].JourneyLog)
	assert.Equal(t, []string{"Grey Feather (Rare)"}, calls[0].UnlockedGallery)
}

func TestReviewHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		play      bool
		upstream  error
		status    int
		summaries int
	}{
		{"empty journey", false, nil, http.StatusBadRequest, 0},
		{"missing credential", true, services.ErrMissingCredential, http.StatusServiceUnavailable, 1},
		{"upstream down", true, fmt.Errorf("%w: timeout", services.ErrUpstreamUnavailable), http.StatusBadGateway, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, state.DefaultOptions())
			srv.summarizer.SummarizeFunc = func(ctx context.Context, req services.ReviewRequest) (*services.ReviewResponse, error) {
				return nil, tt.upstream
			}
			id := srv.create(t).ProfileID.String()
			if tt.play {
				rr := srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/choice", map[string]int{"choice": 1})
				require.Equal(t, http.StatusOK, rr.Code)
			}

			rr := srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/review", nil)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Len(t, srv.summarizer.Calls(), tt.summaries)
		})
	}
}

func TestReviewHandler_LeavesStateUntouched(t *testing.T) {
	srv := newTestServer(t, state.DefaultOptions())
	created := srv.create(t)
	id := created.ProfileID.String()
	rr := srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/choice", map[string]int{"choice": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	g, err := srv.games.Get(context.Background(), created.ProfileID)
	require.NoError(t, err)
	before := g.Status()

	rr = srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/review", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before, g.Status())
}

func TestReviewHandler_ClientGone(t *testing.T) {
	srv := newTestServer(t, state.DefaultOptions())
	srv.summarizer.SummarizeFunc = func(ctx context.Context, req services.ReviewRequest) (*services.ReviewResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	id := srv.create(t).ProfileID.String()
	rr := srv.do(t, http.MethodPost, "/v1/sessions/"+id+"/choice", map[string]int{"choice": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/review", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Zero(t, rec.Body.Len(), "nothing is written once the client is gone")
}

func TestReviewHandler_InvalidProfile(t *testing.T) {
	srv := newTestServer(t, state.DefaultOptions())

	rr := srv.do(t, http.MethodPost, "/v1/sessions/not-a-uuid/review", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(t, http.MethodGet, "/v1/sessions/"+srv.create(t).ProfileID.String()+"/review", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
