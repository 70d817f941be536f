package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/game"
	"github.com/jwebster45206/wild-trails/pkg/persistence"
	"github.com/jwebster45206/wild-trails/pkg/state"
	"github.com/jwebster45206/wild-trails/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	events := []content.EventNode{
		{
			ID: 1, Name: "Old Oak", Text: "A hollow oak.", Scene: content.SceneForest,
			Choices: []content.Choice{
				{Label: "Look inside", Outcomes: []content.Outcome{
					{Text: "A feather!", Probability: 0.5, Reward: 10, NextEventID: 2, UnlockID: 17},
					{Text: "Dust.", Probability: 0.5, NextEventID: 2},
				}},
				{Label: "Walk on", Outcomes: []content.Outcome{{Text: "Onward.", Probability: 1, Reward: 10, NextEventID: 2}}},
			},
		},
		{
			ID: 2, Text: "A cold stream.", Scene: content.SceneRiver,
			Choices: []content.Choice{
				{Label: "Wade", Outcomes: []content.Outcome{{Text: "Brr.", Probability: 1, Reward: 10, NextEventID: 1}}},
				{Label: "Go home", Outcomes: []content.Outcome{{Text: "Home.", Probability: 1, NextEventID: content.EndOfSession}}},
			},
		},
	}
	items := []content.Collectible{
		{ID: 17, Name: "Grey Feather", Description: "Soft."},
		{ID: 40, Name: "Star Stone", Description: "Warm to the touch."},
	}
	c, err := content.NewCatalog(events, items)
	require.NoError(t, err)
	return c
}

type testServer struct {
	mux        *http.ServeMux
	games      *game.Manager
	store      *storage.MemoryStore
	summarizer *services.MockSummarizer
}

// newTestServer routes the handlers the same way cmd/api does. Every
// outcome draw is 0.1, so the first outcome always wins.
func newTestServer(t *testing.T, opts state.Options) *testServer {
	t.Helper()
	logger := testLogger()
	catalog := testCatalog(t)
	store := storage.NewMemoryStore()

	games := game.NewManager(game.Deps{
		Catalog:    catalog,
		Repository: persistence.NewRepository(store, opts, logger),
		Options:    opts,
		Sampler:    &engine.FixedSampler{Samples: []float64{0.1}},
		Logger:     logger,
	})
	summarizer := services.NewMockSummarizer()

	mux := http.NewServeMux()
	sessions := NewSessionHandler(games, logger)
	mux.Handle("/v1/sessions", sessions)
	mux.Handle("/v1/sessions/", sessions)
	mux.Handle("POST /v1/sessions/{id}/review", NewReviewHandler(games, summarizer, logger))
	catalogHandler := NewCatalogHandler(catalog, logger)
	mux.Handle("/v1/events", catalogHandler)
	mux.Handle("/v1/events/", catalogHandler)
	mux.Handle("/v1/collectibles", catalogHandler)
	mux.Handle("/v1/collectibles/", catalogHandler)

	return &testServer{mux: mux, games: games, store: store, summarizer: summarizer}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) create(t *testing.T) game.Status {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var status game.Status
	decode(t, rr, &status)
	return status
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v), rr.Body.String())
}
