package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/persistence"
	"github.com/jwebster45206/wild-trails/pkg/state"
	"github.com/jwebster45206/wild-trails/pkg/storage"
)

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	events := []content.EventNode{
		{
			ID: 1, Name: "Old Oak", Text: "A hollow oak.", Scene: content.SceneForest,
			Choices: []content.Choice{
				{Label: "Look inside", Outcomes: []content.Outcome{
					{Text: "A feather!", Probability: 0.5, Reward: 10, NextEventID: 2, UnlockID: 17},
					{Text: "Dust.", Probability: 0.5, Reward: 0, NextEventID: 2},
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
	items := []content.Collectible{{ID: 17, Name: "Grey Feather", Description: "Soft."}}
	c, err := content.NewCatalog(events, items)
	require.NoError(t, err)
	return c
}

func testDeps(t *testing.T, store storage.Store, samples ...float64) Deps {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if len(samples) == 0 {
		samples = []float64{0.1}
	}
	deps := Deps{
		Catalog: testCatalog(t),
		Options: state.DefaultOptions(),
		Sampler: &engine.FixedSampler{Samples: samples},
		Logger:  logger,
	}
	if store != nil {
		deps.Repository = persistence.NewRepository(store, deps.Options, logger)
	}
	return deps
}

func TestGame_PlayUntilExhausted(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))

	ev, err := g.CurrentEvent()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ID)

	picks := map[int]int{1: 1, 2: 0}
	for i := 0; i < 5; i++ {
		ev, err := g.CurrentEvent()
		require.NoError(t, err)
		_, err = g.Choose(picks[ev.ID])
		require.NoError(t, err)
	}

	status := g.Status()
	assert.Equal(t, 50, status.Currency)
	assert.Equal(t, 0, status.Stamina)
	assert.True(t, status.SessionEnded)
	assert.Len(t, g.Snapshot().JourneyLog, 5)

	_, err = g.CurrentEvent()
	assert.ErrorIs(t, err, ErrSessionEnded)
	_, err = g.Choose(0)
	assert.ErrorIs(t, err, engine.ErrStaminaExhausted)
}

func TestGame_EndOfSessionEdge(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))

	_, err := g.Choose(1) // to event 2
	require.NoError(t, err)
	res, err := g.Choose(1) // go home
	require.NoError(t, err)
	assert.True(t, res.SessionEnded)

	_, err = g.Choose(0)
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.True(t, g.Status().SessionEnded)

	g.Reset()
	ev, err := g.CurrentEvent()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ID)
}

func TestGame_StartEventOverride(t *testing.T) {
	deps := testDeps(t, nil)
	deps.StartEventID = 2
	g := New(context.Background(), uuid.New(), deps)
	ev, err := g.CurrentEvent()
	require.NoError(t, err)
	assert.Equal(t, 2, ev.ID)

	deps.StartEventID = 99
	g = New(context.Background(), uuid.New(), deps)
	ev, err = g.CurrentEvent()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ID, "unknown start id falls back to the lowest event")
}

func TestGame_Spend(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))
	_, err := g.Choose(1)
	require.NoError(t, err)
	_, err = g.Choose(0)
	require.NoError(t, err)
	require.Equal(t, 20, g.Status().Currency)

	err = g.Spend(30)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 20, g.Status().Currency)

	assert.ErrorIs(t, g.Spend(-1), ErrInvalidAmount)
	assert.NoError(t, g.Spend(15))
	assert.Equal(t, 5, g.Status().Currency)
}

func TestGame_ResetKeepsCollection(t *testing.T) {
	store := storage.NewMemoryStore()
	deps := testDeps(t, store)
	id := uuid.New()
	g := New(context.Background(), id, deps)

	res, err := g.Choose(0)
	require.NoError(t, err)
	require.NotNil(t, res.Unlocked)
	assert.Equal(t, []string{"Grey Feather"}, g.Snapshot().UnlockedNames())

	g.Reset()

	snap := g.Snapshot()
	assert.Empty(t, snap.JourneyLog)
	assert.Empty(t, snap.Unlocked)
	status := g.Status()
	assert.Equal(t, status.MaxStamina, status.Stamina)
	assert.Equal(t, 100, status.Currency)
	assert.Equal(t, 1, status.CollectedCount)

	// Reload from storage in a new game to confirm both records were mirrored.
	reloaded := New(context.Background(), id, deps)
	assert.Equal(t, 100, reloaded.Status().Currency)
	require.Len(t, reloaded.Collected(), 1)
	assert.Equal(t, "Grey Feather", reloaded.Collected()[0].Name)
}

func TestGame_EraseAll(t *testing.T) {
	store := storage.NewMemoryStore()
	deps := testDeps(t, store)
	id := uuid.New()
	g := New(context.Background(), id, deps)

	_, err := g.Choose(0)
	require.NoError(t, err)
	require.Equal(t, 1, g.Status().CollectedCount)

	require.NoError(t, g.EraseAll(context.Background()))

	status := g.Status()
	assert.Equal(t, 0, status.CollectedCount)
	assert.Equal(t, 0, status.Currency, "erase restores the default-initial session")
	assert.Equal(t, status.MaxStamina, status.Stamina)

	// Play continues against the fresh state and is still mirrored.
	_, err = g.Choose(0)
	require.NoError(t, err)
	reloaded := New(context.Background(), id, deps)
	assert.Equal(t, 1, reloaded.Status().CollectedCount)
}

// collectionDelFailStore fails any Del that touches a collection key.
type collectionDelFailStore struct {
	*storage.MemoryStore
}

func (s collectionDelFailStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if strings.HasPrefix(key, "collection:") {
			return errors.New("store unavailable")
		}
	}
	return s.MemoryStore.Del(ctx, keys...)
}

func TestGame_EraseAllFailureKeepsState(t *testing.T) {
	store := collectionDelFailStore{storage.NewMemoryStore()}
	deps := testDeps(t, store)
	id := uuid.New()
	g := New(context.Background(), id, deps)

	_, err := g.Choose(0)
	require.NoError(t, err)

	require.Error(t, g.EraseAll(context.Background()))

	_, err = store.Get(context.Background(), persistence.SessionKey(id))
	assert.NoError(t, err, "a failed erase must not delete the session record alone")
	assert.Equal(t, 1, g.Status().CollectedCount)
	assert.Equal(t, 10, g.Status().Currency)

	_, err = g.Choose(0)
	require.NoError(t, err)

	reloaded := New(context.Background(), id, deps)
	assert.Equal(t, g.Status().Currency, reloaded.Status().Currency)
	assert.Equal(t, g.Status().Stamina, reloaded.Status().Stamina)
	assert.Equal(t, 1, reloaded.Status().CollectedCount)
}

func TestGame_Inventory(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))
	_, err := g.AddItem(3)
	assert.ErrorIs(t, err, ErrInventoryDisabled)

	deps := testDeps(t, nil)
	deps.Options.InventoryEnabled = true
	g = New(context.Background(), uuid.New(), deps)

	added, err := g.AddItem(3)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []int{3}, g.Status().Inventory)

	removed, err := g.RemoveItem(3)
	require.NoError(t, err)
	assert.True(t, removed)

	g.Reset()
	assert.Empty(t, g.Status().Inventory)
}

func TestGame_RequestReview(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))
	mock := services.NewMockSummarizer()

	empty := <-g.RequestReview(context.Background(), mock)
	assert.ErrorIs(t, empty.Err, services.ErrMalformedRequest)
	assert.Empty(t, mock.Calls(), "empty journeys never reach the summarizer")

	_, err := g.Choose(0)
	require.NoError(t, err)

	result := <-g.RequestReview(context.Background(), mock)
	require.NoError(t, result.Err)
	assert.Equal(t, "Mock review", result.Response.Review)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []state.JourneyEntry{{Encounter: "Old Oak", Choice: "Look inside"}}, calls[0].JourneyLog)
	assert.Equal(t, []string{"Grey Feather (Rare)"}, calls[0].UnlockedGallery)
}

func TestGame_ReviewFailureLeavesStateAlone(t *testing.T) {
	g := New(context.Background(), uuid.New(), testDeps(t, nil))
	_, err := g.Choose(1)
	require.NoError(t, err)
	before := g.Status()

	mock := services.NewMockSummarizer()
	mock.SummarizeFunc = func(ctx context.Context, req services.ReviewRequest) (*services.ReviewResponse, error) {
		return nil, services.ErrUpstreamUnavailable
	}
	result := <-g.RequestReview(context.Background(), mock)
	assert.True(t, errors.Is(result.Err, services.ErrUpstreamUnavailable))
	assert.Equal(t, before, g.Status())
	assert.Len(t, g.Snapshot().JourneyLog, 1)
}
