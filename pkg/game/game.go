package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/wild-trails/internal/metrics"
	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/persistence"
	"github.com/jwebster45206/wild-trails/pkg/prompts"
	"github.com/jwebster45206/wild-trails/pkg/state"
)

// Deps are shared by every game in a process.
type Deps struct {
	Catalog      *content.Catalog
	Repository   *persistence.Repository // nil keeps state in memory only
	Options      state.Options
	Sampler      engine.Sampler
	StartEventID int // 0 starts at the catalog's lowest event id
	Logger       *slog.Logger
}

// Status is a read-only view of a game for clients.
type Status struct {
	ProfileID        uuid.UUID `json:"profile_id"`
	Stamina          int       `json:"stamina"`
	MaxStamina       int       `json:"max_stamina"`
	Currency         int       `json:"currency"`
	Inventory        []int     `json:"inventory"`
	InventoryEnabled bool      `json:"inventory_enabled"`
	CurrentEventID   int       `json:"current_event_id"`
	SessionEnded     bool      `json:"session_ended"`
	CollectedCount   int       `json:"collected_count"`
}

// Game is one player profile: the catalog, its resettable session, its
// permanent collection and the engine that connects them. Methods are
// safe for concurrent use; mutations are serialized per game.
type Game struct {
	mu         sync.Mutex
	id         uuid.UUID
	deps       Deps
	ctx        context.Context
	session    *state.Session
	collection *state.Collection
	engine     *engine.Engine
	current    int
	logger     *slog.Logger
}

// New loads (or defaults) the profile's records and wires write-through
// persistence. ctx only scopes the initial load; later saves outlive it.
func New(ctx context.Context, profileID uuid.UUID, deps Deps) *Game {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sampler == nil {
		deps.Sampler = engine.NewRandSampler(0)
	}

	g := &Game{
		id:     profileID,
		deps:   deps,
		ctx:    context.WithoutCancel(ctx),
		logger: deps.Logger.With("profile_id", profileID.String()),
	}

	sessionRec := state.DefaultSessionRecord(deps.Options)
	collectionRec := state.DefaultCollectionRecord()
	if deps.Repository != nil {
		sessionRec = deps.Repository.LoadSession(ctx, profileID)
		collectionRec = deps.Repository.LoadCollection(ctx, profileID)
	}
	g.attach(state.SessionFromRecord(deps.Options, sessionRec), state.CollectionFromRecord(collectionRec))
	g.current = g.startEventID()

	g.logger.Debug("Game loaded",
		"stamina", g.session.Stamina(),
		"currency", g.session.Currency(),
		"collected", g.collection.Count())
	return g
}

// attach installs session and collection and rebuilds the engine around them.
func (g *Game) attach(session *state.Session, collection *state.Collection) {
	g.session = session
	g.collection = collection
	if g.deps.Repository != nil {
		g.deps.Repository.Bind(g.ctx, g.id, session, collection)
	}
	g.engine = engine.New(g.deps.Catalog, session, collection, g.deps.Sampler, g.logger)
}

func (g *Game) startEventID() int {
	if id := g.deps.StartEventID; id > 0 && g.deps.Catalog.HasEvent(id) {
		return id
	}
	return g.deps.Catalog.StartEventID()
}

func (g *Game) ID() uuid.UUID {
	return g.id
}

// CurrentEvent returns the event awaiting a choice. It returns
// ErrSessionEnded when stamina is spent or the last outcome had no
// outgoing edge.
func (g *Game) CurrentEvent() (content.EventNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended() {
		return content.EventNode{}, ErrSessionEnded
	}
	return g.deps.Catalog.Event(g.current)
}

func (g *Game) ended() bool {
	return !g.session.HasStamina() || g.current == content.EndOfSession
}

// Choose resolves choiceIndex of the current event and advances to the
// outcome's next event.
func (g *Game) Choose(choiceIndex int) (*engine.Resolution, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.session.HasStamina() {
		return nil, engine.ErrStaminaExhausted
	}
	if g.current == content.EndOfSession {
		return nil, ErrSessionEnded
	}

	res, err := g.engine.ResolveChoice(g.current, choiceIndex)
	if err != nil {
		return nil, err
	}
	g.current = res.NextEventID

	branch := "first"
	if res.OutcomeIndex > 0 {
		branch = "second"
	}
	metrics.ChoicesResolved.WithLabelValues(string(res.Scene), branch).Inc()
	if res.Unlocked != nil {
		metrics.CollectiblesUnlocked.WithLabelValues(string(res.Unlocked.Rarity())).Inc()
	}
	return res, nil
}

// Spend deducts currency. An insufficient balance leaves it unchanged.
func (g *Game) Spend(amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if amount < 0 {
		return ErrInvalidAmount
	}
	if !g.session.SpendCurrency(amount) {
		return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, g.session.Currency(), amount)
	}
	return nil
}

// AddItem puts id in the session inventory. It reports whether the
// inventory changed.
func (g *Game) AddItem(id int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.session.InventoryEnabled() {
		return false, ErrInventoryDisabled
	}
	return g.session.AddItem(id), nil
}

// RemoveItem takes id out of the session inventory.
func (g *Game) RemoveItem(id int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.session.InventoryEnabled() {
		return false, ErrInventoryDisabled
	}
	return g.session.RemoveItem(id), nil
}

// Reset starts a new run at the start event. The collection is kept.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.session.Reset()
	g.current = g.startEventID()
	metrics.SessionsReset.WithLabelValues("session").Inc()
	g.logger.Info("Session reset", "currency", g.session.Currency())
}

// EraseAll deletes both persisted records and restarts the profile from
// the default-initial session with an empty collection. This is the only
// operation that shrinks the collection. When the delete fails, the
// in-memory and stored state are both left as they were.
func (g *Game) EraseAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if repo := g.deps.Repository; repo != nil {
		if err := repo.DeleteAll(ctx, g.id); err != nil {
			return err
		}
	}

	g.attach(state.NewSession(g.deps.Options), state.NewCollection())
	g.current = g.startEventID()

	// Keep the profile addressable after a restart.
	if repo := g.deps.Repository; repo != nil {
		if err := repo.SaveSession(ctx, g.id, g.session.Record()); err != nil {
			return err
		}
		if err := repo.SaveCollection(ctx, g.id, g.collection.Record()); err != nil {
			return err
		}
	}
	metrics.SessionsReset.WithLabelValues("erase_all").Inc()
	g.logger.Info("All progress erased")
	return nil
}

// Snapshot returns a copy of the journey log and newly unlocked items.
func (g *Game) Snapshot() state.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Journey()
}

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.current
	if !g.session.HasStamina() {
		current = content.EndOfSession
	}
	return Status{
		ProfileID:        g.id,
		Stamina:          g.session.Stamina(),
		MaxStamina:       g.session.MaxStamina(),
		Currency:         g.session.Currency(),
		Inventory:        g.session.Items(),
		InventoryEnabled: g.session.InventoryEnabled(),
		CurrentEventID:   current,
		SessionEnded:     g.ended(),
		CollectedCount:   g.collection.Count(),
	}
}

// Collected lists the unlocked collectibles in unlock order. Ids no longer
// in the catalog are skipped.
func (g *Game) Collected() []content.Collectible {
	g.mu.Lock()
	ids := g.collection.IDs()
	g.mu.Unlock()

	out := make([]content.Collectible, 0, len(ids))
	for _, id := range ids {
		item, err := g.deps.Catalog.Collectible(id)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ReviewRequest builds the summarizer request from the current journey.
func (g *Game) ReviewRequest() services.ReviewRequest {
	snap := g.Snapshot()

	gallery := make([]string, 0, len(snap.Unlocked))
	for _, item := range snap.Unlocked {
		label := item.Name
		if c, err := g.deps.Catalog.Collectible(item.ID); err == nil {
			label = prompts.GalleryLabel(c)
		}
		gallery = append(gallery, label)
	}
	return services.ReviewRequest{JourneyLog: snap.JourneyLog, UnlockedGallery: gallery}
}

// RequestReview hands a journey snapshot to the summarizer without
// blocking. The game state is not touched by the result.
func (g *Game) RequestReview(ctx context.Context, summarizer services.Summarizer) <-chan services.ReviewResult {
	req := g.ReviewRequest()
	if err := req.Validate(); err != nil {
		out := make(chan services.ReviewResult, 1)
		out <- services.ReviewResult{Err: err}
		close(out)
		return out
	}
	return services.Dispatch(ctx, summarizer, req)
}
