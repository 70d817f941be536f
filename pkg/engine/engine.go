package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/state"
)

var (
	ErrInvalidEventID     = fmt.Errorf("invalid event id: %w", content.ErrInvalidReference)
	ErrInvalidChoiceIndex = fmt.Errorf("invalid choice index: %w", content.ErrInvalidReference)
	ErrStaminaExhausted   = errors.New("stamina exhausted")
)

// Resolution is the result of resolving one choice.
type Resolution struct {
	EventID      int                  `json:"event_id"`
	Scene        content.SceneTag     `json:"scene"`
	ChoiceIndex  int                  `json:"choice_index"`
	ChoiceLabel  string               `json:"choice_label"`
	OutcomeIndex int                  `json:"outcome_index"`
	OutcomeText  string               `json:"outcome_text"`
	Reward       int                  `json:"reward"`         // Authored reward
	CurrencyDiff int                  `json:"currency_delta"` // Applied change after the zero floor
	Currency     int                  `json:"currency"`
	StaminaLeft  int                  `json:"stamina_left"`
	NextEventID  int                  `json:"next_event_id"`
	SessionEnded bool                 `json:"session_ended"`
	Unlocked     *content.Collectible `json:"unlocked,omitempty"`
}

// Engine applies choice outcomes to a session and collection.
type Engine struct {
	catalog    *content.Catalog
	session    *state.Session
	collection *state.Collection
	sampler    Sampler
	logger     *slog.Logger
}

// New builds an engine. A nil sampler gets a time-seeded RandSampler.
func New(catalog *content.Catalog, session *state.Session, collection *state.Collection, sampler Sampler, logger *slog.Logger) *Engine {
	if sampler == nil {
		sampler = NewRandSampler(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog:    catalog,
		session:    session,
		collection: collection,
		sampler:    sampler,
		logger:     logger,
	}
}

// PickOutcome maps a sample in [0,1) to an outcome index of choice.
// Boundary draws resolve to the first outcome.
func PickOutcome(choice content.Choice, sample float64) int {
	return choice.PickOutcome(sample)
}

// ResolveChoice resolves choiceIndex of the event currentEventID. Callers
// gate on Session.HasStamina; the engine still refuses to resolve with an
// empty pool and returns ErrStaminaExhausted without touching any state.
func (e *Engine) ResolveChoice(currentEventID, choiceIndex int) (*Resolution, error) {
	event, err := e.catalog.Event(currentEventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEventID, currentEventID)
	}
	choice, ok := event.Choice(choiceIndex)
	if !ok || len(choice.Outcomes) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoiceIndex, choiceIndex)
	}
	if !e.session.HasStamina() {
		return nil, ErrStaminaExhausted
	}

	idx := PickOutcome(choice, e.sampler.Float64())
	outcome := choice.Outcomes[idx]

	before := e.session.Currency()
	e.session.AddCurrency(outcome.Reward)
	e.session.ConsumeStamina()
	e.session.RecordJourney(event.Title(), choice.Label)

	res := &Resolution{
		EventID:      event.ID,
		Scene:        event.Scene,
		ChoiceIndex:  choiceIndex,
		ChoiceLabel:  choice.Label,
		OutcomeIndex: idx,
		OutcomeText:  outcome.Text,
		Reward:       outcome.Reward,
		CurrencyDiff: e.session.Currency() - before,
		Currency:     e.session.Currency(),
		StaminaLeft:  e.session.Stamina(),
		NextEventID:  outcome.NextEventID,
		SessionEnded: outcome.EndsSession() || !e.session.HasStamina(),
	}

	if outcome.UnlockID > 0 {
		res.Unlocked = e.unlock(outcome.UnlockID)
	}

	e.logger.Debug("Choice resolved",
		"event_id", event.ID,
		"choice", choiceIndex,
		"outcome", idx,
		"currency", res.Currency,
		"stamina", res.StaminaLeft,
		"next_event_id", res.NextEventID)
	return res, nil
}

// unlock adds id to the collection and the session's newly-unlocked list.
// It returns the collectible only when it was not already held.
func (e *Engine) unlock(id int) *content.Collectible {
	item, err := e.catalog.Collectible(id)
	if err != nil {
		e.logger.Warn("Outcome references unknown collectible", "collectible_id", id)
		return nil
	}
	if !e.collection.Collect(id) {
		return nil
	}
	e.session.AddUnlocked(item.ID, item.Name)
	e.logger.Info("Collectible unlocked", "collectible_id", item.ID, "name", item.Name, "rarity", item.Rarity())
	return &item
}
