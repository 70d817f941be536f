package content

import (
	"fmt"
	"math"
	"slices"
)

// Catalog is the read-only event graph and collectible table. It is built
// once before a session starts and never mutated afterwards.
type Catalog struct {
	events       map[int]EventNode
	collectibles map[int]Collectible
	eventIDs     []int
	itemIDs      []int
}

// NewCatalog indexes events and collectibles by id. It fails with a
// ContentError on duplicate or non-positive ids, on an event that does not
// carry exactly two choices each with one or two outcomes, and on an outcome
// whose next event or unlocked collectible is not in the catalog.
func NewCatalog(events []EventNode, collectibles []Collectible) (*Catalog, error) {
	c := &Catalog{
		events:       make(map[int]EventNode, len(events)),
		collectibles: make(map[int]Collectible, len(collectibles)),
	}

	for _, ev := range events {
		if ev.ID <= 0 {
			return nil, &ContentError{Kind: "event", ID: ev.ID, Reason: "id must be positive"}
		}
		if _, exists := c.events[ev.ID]; exists {
			return nil, &ContentError{Kind: "event", ID: ev.ID, Reason: "duplicate id"}
		}
		if len(ev.Choices) != ChoicesPerEvent {
			return nil, &ContentError{
				Kind:   "event",
				ID:     ev.ID,
				Reason: fmt.Sprintf("expected %d choices, got %d", ChoicesPerEvent, len(ev.Choices)),
			}
		}
		for i, ch := range ev.Choices {
			if len(ch.Outcomes) == 0 || len(ch.Outcomes) > 2 {
				return nil, &ContentError{
					Kind:   "event",
					ID:     ev.ID,
					Reason: fmt.Sprintf("choice %d must have one or two outcomes, got %d", i, len(ch.Outcomes)),
				}
			}
		}
		c.events[ev.ID] = cloneEvent(ev)
		c.eventIDs = append(c.eventIDs, ev.ID)
	}

	for _, item := range collectibles {
		if item.ID <= 0 {
			return nil, &ContentError{Kind: "collectible", ID: item.ID, Reason: "id must be positive"}
		}
		if _, exists := c.collectibles[item.ID]; exists {
			return nil, &ContentError{Kind: "collectible", ID: item.ID, Reason: "duplicate id"}
		}
		c.collectibles[item.ID] = item
		c.itemIDs = append(c.itemIDs, item.ID)
	}

	slices.Sort(c.eventIDs)
	slices.Sort(c.itemIDs)
	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkReferences rejects outcomes that lead to an event or unlock a
// collectible the catalog does not hold.
func (c *Catalog) checkReferences() error {
	for _, id := range c.eventIDs {
		for ci, ch := range c.events[id].Choices {
			for oi, out := range ch.Outcomes {
				if out.NextEventID != EndOfSession && !c.HasEvent(out.NextEventID) {
					return &ContentError{
						Kind:   "event",
						ID:     id,
						Reason: fmt.Sprintf("choice %d outcome %d: next event %d does not exist", ci, oi, out.NextEventID),
					}
				}
				if out.UnlockID > 0 {
					if _, ok := c.collectibles[out.UnlockID]; !ok {
						return &ContentError{
							Kind:   "event",
							ID:     id,
							Reason: fmt.Sprintf("choice %d outcome %d: unlock %d is not a known collectible", ci, oi, out.UnlockID),
						}
					}
				}
			}
		}
	}
	return nil
}

// Event returns the event with the given id.
func (c *Catalog) Event(id int) (EventNode, error) {
	ev, ok := c.events[id]
	if !ok {
		return EventNode{}, fmt.Errorf("%w: %d", ErrEventNotFound, id)
	}
	return cloneEvent(ev), nil
}

// Collectible returns the collectible with the given id.
func (c *Catalog) Collectible(id int) (Collectible, error) {
	item, ok := c.collectibles[id]
	if !ok {
		return Collectible{}, fmt.Errorf("%w: %d", ErrCollectibleNotFound, id)
	}
	return item, nil
}

// Events returns every event ordered by id.
func (c *Catalog) Events() []EventNode {
	out := make([]EventNode, 0, len(c.eventIDs))
	for _, id := range c.eventIDs {
		out = append(out, cloneEvent(c.events[id]))
	}
	return out
}

// Collectibles returns every collectible ordered by id.
func (c *Catalog) Collectibles() []Collectible {
	out := make([]Collectible, 0, len(c.itemIDs))
	for _, id := range c.itemIDs {
		out = append(out, c.collectibles[id])
	}
	return out
}

// StartEventID is the lowest event id, or EndOfSession for an empty catalog.
func (c *Catalog) StartEventID() int {
	if len(c.eventIDs) == 0 {
		return EndOfSession
	}
	return c.eventIDs[0]
}

// HasEvent reports whether the id addresses an event.
func (c *Catalog) HasEvent(id int) bool {
	_, ok := c.events[id]
	return ok
}

// Validate lints problems NewCatalog tolerates: out-of-range probabilities,
// empty text or labels, and unknown scene tags. An empty result means the
// catalog is clean.
func (c *Catalog) Validate() []string {
	var issues []string
	for _, id := range c.eventIDs {
		ev := c.events[id]
		if !ev.Scene.Valid() {
			issues = append(issues, fmt.Sprintf("event %d: unknown scene tag %q", id, ev.Scene))
		}
		if ev.Text == "" {
			issues = append(issues, fmt.Sprintf("event %d: empty text", id))
		}
		for ci, ch := range ev.Choices {
			if ch.Label == "" {
				issues = append(issues, fmt.Sprintf("event %d choice %d: empty label", id, ci))
			}
			for oi, out := range ch.Outcomes {
				if math.IsNaN(out.Probability) || out.Probability < 0 || out.Probability > 1 {
					issues = append(issues, fmt.Sprintf("event %d choice %d outcome %d: probability %v outside [0,1]", id, ci, oi, out.Probability))
				}
			}
		}
	}
	return issues
}

func cloneEvent(ev EventNode) EventNode {
	choices := make([]Choice, len(ev.Choices))
	for i, ch := range ev.Choices {
		choices[i] = Choice{Label: ch.Label, Outcomes: slices.Clone(ch.Outcomes)}
	}
	ev.Choices = choices
	return ev
}
