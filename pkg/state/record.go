package state

import "time"

// SessionRecord is the persisted form of the resettable session state.
type SessionRecord struct {
	Stamina   int       `json:"stamina"`
	Currency  int       `json:"currency"`
	Inventory []int     `json:"inventory"`
	SavedAt   time.Time `json:"savedAt"`
}

// CollectionRecord is the persisted form of the permanent collection.
type CollectionRecord struct {
	UnlockedIDs []int     `json:"unlockedIds"`
	SavedAt     time.Time `json:"savedAt"`
}

// Options configures session limits and starting values.
type Options struct {
	MaxStamina       int
	InitialCurrency  int // Balance for a brand-new or unrecoverable session
	ResetCurrency    int // Balance after an explicit session reset
	InventoryEnabled bool
}

// DefaultOptions mirrors the shipped game: five stamina, no starting
// currency, 100 after a reset, inventory disabled.
func DefaultOptions() Options {
	return Options{
		MaxStamina:      DefaultMaxStamina,
		InitialCurrency: 0,
		ResetCurrency:   100,
	}
}

// DefaultSessionRecord is the default-initial session: full stamina,
// InitialCurrency, empty inventory.
func DefaultSessionRecord(opts Options) SessionRecord {
	stamina := NewStamina(opts.MaxStamina)
	return SessionRecord{
		Stamina:   stamina.Max(),
		Currency:  max(0, opts.InitialCurrency),
		Inventory: make([]int, 0),
	}
}

// DefaultCollectionRecord is an empty collection.
func DefaultCollectionRecord() CollectionRecord {
	return CollectionRecord{UnlockedIDs: make([]int, 0)}
}
