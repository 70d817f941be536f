package state

// SessionObserver receives the session record after every committed mutation.
type SessionObserver func(SessionRecord)

// Session is the resettable per-playthrough state. Every committed change
// to stamina, currency or inventory is pushed to subscribers so a
// persistence layer can mirror it synchronously. Journey changes are not
// persisted and do not notify.
type Session struct {
	opts      Options
	stamina   Stamina
	wallet    Wallet
	inventory Inventory
	journey   JourneyLog
	observers []SessionObserver
}

// NewSession returns the default-initial session.
func NewSession(opts Options) *Session {
	return SessionFromRecord(opts, DefaultSessionRecord(opts))
}

// SessionFromRecord rebuilds a session from persisted data. Out-of-range
// values are clamped so the invariants hold regardless of the record.
func SessionFromRecord(opts Options, rec SessionRecord) *Session {
	s := &Session{
		opts:      opts,
		stamina:   NewStamina(opts.MaxStamina),
		inventory: NewInventory(opts.InventoryEnabled),
	}
	s.stamina.set(rec.Stamina)
	s.wallet.Add(rec.Currency)
	for _, id := range rec.Inventory {
		s.inventory.Add(id)
	}
	return s
}

// Subscribe registers an observer for committed mutations.
func (s *Session) Subscribe(fn SessionObserver) {
	s.observers = append(s.observers, fn)
}

func (s *Session) notify() {
	rec := s.Record()
	for _, fn := range s.observers {
		fn(rec)
	}
}

// Record returns the persistable view of the session.
func (s *Session) Record() SessionRecord {
	return SessionRecord{
		Stamina:   s.stamina.Current(),
		Currency:  s.wallet.Balance(),
		Inventory: s.inventory.IDs(),
	}
}

// Stamina

func (s *Session) HasStamina() bool { return s.stamina.HasStamina() }
func (s *Session) Stamina() int     { return s.stamina.Current() }
func (s *Session) MaxStamina() int  { return s.stamina.Max() }

// ConsumeStamina spends one unit; false means the session is exhausted.
func (s *Session) ConsumeStamina() bool {
	if !s.stamina.Consume() {
		return false
	}
	s.notify()
	return true
}

// RestoreStamina refills stamina to the maximum.
func (s *Session) RestoreStamina() {
	s.stamina.Restore()
	s.notify()
}

// Currency

func (s *Session) Currency() int { return s.wallet.Balance() }

// AddCurrency applies a reward with a floor of zero.
func (s *Session) AddCurrency(amount int) {
	s.wallet.Add(amount)
	s.notify()
}

// SpendCurrency deducts amount, rejecting the spend without mutation when
// the balance is insufficient.
func (s *Session) SpendCurrency(amount int) bool {
	if !s.wallet.Spend(amount) {
		return false
	}
	s.notify()
	return true
}

// Inventory

func (s *Session) InventoryEnabled() bool { return s.inventory.Enabled() }
func (s *Session) HasItem(id int) bool    { return s.inventory.Has(id) }
func (s *Session) Items() []int           { return s.inventory.IDs() }

func (s *Session) AddItem(id int) bool {
	if !s.inventory.Add(id) {
		return false
	}
	s.notify()
	return true
}

func (s *Session) RemoveItem(id int) bool {
	if !s.inventory.Remove(id) {
		return false
	}
	s.notify()
	return true
}

// Journey

// RecordJourney appends an (encounter, choice) pair.
func (s *Session) RecordJourney(encounter, choice string) {
	s.journey.Record(encounter, choice)
}

// AddUnlocked notes a collectible newly unlocked this session.
func (s *Session) AddUnlocked(id int, name string) bool {
	return s.journey.AddUnlocked(id, name)
}

// Journey returns an immutable copy of the journey log.
func (s *Session) Journey() Snapshot {
	return s.journey.Snapshot()
}

// Reset starts a new run: stamina refilled, journey and newly-unlocked
// cleared, inventory emptied and currency set to ResetCurrency. The
// collection is a separate container and is not touched.
func (s *Session) Reset() {
	s.stamina.Restore()
	s.journey.Clear()
	s.inventory.clear()
	s.wallet = Wallet{}
	s.wallet.Add(s.opts.ResetCurrency)
	s.notify()
}
