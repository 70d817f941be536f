package state

import (
	"math/rand/v2"
	"testing"
)

func TestStamina_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 50; run++ {
		s := NewStamina(1 + rng.IntN(8))
		for step := 0; step < 30; step++ {
			if rng.IntN(5) == 0 {
				s.Restore()
			} else {
				before := s.Current()
				ok := s.Consume()
				if ok != (before > 0) {
					t.Fatalf("Consume() = %v with %d remaining", ok, before)
				}
				if !ok && s.Current() != before {
					t.Fatalf("failed Consume() changed stamina from %d to %d", before, s.Current())
				}
			}
			if s.Current() < 0 || s.Current() > s.Max() {
				t.Fatalf("stamina %d outside [0,%d]", s.Current(), s.Max())
			}
			if s.HasStamina() != (s.Current() > 0) {
				t.Fatalf("HasStamina() = %v with %d remaining", s.HasStamina(), s.Current())
			}
		}
	}
}

func TestStamina_ExhaustAndRestore(t *testing.T) {
	s := NewStamina(5)
	for i := 0; i < 5; i++ {
		if !s.Consume() {
			t.Fatalf("Consume() #%d failed", i+1)
		}
	}
	if s.HasStamina() {
		t.Error("HasStamina() should be false at zero")
	}
	if s.Consume() {
		t.Error("Consume() at zero should fail")
	}
	s.Restore()
	if s.Current() != 5 {
		t.Errorf("Restore() left %d, want 5", s.Current())
	}
}

func TestWallet(t *testing.T) {
	var w Wallet
	w.Add(20)
	if w.Spend(30) {
		t.Error("Spend(30) with balance 20 should be rejected")
	}
	if w.Balance() != 20 {
		t.Errorf("balance = %d after rejected spend, want 20", w.Balance())
	}
	if !w.Spend(15) || w.Balance() != 5 {
		t.Errorf("Spend(15) failed or balance %d, want 5", w.Balance())
	}
	w.Add(-50)
	if w.Balance() != 0 {
		t.Errorf("negative reward drove balance to %d, want 0", w.Balance())
	}
	if w.Spend(-1) {
		t.Error("Spend(-1) should be rejected")
	}
}

func TestInventory(t *testing.T) {
	disabled := NewInventory(false)
	if disabled.Add(3) || disabled.Count() != 0 {
		t.Error("disabled inventory accepted an item")
	}

	inv := NewInventory(true)
	if !inv.Add(3) || inv.Add(3) || inv.Add(0) {
		t.Error("Add should accept a new positive id once")
	}
	inv.Add(9)
	ids := inv.IDs()
	ids[0] = 100
	if !inv.Has(3) || inv.Has(100) {
		t.Error("IDs() exposed internal storage")
	}
	if !inv.Remove(3) || inv.Remove(3) || inv.Count() != 1 {
		t.Errorf("Remove misbehaved, count %d", inv.Count())
	}
}

func TestCollectionRegistry_Idempotent(t *testing.T) {
	r := NewCollectionRegistry()
	if !r.Collect(17) {
		t.Fatal("first Collect(17) should return true")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if r.Collect(17) {
		t.Error("second Collect(17) should return false")
	}
	if r.Count() != 1 {
		t.Errorf("Count() after repeat = %d, want 1", r.Count())
	}
	if r.Collect(0) || r.Collect(-4) {
		t.Error("Collect of id <= 0 should be rejected")
	}
	if !r.HasCollected(17) || r.HasCollected(18) {
		t.Error("HasCollected mismatch")
	}
}

func TestJourneyLog_SnapshotIsolation(t *testing.T) {
	var j JourneyLog
	j.Record("Old Oak", "Look inside")
	j.AddUnlocked(17, "Grey Feather")

	snap := j.Snapshot()
	snap.JourneyLog[0].Choice = "tampered"
	snap.Unlocked[0].Name = "tampered"

	again := j.Snapshot()
	if again.JourneyLog[0].Choice != "Look inside" || again.Unlocked[0].Name != "Grey Feather" {
		t.Errorf("snapshot mutation leaked into the log: %+v", again)
	}
	if len(again.JourneyLog) != 1 {
		t.Errorf("log length = %d, want 1", len(again.JourneyLog))
	}
	if j.AddUnlocked(17, "Grey Feather") {
		t.Error("duplicate unlock recorded twice in one session")
	}

	j.Clear()
	cleared := j.Snapshot()
	if len(cleared.JourneyLog) != 0 || len(cleared.Unlocked) != 0 {
		t.Errorf("Clear() left %+v", cleared)
	}
}

func TestSession_ResetKeepsCollection(t *testing.T) {
	opts := DefaultOptions()
	opts.InventoryEnabled = true
	s := NewSession(opts)
	c := NewCollection()

	s.ConsumeStamina()
	s.ConsumeStamina()
	s.AddCurrency(40)
	s.AddItem(2)
	s.RecordJourney("Ridge", "Climb")
	s.AddUnlocked(17, "Grey Feather")
	c.Collect(17)

	s.Reset()

	snap := s.Journey()
	if len(snap.JourneyLog) != 0 || len(snap.Unlocked) != 0 {
		t.Errorf("journey not cleared: %+v", snap)
	}
	if s.Stamina() != s.MaxStamina() {
		t.Errorf("stamina = %d, want %d", s.Stamina(), s.MaxStamina())
	}
	if s.Currency() != opts.ResetCurrency {
		t.Errorf("currency = %d, want %d", s.Currency(), opts.ResetCurrency)
	}
	if len(s.Items()) != 0 {
		t.Errorf("inventory not emptied: %v", s.Items())
	}
	if !c.HasCollected(17) || c.Count() != 1 {
		t.Error("session reset touched the collection")
	}
}

func TestSession_NotifiesOnCommittedMutations(t *testing.T) {
	s := NewSession(DefaultOptions())
	var records []SessionRecord
	s.Subscribe(func(rec SessionRecord) { records = append(records, rec) })

	s.ConsumeStamina()
	s.AddCurrency(10)
	s.SpendCurrency(500) // rejected, no notification
	s.SpendCurrency(4)
	s.RecordJourney("a", "b") // journey is not persisted

	if len(records) != 3 {
		t.Fatalf("got %d notifications, want 3", len(records))
	}
	last := records[len(records)-1]
	if last.Stamina != 4 || last.Currency != 6 {
		t.Errorf("last record = %+v, want stamina 4 currency 6", last)
	}
}

func TestSessionFromRecord_Clamps(t *testing.T) {
	opts := DefaultOptions()
	s := SessionFromRecord(opts, SessionRecord{Stamina: 99, Currency: -5, Inventory: []int{1, 2}})
	if s.Stamina() != opts.MaxStamina {
		t.Errorf("stamina = %d, want clamp to %d", s.Stamina(), opts.MaxStamina)
	}
	if s.Currency() != 0 {
		t.Errorf("currency = %d, want 0", s.Currency())
	}
	if len(s.Items()) != 0 {
		t.Errorf("disabled inventory restored items: %v", s.Items())
	}

	low := SessionFromRecord(opts, SessionRecord{Stamina: -3})
	if low.Stamina() != 0 || low.HasStamina() {
		t.Errorf("negative stamina restored as %d", low.Stamina())
	}
}

func TestCollection_EraseAndNotify(t *testing.T) {
	c := CollectionFromRecord(CollectionRecord{UnlockedIDs: []int{3, 3, -1, 17}})
	if c.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 after dropping duplicates and invalid ids", c.Count())
	}

	var notified int
	c.Subscribe(func(CollectionRecord) { notified++ })
	c.Collect(3)  // already held
	c.Collect(25) // new
	c.Erase()

	if notified != 2 {
		t.Errorf("notifications = %d, want 2", notified)
	}
	if c.Count() != 0 {
		t.Errorf("Erase() left %d ids", c.Count())
	}
}
