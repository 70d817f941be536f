package state

// JourneyEntry is one (encounter, choice) pair in the journey log.
type JourneyEntry struct {
	Encounter string `json:"encounter" validate:"required"`
	Choice    string `json:"choice"`
}

// UnlockedItem is a collectible gained during the current session.
type UnlockedItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Snapshot is an immutable copy of the journey log handed to callers.
type Snapshot struct {
	JourneyLog []JourneyEntry `json:"journeyLog"`
	Unlocked   []UnlockedItem `json:"unlocked"`
}

// UnlockedNames lists the display names of newly unlocked collectibles.
func (s Snapshot) UnlockedNames() []string {
	names := make([]string, 0, len(s.Unlocked))
	for _, item := range s.Unlocked {
		names = append(names, item.Name)
	}
	return names
}

// JourneyLog is the session-scoped, append-only record of choices made and
// collectibles unlocked. It is never persisted.
type JourneyLog struct {
	entries  []JourneyEntry
	unlocked []UnlockedItem
}

// Record appends an entry.
func (j *JourneyLog) Record(encounter, choice string) {
	j.entries = append(j.entries, JourneyEntry{Encounter: encounter, Choice: choice})
}

// AddUnlocked appends a newly unlocked collectible. Each id appears at
// most once per session.
func (j *JourneyLog) AddUnlocked(id int, name string) bool {
	for _, item := range j.unlocked {
		if item.ID == id {
			return false
		}
	}
	j.unlocked = append(j.unlocked, UnlockedItem{ID: id, Name: name})
	return true
}

// Clear empties the log and the unlocked list together.
func (j *JourneyLog) Clear() {
	j.entries = nil
	j.unlocked = nil
}

func (j *JourneyLog) Len() int {
	return len(j.entries)
}

// Snapshot copies both lists so callers cannot reach internal state.
func (j *JourneyLog) Snapshot() Snapshot {
	entries := make([]JourneyEntry, len(j.entries))
	copy(entries, j.entries)
	unlocked := make([]UnlockedItem, len(j.unlocked))
	copy(unlocked, j.unlocked)
	return Snapshot{JourneyLog: entries, Unlocked: unlocked}
}
