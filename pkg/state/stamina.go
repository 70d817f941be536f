package state

// DefaultMaxStamina is the per-session stamina budget.
const DefaultMaxStamina = 5

// Stamina is the bounded per-session resource that gates event resolution.
// Current is always within [0, Max].
type Stamina struct {
	current int
	max     int
}

// NewStamina returns a full pool. A max below 1 is raised to 1.
func NewStamina(limit int) Stamina {
	if limit < 1 {
		limit = 1
	}
	return Stamina{current: limit, max: limit}
}

// HasStamina reports whether at least one unit remains.
func (s *Stamina) HasStamina() bool {
	return s.current > 0
}

// Consume spends one unit. It returns false and leaves the pool unchanged
// when it is already empty.
func (s *Stamina) Consume() bool {
	if s.current <= 0 {
		return false
	}
	s.current--
	return true
}

// Restore refills the pool to its maximum.
func (s *Stamina) Restore() {
	s.current = s.max
}

// set clamps a persisted value into range.
func (s *Stamina) set(value int) {
	s.current = min(max(value, 0), s.max)
}

func (s *Stamina) Current() int { return s.current }
func (s *Stamina) Max() int     { return s.max }
