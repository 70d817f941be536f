package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager keeps one Game per profile id. Games are loaded lazily from the
// repository and cached for the life of the process.
type Manager struct {
	mu    sync.Mutex
	deps  Deps
	games map[uuid.UUID]*Game
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:  deps,
		games: make(map[uuid.UUID]*Game),
	}
}

// Create starts a new profile and persists its initial records.
func (m *Manager) Create(ctx context.Context) (*Game, error) {
	id := uuid.New()
	g := New(ctx, id, m.deps)

	if repo := m.deps.Repository; repo != nil {
		if err := repo.SaveSession(ctx, id, g.session.Record()); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		if err := repo.SaveCollection(ctx, id, g.collection.Record()); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	g.logger.Info("Profile created")
	return g, nil
}

// Get returns the game for id, loading it from the repository on first
// use. Unknown profiles return ErrProfileNotFound.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.games[id]; ok {
		return g, nil
	}

	repo := m.deps.Repository
	if repo == nil {
		return nil, ErrProfileNotFound
	}
	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	g := New(ctx, id, m.deps)
	m.games[id] = g
	return g, nil
}

// Len returns the number of cached games.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}
