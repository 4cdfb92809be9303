package session

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persister loads a cart at session init and saves it after every mutation.
type Persister interface {
	cart.Saver
	LoadCart(ctx context.Context, owner string) ([]models.CartLine, error)
}

// Manager owns the live sessions. A session the service has forgotten (idle
// expiry, restart) is rebuilt from its persisted cart on the next request, so
// a reload never loses a confirmed cart state.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	catalog   *Catalog
	persister Persister
	ttl       time.Duration
	logger    *zap.Logger
}

// NewManager creates a session manager over a catalog snapshot.
func NewManager(cat *Catalog, persister Persister, ttl time.Duration) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		catalog:   cat,
		persister: persister,
		ttl:       ttl,
		logger:    util.GetLogger(),
	}
}

// Create starts a fresh session with an empty cart.
func (m *Manager) Create(ctx context.Context) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	s := newSession(id, m.catalog, cart.NewLedger(id, m.persister, nil))
	m.sessions[id] = s
	m.logger.Info("Session created", zap.String("session_id", id))
	return s
}

// Get returns the session for an id, restoring it from persisted state when
// the service no longer holds it in memory.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if ok {
		if m.ttl > 0 && time.Since(s.idleSince()) > m.ttl {
			m.mu.Lock()
			delete(m.sessions, id)
			m.mu.Unlock()
			return m.restore(ctx, id)
		}
		s.touch()
		return s, nil
	}
	return m.restore(ctx, id)
}

func (m *Manager) restore(ctx context.Context, id string) (*Session, error) {
	lines, err := m.persister.LoadCart(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	s := newSession(id, m.catalog, cart.NewLedger(id, m.persister, lines))
	m.sessions[id] = s
	m.logger.Info("Session restored",
		zap.String("session_id", id),
		zap.Int("cart_lines", len(lines)))
	return s, nil
}

// Refresh swaps the catalog snapshot used for new and restored sessions.
// Live sessions keep the snapshot they opened with.
func (m *Manager) Refresh(cat *Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = cat
}

// Catalog returns the current catalog snapshot.
func (m *Manager) Catalog() *Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog
}
