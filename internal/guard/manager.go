package guard

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/models"
)

// Revoker terminates a session out-of-band, typically by blacklisting its
// token so the auth middleware rejects every later request.
type Revoker interface {
	RevokeSession(ctx context.Context, profileID string) error
}

// Manager holds one guard per live agent session and re-evaluates them all
// whenever a fresh snapshot arrives.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Guard
	revoker  Revoker
}

// NewManager creates a Manager that reports revocations to the given Revoker.
func NewManager(revoker Revoker) *Manager {
	return &Manager{
		sessions: make(map[string]*Guard),
		revoker:  revoker,
	}
}

// Register tracks a signed-in agent identity. A repeated sign-in of the same
// identity re-arms its existing guard.
func (m *Manager) Register(profile models.Profile) *Guard {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.sessions[profile.ID]; ok {
		g.Reset(profile)
		return g
	}
	g := New(profile)
	m.sessions[profile.ID] = g
	return g
}

// Drop forgets a session after an explicit sign-out.
func (m *Manager) Drop(profileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, profileID)
}

// Lookup returns the guard for a profile id, if any.
func (m *Manager) Lookup(profileID string) (*Guard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.sessions[profileID]
	return g, ok
}

// ObserveAll runs every live guard against the latest roster and executes any
// revocations it produces.
func (m *Manager) ObserveAll(ctx context.Context, agents []models.Agent) {
	m.mu.Lock()
	guards := make([]*Guard, 0, len(m.sessions))
	for _, g := range m.sessions {
		guards = append(guards, g)
	}
	m.mu.Unlock()

	for _, g := range guards {
		rev := g.Observe(agents)
		if rev == nil {
			continue
		}
		log.Warn().
			Str("profile_id", rev.ProfileID).
			Str("agent_id", rev.AgentID).
			Msg("agent deactivated, revoking session")
		if err := m.revoker.RevokeSession(ctx, rev.ProfileID); err != nil {
			log.Error().Err(err).Str("profile_id", rev.ProfileID).Msg("session revocation failed")
		}
	}
}
