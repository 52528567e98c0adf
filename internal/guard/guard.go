// Package guard links signed-in identities to agent records and enforces the
// deactivation invariant: the moment a linked agent is observed inactive, the
// session is revoked — once, not repeatedly.
package guard

import (
	"strings"
	"sync"
	"time"

	"github.com/cruzaro/hpcollect/internal/models"
)

// State of one session's link to the agent roster.
type State int

const (
	// StateUnlinked means no agent record matches yet. This includes the
	// loading phase: while the roster is empty the guard stays Unlinked and
	// must not be reported as an error.
	StateUnlinked State = iota
	// StateLinked means an active agent record matches the identity.
	StateLinked
	// StateUnresolved means the roster is loaded and no record matches. It is
	// terminal and distinct from Unlinked.
	StateUnresolved
	// StateRevoked means the matched agent was observed inactive and the
	// session has been terminated.
	StateRevoked
)

func (s State) String() string {
	switch s {
	case StateLinked:
		return "linked"
	case StateUnresolved:
		return "unresolved"
	case StateRevoked:
		return "revoked"
	default:
		return "unlinked"
	}
}

// Revocation is the forced sign-out event. It is emitted at most once per
// observation of an inactive linked agent.
type Revocation struct {
	ProfileID string
	AgentID   string
	Observed  time.Time
}

// Guard tracks a single session.
type Guard struct {
	mu      sync.Mutex
	profile models.Profile
	state   State
	agent   models.Agent
}

// New creates a guard for a freshly signed-in identity.
func New(profile models.Profile) *Guard {
	return &Guard{profile: profile, state: StateUnlinked}
}

// Match resolves an identity against the roster. Stage one is an exact
// profile-id match; stage two falls back to a trimmed, case-insensitive email
// comparison for rows created before profile linking.
func Match(profile models.Profile, agents []models.Agent) (models.Agent, bool) {
	for _, a := range agents {
		if a.ProfileID != "" && a.ProfileID == profile.ID {
			return a, true
		}
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return models.Agent{}, false
	}
	for _, a := range agents {
		if strings.ToLower(strings.TrimSpace(a.Email)) == email {
			return a, true
		}
	}
	return models.Agent{}, false
}

// Observe evaluates the guard against the latest roster and returns a
// Revocation the first time the linked agent is seen inactive. Subsequent
// observations of the same inactive agent return nil until Reset re-arms the
// guard.
func (g *Guard) Observe(agents []models.Agent) *Revocation {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateRevoked {
		return nil
	}

	// An empty roster means data is still loading; hold position.
	if len(agents) == 0 {
		return nil
	}

	agent, ok := Match(g.profile, agents)
	if !ok {
		g.state = StateUnresolved
		return nil
	}
	g.agent = agent

	if !agent.Active {
		g.state = StateRevoked
		return &Revocation{
			ProfileID: g.profile.ID,
			AgentID:   agent.ID,
			Observed:  time.Now(),
		}
	}

	g.state = StateLinked
	return nil
}

// Reset re-arms the guard for a new sign-in of the same identity.
func (g *Guard) Reset(profile models.Profile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profile = profile
	g.state = StateUnlinked
	g.agent = models.Agent{}
}

// State returns the current link state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Agent returns the matched agent record, valid only when linked or revoked.
func (g *Guard) Agent() (models.Agent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.agent, g.state == StateLinked || g.state == StateRevoked
}

// Profile returns the identity this guard watches.
func (g *Guard) Profile() models.Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile
}
