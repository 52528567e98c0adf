// Package snapshot pulls the full working set out of the store and publishes
// it as an immutable, versioned snapshot. Consumers read whole snapshots;
// nothing ever patches a published one in place.
package snapshot

import (
	"time"

	"github.com/cruzaro/hpcollect/internal/models"
)

// Snapshot is the complete, internally consistent set of domain collections
// as of one refresh. All slices and maps are read-only after publication.
type Snapshot struct {
	Version   int64
	FetchedAt time.Time

	Agents    []models.Agent
	Locations []models.Location
	Items     []models.Item
	Customers []models.Customer
	Payments  []models.Payment
	Settings  models.Settings

	itemsByID     map[string]models.Item
	agentsByID    map[string]models.Agent
	locationsByID map[string]models.Location
	customersByID map[string]models.Customer
}

func (s *Snapshot) index() {
	s.itemsByID = make(map[string]models.Item, len(s.Items))
	for _, it := range s.Items {
		s.itemsByID[it.ID] = it
	}
	s.agentsByID = make(map[string]models.Agent, len(s.Agents))
	for _, a := range s.Agents {
		s.agentsByID[a.ID] = a
	}
	s.locationsByID = make(map[string]models.Location, len(s.Locations))
	for _, l := range s.Locations {
		s.locationsByID[l.ID] = l
	}
	s.customersByID = make(map[string]models.Customer, len(s.Customers))
	for _, c := range s.Customers {
		s.customersByID[c.ID] = c
	}
}

// Seal indexes a hand-assembled snapshot and returns it ready for use. The
// orchestrator seals everything it publishes; fixtures and offline tooling
// use this directly.
func Seal(s Snapshot) *Snapshot {
	s.index()
	return &s
}

// ItemByID looks up an item.
func (s *Snapshot) ItemByID(id string) (models.Item, bool) {
	it, ok := s.itemsByID[id]
	return it, ok
}

// AgentByID looks up an agent.
func (s *Snapshot) AgentByID(id string) (models.Agent, bool) {
	a, ok := s.agentsByID[id]
	return a, ok
}

// LocationByID looks up a zone.
func (s *Snapshot) LocationByID(id string) (models.Location, bool) {
	l, ok := s.locationsByID[id]
	return l, ok
}

// CustomerByID looks up a customer.
func (s *Snapshot) CustomerByID(id string) (models.Customer, bool) {
	c, ok := s.customersByID[id]
	return c, ok
}

// ItemIndex returns the item lookup map for ledger aggregation.
func (s *Snapshot) ItemIndex() map[string]models.Item {
	return s.itemsByID
}

// CustomersForAgent returns the agent's working list: their active customers.
// Inactive customers stay visible to admins through the full collection.
func (s *Snapshot) CustomersForAgent(agentID string) []models.Customer {
	var out []models.Customer
	for _, c := range s.Customers {
		if c.AgentID == agentID && c.Active {
			out = append(out, c)
		}
	}
	return out
}

// PaymentsForAgent returns the agent's payments within the snapshot window.
func (s *Snapshot) PaymentsForAgent(agentID string) []models.Payment {
	var out []models.Payment
	for _, p := range s.Payments {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out
}
