package session

import (
	"time"

	"github.com/wricardo/tilenav/world/nav"
	"github.com/wricardo/tilenav/world/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// CellOverride records a cell whose walkability differs from its map.
type CellOverride struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Walkable bool `json:"walkable"`
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string              `json:"id"`
	MapID          string              `json:"map_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Agent          nav.Position        `json:"agent"`
	Overrides      []CellOverride      `json:"overrides"`
	History        []service.PathQuery `json:"history"`
}

// overridesOf lists every cell of grid whose walkability differs from
// base, in row-major order.
func overridesOf(base, grid *nav.Grid) []CellOverride {
	overrides := []CellOverride{}
	for _, pos := range grid.Positions() {
		node, _ := grid.Lookup(pos)
		original, ok := base.Lookup(pos)
		if ok && original.Walkable == node.Walkable {
			continue
		}
		overrides = append(overrides, CellOverride{X: pos.X, Y: pos.Y, Walkable: node.Walkable})
	}
	return overrides
}
