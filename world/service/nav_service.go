package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/tilenav/world/nav"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// NavService defines all navigation operations
type NavService interface {
	// Session Management
	CreateSession(ctx context.Context, mapID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Grid
	GetGrid(ctx context.Context, sessionID string) (*GridView, error)
	DescribeCell(ctx context.Context, sessionID string, pos nav.Position) (*CellView, error)
	ToggleCell(ctx context.Context, sessionID string, pos nav.Position) (*CellView, error)

	// Search and movement
	FindPath(ctx context.Context, sessionID string, req PathRequest) (*PathQuery, error)
	Navigate(ctx context.Context, sessionID string, req NavigateRequest) (*NavigateResult, error)
	GetPathHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, mapID string) (*nav.MapConfig, error)
	SaveMap(ctx context.Context, mapID string, config *nav.MapConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapID string, config *nav.MapConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles map configuration loading
type MapManager interface {
	LoadConfig(name string) (*nav.MapConfig, error)
	ListConfigs() ([]*MapInfo, error)
	GetDefault() *nav.MapConfig
	DefaultID() string
	SaveConfig(name string, config *nav.MapConfig) error
}

// Session is one grid snapshot with a single agent on it. The grid is
// built from the map and then diverges through toggles.
//
// The embedded lock guards Grid, Agent, History and LastAccessedAt. ID,
// MapID, Map and CreatedAt never change after creation. Holders of a
// manager lock may take the session lock, never the other way around.
type Session struct {
	sync.RWMutex

	ID             string
	MapID          string
	Map            *nav.MapConfig
	Grid           *nav.Grid
	Agent          nav.Position
	History        []PathQuery
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Touch records an access at now.
func (s *Session) Touch(now time.Time) {
	s.Lock()
	s.LastAccessedAt = now
	s.Unlock()
}

// IdleSince reports whether the session was last accessed before cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	s.RLock()
	defer s.RUnlock()
	return s.LastAccessedAt.Before(cutoff)
}
