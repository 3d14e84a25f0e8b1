package service

import (
	"time"

	"github.com/wricardo/tilenav/world/agent"
	"github.com/wricardo/tilenav/world/nav"
)

// SessionInfo provides information about a navigation session
type SessionInfo struct {
	ID             string       `json:"id"`
	MapID          string       `json:"map_id"`
	MapName        string       `json:"map_name"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	Agent          nav.Position `json:"agent"`
	Cells          int          `json:"cells"`
	WalkableCells  int          `json:"walkable_cells"`
	Queries        int          `json:"queries"`
}

// GridView is a printable snapshot of a session grid. Rows are indexed by
// Y; the agent is drawn as 'A' and blank runes are absent cells.
type GridView struct {
	SessionID string                  `json:"session_id"`
	MapID     string                  `json:"map_id"`
	Width     int                     `json:"width"`
	Height    int                     `json:"height"`
	Agent     nav.Position            `json:"agent"`
	Rows      []string                `json:"rows"`
	Legend    map[string]nav.TileSpec `json:"legend"`
}

// CellView describes a single position of a session grid
type CellView struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Present      bool    `json:"present"`
	Walkable     bool    `json:"walkable"`
	MovementCost float64 `json:"movement_cost,omitempty"`
	Tile         string  `json:"tile,omitempty"`
	TileName     string  `json:"tile_name,omitempty"`
	Toggled      bool    `json:"toggled,omitempty"`
	Agent        bool    `json:"agent,omitempty"`
}

// PathRequest asks for a path search. From defaults to the agent
// position; Budget 0 uses the map's budget.
type PathRequest struct {
	From   *nav.Position `json:"from,omitempty"`
	To     nav.Position  `json:"to"`
	Budget int           `json:"budget,omitempty"`
	Trace  bool          `json:"trace,omitempty"`
}

// PathQuery is a recorded search
type PathQuery struct {
	ID         string         `json:"id"`
	From       nav.Position   `json:"from"`
	To         nav.Position   `json:"to"`
	Found      bool           `json:"found"`
	Reason     nav.Reason     `json:"reason,omitempty"`
	Path       []nav.Position `json:"path"`
	Cost       float64        `json:"cost"`
	Expanded   int            `json:"expanded"`
	Budget     int            `json:"budget"`
	Trace      []nav.Position `json:"trace,omitempty"`
	DurationUS int64          `json:"duration_us"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NavigateRequest moves the agent to a cell or to the cell containing a
// world point. Exactly one of To or the WorldX/WorldY pair must be set.
type NavigateRequest struct {
	To     *nav.Position `json:"to,omitempty"`
	WorldX *float64      `json:"world_x,omitempty"`
	WorldY *float64      `json:"world_y,omitempty"`
}

// NavigateResult is the outcome of moving the agent
type NavigateResult struct {
	Query   PathQuery    `json:"query"`
	From    nav.Position `json:"from"`
	Reached nav.Position `json:"reached"`
	Moved   bool         `json:"moved"`
	Steps   []agent.Step `json:"steps"`
}

// HistoryOptions configures path history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated path history
type HistoryResponse struct {
	Queries      []PathQuery `json:"queries"`
	TotalQueries int         `json:"total_queries"`
	Page         int         `json:"page"`
	PageSize     int         `json:"page_size"`
	TotalPages   int         `json:"total_pages"`
	HasNext      bool        `json:"has_next"`
	HasPrevious  bool        `json:"has_previous"`
}

// MapInfo provides information about a map configuration
type MapInfo struct {
	Filename      string `json:"filename"`
	MapID         string `json:"map_id"` // The identifier to use for session creation
	Name          string `json:"name"`
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	WalkableCells int    `json:"walkable_cells"`
}
