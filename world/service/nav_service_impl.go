package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/tilenav/observability"
	"github.com/wricardo/tilenav/world/agent"
	"github.com/wricardo/tilenav/world/nav"
)

// DefaultHistoryLimit caps the path queries kept per session.
const DefaultHistoryLimit = 200

// Option configures the service.
type Option func(*navServiceImpl)

// WithObserver receives search, toggle, movement and session events.
func WithObserver(obs observability.Observer) Option {
	return func(s *navServiceImpl) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithLogger sets the logger used for non-fatal persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *navServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistoryLimit caps the path queries kept per session. Values below 1
// keep DefaultHistoryLimit.
func WithHistoryLimit(limit int) Option {
	return func(s *navServiceImpl) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// navServiceImpl implements the NavService interface
type navServiceImpl struct {
	sessions     SessionManager
	maps         MapManager
	observer     observability.Observer
	logger       *slog.Logger
	historyLimit int
	mu           sync.RWMutex
}

// NewNavService creates a new navigation service instance
func NewNavService(sessions SessionManager, maps MapManager, opts ...Option) NavService {
	s := &navServiceImpl{
		sessions:     sessions,
		maps:         maps,
		observer:     observability.NoOpObserver{},
		logger:       slog.Default(),
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new navigation session on a map
func (s *navServiceImpl) CreateSession(ctx context.Context, mapID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *nav.MapConfig
	var err error
	if mapID != "" {
		config, err = s.maps.LoadConfig(mapID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				if available := s.availableMapIDs(); len(available) > 0 {
					return nil, fmt.Errorf("map '%s' not found, available maps: %v: %w", mapID, available, err)
				}
			}
			return nil, fmt.Errorf("failed to load map %s: %w", mapID, err)
		}
	} else {
		config = s.maps.GetDefault()
		mapID = s.maps.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", mapID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.emit(ctx, observability.EventSessionCreated, observability.LevelInfo, map[string]any{
		"session_id": sess.ID,
		"map_id":     mapID,
	})

	sess.RLock()
	defer sess.RUnlock()
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *navServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.RLock()
	defer sess.RUnlock()
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *navServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.RLock()
		result = append(result, sessionInfo(sess))
		sess.RUnlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *navServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.emit(ctx, observability.EventSessionDeleted, observability.LevelInfo, map[string]any{
		"session_id": sessionID,
	})
	return nil
}

// GetGrid renders the session grid with the agent on it
func (s *navServiceImpl) GetGrid(ctx context.Context, sessionID string) (*GridView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.RLock()
	defer sess.RUnlock()

	rows := nav.Render(sess.Grid, sess.Map, map[nav.Position]rune{sess.Agent: 'A'})
	width := 0
	for _, row := range rows {
		width = max(width, len([]rune(row)))
	}

	return &GridView{
		SessionID: sess.ID,
		MapID:     sess.MapID,
		Width:     width,
		Height:    len(rows),
		Agent:     sess.Agent,
		Rows:      rows,
		Legend:    sess.Map.EffectiveLegend(),
	}, nil
}

// DescribeCell reports what is at pos. An absent cell is not an error.
func (s *navServiceImpl) DescribeCell(ctx context.Context, sessionID string, pos nav.Position) (*CellView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.RLock()
	defer sess.RUnlock()
	return cellView(sess, pos), nil
}

// ToggleCell flips the walkability of an existing cell
func (s *navServiceImpl) ToggleCell(ctx context.Context, sessionID string, pos nav.Position) (*CellView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	walkable, err := sess.Grid.ToggleWalkable(pos)
	if err != nil {
		sess.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	view := cellView(sess, pos)
	sess.Unlock()

	s.emit(ctx, observability.EventCellToggled, observability.LevelVerbose, map[string]any{
		"session_id": sess.ID,
		"x":          pos.X,
		"y":          pos.Y,
		"walkable":   walkable,
	})
	s.persist(sess.ID)
	return view, nil
}

// FindPath runs a search on the session grid and records it
func (s *navServiceImpl) FindPath(ctx context.Context, sessionID string, req PathRequest) (*PathQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if req.Budget < 0 || req.Budget > nav.MaxIterationBudget {
		return nil, fmt.Errorf("%w: budget must be between 0 and %d", ErrInvalidInput, nav.MaxIterationBudget)
	}

	sess.Lock()
	from := sess.Agent
	if req.From != nil {
		from = *req.From
	}

	var overrides []nav.Option
	if req.Budget > 0 {
		overrides = append(overrides, nav.WithIterationBudget(req.Budget))
	}
	if req.Trace {
		overrides = append(overrides, nav.WithTrace(true))
	}

	finder := &timedFinder{finder: s.finder(sess)}
	result := finder.Search(from, req.To, overrides...)
	query := s.record(sess, from, req.To, result, finder.elapsed)
	sess.Unlock()

	s.persist(sess.ID)
	return &query, nil
}

// Navigate searches from the agent and walks it along the path
func (s *navServiceImpl) Navigate(ctx context.Context, sessionID string, req NavigateRequest) (*NavigateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	translator := agent.NewTileTranslator(sess.Map.CellSize, agent.Point{})
	goal, err := navigationGoal(req, translator)
	if err != nil {
		return nil, err
	}

	steps := []agent.Step{}
	mover := agent.NewGridMover(translator, agent.WithStepHandler(func(step agent.Step) {
		steps = append(steps, step)
		sess.Agent = step.To
	}))
	finder := &timedFinder{finder: s.finder(sess)}
	navigator := agent.NewNavigator(translator, finder, mover, s.logger)

	sess.Lock()
	from := sess.Agent
	outcome, navErr := navigator.NavigateTo(ctx, from, goal)
	query := s.record(sess, from, goal, outcome.Result, finder.elapsed)
	sess.Unlock()

	if outcome.Moved {
		s.emit(ctx, observability.EventAgentMoved, observability.LevelVerbose, map[string]any{
			"session_id": sess.ID,
			"from":       from.String(),
			"to":         outcome.Reached.String(),
			"steps":      len(steps),
		})
	}
	s.persist(sess.ID)

	result := &NavigateResult{
		Query:   query,
		From:    from,
		Reached: outcome.Reached,
		Moved:   outcome.Moved,
		Steps:   steps,
	}
	return result, navErr
}

// GetPathHistory returns paginated path queries
func (s *navServiceImpl) GetPathHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.RLock()
	defer sess.RUnlock()

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	queries := []PathQuery{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			queries = append(queries, history[i])
		}
	} else if start < total {
		queries = append(queries, history[start:end]...)
	}

	return &HistoryResponse{
		Queries:      queries,
		TotalQueries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListMaps returns all available map configurations
func (s *navServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListConfigs()
}

// LoadMap returns a map configuration by ID
func (s *navServiceImpl) LoadMap(ctx context.Context, mapID string) (*nav.MapConfig, error) {
	return s.maps.LoadConfig(mapID)
}

// SaveMap validates and stores a map configuration
func (s *navServiceImpl) SaveMap(ctx context.Context, mapID string, config *nav.MapConfig) error {
	if mapID == "" {
		return fmt.Errorf("%w: map id is required", ErrInvalidInput)
	}
	return s.maps.SaveConfig(mapID, config)
}

func (s *navServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *navServiceImpl) finder(sess *Session) *nav.PathFinder {
	opts := append(nav.FinderOptions(sess.Map), nav.WithObserver(s.observer))
	return nav.NewPathFinder(sess.Grid, opts...)
}

// record appends a query to the session history, dropping the oldest
// entries past the limit. Traces are returned but not kept. The caller
// holds the session write lock.
func (s *navServiceImpl) record(sess *Session, from, to nav.Position, result nav.Result, elapsed time.Duration) PathQuery {
	query := PathQuery{
		ID:         uuid.NewString(),
		From:       from,
		To:         to,
		Found:      result.Found,
		Reason:     result.Reason,
		Path:       result.Path,
		Cost:       result.Cost,
		Expanded:   result.Expanded,
		Budget:     result.Budget,
		DurationUS: elapsed.Microseconds(),
		Timestamp:  time.Now(),
	}
	if query.Path == nil {
		query.Path = []nav.Position{}
	}

	sess.History = append(sess.History, query)
	if over := len(sess.History) - s.historyLimit; over > 0 {
		sess.History = append([]PathQuery(nil), sess.History[over:]...)
	}

	query.Trace = result.Trace
	return query
}

func (s *navServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session", "session_id", sessionID, "error", err)
	}
}

func (s *navServiceImpl) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "service.NavService",
		Data:      data,
	})
}

func (s *navServiceImpl) availableMapIDs() []string {
	maps, err := s.maps.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(maps))
	for _, m := range maps {
		ids = append(ids, m.MapID)
	}
	return ids
}

// timedFinder measures the search itself, excluding movement.
type timedFinder struct {
	finder  agent.Finder
	elapsed time.Duration
}

func (f *timedFinder) Search(start, goal nav.Position, overrides ...nav.Option) nav.Result {
	began := time.Now()
	result := f.finder.Search(start, goal, overrides...)
	f.elapsed = time.Since(began)
	return result
}

func navigationGoal(req NavigateRequest, translator agent.Translator) (nav.Position, error) {
	hasWorld := req.WorldX != nil || req.WorldY != nil
	switch {
	case req.To != nil && hasWorld:
		return nav.Position{}, fmt.Errorf("%w: give either to or world_x/world_y, not both", ErrInvalidInput)
	case req.To != nil:
		return *req.To, nil
	case req.WorldX != nil && req.WorldY != nil:
		return translator.WorldToCell(agent.Point{X: *req.WorldX, Y: *req.WorldY}), nil
	case hasWorld:
		return nav.Position{}, fmt.Errorf("%w: world_x and world_y must be given together", ErrInvalidInput)
	default:
		return nav.Position{}, fmt.Errorf("%w: navigation target is required", ErrInvalidInput)
	}
}

// sessionInfo and cellView expect the caller to hold the session lock.
func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		MapID:          sess.MapID,
		MapName:        sess.Map.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Agent:          sess.Agent,
		Cells:          sess.Grid.Len(),
		WalkableCells:  sess.Grid.CountWalkable(),
		Queries:        len(sess.History),
	}
}

func cellView(sess *Session, pos nav.Position) *CellView {
	view := &CellView{X: pos.X, Y: pos.Y, Agent: pos == sess.Agent}

	node, ok := sess.Grid.Lookup(pos)
	if !ok {
		return view
	}
	view.Present = true
	view.Walkable = node.Walkable
	view.MovementCost = node.MovementCost

	tile := sess.Map.TileAt(pos)
	if spec, ok := sess.Map.EffectiveLegend()[string(tile)]; ok {
		view.Tile = string(tile)
		view.TileName = spec.Name
		view.Toggled = spec.Walkable != node.Walkable
	}
	return view
}
