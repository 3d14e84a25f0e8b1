package nav

import (
	"container/heap"
	"context"
	"time"

	"github.com/wricardo/tilenav/observability"
)

// Result is the outcome of a search. On failure Path is empty and Reason
// says why; a failed search is a normal return, not an error.
type Result struct {
	Found    bool       `json:"found"`
	Path     []Position `json:"path"`
	Cost     float64    `json:"cost"`
	Expanded int        `json:"expanded"`
	Budget   int        `json:"budget"`
	Reason   Reason     `json:"reason,omitempty"`
	Trace    []Position `json:"trace,omitempty"`
}

// Err returns the sentinel error for a failed search, or nil.
func (r Result) Err() error {
	if r.Found {
		return nil
	}
	return r.Reason.Err()
}

// Options configures a PathFinder.
type Options struct {
	IterationBudget int
	Heuristic       Heuristic
	Trace           bool
	Observer        observability.Observer
}

// Option modifies Options.
type Option func(*Options)

// WithIterationBudget caps node expansions. Values below 1 select
// DefaultIterationBudget.
func WithIterationBudget(budget int) Option {
	return func(o *Options) { o.IterationBudget = budget }
}

// WithHeuristic replaces the Euclidean default.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h != nil {
			o.Heuristic = h
		}
	}
}

// WithTrace records every expanded position in Result.Trace.
func WithTrace(enabled bool) Option {
	return func(o *Options) { o.Trace = enabled }
}

// WithObserver reports each completed search as an EventSearchComplete.
func WithObserver(obs observability.Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// PathFinder runs A* searches over a Grid. It never modifies the grid.
type PathFinder struct {
	grid    *Grid
	options Options
}

// NewPathFinder binds a finder to grid.
func NewPathFinder(grid *Grid, options ...Option) *PathFinder {
	opts := Options{
		IterationBudget: DefaultIterationBudget,
		Heuristic:       Euclidean,
		Observer:        observability.NoOpObserver{},
	}
	for _, o := range options {
		o(&opts)
	}
	return &PathFinder{grid: grid, options: normalize(opts)}
}

// Grid returns the grid the finder reads.
func (f *PathFinder) Grid() *Grid {
	return f.grid
}

// Search finds a path from start to goal. The returned path excludes
// start and includes goal; start == goal yields an empty successful path.
// Per-call options override the finder's configuration for this query.
func (f *PathFinder) Search(start, goal Position, overrides ...Option) Result {
	opts := f.options
	for _, o := range overrides {
		o(&opts)
	}
	opts = normalize(opts)

	began := time.Now()
	result := f.search(start, goal, opts)
	result.Budget = opts.IterationBudget

	opts.Observer.OnEvent(context.Background(), searchEvent(start, goal, result, time.Since(began)))
	return result
}

func (f *PathFinder) search(startPos, goalPos Position, opts Options) Result {
	start, ok := f.grid.Lookup(startPos)
	if !ok {
		return failed(ReasonStartNotFound, 0, nil)
	}
	goal, ok := f.grid.Lookup(goalPos)
	if !ok {
		return failed(ReasonGoalNotFound, 0, nil)
	}
	if start.Equal(goal) {
		return Result{Found: true, Path: []Position{}}
	}

	open := make(openQueue, 0, 64)
	byPos := make(map[Position]*openEntry)
	closed := make(map[Position]struct{})
	parent := make(map[Position]Position)

	seq := 0
	h := opts.Heuristic(start.Position, goal.Position)
	first := &openEntry{pos: start.Position, g: 0, h: h, f: h, seq: seq}
	heap.Push(&open, first)
	byPos[start.Position] = first

	var trace []Position
	expanded := 0
	for {
		if open.Len() == 0 {
			return failed(ReasonNoPathExists, expanded, trace)
		}
		if expanded >= opts.IterationBudget {
			return failed(ReasonBudgetExceeded, expanded, trace)
		}

		current := heap.Pop(&open).(*openEntry)
		delete(byPos, current.pos)
		closed[current.pos] = struct{}{}
		expanded++
		if opts.Trace {
			trace = append(trace, current.pos)
		}

		if current.pos == goal.Position {
			return Result{
				Found:    true,
				Path:     reconstructPath(parent, start.Position, current.pos),
				Cost:     current.g,
				Expanded: expanded,
				Trace:    trace,
			}
		}

		node, _ := f.grid.Lookup(current.pos)
		for _, nb := range f.grid.NeighborsWithCost(node) {
			next := nb.Node.Key()
			if _, done := closed[next]; done {
				continue
			}

			tentativeG := current.g + nb.Cost
			entry, seen := byPos[next]
			if seen && tentativeG >= entry.g {
				continue
			}

			parent[next] = current.pos
			h := opts.Heuristic(next, goal.Position)
			if !seen {
				seq++
				entry = &openEntry{pos: next, g: tentativeG, h: h, f: tentativeG + h, seq: seq}
				heap.Push(&open, entry)
				byPos[next] = entry
				continue
			}
			entry.g = tentativeG
			entry.h = h
			entry.f = tentativeG + h
			heap.Fix(&open, entry.index)
		}
	}
}

// reconstructPath walks parent links back from goal and returns the
// positions in start-to-goal order without start.
func reconstructPath(parent map[Position]Position, start, goal Position) []Position {
	path := []Position{}
	for current := goal; current != start; {
		path = append(path, current)
		prev, ok := parent[current]
		if !ok {
			break
		}
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func failed(reason Reason, expanded int, trace []Position) Result {
	return Result{
		Found:    false,
		Path:     []Position{},
		Expanded: expanded,
		Reason:   reason,
		Trace:    trace,
	}
}

func normalize(opts Options) Options {
	if opts.IterationBudget < 1 {
		opts.IterationBudget = DefaultIterationBudget
	}
	if opts.Heuristic == nil {
		opts.Heuristic = Euclidean
	}
	if opts.Observer == nil {
		opts.Observer = observability.NoOpObserver{}
	}
	return opts
}

func searchEvent(start, goal Position, result Result, elapsed time.Duration) observability.Event {
	level := observability.LevelVerbose
	if !result.Found {
		level = observability.LevelInfo
	}
	return observability.Event{
		Type:      observability.EventSearchComplete,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "nav.PathFinder",
		Data: map[string]any{
			"start":       start.String(),
			"goal":        goal.String(),
			"found":       result.Found,
			"reason":      string(result.Reason),
			"expanded":    result.Expanded,
			"budget":      result.Budget,
			"path_length": len(result.Path),
			"cost":        result.Cost,
			"duration":    elapsed,
		},
	}
}
