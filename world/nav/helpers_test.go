package nav

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/wricardo/tilenav/observability"
)

// gridFromRows builds a grid where '.' is walkable, '#' is blocked and
// ' ' is absent.
func gridFromRows(rows ...string) *Grid {
	grid := NewGrid()
	for y, row := range rows {
		for x, r := range row {
			switch r {
			case '.':
				grid.Set(Position{X: x, Y: y}, Cell{Walkable: true, MovementCost: 1})
			case '#':
				grid.Set(Position{X: x, Y: y}, Cell{Walkable: false, MovementCost: 1})
			}
		}
	}
	return grid
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// assertValidPath checks that path is a chain of adjacent walkable cells
// leading from start to goal.
func assertValidPath(t *testing.T, grid *Grid, start, goal Position, path []Position) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("expected non-empty path from %s to %s", start, goal)
	}
	if path[len(path)-1] != goal {
		t.Errorf("expected path to end at %s, got %s", goal, path[len(path)-1])
	}
	prev := start
	for i, pos := range path {
		if pos == start {
			t.Errorf("path[%d] revisits start %s", i, start)
		}
		dx, dy := pos.X-prev.X, pos.Y-prev.Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Errorf("path[%d] %s is not adjacent to %s", i, pos, prev)
		}
		node, ok := grid.Lookup(pos)
		if !ok {
			t.Errorf("path[%d] %s is not on the grid", i, pos)
		} else if !node.Walkable {
			t.Errorf("path[%d] %s is not walkable", i, pos)
		}
		prev = pos
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *recordingObserver) OnEvent(ctx context.Context, event observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) Events() []observability.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observability.Event(nil), r.events...)
}
