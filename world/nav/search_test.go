package nav

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wricardo/tilenav/observability"
)

func pathCost(start Position, path []Position) float64 {
	total := 0.0
	prev := start
	for _, pos := range path {
		if IsDiagonal(Position{X: pos.X - prev.X, Y: pos.Y - prev.Y}) {
			total += Diagonal
		} else {
			total += Cardinal
		}
		prev = pos
	}
	return total
}

func TestSearchScenarios(t *testing.T) {
	tests := []struct {
		name       string
		rows       []string
		start      Position
		goal       Position
		budget     int
		wantFound  bool
		wantReason Reason
		wantPath   []Position
		wantCost   float64
	}{
		{
			name:      "straight row",
			rows:      []string{"..."},
			start:     Position{0, 0},
			goal:      Position{2, 0},
			wantFound: true,
			wantPath:  []Position{{1, 0}, {2, 0}},
			wantCost:  2,
		},
		{
			name:      "open square diagonal",
			rows:      []string{"...", "...", "..."},
			start:     Position{0, 0},
			goal:      Position{2, 2},
			wantFound: true,
			wantPath:  []Position{{1, 1}, {2, 2}},
			wantCost:  2 * Diagonal,
		},
		{
			name:      "start equals goal",
			rows:      []string{"..."},
			start:     Position{1, 0},
			goal:      Position{1, 0},
			wantFound: true,
			wantPath:  []Position{},
			wantCost:  0,
		},
		{
			name: "enclosed goal",
			rows: []string{
				".....",
				".###.",
				".#.#.",
				".###.",
				".....",
			},
			start:      Position{0, 0},
			goal:       Position{2, 2},
			wantReason: ReasonNoPathExists,
			wantPath:   []Position{},
		},
		{
			name:       "absent start",
			rows:       []string{"..."},
			start:      Position{-1, 0},
			goal:       Position{2, 0},
			wantReason: ReasonStartNotFound,
			wantPath:   []Position{},
		},
		{
			name:       "absent goal",
			rows:       []string{"..."},
			start:      Position{0, 0},
			goal:       Position{7, 7},
			wantReason: ReasonGoalNotFound,
			wantPath:   []Position{},
		},
		{
			name:       "budget of one",
			rows:       []string{"..."},
			start:      Position{0, 0},
			goal:       Position{2, 0},
			budget:     1,
			wantReason: ReasonBudgetExceeded,
			wantPath:   []Position{},
		},
		{
			name:       "blocked goal",
			rows:       []string{"..#"},
			start:      Position{0, 0},
			goal:       Position{2, 0},
			wantReason: ReasonNoPathExists,
			wantPath:   []Position{},
		},
		{
			name: "detour around wall",
			rows: []string{
				".....",
				".###.",
				".....",
			},
			start:     Position{0, 1},
			goal:      Position{4, 1},
			wantFound: true,
			wantCost:  2*Diagonal + 2*Cardinal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromRows(tt.rows...)
			finder := NewPathFinder(grid, WithIterationBudget(tt.budget))
			result := finder.Search(tt.start, tt.goal)

			if result.Found != tt.wantFound {
				t.Fatalf("Found = %v, want %v (reason %q)", result.Found, tt.wantFound, result.Reason)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Path == nil {
				t.Error("Path must never be nil")
			}
			if tt.wantPath != nil && !reflect.DeepEqual(result.Path, tt.wantPath) {
				t.Errorf("Path = %v, want %v", result.Path, tt.wantPath)
			}
			if !almostEqual(result.Cost, tt.wantCost) {
				t.Errorf("Cost = %v, want %v", result.Cost, tt.wantCost)
			}
			if result.Found && len(result.Path) > 0 {
				assertValidPath(t, grid, tt.start, tt.goal, result.Path)
				if !almostEqual(pathCost(tt.start, result.Path), result.Cost) {
					t.Errorf("Cost %v does not match path steps %v", result.Cost, pathCost(tt.start, result.Path))
				}
			}
		})
	}
}

func TestSearchReasonErrors(t *testing.T) {
	grid := gridFromRows("...")
	finder := NewPathFinder(grid)

	if err := finder.Search(Position{0, 0}, Position{2, 0}).Err(); err != nil {
		t.Errorf("expected nil error on success, got %v", err)
	}
	if err := finder.Search(Position{9, 0}, Position{2, 0}).Err(); !errors.Is(err, ErrStartNotFound) {
		t.Errorf("expected ErrStartNotFound, got %v", err)
	}
	if err := finder.Search(Position{0, 0}, Position{9, 0}).Err(); !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
	if err := finder.Search(Position{0, 0}, Position{2, 0}, WithIterationBudget(1)).Err(); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestSearchStartEqualsGoalExpandsNothing(t *testing.T) {
	finder := NewPathFinder(gridFromRows("."))
	result := finder.Search(Position{0, 0}, Position{0, 0})
	if !result.Found || result.Expanded != 0 {
		t.Errorf("expected found with 0 expansions, got found=%v expanded=%d", result.Found, result.Expanded)
	}
}

func TestSearchBudgetTermination(t *testing.T) {
	rows := make([]string, 40)
	for y := range rows {
		row := make([]byte, 40)
		for x := range row {
			row[x] = '.'
		}
		rows[y] = string(row)
	}
	// Enclose the far corner so the search has to exhaust the open area
	rows[38] = rows[38][:38] + "##"
	rows[39] = rows[39][:38] + "#."

	finder := NewPathFinder(gridFromRows(rows...))
	result := finder.Search(Position{0, 0}, Position{39, 39})

	if result.Reason != ReasonBudgetExceeded {
		t.Fatalf("expected budget exceeded, got %q", result.Reason)
	}
	if result.Expanded != DefaultIterationBudget {
		t.Errorf("expected %d expansions, got %d", DefaultIterationBudget, result.Expanded)
	}
	if result.Budget != DefaultIterationBudget {
		t.Errorf("expected budget %d, got %d", DefaultIterationBudget, result.Budget)
	}

	result = finder.Search(Position{0, 0}, Position{39, 39}, WithIterationBudget(5000))
	if result.Reason != ReasonNoPathExists {
		t.Errorf("expected no path with a larger budget, got %q", result.Reason)
	}
}

func TestSearchExhaustionBeforeBudget(t *testing.T) {
	// A lone cell exhausts the frontier on its first expansion
	grid := gridFromRows(".#.")
	result := NewPathFinder(grid, WithIterationBudget(1)).Search(Position{0, 0}, Position{2, 0})
	if result.Reason != ReasonNoPathExists {
		t.Errorf("expected no path, got %q", result.Reason)
	}
	if result.Expanded != 1 {
		t.Errorf("expected 1 expansion, got %d", result.Expanded)
	}
}

func TestSearchLongDiagonal(t *testing.T) {
	rows := make([]string, 30)
	for y := range rows {
		rows[y] = ".............................."
	}
	grid := gridFromRows(rows...)

	result := NewPathFinder(grid).Search(Position{0, 0}, Position{29, 29})
	if !result.Found {
		t.Fatalf("expected path, got %q", result.Reason)
	}
	if len(result.Path) != 29 {
		t.Errorf("expected 29 diagonal steps, got %d", len(result.Path))
	}
	if !almostEqual(result.Cost, 29*Diagonal) {
		t.Errorf("expected cost %v, got %v", 29*Diagonal, result.Cost)
	}
	if result.Expanded > DefaultIterationBudget {
		t.Errorf("expansions %d exceed budget", result.Expanded)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	grid := gridFromRows(
		"......",
		".##...",
		"...#..",
		".#....",
		"......",
	)
	finder := NewPathFinder(grid)

	first := finder.Search(Position{0, 0}, Position{5, 4})
	if !first.Found {
		t.Fatalf("expected path, got %q", first.Reason)
	}
	for i := 0; i < 10; i++ {
		again := finder.Search(Position{0, 0}, Position{5, 4})
		if !reflect.DeepEqual(first.Path, again.Path) || first.Expanded != again.Expanded {
			t.Fatalf("run %d differs: %v vs %v", i, first.Path, again.Path)
		}
	}
}

func TestSearchDoesNotModifyGrid(t *testing.T) {
	grid := gridFromRows("...", ".#.", "...")
	before := grid.Clone()

	NewPathFinder(grid).Search(Position{0, 0}, Position{2, 2})

	for _, pos := range before.Positions() {
		a, _ := before.Lookup(pos)
		b, _ := grid.Lookup(pos)
		if a != b {
			t.Errorf("cell %s changed from %+v to %+v", pos, a, b)
		}
	}
}

func TestSearchTrace(t *testing.T) {
	finder := NewPathFinder(gridFromRows("..."))

	result := finder.Search(Position{0, 0}, Position{2, 0}, WithTrace(true))
	want := []Position{{0, 0}, {1, 0}, {2, 0}}
	if !reflect.DeepEqual(result.Trace, want) {
		t.Errorf("Trace = %v, want %v", result.Trace, want)
	}
	if result.Expanded != len(result.Trace) {
		t.Errorf("expected one trace entry per expansion, got %d vs %d", len(result.Trace), result.Expanded)
	}

	result = finder.Search(Position{0, 0}, Position{2, 0})
	if result.Trace != nil {
		t.Errorf("expected no trace by default, got %v", result.Trace)
	}
}

func TestSearchOverridesDoNotPersist(t *testing.T) {
	finder := NewPathFinder(gridFromRows("..."), WithIterationBudget(1))

	if result := finder.Search(Position{0, 0}, Position{2, 0}, WithIterationBudget(10)); !result.Found {
		t.Errorf("expected override budget to allow the path, got %q", result.Reason)
	}
	if result := finder.Search(Position{0, 0}, Position{2, 0}); result.Reason != ReasonBudgetExceeded {
		t.Errorf("expected finder budget to apply again, got %q", result.Reason)
	}
}

func TestSearchTerrainCost(t *testing.T) {
	// Straight through the mud costs 3 per step, around it costs less
	grid := NewGrid()
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			cost := 1.0
			if x == 1 && y < 2 {
				cost = 5
			}
			grid.Set(Position{x, y}, Cell{Walkable: true, MovementCost: cost})
		}
	}
	grid.SetStepCost(TerrainStepCost)

	result := NewPathFinder(grid).Search(Position{0, 0}, Position{2, 0})
	if !result.Found {
		t.Fatalf("expected path, got %q", result.Reason)
	}
	for _, pos := range result.Path {
		if pos.X == 1 && pos.Y < 2 {
			t.Errorf("path %v crosses expensive terrain", result.Path)
		}
	}
}

func TestSearchObserver(t *testing.T) {
	obs := &recordingObserver{}
	finder := NewPathFinder(gridFromRows("..."), WithObserver(obs))

	finder.Search(Position{0, 0}, Position{2, 0})
	finder.Search(Position{0, 0}, Position{5, 0})

	events := obs.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != observability.EventSearchComplete {
		t.Errorf("unexpected event type %s", events[0].Type)
	}
	if events[0].Data["found"] != true || events[0].Level != observability.LevelVerbose {
		t.Errorf("unexpected success event %+v", events[0])
	}
	if events[1].Data["reason"] != string(ReasonGoalNotFound) || events[1].Level != observability.LevelInfo {
		t.Errorf("unexpected failure event %+v", events[1])
	}
}

func TestHeuristicsAgreeOnCost(t *testing.T) {
	grid := gridFromRows(
		"....#...",
		".##.#.#.",
		"......#.",
		"####.##.",
		"........",
	)
	start, goal := Position{0, 0}, Position{7, 0}

	euclid := NewPathFinder(grid).Search(start, goal)
	octile := NewPathFinder(grid, WithHeuristic(Octile)).Search(start, goal)

	if !euclid.Found || !octile.Found {
		t.Fatalf("expected both to find a path: %q %q", euclid.Reason, octile.Reason)
	}
	if !almostEqual(euclid.Cost, octile.Cost) {
		t.Errorf("admissible heuristics disagree on cost: %v vs %v", euclid.Cost, octile.Cost)
	}
}
