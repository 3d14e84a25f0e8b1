package nav

import (
	"errors"
	"testing"
)

func TestGridLookup(t *testing.T) {
	grid := gridFromRows(
		".#",
		" .",
	)

	tests := []struct {
		name     string
		pos      Position
		found    bool
		walkable bool
	}{
		{"walkable cell", Position{0, 0}, true, true},
		{"blocked cell", Position{1, 0}, true, false},
		{"absent cell", Position{0, 1}, false, false},
		{"outside bounds", Position{5, 5}, false, false},
		{"negative coordinates", Position{-1, 0}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := grid.Lookup(tt.pos)
			if ok != tt.found {
				t.Fatalf("Lookup(%s) found = %v, want %v", tt.pos, ok, tt.found)
			}
			if !ok {
				return
			}
			if node.Position != tt.pos {
				t.Errorf("expected node at %s, got %s", tt.pos, node.Position)
			}
			if node.Walkable != tt.walkable {
				t.Errorf("expected walkable=%v, got %v", tt.walkable, node.Walkable)
			}
		})
	}
}

func TestNodeIdentityIgnoresAttributes(t *testing.T) {
	a := Node{Position: Position{2, 3}, Walkable: true, MovementCost: 1}
	b := Node{Position: Position{2, 3}, Walkable: false, MovementCost: 7}
	c := Node{Position: Position{3, 2}, Walkable: true, MovementCost: 1}

	if !a.Equal(b) {
		t.Error("expected nodes at the same position to be equal")
	}
	if a.Key() != b.Key() {
		t.Error("expected nodes at the same position to share a key")
	}
	if a.Equal(c) {
		t.Error("expected nodes at different positions to differ")
	}
}

func TestNeighborsWithCost(t *testing.T) {
	grid := gridFromRows(
		"...",
		".#.",
		".. ",
	)
	center := Node{Position: Position{1, 1}}

	neighbors := grid.NeighborsWithCost(center)
	// (2,2) is absent, everything else around the center is walkable
	if len(neighbors) != 7 {
		t.Fatalf("expected 7 neighbors, got %d: %+v", len(neighbors), neighbors)
	}

	for _, nb := range neighbors {
		d := Position{X: nb.Node.Position.X - 1, Y: nb.Node.Position.Y - 1}
		want := Cardinal
		if IsDiagonal(d) {
			want = Diagonal
		}
		if nb.Cost != want {
			t.Errorf("neighbor %s: expected cost %v, got %v", nb.Node.Position, want, nb.Cost)
		}
		if !nb.Node.Walkable {
			t.Errorf("neighbor %s is not walkable", nb.Node.Position)
		}
	}

	// Order follows Directions
	if neighbors[0].Node.Position != (Position{1, 2}) {
		t.Errorf("expected first neighbor (1,2), got %s", neighbors[0].Node.Position)
	}
}

func TestNeighborsSkipBlocked(t *testing.T) {
	grid := gridFromRows(
		"###",
		"#.#",
		"###",
	)
	neighbors := grid.NeighborsWithCost(Node{Position: Position{1, 1}})
	if len(neighbors) != 0 {
		t.Errorf("expected no neighbors, got %+v", neighbors)
	}
}

func TestTerrainStepCost(t *testing.T) {
	grid := NewGrid()
	grid.Set(Position{0, 0}, Cell{Walkable: true, MovementCost: 1})
	grid.Set(Position{1, 0}, Cell{Walkable: true, MovementCost: 3})
	grid.Set(Position{1, 1}, Cell{Walkable: true, MovementCost: 0})
	grid.SetStepCost(TerrainStepCost)

	costs := make(map[Position]float64)
	for _, nb := range grid.NeighborsWithCost(Node{Position: Position{0, 0}}) {
		costs[nb.Node.Position] = nb.Cost
	}

	if got := costs[Position{1, 0}]; got != 3 {
		t.Errorf("expected cost 3 onto mud, got %v", got)
	}
	if got := costs[Position{1, 1}]; got != Diagonal {
		t.Errorf("expected zero movement cost to count as 1, got %v", got)
	}

	grid.SetStepCost(nil)
	for _, nb := range grid.NeighborsWithCost(Node{Position: Position{0, 0}}) {
		if nb.Node.Position == (Position{1, 0}) && nb.Cost != Cardinal {
			t.Errorf("expected uniform cost after reset, got %v", nb.Cost)
		}
	}
}

func TestToggleWalkable(t *testing.T) {
	grid := gridFromRows(".#")

	walkable, err := grid.ToggleWalkable(Position{0, 0})
	if err != nil {
		t.Fatalf("ToggleWalkable failed: %v", err)
	}
	if walkable {
		t.Error("expected (0,0) to become blocked")
	}

	walkable, err = grid.ToggleWalkable(Position{1, 0})
	if err != nil {
		t.Fatalf("ToggleWalkable failed: %v", err)
	}
	if !walkable {
		t.Error("expected (1,0) to become walkable")
	}

	if _, err := grid.ToggleWalkable(Position{9, 9}); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("expected ErrCellNotFound, got %v", err)
	}
	if err := grid.SetWalkable(Position{9, 9}, true); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("expected ErrCellNotFound, got %v", err)
	}
	if grid.Len() != 2 {
		t.Errorf("toggling must not add cells, got %d", grid.Len())
	}
}

func TestGridBoundsAndPositions(t *testing.T) {
	grid := NewGrid()
	if _, _, ok := grid.Bounds(); ok {
		t.Error("expected empty grid to have no bounds")
	}

	grid.Set(Position{3, 1}, Cell{Walkable: true})
	grid.Set(Position{-1, 2}, Cell{Walkable: false})
	grid.Set(Position{0, 0}, Cell{Walkable: true})

	minPos, maxPos, ok := grid.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if minPos != (Position{-1, 0}) || maxPos != (Position{3, 2}) {
		t.Errorf("unexpected bounds %s..%s", minPos, maxPos)
	}

	want := []Position{{0, 0}, {3, 1}, {-1, 2}}
	got := grid.Positions()
	if len(got) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Positions()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if grid.CountWalkable() != 2 {
		t.Errorf("expected 2 walkable cells, got %d", grid.CountWalkable())
	}
}

func TestGridClone(t *testing.T) {
	grid := gridFromRows("..")
	clone := grid.Clone()

	if err := clone.SetWalkable(Position{0, 0}, false); err != nil {
		t.Fatalf("SetWalkable failed: %v", err)
	}

	node, _ := grid.Lookup(Position{0, 0})
	if !node.Walkable {
		t.Error("modifying a clone must not change the original")
	}
}
