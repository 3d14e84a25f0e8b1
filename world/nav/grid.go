package nav

import (
	"fmt"
	"sort"
)

// Directions lists the eight neighbor offsets in expansion order:
// the four cardinal moves first, then the four diagonals.
var Directions = []Position{
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: -1},
}

// IsDiagonal reports whether the offset moves on both axes.
func IsDiagonal(d Position) bool {
	return d.X != 0 && d.Y != 0
}

// StepCostFunc returns the cost of stepping from one node onto an
// adjacent one.
type StepCostFunc func(from, to Node, diagonal bool) float64

// UniformStepCost charges Cardinal for straight moves and Diagonal for
// diagonal ones. Movement cost is ignored.
func UniformStepCost(from, to Node, diagonal bool) float64 {
	if diagonal {
		return Diagonal
	}
	return Cardinal
}

// TerrainStepCost scales the uniform cost by the destination cell's
// movement cost. A non-positive movement cost counts as 1. With costs
// below 1 the Euclidean heuristic may overestimate, so returned paths are
// no longer guaranteed optimal.
func TerrainStepCost(from, to Node, diagonal bool) float64 {
	multiplier := to.MovementCost
	if multiplier <= 0 {
		multiplier = 1
	}
	return UniformStepCost(from, to, diagonal) * multiplier
}

// Grid is a snapshot of cells keyed by position.
type Grid struct {
	cells    map[Position]Cell
	stepCost StepCostFunc
	min, max Position
}

// NewGrid creates an empty grid using UniformStepCost.
func NewGrid() *Grid {
	return &Grid{
		cells:    make(map[Position]Cell),
		stepCost: UniformStepCost,
	}
}

// SetStepCost replaces the neighbor cost function. Nil restores the
// uniform cost.
func (g *Grid) SetStepCost(fn StepCostFunc) {
	if fn == nil {
		fn = UniformStepCost
	}
	g.stepCost = fn
}

// Set stores the cell at pos, replacing any previous cell.
func (g *Grid) Set(pos Position, cell Cell) {
	if len(g.cells) == 0 {
		g.min, g.max = pos, pos
	} else {
		g.min.X = min(g.min.X, pos.X)
		g.min.Y = min(g.min.Y, pos.Y)
		g.max.X = max(g.max.X, pos.X)
		g.max.Y = max(g.max.Y, pos.Y)
	}
	g.cells[pos] = cell
}

// Lookup returns the node at pos. The second result is false when the
// grid has no cell there; that is an ordinary outcome, not an error.
func (g *Grid) Lookup(pos Position) (Node, bool) {
	cell, ok := g.cells[pos]
	if !ok {
		return Node{}, false
	}
	return Node{Position: pos, Walkable: cell.Walkable, MovementCost: cell.MovementCost}, true
}

// NeighborsWithCost returns the walkable cells around node in Directions
// order, each with its step cost.
func (g *Grid) NeighborsWithCost(node Node) []Neighbor {
	neighbors := make([]Neighbor, 0, len(Directions))
	for _, d := range Directions {
		next, ok := g.Lookup(node.Position.Add(d))
		if !ok || !next.Walkable {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Node: next,
			Cost: g.stepCost(node, next, IsDiagonal(d)),
		})
	}
	return neighbors
}

// SetWalkable changes the walkability of an existing cell.
func (g *Grid) SetWalkable(pos Position, walkable bool) error {
	cell, ok := g.cells[pos]
	if !ok {
		return fmt.Errorf("%w at %s", ErrCellNotFound, pos)
	}
	cell.Walkable = walkable
	g.cells[pos] = cell
	return nil
}

// ToggleWalkable flips the walkability of an existing cell and returns
// the new value.
func (g *Grid) ToggleWalkable(pos Position) (bool, error) {
	cell, ok := g.cells[pos]
	if !ok {
		return false, fmt.Errorf("%w at %s", ErrCellNotFound, pos)
	}
	cell.Walkable = !cell.Walkable
	g.cells[pos] = cell
	return cell.Walkable, nil
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Bounds returns the smallest and largest coordinates present. ok is
// false for an empty grid.
func (g *Grid) Bounds() (minPos, maxPos Position, ok bool) {
	if len(g.cells) == 0 {
		return Position{}, Position{}, false
	}
	return g.min, g.max, true
}

// Positions returns every position in row-major order.
func (g *Grid) Positions() []Position {
	positions := make([]Position, 0, len(g.cells))
	for pos := range g.cells {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	return positions
}

// CountWalkable returns the number of walkable cells.
func (g *Grid) CountWalkable() int {
	count := 0
	for _, cell := range g.cells {
		if cell.Walkable {
			count++
		}
	}
	return count
}

// Clone returns an independent copy sharing no cell storage.
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		cells:    make(map[Position]Cell, len(g.cells)),
		stepCost: g.stepCost,
		min:      g.min,
		max:      g.max,
	}
	for pos, cell := range g.cells {
		clone.cells[pos] = cell
	}
	return clone
}
