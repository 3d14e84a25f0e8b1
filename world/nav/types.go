package nav

import (
	"errors"
	"fmt"
)

const (
	// DefaultIterationBudget caps node expansions per search.
	DefaultIterationBudget = 1000

	// Cardinal is the step cost of a horizontal or vertical move.
	Cardinal = 1.0

	// Diagonal is the step cost of a diagonal move, approximating √2.
	Diagonal = 1.41421
)

var (
	ErrCellNotFound = errors.New("cell not found")
	ErrInvalidMap   = errors.New("invalid map")
)

// Position is an integer grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String provides a string representation of Position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p shifted by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Cell holds the mutable attributes stored under a position.
type Cell struct {
	Walkable     bool    `json:"walkable"`
	MovementCost float64 `json:"movement_cost"`
}

// Node describes one grid cell. Identity is the position only.
type Node struct {
	Position     Position `json:"position"`
	Walkable     bool     `json:"walkable"`
	MovementCost float64  `json:"movement_cost"`
}

// Key returns the identity of the node, suitable as a map key.
func (n Node) Key() Position {
	return n.Position
}

// Equal reports whether two nodes share a position. Walkability and
// movement cost are not compared.
func (n Node) Equal(other Node) bool {
	return n.Position == other.Position
}

// Neighbor is a walkable adjacent node and the cost of stepping onto it.
type Neighbor struct {
	Node Node
	Cost float64
}

// Reason explains why a search ended. Successful searches carry ReasonNone.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonStartNotFound  Reason = "start_not_found"
	ReasonGoalNotFound   Reason = "goal_not_found"
	ReasonNoPathExists   Reason = "no_path_exists"
	ReasonBudgetExceeded Reason = "budget_exceeded"
)

var (
	ErrStartNotFound  = errors.New("start not found")
	ErrGoalNotFound   = errors.New("goal not found")
	ErrNoPath         = errors.New("no path exists")
	ErrBudgetExceeded = errors.New("iteration budget exceeded")
)

// Err maps a reason onto its sentinel error. ReasonNone maps to nil.
func (r Reason) Err() error {
	switch r {
	case ReasonNone:
		return nil
	case ReasonStartNotFound:
		return ErrStartNotFound
	case ReasonGoalNotFound:
		return ErrGoalNotFound
	case ReasonNoPathExists:
		return ErrNoPath
	case ReasonBudgetExceeded:
		return ErrBudgetExceeded
	default:
		return fmt.Errorf("search failed: %s", string(r))
	}
}
