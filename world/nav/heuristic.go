package nav

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic estimates the remaining cost between two positions.
type Heuristic func(from, to Position) float64

// Euclidean returns the straight-line distance. It never overestimates
// octile movement cost but is loose on diagonal runs, so f ties are common.
func Euclidean(from, to Position) float64 {
	dx := float64(from.X - to.X)
	dy := float64(from.Y - to.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Octile returns the exact cost of an unobstructed 8-direction walk.
func Octile(from, to Position) float64 {
	dx := math.Abs(float64(from.X - to.X))
	dy := math.Abs(float64(from.Y - to.Y))
	return Cardinal*math.Max(dx, dy) + (Diagonal-Cardinal)*math.Min(dx, dy)
}

// HeuristicByName resolves a configuration name. An empty name selects
// Euclidean.
func HeuristicByName(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "euclidean":
		return Euclidean, nil
	case "octile":
		return Octile, nil
	default:
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
}
