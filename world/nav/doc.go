// Package nav provides the grid path search used by tilenav.
//
// The package implements:
//   - Position-keyed grid snapshots with walkability and movement cost
//   - 8-direction neighbor expansion with cardinal and diagonal step costs
//   - Euclidean and octile heuristics
//   - A* search with an iteration budget and structured failure reasons
//   - Grid construction from layout strings and a tile legend
//
// Core Types:
//
// Grid is the read accessor over a snapshot of cells keyed by Position.
// Node is the value handed out by Grid.Lookup; two nodes are the same node
// when their positions match, whatever their other attributes say.
// PathFinder binds a search configuration to a Grid and answers queries.
//
// Usage:
//
//	grid, err := nav.BuildGrid(mapConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	finder := nav.NewPathFinder(grid, nav.WithIterationBudget(500))
//	result := finder.Search(nav.Position{X: 0, Y: 0}, nav.Position{X: 7, Y: 3})
//	if !result.Found {
//		log.Printf("no path: %s", result.Reason)
//	}
//
// Concurrency:
//
// A search never mutates its Grid and keeps its frontier private, so
// independent searches may run in parallel. The Grid itself has no
// locking: callers must not change walkability while a search over the
// same Grid is in progress.
package nav
