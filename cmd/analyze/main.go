// Command analyze prints human-readable reachability statistics for map
// files. For each map it reports dimensions and cell counts, the cells that
// cannot be reached from the spawn, and a sample long search to show
// whether the configured iteration budget is large enough.
//
// Usage:
//
//	analyze [file-or-dir ...]
//
// With no arguments every *.json file under ./configs is analyzed.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/tilenav/world/nav"
)

// Analysis summarizes one map file.
type Analysis struct {
	Name          string
	Width         int
	Height        int
	Cells         int
	Walkable      int
	Spawn         nav.Position
	Reachable     int
	Unreachable   []nav.Position
	Farthest      nav.Position
	FarthestQuery nav.Result
}

func main() {
	targets := os.Args[1:]
	if len(targets) == 0 {
		targets = []string{"configs"}
	}

	files, err := mapFiles(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", file)
		analysis, err := analyzeMap(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
	if failed {
		os.Exit(1)
	}
}

// mapFiles expands directories into their *.json files.
func mapFiles(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(target, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func analyzeMap(path string) (*Analysis, error) {
	config, err := nav.LoadMapConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	grid, err := nav.BuildGrid(config)
	if err != nil {
		return nil, err
	}

	spawn, ok := nav.SpawnPosition(config, grid)
	if !ok {
		return nil, fmt.Errorf("map %s has no spawn position", config.Name)
	}

	minPos, maxPos, _ := grid.Bounds()
	analysis := &Analysis{
		Name:     config.Name,
		Width:    maxPos.X - minPos.X + 1,
		Height:   maxPos.Y - minPos.Y + 1,
		Cells:    grid.Len(),
		Walkable: grid.CountWalkable(),
		Spawn:    spawn,
	}

	reached := reachableFrom(grid, spawn)
	analysis.Reachable = len(reached)

	bestDist := -1.0
	for _, pos := range grid.Positions() {
		node, _ := grid.Lookup(pos)
		if !node.Walkable {
			continue
		}
		if !reached[pos] {
			analysis.Unreachable = append(analysis.Unreachable, pos)
			continue
		}
		if d := nav.Euclidean(spawn, pos); d > bestDist {
			bestDist = d
			analysis.Farthest = pos
		}
	}

	finder := nav.NewPathFinder(grid, nav.FinderOptions(config)...)
	analysis.FarthestQuery = finder.Search(spawn, analysis.Farthest)
	return analysis, nil
}

// reachableFrom floods the walkable region around start using the same
// neighbor rules as the search.
func reachableFrom(grid *nav.Grid, start nav.Position) map[nav.Position]bool {
	seen := map[nav.Position]bool{}
	node, ok := grid.Lookup(start)
	if !ok || !node.Walkable {
		return seen
	}

	seen[start] = true
	queue := []nav.Node{node}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range grid.NeighborsWithCost(current) {
			if seen[next.Node.Position] {
				continue
			}
			seen[next.Node.Position] = true
			queue = append(queue, next.Node)
		}
	}
	return seen
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid: %d x %d, %d cells (%d walkable)\n", a.Width, a.Height, a.Cells, a.Walkable)
	fmt.Fprintf(w, "Spawn: %s\n", a.Spawn)

	if len(a.Unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d walkable cells are unreachable from the spawn\n", len(a.Unreachable))
		for i, p := range a.Unreachable {
			if i == 5 {
				fmt.Fprintf(w, "   ... and %d more\n", len(a.Unreachable)-5)
				break
			}
			fmt.Fprintf(w, "   Unreachable: %s\n", p)
		}
	} else {
		fmt.Fprintf(w, "✅ All %d walkable cells are reachable from the spawn\n", a.Reachable)
	}

	q := a.FarthestQuery
	switch {
	case q.Found:
		fmt.Fprintf(w, "Farthest cell %s: %d steps, cost %.3f, %d/%d expansions\n",
			a.Farthest, len(q.Path), q.Cost, q.Expanded, q.Budget)
	case q.Reason == nav.ReasonBudgetExceeded:
		fmt.Fprintf(w, "⚠️  Farthest cell %s needs more than %d expansions; raise iteration_budget\n",
			a.Farthest, q.Budget)
	default:
		fmt.Fprintf(w, "Farthest cell %s: no path (%s)\n", a.Farthest, q.Reason)
	}
}
