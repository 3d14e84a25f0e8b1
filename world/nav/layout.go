package nav

import "strings"

// BuildGrid validates config and builds its grid. Blank runes produce no
// cell; every other rune takes walkability and cost from the legend.
func BuildGrid(config *MapConfig) (*Grid, error) {
	if err := ValidateMapConfig(config); err != nil {
		return nil, err
	}

	legend := config.EffectiveLegend()
	grid := NewGrid()
	for y, row := range config.Layout {
		for x, r := range []rune(row) {
			if r == AbsentTile {
				continue
			}
			spec := legend[string(r)]
			grid.Set(Position{X: x, Y: y}, Cell{Walkable: spec.Walkable, MovementCost: spec.Cost})
		}
	}

	if config.TerrainCost {
		grid.SetStepCost(TerrainStepCost)
	}
	return grid, nil
}

// FinderOptions translates the search settings of a map config into
// PathFinder options. The config is assumed valid.
func FinderOptions(config *MapConfig) []Option {
	heuristic, err := HeuristicByName(config.Heuristic)
	if err != nil {
		heuristic = Euclidean
	}
	return []Option{
		WithIterationBudget(config.IterationBudget),
		WithHeuristic(heuristic),
	}
}

// SpawnPosition returns the configured start, or the first walkable cell
// in row-major order. ok is false when the grid has no walkable cell.
func SpawnPosition(config *MapConfig, grid *Grid) (Position, bool) {
	if config != nil && config.Start != nil {
		if node, ok := grid.Lookup(*config.Start); ok && node.Walkable {
			return *config.Start, true
		}
	}
	for _, pos := range grid.Positions() {
		if node, _ := grid.Lookup(pos); node.Walkable {
			return pos, true
		}
	}
	return Position{}, false
}

// Render draws the grid as text rows covering its bounds. Cells keep their
// layout rune while it still matches their walkability; toggled cells are
// drawn as '.' (now walkable) or '#' (now blocked). Marks override
// anything beneath them.
func Render(grid *Grid, config *MapConfig, marks map[Position]rune) []string {
	minPos, maxPos, ok := grid.Bounds()
	if !ok {
		return []string{}
	}
	if minPos.X > 0 {
		minPos.X = 0
	}
	if minPos.Y > 0 {
		minPos.Y = 0
	}

	var legend map[string]TileSpec
	if config != nil {
		legend = config.EffectiveLegend()
	}

	rows := make([]string, 0, maxPos.Y-minPos.Y+1)
	for y := minPos.Y; y <= maxPos.Y; y++ {
		var row strings.Builder
		for x := minPos.X; x <= maxPos.X; x++ {
			pos := Position{X: x, Y: y}
			if mark, ok := marks[pos]; ok {
				row.WriteRune(mark)
				continue
			}
			node, ok := grid.Lookup(pos)
			if !ok {
				row.WriteRune(AbsentTile)
				continue
			}
			row.WriteRune(tileRune(node, config, legend))
		}
		rows = append(rows, strings.TrimRight(row.String(), string(AbsentTile)))
	}
	return rows
}

func tileRune(node Node, config *MapConfig, legend map[string]TileSpec) rune {
	if config != nil {
		r := config.TileAt(node.Position)
		if spec, ok := legend[string(r)]; ok && spec.Walkable == node.Walkable {
			return r
		}
	}
	if node.Walkable {
		return '.'
	}
	return '#'
}
