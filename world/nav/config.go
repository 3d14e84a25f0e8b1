package nav

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"
)

const (
	// Validation constants
	MaxMapSize         = 256
	MaxIterationBudget = 1_000_000

	// AbsentTile marks a layout position with no cell at all.
	AbsentTile = ' '
)

// TileSpec describes what a layout rune becomes in the grid.
type TileSpec struct {
	Name     string  `json:"name"`
	Walkable bool    `json:"walkable"`
	Cost     float64 `json:"cost"`
}

// DefaultLegend is used when a map config declares no legend.
var DefaultLegend = map[string]TileSpec{
	".": {Name: "floor", Walkable: true, Cost: 1},
	",": {Name: "grass", Walkable: true, Cost: 1.5},
	":": {Name: "mud", Walkable: true, Cost: 3},
	"#": {Name: "wall", Walkable: false, Cost: 1},
	"~": {Name: "water", Walkable: false, Cost: 1},
}

// MapConfig is a map definition loaded from JSON. Layout rows are read top
// to bottom: row index is Y, rune index is X.
type MapConfig struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Layout          []string            `json:"layout"`
	Legend          map[string]TileSpec `json:"legend,omitempty"`
	Start           *Position           `json:"start,omitempty"`
	IterationBudget int                 `json:"iteration_budget,omitempty"`
	Heuristic       string              `json:"heuristic,omitempty"`
	TerrainCost     bool                `json:"terrain_cost,omitempty"`
	CellSize        float64             `json:"cell_size,omitempty"`
}

// EffectiveLegend returns the declared legend or DefaultLegend.
func (c *MapConfig) EffectiveLegend() map[string]TileSpec {
	if len(c.Legend) == 0 {
		return DefaultLegend
	}
	return c.Legend
}

// TileAt returns the layout rune at pos, or AbsentTile when pos is outside
// the layout.
func (c *MapConfig) TileAt(pos Position) rune {
	if pos.Y < 0 || pos.Y >= len(c.Layout) || pos.X < 0 {
		return AbsentTile
	}
	row := []rune(c.Layout[pos.Y])
	if pos.X >= len(row) {
		return AbsentTile
	}
	return row[pos.X]
}

// ValidateMapConfig checks a map config for structural correctness.
func ValidateMapConfig(config *MapConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidMap)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMap)
	}

	if len(config.Layout) == 0 {
		return fmt.Errorf("%w: layout is empty", ErrInvalidMap)
	}
	if len(config.Layout) > MaxMapSize {
		return fmt.Errorf("%w: layout has %d rows, max is %d", ErrInvalidMap, len(config.Layout), MaxMapSize)
	}

	legend := config.EffectiveLegend()
	for key, spec := range legend {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return fmt.Errorf("%w: legend key %q must be a single character", ErrInvalidMap, key)
		}
		if r == AbsentTile {
			return fmt.Errorf("%w: legend may not define the blank tile", ErrInvalidMap)
		}
		if spec.Cost < 0 {
			return fmt.Errorf("%w: legend[%q] cost must be non-negative, got %g", ErrInvalidMap, key, spec.Cost)
		}
	}

	walkable := 0
	for y, row := range config.Layout {
		runes := []rune(row)
		if len(runes) > MaxMapSize {
			return fmt.Errorf("%w: row %d has %d columns, max is %d", ErrInvalidMap, y, len(runes), MaxMapSize)
		}
		for x, r := range runes {
			if r == AbsentTile {
				continue
			}
			spec, ok := legend[string(r)]
			if !ok {
				return fmt.Errorf("%w: unknown tile %q at (%d,%d)", ErrInvalidMap, r, x, y)
			}
			if spec.Walkable {
				walkable++
			}
		}
	}
	if walkable == 0 {
		return fmt.Errorf("%w: layout has no walkable tiles", ErrInvalidMap)
	}

	if config.Start != nil {
		r := config.TileAt(*config.Start)
		if r == AbsentTile {
			return fmt.Errorf("%w: start %s is not on a tile", ErrInvalidMap, *config.Start)
		}
		if !legend[string(r)].Walkable {
			return fmt.Errorf("%w: start %s is not walkable", ErrInvalidMap, *config.Start)
		}
	}

	if config.IterationBudget < 0 || config.IterationBudget > MaxIterationBudget {
		return fmt.Errorf("%w: iteration_budget must be between 0 and %d, got %d",
			ErrInvalidMap, MaxIterationBudget, config.IterationBudget)
	}
	if _, err := HeuristicByName(config.Heuristic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if config.CellSize < 0 {
		return fmt.Errorf("%w: cell_size must be non-negative, got %g", ErrInvalidMap, config.CellSize)
	}

	return nil
}

// LoadMapConfig reads and validates a map config file.
func LoadMapConfig(filename string) (*MapConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config MapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse map %s: %w", filename, err)
	}

	if err := ValidateMapConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
