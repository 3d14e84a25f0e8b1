package agent

import (
	"math"

	"github.com/wricardo/tilenav/world/nav"
)

// Point is a continuous world coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Translator maps world points onto cells and back.
type Translator interface {
	WorldToCell(p Point) nav.Position
	CellCenter(pos nav.Position) Point
}

// TileTranslator lays square cells of CellSize world units starting at
// Origin. Cell (0,0) covers [Origin, Origin+CellSize).
type TileTranslator struct {
	CellSize float64
	Origin   Point
}

// NewTileTranslator creates a translator. A non-positive cell size
// becomes 1.
func NewTileTranslator(cellSize float64, origin Point) *TileTranslator {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &TileTranslator{CellSize: cellSize, Origin: origin}
}

// WorldToCell returns the cell containing p.
func (t *TileTranslator) WorldToCell(p Point) nav.Position {
	return nav.Position{
		X: int(math.Floor((p.X - t.Origin.X) / t.CellSize)),
		Y: int(math.Floor((p.Y - t.Origin.Y) / t.CellSize)),
	}
}

// CellCenter returns the world coordinate of the center of pos.
func (t *TileTranslator) CellCenter(pos nav.Position) Point {
	return Point{
		X: t.Origin.X + (float64(pos.X)+0.5)*t.CellSize,
		Y: t.Origin.Y + (float64(pos.Y)+0.5)*t.CellSize,
	}
}

// Distance returns the straight-line distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
