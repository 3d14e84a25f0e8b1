package agent

import (
	"math"
	"testing"

	"github.com/wricardo/tilenav/world/nav"
)

func TestTileTranslatorWorldToCell(t *testing.T) {
	tests := []struct {
		name       string
		translator *TileTranslator
		point      Point
		want       nav.Position
	}{
		{"origin", NewTileTranslator(1, Point{}), Point{0, 0}, nav.Position{X: 0, Y: 0}},
		{"inside first cell", NewTileTranslator(1, Point{}), Point{0.99, 0.5}, nav.Position{X: 0, Y: 0}},
		{"second column", NewTileTranslator(1, Point{}), Point{1.0, 0.2}, nav.Position{X: 1, Y: 0}},
		{"negative world", NewTileTranslator(1, Point{}), Point{-0.1, -2.5}, nav.Position{X: -1, Y: -3}},
		{"larger cells", NewTileTranslator(2.5, Point{}), Point{6, 4.9}, nav.Position{X: 2, Y: 1}},
		{"offset origin", NewTileTranslator(1, Point{X: 10, Y: 10}), Point{12.5, 10.1}, nav.Position{X: 2, Y: 0}},
		{"zero size defaults to one", NewTileTranslator(0, Point{}), Point{3.5, 1.5}, nav.Position{X: 3, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.translator.WorldToCell(tt.point); got != tt.want {
				t.Errorf("WorldToCell(%v) = %s, want %s", tt.point, got, tt.want)
			}
		})
	}
}

func TestTileTranslatorRoundTrip(t *testing.T) {
	translators := []*TileTranslator{
		NewTileTranslator(1, Point{}),
		NewTileTranslator(0.5, Point{X: -3, Y: 2}),
		NewTileTranslator(16, Point{X: 100, Y: 100}),
	}

	for _, tr := range translators {
		for x := -3; x <= 3; x++ {
			for y := -3; y <= 3; y++ {
				pos := nav.Position{X: x, Y: y}
				if got := tr.WorldToCell(tr.CellCenter(pos)); got != pos {
					t.Errorf("size %v: round trip of %s gave %s", tr.CellSize, pos, got)
				}
			}
		}
	}
}

func TestCellCenter(t *testing.T) {
	tr := NewTileTranslator(2, Point{X: 1, Y: 1})
	got := tr.CellCenter(nav.Position{X: 1, Y: 0})
	if got.X != 4 || got.Y != 2 {
		t.Errorf("expected (4,2), got %v", got)
	}

	if d := Distance(Point{0, 0}, Point{3, 4}); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %v", d)
	}
}
