package game

import (
	"math"
	"sort"
)

// SpatialGrid provides O(1) average case lookup for nearby players
// using a grid-based spatial hash. This reduces bullet hit testing
// from O(n*m) to O(n) average case.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // Each cell contains indices into State.players
}

// GridCellSize is the size of each grid cell in world units.
// Must be at least HitRadius so the 3x3 neighbourhood covers every candidate.
const GridCellSize = 64.0

// NewSpatialGrid creates a new spatial grid covering the playfield
func NewSpatialGrid() *SpatialGrid {
	cols := int(math.Ceil(float64(PlayfieldWidth) / GridCellSize))
	rows := int(math.Ceil(float64(PlayfieldHeight) / GridCellSize))

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: GridCellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear resets the grid for a new tick
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// cellIndex returns the cell index for a position, clamped to the grid
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}

// Insert adds a player index to the grid
func (g *SpatialGrid) Insert(idx int, x, y float64) {
	cell := g.cellIndex(x, y)
	g.cells[cell] = append(g.cells[cell], idx)
}

// GetNearby returns indices of players that might be within HitRadius of the
// given position, in ascending order so callers see players in join order.
// The caller must still perform exact distance checks.
func (g *SpatialGrid) GetNearby(x, y float64) []int {
	center := g.cellIndex(x, y)
	col := center % g.cols
	row := center / g.cols

	var result []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			r := row + dr
			if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
				continue
			}
			result = append(result, g.cells[r*g.cols+c]...)
		}
	}

	sort.Ints(result)
	return result
}

// IndexPlayers populates the grid with every player that can be hit
func (g *SpatialGrid) IndexPlayers(players []*Player) {
	g.Clear()
	for i, p := range players {
		if !p.Dead() {
			g.Insert(i, p.X, p.Y)
		}
	}
}
