// Package geom provides generic integer-grid geometry primitives.
// These are engine-level constructs usable by any tile-based generator.
package geom

// Cell represents a single integer grid point, addressed column-first.
type Cell struct {
	Col int
	Row int
}

// Neighbor returns the cell one step away in the given direction.
func (c Cell) Neighbor(dir Direction) Cell {
	colDelta, rowDelta := dir.Delta()
	return Cell{Col: c.Col + colDelta, Row: c.Row + rowDelta}
}

// IsAdjacentTo returns true if other is exactly one orthogonal step away.
func (c Cell) IsAdjacentTo(other Cell) bool {
	colDist := abs(c.Col - other.Col)
	rowDist := abs(c.Row - other.Row)
	return colDist+rowDist == 1
}

// DirectionTo returns the direction from c to an adjacent cell.
// The second return value is false if other is not adjacent to c.
func (c Cell) DirectionTo(other Cell) (Direction, bool) {
	for _, dir := range AllDirections() {
		if c.Neighbor(dir) == other {
			return dir, true
		}
	}
	return North, false
}

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(a, b Cell) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
