package geom

// Rect is an axis-aligned rectangle of grid cells. Width and Height are
// always at least 1; a zero-sized rectangle is never constructed.
type Rect struct {
	Origin Cell
	Width  int
	Height int
}

// NewRect creates a rectangle from its origin corner and dimensions.
// Panics if either dimension is not positive.
func NewRect(col, row, width, height int) Rect {
	if width <= 0 || height <= 0 {
		panic("geom: rectangle dimensions must be positive")
	}
	return Rect{Origin: Cell{Col: col, Row: row}, Width: width, Height: height}
}

// Area returns the number of cells covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// MaxCol returns the last column covered by the rectangle.
func (r Rect) MaxCol() int {
	return r.Origin.Col + r.Width - 1
}

// MaxRow returns the last row covered by the rectangle.
func (r Rect) MaxRow() int {
	return r.Origin.Row + r.Height - 1
}

// Contains returns true if the cell lies inside the rectangle.
func (r Rect) Contains(c Cell) bool {
	return c.Col >= r.Origin.Col && c.Col <= r.MaxCol() &&
		c.Row >= r.Origin.Row && c.Row <= r.MaxRow()
}

// Cells enumerates the rectangle's cells row by row, left to right.
func (r Rect) Cells() []Cell {
	cells := make([]Cell, 0, r.Area())
	for row := r.Origin.Row; row <= r.MaxRow(); row++ {
		for col := r.Origin.Col; col <= r.MaxCol(); col++ {
			cells = append(cells, Cell{Col: col, Row: row})
		}
	}
	return cells
}

// SplitHorizontal bisects the rectangle along a horizontal line, offset rows
// below the origin. Both halves keep at least one row; offsets outside the
// interior range are a caller bug.
func (r Rect) SplitHorizontal(offset int) (top, bottom Rect) {
	if offset <= 0 || offset >= r.Height {
		panic("geom: horizontal split offset outside interior range")
	}
	top = Rect{Origin: r.Origin, Width: r.Width, Height: offset}
	bottom = Rect{
		Origin: Cell{Col: r.Origin.Col, Row: r.Origin.Row + offset},
		Width:  r.Width,
		Height: r.Height - offset,
	}
	return top, bottom
}

// SplitVertical bisects the rectangle along a vertical line, offset columns
// right of the origin.
func (r Rect) SplitVertical(offset int) (left, right Rect) {
	if offset <= 0 || offset >= r.Width {
		panic("geom: vertical split offset outside interior range")
	}
	left = Rect{Origin: r.Origin, Width: offset, Height: r.Height}
	right = Rect{
		Origin: Cell{Col: r.Origin.Col + offset, Row: r.Origin.Row},
		Width:  r.Width - offset,
		Height: r.Height,
	}
	return left, right
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	col := min(r.Origin.Col, other.Origin.Col)
	row := min(r.Origin.Row, other.Origin.Row)
	return Rect{
		Origin: Cell{Col: col, Row: row},
		Width:  max(r.MaxCol(), other.MaxCol()) - col + 1,
		Height: max(r.MaxRow(), other.MaxRow()) - row + 1,
	}
}

// EdgeAdjacentTo returns true if the two rectangles touch along a shared
// boundary segment of length at least 1. Corner contact does not count.
func (r Rect) EdgeAdjacentTo(other Rect) bool {
	horizontalOverlap := min(r.MaxCol(), other.MaxCol()) - max(r.Origin.Col, other.Origin.Col) + 1
	verticalOverlap := min(r.MaxRow(), other.MaxRow()) - max(r.Origin.Row, other.Origin.Row) + 1

	touchesVertically := r.MaxRow()+1 == other.Origin.Row || other.MaxRow()+1 == r.Origin.Row
	if touchesVertically && horizontalOverlap >= 1 {
		return true
	}
	touchesHorizontally := r.MaxCol()+1 == other.Origin.Col || other.MaxCol()+1 == r.Origin.Col
	return touchesHorizontally && verticalOverlap >= 1
}
