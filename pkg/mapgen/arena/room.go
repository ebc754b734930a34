package arena

import (
	"mapforge/pkg/engine/geom"
)

// Role tags a room with the special purpose the decorator (or the
// cross-region merge) assigned to it.
type Role int

// Room roles
const (
	RoleNone Role = iota
	RoleSave
	RoleNavigation
	RoleItem
	RoleConnector
)

// String returns the role's name.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "None"
	case RoleSave:
		return "Save"
	case RoleNavigation:
		return "Navigation"
	case RoleItem:
		return "Item"
	case RoleConnector:
		return "Connector"
	default:
		return "Unknown"
	}
}

// CellPair is an ordered pair of grid-adjacent cells straddling the
// boundary between two rooms.
type CellPair struct {
	From geom.Cell
	To   geom.Cell
}

// Room is one traversable space: a non-empty ordered set of cells, not
// necessarily rectangular, plus an optional role. A room occupies its
// cells exclusively with respect to every other active room.
type Room struct {
	Cells []geom.Cell
	Role  Role
}

// NewRoom creates a room from an ordered, duplicate-free cell list.
func NewRoom(cells []geom.Cell) *Room {
	if len(cells) == 0 {
		panic("arena: room must cover at least one cell")
	}
	return &Room{Cells: cells}
}

// RoomFromRect creates a room covering every cell of a rectangle.
func RoomFromRect(r geom.Rect) *Room {
	return NewRoom(r.Cells())
}

// CellCount returns the number of cells the room occupies.
func (r *Room) CellCount() int {
	return len(r.Cells)
}

// SingleCell returns true for a one-cell room.
func (r *Room) SingleCell() bool {
	return len(r.Cells) == 1
}

// SingleRow returns true if every cell of the room shares one row.
func (r *Room) SingleRow() bool {
	row := r.Cells[0].Row
	for _, c := range r.Cells[1:] {
		if c.Row != row {
			return false
		}
	}
	return true
}

// Contains returns true if the room occupies the given cell.
func (r *Room) Contains(c geom.Cell) bool {
	for _, own := range r.Cells {
		if own == c {
			return true
		}
	}
	return false
}

// Center returns the mean of the room's cell coordinates.
func (r *Room) Center() (col, row float64) {
	for _, c := range r.Cells {
		col += float64(c.Col)
		row += float64(c.Row)
	}
	n := float64(len(r.Cells))
	return col / n, row / n
}

// CenterDistanceTo returns the squared Euclidean distance between two room
// centers. Squared distance preserves ordering, which is all the nearest
// searches need.
func (r *Room) CenterDistanceTo(other *Room) float64 {
	col, row := r.Center()
	otherCol, otherRow := other.Center()
	dc := col - otherCol
	dr := row - otherRow
	return dc*dc + dr*dr
}

// AdjacentTo returns true if any cell of r is grid-adjacent to any cell
// of other.
func (r *Room) AdjacentTo(other *Room) bool {
	for _, a := range r.Cells {
		for _, b := range other.Cells {
			if a.IsAdjacentTo(b) {
				return true
			}
		}
	}
	return false
}

// AdjacentCellPairs enumerates every grid-adjacent cell pair between the
// two rooms, from r's side to other's side, in r's cell order.
func (r *Room) AdjacentCellPairs(other *Room) []CellPair {
	var pairs []CellPair
	for _, a := range r.Cells {
		for _, b := range other.Cells {
			if a.IsAdjacentTo(b) {
				pairs = append(pairs, CellPair{From: a, To: b})
			}
		}
	}
	return pairs
}

// absorb appends another room's cells. The rooms cover disjoint cell sets
// by the arena's exclusivity invariant, so a plain append stays
// duplicate-free.
func (r *Room) absorb(other *Room) {
	r.Cells = append(r.Cells, other.Cells...)
}
