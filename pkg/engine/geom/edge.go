package geom

// Edge is an undirected unit-length boundary segment between two cells.
// NewEdge canonicalizes endpoint order, so two edges built from the same
// pair of cells compare equal and hash identically as map keys regardless
// of argument order.
type Edge struct {
	A Cell
	B Cell
}

// NewEdge creates an edge between two cells with canonical endpoint order.
func NewEdge(a, b Cell) Edge {
	if less(b, a) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Touches returns true if the cell is one of the edge's endpoints.
func (e Edge) Touches(c Cell) bool {
	return e.A == c || e.B == c
}

// less orders cells row-major for endpoint canonicalization.
func less(a, b Cell) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
