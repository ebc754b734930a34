package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
)

// requireSymmetric asserts the arena's adjacency invariant: j is a
// neighbor of i exactly when i is a neighbor of j, and no room neighbors
// itself.
func requireSymmetric(t *testing.T, m *MapRegion) {
	t.Helper()
	for id := RoomID(0); int(id) < m.Len(); id++ {
		if m.IsEmpty(id) {
			continue
		}
		for _, n := range m.NeighborIDs(id) {
			require.NotEqual(t, id, n, "room %d neighbors itself", id)
			require.False(t, m.IsEmpty(n), "room %d points at empty slot %d", id, n)
			require.True(t, m.HasNeighbor(n, id), "adjacency %d->%d not symmetric", id, n)
		}
	}
}

// requireAccounting asserts active+removed slots match non-empty slots
// and slots carrying a neighbor set.
func requireAccounting(t *testing.T, m *MapRegion) {
	t.Helper()
	nonEmpty := m.CountActive() + m.CountRemoved()
	require.Equal(t, nonEmpty, m.NeighborSetCount(), "neighbor sets out of step with non-empty slots")
}

func singleCellRoom(col, row int) *Room {
	return NewRoom([]geom.Cell{{Col: col, Row: row}})
}

func testRegion() *MapRegion {
	return NewMapRegion(geom.NewRect(0, 0, 8, 8))
}

func TestInsert_ReturnsSequentialStableIDs(t *testing.T) {
	m := testRegion()
	a := m.Insert(singleCellRoom(0, 0))
	b := m.Insert(singleCellRoom(1, 0))
	require.Equal(t, RoomID(0), a)
	require.Equal(t, RoomID(1), b)
	require.True(t, m.IsActive(a))
	require.Equal(t, 2, m.Len())
	requireAccounting(t, m)
}

func TestStateTransitions(t *testing.T) {
	m := testRegion()
	id := m.Insert(singleCellRoom(0, 0))

	m.MarkRemoved(id)
	require.True(t, m.IsRemoved(id))
	m.MarkRemoved(id) // idempotent
	require.True(t, m.IsRemoved(id))

	m.MarkActive(id)
	require.True(t, m.IsActive(id))
	m.MarkActive(id)
	require.True(t, m.IsActive(id))

	require.NotNil(t, m.Get(id))
	require.NotNil(t, m.GetActive(id))
	m.MarkRemoved(id)
	require.NotNil(t, m.GetRemoved(id))
}

func TestWrongStateAccess_Panics(t *testing.T) {
	m := testRegion()
	id := m.Insert(singleCellRoom(0, 0))

	assert.Panics(t, func() { m.GetRemoved(id) }, "GetRemoved on an active slot")
	m.MarkRemoved(id)
	assert.Panics(t, func() { m.GetActive(id) }, "GetActive on a removed slot")
	assert.Panics(t, func() { m.Get(RoomID(99)) }, "out-of-range id")
	assert.Panics(t, func() { m.AddNeighbor(id, id) }, "self adjacency")

	other := m.Insert(singleCellRoom(1, 0))
	m.Discard(other)
	assert.Panics(t, func() { m.Get(other) }, "access through an emptied slot")
	assert.Panics(t, func() { m.MarkActive(other) }, "state change on an emptied slot")
}

func TestAddNeighbor_IsSymmetric(t *testing.T) {
	m := testRegion()
	a := m.Insert(singleCellRoom(0, 0))
	b := m.Insert(singleCellRoom(1, 0))
	m.AddNeighbor(a, b)
	require.True(t, m.HasNeighbor(a, b))
	require.True(t, m.HasNeighbor(b, a))
	requireSymmetric(t, m)
}

func TestMergeActive_RedirectsExternalReferences(t *testing.T) {
	m := testRegion()
	a := m.Insert(NewRoom([]geom.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}))
	b := m.Insert(singleCellRoom(2, 0))
	c := m.Insert(singleCellRoom(3, 0))
	m.AddNeighbor(a, b)
	m.AddNeighbor(b, c)

	activeBefore := m.CountActive()
	m.MergeActive(a, b)

	require.Equal(t, activeBefore-1, m.CountActive(), "merge must drop exactly one active room")
	require.True(t, m.IsEmpty(b), "absorbed slot must be empty")
	require.Equal(t, 3, m.GetActive(a).CellCount())
	require.True(t, m.HasNeighbor(a, c), "a must inherit b's neighbor")
	require.True(t, m.HasNeighbor(c, a), "c must now point at a")
	require.False(t, m.HasNeighbor(c, b), "no reference to the absorbed room may survive")
	require.False(t, m.HasNeighbor(a, a))
	requireSymmetric(t, m)
	requireAccounting(t, m)
}

func TestMergeActive_NeverYieldsEmptyRoom(t *testing.T) {
	m := testRegion()
	a := m.Insert(singleCellRoom(0, 0))
	b := m.Insert(singleCellRoom(0, 1))
	m.AddNeighbor(a, b)
	m.MergeActive(a, b)
	require.Greater(t, m.GetActive(a).CellCount(), 0)
}

func TestDiscard_UnlinksEverywhere(t *testing.T) {
	m := testRegion()
	a := m.Insert(singleCellRoom(0, 0))
	b := m.Insert(singleCellRoom(1, 0))
	c := m.Insert(singleCellRoom(2, 0))
	m.AddNeighbor(a, b)
	m.AddNeighbor(b, c)

	m.Discard(b)
	require.True(t, m.IsEmpty(b))
	require.False(t, m.HasNeighbor(a, b))
	require.False(t, m.HasNeighbor(c, b))
	requireSymmetric(t, m)
	requireAccounting(t, m)
}

func TestCompact_PreservesCountsAndAdjacency(t *testing.T) {
	m := testRegion()
	a := m.Insert(NewRoom([]geom.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}))
	b := m.Insert(singleCellRoom(2, 0))
	c := m.Insert(singleCellRoom(3, 0))
	d := m.Insert(singleCellRoom(4, 0))
	m.AddNeighbor(a, b)
	m.AddNeighbor(b, c)
	m.AddNeighbor(c, d)
	m.MarkRemoved(d)
	m.MergeActive(a, b) // leaves an empty slot at b

	activeBefore := m.CountActive()
	removedBefore := m.CountRemoved()
	cellsA := m.GetActive(a).CellCount()

	m.Compact()

	require.Equal(t, activeBefore+removedBefore, m.Len(), "compaction must drop only empty slots")
	require.Equal(t, activeBefore, m.CountActive())
	require.Equal(t, removedBefore, m.CountRemoved())
	requireSymmetric(t, m)
	requireAccounting(t, m)

	// The merged room is still there with its cells, still linked to the
	// renumbered c, which is still linked to the removed d.
	var mergedID RoomID = -1
	for _, id := range m.ActiveIDs() {
		if m.GetActive(id).CellCount() == cellsA {
			mergedID = id
		}
	}
	require.NotEqual(t, RoomID(-1), mergedID, "merged room lost in compaction")
	require.Len(t, m.NeighborIDs(mergedID), 1)
}

func TestMergeWith_OffsetsForeignIDs(t *testing.T) {
	left := testRegion()
	la := left.Insert(singleCellRoom(0, 0))
	lb := left.Insert(singleCellRoom(1, 0))
	left.AddNeighbor(la, lb)

	right := NewMapRegion(geom.NewRect(8, 0, 8, 8))
	ra := right.Insert(singleCellRoom(8, 0))
	rb := right.Insert(singleCellRoom(9, 0))
	rc := right.Insert(singleCellRoom(10, 0))
	right.AddNeighbor(ra, rb)
	right.AddNeighbor(rb, rc)
	right.MarkRemoved(rc)

	offset := RoomID(left.Len())
	left.MergeWith(right)

	require.Equal(t, 5, left.Len())
	require.True(t, left.IsActive(ra+offset))
	require.True(t, left.IsRemoved(rc+offset))
	require.True(t, left.HasNeighbor(ra+offset, rb+offset), "foreign adjacency must be offset")
	require.False(t, left.HasNeighbor(la, ra+offset), "no adjacency across regions yet")
	requireSymmetric(t, left)
	requireAccounting(t, left)

	union := left.Origin()
	require.Equal(t, 16, union.Width, "origin must widen to cover both regions")
}

func TestRoomGeometryHelpers(t *testing.T) {
	long := NewRoom([]geom.Cell{{Col: 0, Row: 2}, {Col: 1, Row: 2}, {Col: 2, Row: 2}})
	require.True(t, long.SingleRow())
	require.False(t, long.SingleCell())

	col, row := long.Center()
	assert.InDelta(t, 1.0, col, 1e-9)
	assert.InDelta(t, 2.0, row, 1e-9)

	below := NewRoom([]geom.Cell{{Col: 1, Row: 3}})
	require.True(t, long.AdjacentTo(below))
	pairs := long.AdjacentCellPairs(below)
	require.Len(t, pairs, 1)
	require.Equal(t, geom.Cell{Col: 1, Row: 2}, pairs[0].From)

	apart := NewRoom([]geom.Cell{{Col: 5, Row: 5}})
	require.False(t, long.AdjacentTo(apart))
	require.Empty(t, long.AdjacentCellPairs(apart))
}

func TestRoomFromRect_CoversEveryCell(t *testing.T) {
	r := geom.NewRect(1, 1, 3, 2)
	room := RoomFromRect(r)
	require.Equal(t, r.Area(), room.CellCount())
	for _, c := range r.Cells() {
		require.True(t, room.Contains(c))
	}
}
