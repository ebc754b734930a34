package mapgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/style"
)

func TestGenerateSeeded_RejectsNonPositiveCanvas(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-3, 10}, {10, -3}, {0, 0}} {
		_, err := GenerateSeeded(dims[0], dims[1], style.CastlevaniaI, 1)
		require.True(t, errors.Is(err, ErrEmptyCanvas), "dims %v", dims)
	}
}

func TestGenerateSeeded_TinyCanvasYieldsEmptyMap(t *testing.T) {
	m, err := GenerateSeeded(2, 2, style.CastlevaniaI, 1)
	require.NoError(t, err)
	require.Empty(t, m.Rooms)
	require.Empty(t, m.Doors)
	require.Equal(t, geom.NewRect(0, 0, 2, 2), m.Origin)
}

func TestGenerateSeeded_IsReproducible(t *testing.T) {
	a, err := GenerateSeeded(32, 20, style.SuperMetroid, 42)
	require.NoError(t, err)
	b, err := GenerateSeeded(32, 20, style.SuperMetroid, 42)
	require.NoError(t, err)
	require.Equal(t, a.Rooms, b.Rooms)
	require.Equal(t, a.Doors, b.Doors)
}

func TestGenerateSeeded_OutputInvariants(t *testing.T) {
	for _, s := range style.All() {
		t.Run(s.String(), func(t *testing.T) {
			for seed := int64(1); seed <= 3; seed++ {
				m, err := GenerateSeeded(40, 24, s, seed)
				require.NoError(t, err)
				require.NotEmpty(t, m.Rooms, "seed %d", seed)

				requireUniqueCellOwnership(t, m)
				requireDoorsJoinRooms(t, m)
				requireConnected(t, m)
			}
		})
	}
}

// requireUniqueCellOwnership asserts no cell belongs to two rooms and
// every cell sits inside the canvas.
func requireUniqueCellOwnership(t *testing.T, m *Map) {
	t.Helper()
	owner := map[geom.Cell]int{}
	for i := range m.Rooms {
		for _, c := range m.Rooms[i].Cells {
			require.True(t, m.Origin.Contains(c), "cell %v outside the canvas", c)
			prev, dup := owner[c]
			require.False(t, dup, "cell %v owned by rooms %d and %d", c, prev, i)
			owner[c] = i
		}
	}
}

// requireDoorsJoinRooms asserts every door joins two grid-adjacent cells
// belonging to two different rooms.
func requireDoorsJoinRooms(t *testing.T, m *Map) {
	t.Helper()
	for _, d := range m.Doors {
		require.True(t, d.From.IsAdjacentTo(d.To), "door %v cells not adjacent", d)
		from, to := -1, -1
		for i := range m.Rooms {
			if m.Rooms[i].Contains(d.From) {
				from = i
			}
			if m.Rooms[i].Contains(d.To) {
				to = i
			}
		}
		require.NotEqual(t, -1, from, "door %v starts in no room", d)
		require.NotEqual(t, -1, to, "door %v ends in no room", d)
		require.NotEqual(t, from, to, "door %v joins a room to itself", d)
	}
}

// requireConnected asserts the rooms form a single component under cell
// adjacency, the postcondition the reconnection stage guarantees.
func requireConnected(t *testing.T, m *Map) {
	t.Helper()
	if len(m.Rooms) < 2 {
		return
	}
	seen := map[int]bool{0: true}
	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j := range m.Rooms {
			if !seen[j] && m.Rooms[i].AdjacentTo(&m.Rooms[j]) {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	require.Len(t, seen, len(m.Rooms), "room layout is not a single component")
}

func TestStats_CountsRolesAndCells(t *testing.T) {
	m := &Map{
		Origin: geom.NewRect(0, 0, 4, 2),
		Rooms: []arena.Room{
			{Cells: []geom.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}},
			{Cells: []geom.Cell{{Col: 2, Row: 0}}, Role: arena.RoleSave},
			{Cells: []geom.Cell{{Col: 3, Row: 0}}, Role: arena.RoleSave},
			{Cells: []geom.Cell{{Col: 0, Row: 1}}, Role: arena.RoleConnector},
		},
	}
	s := m.Stats()
	require.Equal(t, 4, s.Rooms)
	require.Equal(t, 0, s.Doors)
	require.Equal(t, 5, s.CellCount)
	require.Equal(t, 2, s.Roles[arena.RoleSave])
	require.Equal(t, 1, s.Roles[arena.RoleConnector])
	require.Zero(t, s.Roles[arena.RoleNavigation])
}
