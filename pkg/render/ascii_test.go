package render

import (
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/doors"
	"mapforge/pkg/mapgen/style"
)

func testMap() *mapgen.Map {
	return &mapgen.Map{
		Origin: geom.NewRect(0, 0, 5, 3),
		Rooms: []arena.Room{
			{Cells: []geom.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}},
			{Cells: []geom.Cell{{Col: 2, Row: 0}}, Role: arena.RoleSave},
			{Cells: []geom.Cell{{Col: 2, Row: 1}}, Role: arena.RoleConnector},
			{Cells: []geom.Cell{{Col: 2, Row: 2}, {Col: 3, Row: 2}}, Role: arena.RoleNavigation},
		},
		Doors: []doors.Door{
			{From: geom.Cell{Col: 1, Row: 0}, To: geom.Cell{Col: 2, Row: 0}, Modifier: doors.ModifierOpen},
			{From: geom.Cell{Col: 2, Row: 1}, To: geom.Cell{Col: 2, Row: 2}, Modifier: doors.ModifierSecret},
		},
	}
}

func TestPlain_RasterizesRoomsAndDoors(t *testing.T) {
	out := New().Plain(testMap())
	require.Equal(t, strings.Join([]string{
		".++##",
		"##%##",
		"##%N#",
		"",
	}, "\n"), out)
}

func TestPlain_GridShapeMatchesCanvas(t *testing.T) {
	m, err := mapgen.GenerateSeeded(24, 12, style.CastlevaniaIII, 17)
	require.NoError(t, err)

	out := New().Plain(m)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 12)
	for _, line := range lines {
		require.Len(t, line, 24)
	}
}

func TestRender_ColorsEveryGlyph(t *testing.T) {
	r := New()
	r.Init()
	plain := r.Plain(testMap())
	colored := r.Render(testMap())
	require.Equal(t, strings.Count(plain, "\n"), strings.Count(colored, "\n"))
	// Stripping the styling recovers the plain output.
	require.Equal(t, plain, color.ClearCode(colored))
}

func TestDoorGlyphs(t *testing.T) {
	require.Equal(t, IconDoorOpen, doorGlyph(doors.ModifierOpen))
	require.Equal(t, IconDoorNone, doorGlyph(doors.ModifierNone))
	require.Equal(t, IconSecret, doorGlyph(doors.ModifierSecret))
	require.Equal(t, IconLocked, doorGlyph(doors.ModifierLocked))
}
