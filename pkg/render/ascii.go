// Package render draws a generated map as colored ASCII for terminal
// front ends. It consumes the mapgen output value and has no influence
// on generation itself.
package render

import (
	"strings"

	"github.com/gookit/color"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/engine/terminal"
	"mapforge/pkg/mapgen"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/doors"
)

// Glyphs used by the preview
const (
	IconVoid      = '#'
	IconFloor     = '.'
	IconSave      = 'S'
	IconNav       = 'N'
	IconItem      = 'I'
	IconConnector = 'C'
	IconDoorOpen  = '+'
	IconDoorNone  = '|'
	IconSecret    = '%'
	IconLocked    = 'X'
)

// Renderer turns maps into terminal output. Init must run once before
// Render so the color styles exist.
type Renderer struct {
	colorVoid      color.Style
	colorFloor     color.Style
	colorSave      color.Style
	colorNav       color.Style
	colorItem      color.Style
	colorConnector color.Style
	colorDoor      color.Style
	colorSecret    color.Style
	colorLocked    color.Style
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// Init initializes the renderer's color styles.
func (r *Renderer) Init() {
	r.colorVoid = color.Style{color.FgGray}
	r.colorFloor = color.Style{color.FgBlue}
	r.colorSave = color.Style{color.FgGreen, color.OpBold}
	r.colorNav = color.Style{color.FgCyan, color.OpBold}
	r.colorItem = color.Style{color.FgMagenta, color.OpBold}
	r.colorConnector = color.Style{color.FgYellow}
	r.colorDoor = color.Style{color.FgYellow, color.OpBold}
	r.colorSecret = color.Style{color.FgMagenta}
	r.colorLocked = color.Style{color.FgRed, color.OpBold}
}

// Plain renders the map without color, one line per canvas row. Useful
// for tests and plain-pipe output.
func (r *Renderer) Plain(m *mapgen.Map) string {
	grid := buildGlyphGrid(m)
	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the map with color styling per glyph.
func (r *Renderer) Render(m *mapgen.Map) string {
	grid := buildGlyphGrid(m)
	var b strings.Builder
	for _, row := range grid {
		for _, glyph := range row {
			b.WriteString(r.styleFor(glyph).Sprint(string(glyph)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Fits returns true if the map's canvas fits the current terminal width.
func (r *Renderer) Fits(m *mapgen.Map) bool {
	return terminal.FitsWidth(m.Origin.Width)
}

// styleFor maps a glyph to its color style.
func (r *Renderer) styleFor(glyph rune) color.Style {
	switch glyph {
	case IconFloor:
		return r.colorFloor
	case IconSave:
		return r.colorSave
	case IconNav:
		return r.colorNav
	case IconItem:
		return r.colorItem
	case IconConnector:
		return r.colorConnector
	case IconDoorOpen, IconDoorNone:
		return r.colorDoor
	case IconSecret:
		return r.colorSecret
	case IconLocked:
		return r.colorLocked
	default:
		return r.colorVoid
	}
}

// buildGlyphGrid rasterizes rooms and doors onto the canvas. Doors
// overwrite the two cells they join, roles mark their room's cells.
func buildGlyphGrid(m *mapgen.Map) [][]rune {
	grid := make([][]rune, m.Origin.Height)
	for row := range grid {
		grid[row] = make([]rune, m.Origin.Width)
		for col := range grid[row] {
			grid[row][col] = IconVoid
		}
	}

	put := func(c geom.Cell, glyph rune) {
		if m.Origin.Contains(c) {
			grid[c.Row-m.Origin.Origin.Row][c.Col-m.Origin.Origin.Col] = glyph
		}
	}

	for i := range m.Rooms {
		glyph := roleGlyph(m.Rooms[i].Role)
		for _, c := range m.Rooms[i].Cells {
			put(c, glyph)
		}
	}
	for _, d := range m.Doors {
		glyph := doorGlyph(d.Modifier)
		put(d.From, glyph)
		put(d.To, glyph)
	}
	return grid
}

// roleGlyph maps a room role to its cell glyph.
func roleGlyph(role arena.Role) rune {
	switch role {
	case arena.RoleSave:
		return IconSave
	case arena.RoleNavigation:
		return IconNav
	case arena.RoleItem:
		return IconItem
	case arena.RoleConnector:
		return IconConnector
	default:
		return IconFloor
	}
}

// doorGlyph maps a door modifier to its glyph.
func doorGlyph(m doors.Modifier) rune {
	switch m {
	case doors.ModifierSecret:
		return IconSecret
	case doors.ModifierLocked:
		return IconLocked
	case doors.ModifierNone:
		return IconDoorNone
	default:
		return IconDoorOpen
	}
}
