// Package decor tags eligible rooms with style-specific special roles:
// save points, navigation rooms, and (for the metroid family) item rooms.
package decor

import (
	"math/rand"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/doors"
	"mapforge/pkg/mapgen/style"
)

// Decorate scans eligible rooms in id order and assigns roles from the
// style's weighted table. A candidate whose placement would put two
// same-role rooms closer than the style's minimum Manhattan distance is
// left untagged instead.
//
// Eligible rooms are active single-cell rooms without a vertical door:
// special rooms are entered from the side, so a room with a ceiling or
// floor opening cannot hold one.
func Decorate(region *arena.MapRegion, placed []doors.Door, cfg style.DecorConfig, rng *rand.Rand) {
	taken := map[arena.Role][]geom.Cell{}

	for _, id := range region.ActiveIDs() {
		room := region.GetActive(id)
		if !room.SingleCell() || hasVerticalDoor(room, placed) {
			continue
		}

		role := rollRole(cfg, rng)
		if role == arena.RoleNone {
			continue
		}
		cell := room.Cells[0]
		if tooClose(cell, taken[role], cfg.MinRoleDistance) {
			continue
		}
		room.Role = role
		taken[role] = append(taken[role], cell)
	}
}

// hasVerticalDoor returns true if any placed door joins the room to a
// cell above or below it.
func hasVerticalDoor(room *arena.Room, placed []doors.Door) bool {
	for _, d := range placed {
		if d.IsHorizontal() {
			continue
		}
		if room.Contains(d.From) || room.Contains(d.To) {
			return true
		}
	}
	return false
}

// rollRole draws a role over 100 buckets using the style's limits. The
// castle family's item bucket is empty (ItemLimit == NavLimit), so only
// metroid styles produce item rooms.
func rollRole(cfg style.DecorConfig, rng *rand.Rand) arena.Role {
	switch roll := rng.Intn(100); {
	case roll < cfg.SaveLimit:
		return arena.RoleSave
	case roll < cfg.NavLimit:
		return arena.RoleNavigation
	case roll < cfg.ItemLimit:
		return arena.RoleItem
	default:
		return arena.RoleNone
	}
}

// tooClose returns true if the cell is within minDistance of any cell
// already holding the same role.
func tooClose(cell geom.Cell, placed []geom.Cell, minDistance int) bool {
	for _, other := range placed {
		if geom.ManhattanDistance(cell, other) < minDistance {
			return true
		}
	}
	return false
}
