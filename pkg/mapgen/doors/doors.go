// Package doors walks the finished room graph and emits the doors that
// make it traversable: one door per spanning-tree edge, plus occasional
// probabilistic loop doors.
package doors

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/style"
)

// Modifier is how a door presents itself to the player.
type Modifier int

// Door modifiers
const (
	ModifierOpen Modifier = iota
	ModifierSecret
	ModifierLocked
	ModifierNone
)

// String returns the modifier's name.
func (m Modifier) String() string {
	switch m {
	case ModifierOpen:
		return "Open"
	case ModifierSecret:
		return "Secret"
	case ModifierLocked:
		return "Locked"
	case ModifierNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Door is a traversable opening between two grid-adjacent cells belonging
// to different rooms.
type Door struct {
	From     geom.Cell
	To       geom.Cell
	Modifier Modifier
}

// IsHorizontal returns true if the door joins two cells in the same row.
func (d Door) IsHorizontal() bool {
	return d.From.Row == d.To.Row
}

// roomPair is an unordered pair of room ids that already share a door.
type roomPair struct {
	a, b arena.RoomID
}

func makeRoomPair(a, b arena.RoomID) roomPair {
	if a > b {
		a, b = b, a
	}
	return roomPair{a: a, b: b}
}

// Place performs a stack-based spanning traversal from a random seed
// room, creating one door per newly reached neighbor. Neighbors that are
// already connected get a second, loop-forming door with the configured
// chance. The room graph is a single component by the time this runs, so
// every active room receives at least one door (seed aside, which gets
// one from its first expansion).
func Place(region *arena.MapRegion, cfg style.DoorConfig, rng *rand.Rand) []Door {
	actives := region.ActiveIDs()
	if len(actives) < 2 {
		return nil
	}

	var placed []Door
	doored := mapset.New[roomPair]()
	visited := mapset.New[arena.RoomID]()

	seed := actives[rng.Intn(len(actives))]
	visited.Put(seed)
	stack := []arena.RoomID{seed}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range region.NeighborIDs(id) {
			if !region.IsActive(n) {
				continue
			}
			pair := makeRoomPair(id, n)
			if visited.Has(n) {
				// Already linked into the map; only a loop roll earns a
				// second connection between these two rooms.
				if doored.Has(pair) || rng.Float64() >= cfg.LoopConnectionChance {
					continue
				}
				placed = append(placed, makeDoor(region, id, n, rng))
				doored.Put(pair)
				continue
			}
			placed = append(placed, makeDoor(region, id, n, rng))
			doored.Put(pair)
			visited.Put(n)
			stack = append(stack, n)
		}
	}
	return placed
}

// makeDoor picks the cell pair for a door between two adjacent rooms and
// rolls its modifier. Horizontal pairs are preferred when any exist; the
// pick among eligible pairs is uniform.
func makeDoor(region *arena.MapRegion, from, to arena.RoomID, rng *rand.Rand) Door {
	pairs := region.Get(from).AdjacentCellPairs(region.Get(to))
	if len(pairs) == 0 {
		panic("doors: rooms recorded adjacent share no boundary cells")
	}

	horizontal := pairs[:0:0]
	for _, p := range pairs {
		if p.From.Row == p.To.Row {
			horizontal = append(horizontal, p)
		}
	}
	if len(horizontal) > 0 {
		pairs = horizontal
	}
	pick := pairs[rng.Intn(len(pairs))]
	return Door{From: pick.From, To: pick.To, Modifier: rollModifier(rng)}
}

// rollModifier draws the door modifier over 100 buckets: 1% locked, 5%
// secret, 4% none, 90% open.
func rollModifier(rng *rand.Rand) Modifier {
	switch roll := rng.Intn(100); {
	case roll < 1:
		return ModifierLocked
	case roll < 6:
		return ModifierSecret
	case roll < 10:
		return ModifierNone
	default:
		return ModifierOpen
	}
}
