// Package arena implements the room store the whole pipeline works on:
// an index-stable slot array where rooms are never physically deleted
// mid-run, only marked removed, so integer handles held by other stages
// stay valid across merging and reconnection.
package arena

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
)

// RoomID is a stable integer handle into a MapRegion. It stays valid for
// as long as the referenced slot is non-empty.
type RoomID int

// slotState tags a slot as empty, holding an active room, or holding a
// removed room.
type slotState int

const (
	slotEmpty slotState = iota
	slotActive
	slotRemoved
)

// slot is one tri-state entry of the arena.
type slot struct {
	state slotState
	room  *Room
}

// MapRegion is the working set of rooms generated for one spatial region:
// a slot array plus a parallel array of neighbor-id sets. The two arrays
// always have equal length; a slot has a neighbor set exactly when it is
// non-empty; adjacency is kept symmetric at all times.
type MapRegion struct {
	origin    geom.Rect
	slots     []slot
	neighbors []*mapset.Set[RoomID]
}

// NewMapRegion creates an empty arena covering the given rectangle.
func NewMapRegion(origin geom.Rect) *MapRegion {
	return &MapRegion{origin: origin}
}

// Origin returns the rectangle the region's rooms were generated within.
func (m *MapRegion) Origin() geom.Rect {
	return m.origin
}

// SetOrigin widens the region's rectangle, used when arenas are merged.
func (m *MapRegion) SetOrigin(r geom.Rect) {
	m.origin = r
}

// Len returns the total slot count, including empty slots.
func (m *MapRegion) Len() int {
	return len(m.slots)
}

// Insert appends a new active slot holding the room and returns its id.
func (m *MapRegion) Insert(room *Room) RoomID {
	id := RoomID(len(m.slots))
	m.slots = append(m.slots, slot{state: slotActive, room: room})
	set := mapset.New[RoomID]()
	m.neighbors = append(m.neighbors, &set)
	return id
}

// InsertRemoved appends a new slot already in the removed state. The
// partitioner uses it to carry trimmed rectangles into the arena so
// reconnection can reactivate them later.
func (m *MapRegion) InsertRemoved(room *Room) RoomID {
	id := m.Insert(room)
	m.slots[id].state = slotRemoved
	return id
}

// Get returns the room in a non-empty slot, active or removed.
func (m *MapRegion) Get(id RoomID) *Room {
	s := m.slot(id)
	if s.state == slotEmpty {
		panic(fmt.Sprintf("arena: room %d accessed through an empty slot", id))
	}
	return s.room
}

// GetActive returns the room in an active slot.
func (m *MapRegion) GetActive(id RoomID) *Room {
	s := m.slot(id)
	if s.state != slotActive {
		panic(fmt.Sprintf("arena: room %d is not active", id))
	}
	return s.room
}

// GetRemoved returns the room in a removed slot.
func (m *MapRegion) GetRemoved(id RoomID) *Room {
	s := m.slot(id)
	if s.state != slotRemoved {
		panic(fmt.Sprintf("arena: room %d is not removed", id))
	}
	return s.room
}

// IsActive returns true if the slot holds an active room.
func (m *MapRegion) IsActive(id RoomID) bool {
	return m.slot(id).state == slotActive
}

// IsRemoved returns true if the slot holds a removed room.
func (m *MapRegion) IsRemoved(id RoomID) bool {
	return m.slot(id).state == slotRemoved
}

// IsEmpty returns true if the slot no longer holds a room.
func (m *MapRegion) IsEmpty(id RoomID) bool {
	return m.slot(id).state == slotEmpty
}

// MarkRemoved moves an active room to the removed state. Marking an
// already-removed room is a no-op; an empty slot is a caller bug.
func (m *MapRegion) MarkRemoved(id RoomID) {
	s := m.slot(id)
	if s.state == slotEmpty {
		panic(fmt.Sprintf("arena: cannot remove room %d, slot is empty", id))
	}
	s.state = slotRemoved
}

// MarkActive moves a removed room back to the active state. Marking an
// already-active room is a no-op; an empty slot is a caller bug.
func (m *MapRegion) MarkActive(id RoomID) {
	s := m.slot(id)
	if s.state == slotEmpty {
		panic(fmt.Sprintf("arena: cannot activate room %d, slot is empty", id))
	}
	s.state = slotActive
}

// AddNeighbor records that two distinct non-empty rooms are adjacent.
// Adjacency is symmetric, so both sets are updated.
func (m *MapRegion) AddNeighbor(a, b RoomID) {
	if a == b {
		panic(fmt.Sprintf("arena: room %d cannot neighbor itself", a))
	}
	if m.slot(a).state == slotEmpty || m.slot(b).state == slotEmpty {
		panic(fmt.Sprintf("arena: cannot link rooms %d and %d through an empty slot", a, b))
	}
	m.neighbors[a].Put(b)
	m.neighbors[b].Put(a)
}

// NeighborIDs returns the ids adjacent to a non-empty room, sorted so
// callers drawing randomness over neighbors behave reproducibly.
func (m *MapRegion) NeighborIDs(id RoomID) []RoomID {
	if m.slot(id).state == slotEmpty {
		panic(fmt.Sprintf("arena: room %d has no neighbor set, slot is empty", id))
	}
	ids := make([]RoomID, 0, m.neighbors[id].Size())
	m.neighbors[id].Each(func(n RoomID) {
		ids = append(ids, n)
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasNeighbor returns true if b is recorded adjacent to a.
func (m *MapRegion) HasNeighbor(a, b RoomID) bool {
	if m.slot(a).state == slotEmpty {
		return false
	}
	return m.neighbors[a].Has(b)
}

// NeighborSetCount returns how many slots currently carry a neighbor set.
func (m *MapRegion) NeighborSetCount() int {
	count := 0
	for _, set := range m.neighbors {
		if set != nil {
			count++
		}
	}
	return count
}

// ActiveIDs returns the ids of all active rooms in slot order.
func (m *MapRegion) ActiveIDs() []RoomID {
	return m.idsInState(slotActive)
}

// RemovedIDs returns the ids of all removed rooms in slot order.
func (m *MapRegion) RemovedIDs() []RoomID {
	return m.idsInState(slotRemoved)
}

// CountActive returns the number of active rooms.
func (m *MapRegion) CountActive() int {
	return len(m.idsInState(slotActive))
}

// CountRemoved returns the number of removed rooms.
func (m *MapRegion) CountRemoved() int {
	return len(m.idsInState(slotRemoved))
}

// MergeActive folds active room b into active room a: a absorbs b's
// cells, inherits b's neighbors, every external reference to b is
// redirected to a, and b's slot is emptied. Adjacency stays symmetric.
func (m *MapRegion) MergeActive(a, b RoomID) {
	if a == b {
		panic(fmt.Sprintf("arena: cannot merge room %d with itself", a))
	}
	roomA := m.GetActive(a)
	roomB := m.GetActive(b)
	roomA.absorb(roomB)

	m.neighbors[b].Each(func(n RoomID) {
		m.neighbors[n].Remove(b)
		if n != a {
			m.neighbors[n].Put(a)
			m.neighbors[a].Put(n)
		}
	})
	m.neighbors[a].Remove(b)

	m.slots[b] = slot{state: slotEmpty}
	m.neighbors[b] = nil
}

// Discard empties a slot and unlinks it from every neighbor set. Used
// when a room is replaced wholesale, such as by bisection.
func (m *MapRegion) Discard(id RoomID) {
	if m.slot(id).state == slotEmpty {
		panic(fmt.Sprintf("arena: room %d already discarded", id))
	}
	m.neighbors[id].Each(func(n RoomID) {
		m.neighbors[n].Remove(id)
	})
	m.slots[id] = slot{state: slotEmpty}
	m.neighbors[id] = nil
}

// Compact drops empty slots and renumbers the remaining rooms densely,
// rewriting every neighbor reference. Purely an internal optimization:
// non-empty slot count, room states, and adjacency symmetry survive it.
func (m *MapRegion) Compact() {
	remap := make(map[RoomID]RoomID, len(m.slots))
	next := RoomID(0)
	for id := range m.slots {
		if m.slots[id].state != slotEmpty {
			remap[RoomID(id)] = next
			next++
		}
	}

	slots := make([]slot, 0, next)
	neighbors := make([]*mapset.Set[RoomID], 0, next)
	for id := range m.slots {
		if m.slots[id].state == slotEmpty {
			continue
		}
		slots = append(slots, m.slots[id])
		set := mapset.New[RoomID]()
		m.neighbors[id].Each(func(n RoomID) {
			set.Put(remap[n])
		})
		neighbors = append(neighbors, &set)
	}
	m.slots = slots
	m.neighbors = neighbors
}

// MergeWith appends another arena's slots after this one's, offsetting
// the other arena's ids and internal neighbor references by the current
// length. The region rectangle widens to cover both.
func (m *MapRegion) MergeWith(other *MapRegion) {
	offset := RoomID(len(m.slots))
	for id := range other.slots {
		m.slots = append(m.slots, other.slots[id])
		if other.slots[id].state == slotEmpty {
			m.neighbors = append(m.neighbors, nil)
			continue
		}
		set := mapset.New[RoomID]()
		other.neighbors[id].Each(func(n RoomID) {
			set.Put(n + offset)
		})
		m.neighbors = append(m.neighbors, &set)
	}
	m.origin = m.origin.Union(other.origin)
}

// slot validates the id range and returns the addressed slot.
func (m *MapRegion) slot(id RoomID) *slot {
	if id < 0 || int(id) >= len(m.slots) {
		panic(fmt.Sprintf("arena: room id %d out of range [0,%d)", id, len(m.slots)))
	}
	return &m.slots[id]
}

// idsInState collects ids of slots in the given state, in slot order.
func (m *MapRegion) idsInState(state slotState) []RoomID {
	var ids []RoomID
	for id := range m.slots {
		if m.slots[id].state == state {
			ids = append(ids, RoomID(id))
		}
	}
	return ids
}
