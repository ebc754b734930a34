// Package mapgen generates 2-D dungeon-style maps: room layouts,
// connectivity, doors, and special-room placement, in one of several
// built-in styles. The pipeline partitions the canvas into macro regions,
// composes each region's rooms independently (and in parallel), merges
// the regions back together, then places doors and decorates rooms.
package mapgen

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/compose"
	"mapforge/pkg/mapgen/decor"
	"mapforge/pkg/mapgen/doors"
	"mapforge/pkg/mapgen/partition"
	"mapforge/pkg/mapgen/style"
)

// ErrEmptyCanvas is returned when either canvas dimension is not positive.
var ErrEmptyCanvas = errors.New("mapgen: canvas dimensions must be positive")

// Map is the finalized generation output handed to renderers.
type Map struct {
	Origin geom.Rect
	Rooms  []arena.Room
	Doors  []doors.Door
}

// Stats summarizes a generated map for front ends.
type Stats struct {
	Rooms     int
	Doors     int
	CellCount int
	Roles     map[arena.Role]int
}

// Stats computes summary statistics over the map.
func (m *Map) Stats() Stats {
	s := Stats{
		Rooms: len(m.Rooms),
		Doors: len(m.Doors),
		Roles: map[arena.Role]int{},
	}
	for i := range m.Rooms {
		s.CellCount += m.Rooms[i].CellCount()
		if m.Rooms[i].Role != arena.RoleNone {
			s.Roles[m.Rooms[i].Role]++
		}
	}
	return s
}

// Generate produces a map with a time-derived seed. Callers wanting a
// different map simply call it again.
func Generate(cols, rows int, s style.Style) (*Map, error) {
	return GenerateSeeded(cols, rows, s, time.Now().UnixNano())
}

// GenerateSeeded produces a map reproducibly from an explicit seed. A
// canvas below the partitioner's minimum (but with positive dimensions)
// yields an empty map rather than an error.
func GenerateSeeded(cols, rows int, s style.Style, seed int64) (*Map, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyCanvas
	}
	cfg := style.ConfigFor(s)
	rng := rand.New(rand.NewSource(seed))

	groups := partition.GenerateAndTrim(cols, rows, cfg.Partition, rng)
	if len(groups) == 0 {
		return &Map{Origin: geom.NewRect(0, 0, cols, rows)}, nil
	}

	// Fork-join: each region's composer pipeline runs on its own worker
	// with its own derived RNG, sharing nothing until the merge below.
	regions := make([]*arena.MapRegion, len(groups))
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			workerRNG := rand.New(rand.NewSource(seed + int64(i) + 1))
			region := buildRegion(&groups[i])
			compose.Run(region, cfg.Compose, workerRNG)
			regions[i] = region
		}(i)
	}
	wg.Wait()

	combined := mergeRegions(regions)
	reconnectRegions(combined, cfg.Compose, rng)
	combined.Compact()

	placed := doors.Place(combined, cfg.Door, rng)
	decor.Decorate(combined, placed, cfg.Decor, rng)

	m := &Map{Origin: geom.NewRect(0, 0, cols, rows), Doors: placed}
	for _, id := range combined.ActiveIDs() {
		m.Rooms = append(m.Rooms, *combined.GetActive(id))
	}
	return m, nil
}

// buildRegion loads one partition group into a fresh arena, rectangles
// becoming rooms and the group's adjacency carried over unchanged.
func buildRegion(g *partition.Group) *arena.MapRegion {
	region := arena.NewMapRegion(g.Origin)
	for _, tr := range g.Rects {
		room := arena.RoomFromRect(tr.Rect)
		if tr.Removed {
			region.InsertRemoved(room)
		} else {
			region.Insert(room)
		}
	}
	for idx, set := range g.Adjacency {
		set.Each(func(n int) {
			if n > idx {
				region.AddNeighbor(arena.RoomID(idx), arena.RoomID(n))
			}
		})
	}
	return region
}

// idRange marks the slot span one source region occupies in the merged
// arena.
type idRange struct {
	start arena.RoomID
	end   arena.RoomID
}

// crossEdge is one adjacency discovered between rooms of two different
// source regions.
type crossEdge struct {
	a arena.RoomID
	b arena.RoomID
}

// mergeRegions folds every region arena into the first, then recomputes
// adjacency across region boundaries. The boundary scan runs one worker
// per region pair; workers emit discovered edges on a channel consumed by
// a single goroutine applying them, so concurrent discoveries never race
// on the adjacency sets.
func mergeRegions(regions []*arena.MapRegion) *arena.MapRegion {
	combined := regions[0]
	ranges := make([]idRange, len(regions))
	ranges[0] = idRange{start: 0, end: arena.RoomID(combined.Len())}
	for i, region := range regions[1:] {
		start := arena.RoomID(combined.Len())
		combined.MergeWith(region)
		ranges[i+1] = idRange{start: start, end: arena.RoomID(combined.Len())}
	}
	if len(regions) == 1 {
		return combined
	}

	edges := make(chan crossEdge)
	var scanners sync.WaitGroup
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			scanners.Add(1)
			go func(a, b idRange) {
				defer scanners.Done()
				scanBoundary(combined, a, b, edges)
			}(ranges[i], ranges[j])
		}
	}
	go func() {
		scanners.Wait()
		close(edges)
	}()
	for edge := range edges {
		combined.AddNeighbor(edge.a, edge.b)
	}
	return combined
}

// scanBoundary emits an edge for every room pair across two region spans
// whose cell sets are grid-adjacent. Removed rooms participate too: the
// follow-up reconnection may need to route through them.
func scanBoundary(combined *arena.MapRegion, a, b idRange, edges chan<- crossEdge) {
	for i := a.start; i < a.end; i++ {
		if combined.IsEmpty(i) {
			continue
		}
		roomA := combined.Get(i)
		for j := b.start; j < b.end; j++ {
			if combined.IsEmpty(j) {
				continue
			}
			if roomA.AdjacentTo(combined.Get(j)) {
				edges <- crossEdge{a: i, b: j}
			}
		}
	}
}

// reconnectRegions reruns connectivity repair on the combined arena and
// tags every room it brings back as an inter-region connector.
func reconnectRegions(combined *arena.MapRegion, cfg style.ComposeConfig, rng *rand.Rand) {
	removedBefore := mapset.New[arena.RoomID]()
	for _, id := range combined.RemovedIDs() {
		removedBefore.Put(id)
	}

	compose.Reconnect(combined, cfg, rng)

	for _, id := range combined.ActiveIDs() {
		if removedBefore.Has(id) {
			combined.GetActive(id).Role = arena.RoleConnector
		}
	}
}
