// Package compose turns a freshly partitioned arena into a playable room
// layout: randomized merging, long-room bisection, connectivity repair,
// and small-room consolidation, in that order.
package compose

import (
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/style"
)

// Run applies every composer stage to one region's arena.
func Run(region *arena.MapRegion, cfg style.ComposeConfig, rng *rand.Rand) {
	RandomMerge(region, cfg.MergeChance, rng)
	BisectLongRooms(region, cfg, rng)
	Reconnect(region, cfg, rng)
	Consolidate(region, cfg.ConsolidateProb, rng)
}

// RandomMerge gives every unclaimed active room one chance to fold a
// randomly chosen unclaimed active neighbor into itself. Both sides of a
// merge are claimed, so no room participates twice in the same pass.
func RandomMerge(region *arena.MapRegion, mergeChance float64, rng *rand.Rand) {
	claimed := mapset.New[arena.RoomID]()
	for _, id := range region.ActiveIDs() {
		if !region.IsActive(id) || claimed.Has(id) {
			continue
		}
		room := region.GetActive(id)
		neighbors := activeNeighbors(region, id)
		// A lone single-cell room with exactly one way out stays as it
		// is; merging it away only erases a potential special room.
		if room.SingleCell() && len(neighbors) == 1 {
			continue
		}

		candidates := neighbors[:0:0]
		for _, n := range neighbors {
			if !claimed.Has(n) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 || rng.Float64() >= mergeChance {
			continue
		}
		chosen := candidates[rng.Intn(len(candidates))]
		region.MergeActive(id, chosen)
		claimed.Put(id)
	}
}

// BisectLongRooms splits qualifying single-row rooms into a left segment,
// a single middle cell, and a right segment. The middle cell becomes a
// natural spot for a special room later.
func BisectLongRooms(region *arena.MapRegion, cfg style.ComposeConfig, rng *rand.Rand) {
	for _, id := range region.ActiveIDs() {
		if !region.IsActive(id) {
			continue
		}
		room := region.GetActive(id)
		if !room.SingleRow() || room.CellCount() < cfg.BisectMinCells {
			continue
		}
		if rng.Float64() >= cfg.BisectChance {
			continue
		}
		bisectRoom(region, id)
	}
}

// bisectRoom replaces room id with its three parts, recomputing adjacency
// against the former neighbors geometrically and chaining the parts
// left-middle-right.
func bisectRoom(region *arena.MapRegion, id arena.RoomID) {
	room := region.GetActive(id)
	cells := make([]geom.Cell, len(room.Cells))
	copy(cells, room.Cells)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })

	mid := len(cells) / 2
	former := region.NeighborIDs(id)
	region.Discard(id)

	leftID := region.Insert(arena.NewRoom(cells[:mid]))
	middleID := region.Insert(arena.NewRoom(cells[mid : mid+1]))
	rightID := region.Insert(arena.NewRoom(cells[mid+1:]))

	for _, partID := range []arena.RoomID{leftID, middleID, rightID} {
		part := region.GetActive(partID)
		for _, n := range former {
			if part.AdjacentTo(region.Get(n)) {
				region.AddNeighbor(partID, n)
			}
		}
	}
	region.AddNeighbor(leftID, middleID)
	region.AddNeighbor(middleID, rightID)
}

// Consolidate merges runs of tiny rooms into their neighbors: first a
// pass over single-cell rooms, then a gentler pass (half probability)
// over rooms of up to two cells.
func Consolidate(region *arena.MapRegion, prob float64, rng *rand.Rand) {
	consolidatePass(region, 1, prob, rng)
	consolidatePass(region, 2, prob/2, rng)
}

// consolidatePass visits each active room of at most maxCells cells once
// and, with the given probability, merges it with one equally small
// unvisited active neighbor.
func consolidatePass(region *arena.MapRegion, maxCells int, prob float64, rng *rand.Rand) {
	visited := mapset.New[arena.RoomID]()
	for _, id := range region.ActiveIDs() {
		if !region.IsActive(id) || visited.Has(id) {
			continue
		}
		room := region.GetActive(id)
		if room.CellCount() > maxCells {
			continue
		}
		visited.Put(id)
		if loneSingleCell(region, id) {
			continue
		}

		var candidates []arena.RoomID
		for _, n := range activeNeighbors(region, id) {
			if visited.Has(n) || region.GetActive(n).CellCount() > maxCells {
				continue
			}
			if loneSingleCell(region, n) {
				continue
			}
			candidates = append(candidates, n)
		}
		if len(candidates) == 0 || rng.Float64() >= prob {
			continue
		}
		chosen := candidates[rng.Intn(len(candidates))]
		visited.Put(chosen)
		region.MergeActive(id, chosen)
	}
}

// loneSingleCell reports whether a room is a single cell with exactly one
// active neighbor, the degenerate shape every merge stage leaves alone.
func loneSingleCell(region *arena.MapRegion, id arena.RoomID) bool {
	return region.GetActive(id).SingleCell() && len(activeNeighbors(region, id)) == 1
}

// activeNeighbors returns the active subset of a room's neighbors, in id
// order.
func activeNeighbors(region *arena.MapRegion, id arena.RoomID) []arena.RoomID {
	var ids []arena.RoomID
	for _, n := range region.NeighborIDs(id) {
		if region.IsActive(n) {
			ids = append(ids, n)
		}
	}
	return ids
}
