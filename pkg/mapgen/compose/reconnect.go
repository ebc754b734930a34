package compose

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/style"
)

// RoomGroups computes the connected components of the active-room
// adjacency graph with an iterative depth-first traversal. Each group is
// returned sorted by id, groups ordered by their smallest member.
func RoomGroups(region *arena.MapRegion) [][]arena.RoomID {
	visited := mapset.New[arena.RoomID]()
	var groups [][]arena.RoomID
	for _, start := range region.ActiveIDs() {
		if visited.Has(start) {
			continue
		}
		var group []arena.RoomID
		stack := []arena.RoomID{start}
		visited.Put(start)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, id)
			for _, n := range region.NeighborIDs(id) {
				if region.IsActive(n) && !visited.Has(n) {
					visited.Put(n)
					stack = append(stack, n)
				}
			}
		}
		sort.Slice(group, func(i, j int) bool { return group[i] < group[j] })
		groups = append(groups, group)
	}
	return groups
}

// Reconnect repairs the active-room graph until it forms exactly one
// connected component. Isolated rooms and undersized groups are demoted
// to removed; the survivors are stitched together by reactivating removed
// rooms along shortest paths between nearest groups.
func Reconnect(region *arena.MapRegion, cfg style.ComposeConfig, rng *rand.Rand) {
	for _, group := range RoomGroups(region) {
		if len(group) == 1 {
			region.MarkRemoved(group[0])
		}
	}

	for {
		groups := RoomGroups(region)
		groups = discardSmallGroups(region, groups)
		if len(groups) <= 1 {
			return
		}

		for _, pair := range chooseGroupPairs(region, groups, cfg.GroupLoopConnectionChance, rng) {
			from, to := closestRoomPair(region, groups[pair.a], groups[pair.b])
			for _, id := range FindPath(region, from, to) {
				if region.IsRemoved(id) {
					region.MarkActive(id)
				}
			}
		}
	}
}

// discardSmallGroups demotes every group smaller than 0.3 times the mean
// group size (with a floor of one room) and returns the survivors.
func discardSmallGroups(region *arena.MapRegion, groups [][]arena.RoomID) [][]arena.RoomID {
	if len(groups) == 0 {
		return groups
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	threshold := 0.3 * float64(total) / float64(len(groups))
	if threshold < 1 {
		threshold = 1
	}

	survivors := groups[:0:0]
	for _, g := range groups {
		if float64(len(g)) < threshold {
			for _, id := range g {
				region.MarkRemoved(id)
			}
			continue
		}
		survivors = append(survivors, g)
	}
	return survivors
}

// groupPair indexes two groups chosen for reconnection, a < b.
type groupPair struct {
	a, b int
}

// chooseGroupPairs pairs every group with its nearest neighbor by
// centroid distance, deduplicating symmetric picks, and with the loop
// chance also pairs it with its second-nearest, turning the reconnection
// tree into a graph with cycles.
func chooseGroupPairs(region *arena.MapRegion, groups [][]arena.RoomID, loopChance float64, rng *rand.Rand) []groupPair {
	centroids := make([][2]float64, len(groups))
	for i, g := range groups {
		centroids[i] = groupCentroid(region, g)
	}

	seen := mapset.New[groupPair]()
	var pairs []groupPair
	addPair := func(i, j int) {
		p := groupPair{a: i, b: j}
		if p.a > p.b {
			p.a, p.b = p.b, p.a
		}
		if !seen.Has(p) {
			seen.Put(p)
			pairs = append(pairs, p)
		}
	}

	for i := range groups {
		nearest, second := -1, -1
		var nearestDist, secondDist float64
		for j := range groups {
			if j == i {
				continue
			}
			d := centroidDistance(centroids[i], centroids[j])
			switch {
			case nearest == -1 || d < nearestDist:
				second, secondDist = nearest, nearestDist
				nearest, nearestDist = j, d
			case second == -1 || d < secondDist:
				second, secondDist = j, d
			}
		}
		addPair(i, nearest)
		if second != -1 && rng.Float64() < loopChance {
			addPair(i, second)
		}
	}
	return pairs
}

// groupCentroid returns the mean of the group's room centers.
func groupCentroid(region *arena.MapRegion, group []arena.RoomID) [2]float64 {
	var col, row float64
	for _, id := range group {
		c, r := region.Get(id).Center()
		col += c
		row += r
	}
	n := float64(len(group))
	return [2]float64{col / n, row / n}
}

// centroidDistance returns the squared Euclidean distance between two
// centroids.
func centroidDistance(a, b [2]float64) float64 {
	dc := a[0] - b[0]
	dr := a[1] - b[1]
	return dc*dc + dr*dr
}

// closestRoomPair finds the pair of rooms, one from each group, whose
// centers are closest.
func closestRoomPair(region *arena.MapRegion, a, b []arena.RoomID) (arena.RoomID, arena.RoomID) {
	bestFrom, bestTo := a[0], b[0]
	bestDist := -1.0
	for _, from := range a {
		fromRoom := region.Get(from)
		for _, to := range b {
			d := fromRoom.CenterDistanceTo(region.Get(to))
			if bestDist < 0 || d < bestDist {
				bestFrom, bestTo, bestDist = from, to, d
			}
		}
	}
	return bestFrom, bestTo
}

// pathNode is one priority-queue entry of the shortest-path search.
type pathNode struct {
	id   arena.RoomID
	hops int
	seq  int
}

// FindPath returns the minimum-hop path between two rooms over the full
// adjacency graph, removed rooms included. Ties between equally short
// routes are broken by discovery order, so the search is deterministic
// for a fixed arena. The target is reachable by construction; failing to
// reach it means the adjacency store is corrupt, which panics.
func FindPath(region *arena.MapRegion, from, to arena.RoomID) []arena.RoomID {
	queue := heap.New[pathNode](func(a, b pathNode) bool {
		if a.hops != b.hops {
			return a.hops < b.hops
		}
		return a.seq < b.seq
	})

	seq := 0
	hops := map[arena.RoomID]int{from: 0}
	prev := map[arena.RoomID]arena.RoomID{}
	settled := mapset.New[arena.RoomID]()
	queue.Push(pathNode{id: from, hops: 0, seq: seq})

	for queue.Size() > 0 {
		node, _ := queue.Pop()
		if settled.Has(node.id) {
			continue
		}
		settled.Put(node.id)
		if node.id == to {
			return tracePath(prev, from, to)
		}
		for _, n := range region.NeighborIDs(node.id) {
			next := node.hops + 1
			if known, ok := hops[n]; ok && known <= next {
				continue
			}
			hops[n] = next
			prev[n] = node.id
			seq++
			queue.Push(pathNode{id: n, hops: next, seq: seq})
		}
	}
	panic(fmt.Sprintf("compose: no path between rooms %d and %d, adjacency is broken", from, to))
}

// tracePath rebuilds the path from the predecessor map, front to back.
func tracePath(prev map[arena.RoomID]arena.RoomID, from, to arena.RoomID) []arena.RoomID {
	path := []arena.RoomID{to}
	for path[len(path)-1] != from {
		path = append(path, prev[path[len(path)-1]])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
