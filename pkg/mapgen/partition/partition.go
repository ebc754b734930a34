// Package partition splits the canvas into macro regions and each region
// into small rectangles, the raw material the composer turns into rooms.
// Adjacency between rectangles is maintained incrementally as splits
// happen rather than recomputed globally, so each split only touches the
// parent's existing neighbors.
package partition

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/style"
)

// TaggedRect is one partitioned rectangle: either active (will seed a
// room) or removed (kept aside for later reconnection use).
type TaggedRect struct {
	Rect    geom.Rect
	Removed bool
}

// Group is the partitioner's output for one macro region: the region's
// rectangle, its partitioned rectangles, and a parallel adjacency array.
// Adjacency covers removed rectangles too; that is what lets the composer
// restore connectivity through them later.
type Group struct {
	Origin    geom.Rect
	Rects     []TaggedRect
	Adjacency []*mapset.Set[int]
	Modifier  style.RegionModifier
}

// CountActive returns how many rectangles in the group are active.
func (g *Group) CountActive() int {
	count := 0
	for _, tr := range g.Rects {
		if !tr.Removed {
			count++
		}
	}
	return count
}

// GenerateAndTrim partitions the canvas and applies the trim passes,
// returning one group per macro region. Returns nil if either canvas
// dimension is below the configured minimum.
func GenerateAndTrim(cols, rows int, cfg style.PartitionConfig, rng *rand.Rand) []Group {
	if cols < cfg.MinCanvasSide || rows < cfg.MinCanvasSide {
		return nil
	}

	canvas := geom.NewRect(0, 0, cols, rows)
	regions := splitIntoMacroRegions(canvas, cfg, rng)

	groups := make([]Group, 0, len(regions))
	for _, region := range regions {
		modifier := style.RandomRegionModifier(rng)
		b := newBuilder(region, cfg, modifier, rng)
		b.run()
		b.trim()
		groups = append(groups, b.group())
	}
	return groups
}

// splitIntoMacroRegions bisects the canvas front-of-queue until it holds
// N = max(area/RegionSplitFactor, 2) regions, or until every remaining
// rectangle is small enough relative to N.
func splitIntoMacroRegions(canvas geom.Rect, cfg style.PartitionConfig, rng *rand.Rand) []geom.Rect {
	totalArea := canvas.Area()
	n := totalArea / cfg.RegionSplitFactor
	if n < 2 {
		n = 2
	}

	queue := []geom.Rect{canvas}
	var regions []geom.Rect
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		total := len(queue) + len(regions) + 1
		smallEnough := r.Area()*n <= totalArea
		if total >= n || smallEnough || !splittable(r) {
			regions = append(regions, r)
			continue
		}
		a, b := bisect(r, cfg, rng)
		queue = append(queue, a, b)
	}
	return regions
}

// splittable reports whether the rectangle can be bisected on any axis.
func splittable(r geom.Rect) bool {
	return r.Width > 1 || r.Height > 1
}

// bisect splits a rectangle along the axis the aspect-ratio rules pick,
// at a uniformly drawn interior offset.
func bisect(r geom.Rect, cfg style.PartitionConfig, rng *rand.Rand) (geom.Rect, geom.Rect) {
	if chooseHorizontalAxis(r, cfg, rng) && r.Height > 1 {
		return r.SplitHorizontal(1 + rng.Intn(r.Height-1))
	}
	if r.Width > 1 {
		return r.SplitVertical(1 + rng.Intn(r.Width-1))
	}
	return r.SplitHorizontal(1 + rng.Intn(r.Height-1))
}

// chooseHorizontalAxis applies the cutoff rules: a tall rectangle is
// forced to split horizontally, a wide one vertically, anything else is a
// weighted coin flip.
func chooseHorizontalAxis(r geom.Rect, cfg style.PartitionConfig, rng *rand.Rand) bool {
	height := float64(r.Height)
	width := float64(r.Width)
	if height/width > cfg.HeightCutoff {
		return true
	}
	if width/height > cfg.WidthCutoff {
		return false
	}
	return rng.Float64() < cfg.HorizontalSplitProb
}

// node states inside the builder. Dead nodes are split parents; they never
// reach the output.
type nodeState int

const (
	nodeActive nodeState = iota
	nodeRemoved
	nodeDead
)

// builder holds the in-progress partition of one macro region.
type builder struct {
	origin   geom.Rect
	cfg      style.PartitionConfig
	modifier style.RegionModifier
	rng      *rand.Rand

	rects     []geom.Rect
	neighbors []*mapset.Set[int]
	states    []nodeState
}

func newBuilder(origin geom.Rect, cfg style.PartitionConfig, modifier style.RegionModifier, rng *rand.Rand) *builder {
	return &builder{origin: origin, cfg: cfg, modifier: modifier, rng: rng}
}

// insert appends a node with an empty neighbor set and returns its index.
func (b *builder) insert(r geom.Rect) int {
	idx := len(b.rects)
	b.rects = append(b.rects, r)
	set := mapset.New[int]()
	b.neighbors = append(b.neighbors, &set)
	b.states = append(b.states, nodeActive)
	return idx
}

// run recursively partitions the region, keeping adjacency current on
// every split.
func (b *builder) run() {
	pending := []int{b.insert(b.origin)}
	for len(pending) > 0 {
		idx := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		// The modifier is re-applied on every decision so the chaotic
		// variant jitters each consult.
		cfg := b.modifier.Apply(b.cfg, b.rng)
		r := b.rects[idx]

		if r.Area() <= cfg.MinArea {
			if b.rng.Float64() >= cfg.RectSurvivalProb {
				b.states[idx] = nodeRemoved
			}
			continue
		}
		if r.Area() <= cfg.MaxArea && b.rng.Float64() < cfg.BigRectSurvivalProb {
			continue
		}

		horizontal := chooseHorizontalAxis(r, cfg, b.rng)
		if horizontal && r.Height < 2 || !horizontal && r.Width < 2 {
			continue
		}
		var left, right geom.Rect
		if horizontal {
			left, right = r.SplitHorizontal(1 + b.rng.Intn(r.Height-1))
		} else {
			left, right = r.SplitVertical(1 + b.rng.Intn(r.Width-1))
		}
		pending = append(pending, b.split(idx, left, right)...)
	}
}

// split replaces node idx with two children, partitioning the parent's
// neighbor set between them by direct edge-adjacency tests.
func (b *builder) split(idx int, left, right geom.Rect) []int {
	leftIdx := b.insert(left)
	rightIdx := b.insert(right)

	b.neighbors[idx].Each(func(n int) {
		b.neighbors[n].Remove(idx)
		if b.rects[n].EdgeAdjacentTo(left) {
			b.link(leftIdx, n)
		}
		if b.rects[n].EdgeAdjacentTo(right) {
			b.link(rightIdx, n)
		}
	})
	b.link(leftIdx, rightIdx)

	b.states[idx] = nodeDead
	cleared := mapset.New[int]()
	b.neighbors[idx] = &cleared
	return []int{leftIdx, rightIdx}
}

// link records symmetric adjacency between two nodes.
func (b *builder) link(a, n int) {
	b.neighbors[a].Put(n)
	b.neighbors[n].Put(a)
}

// trim applies the two post-partition passes: probabilistic removal of
// highly connected rectangles, then unconditional removal of isolated
// ones. Removed rectangles stay in the group for reconnection.
func (b *builder) trim() {
	// Pass (a) decides every rectangle against the same pre-pass degree
	// snapshot, so decisions stay independent of visit order.
	degrees := make([]int, len(b.rects))
	for idx := range b.rects {
		if b.states[idx] != nodeActive {
			continue
		}
		degrees[idx] = b.activeDegree(idx)
	}
	for idx := range b.rects {
		if b.states[idx] != nodeActive {
			continue
		}
		switch deg := degrees[idx]; {
		case deg == 0:
			b.states[idx] = nodeRemoved
		case deg >= 8:
			if b.rng.Float64() < b.cfg.TrimFullyConnectedProb {
				b.states[idx] = nodeRemoved
			}
		case deg >= 5:
			if b.rng.Float64() < b.cfg.TrimHighlyConnectedProb {
				b.states[idx] = nodeRemoved
			}
		}
	}

	// Pass (b): anything pass (a) left stranded goes too.
	for idx := range b.rects {
		if b.states[idx] == nodeActive && b.activeDegree(idx) == 0 {
			b.states[idx] = nodeRemoved
		}
	}
}

// activeDegree counts a node's active neighbors.
func (b *builder) activeDegree(idx int) int {
	deg := 0
	b.neighbors[idx].Each(func(n int) {
		if b.states[n] == nodeActive {
			deg++
		}
	})
	return deg
}

// group compacts the builder into its output form, dropping dead nodes
// and renumbering the survivors densely.
func (b *builder) group() Group {
	remap := make(map[int]int, len(b.rects))
	next := 0
	for idx := range b.rects {
		if b.states[idx] != nodeDead {
			remap[idx] = next
			next++
		}
	}

	g := Group{
		Origin:    b.origin,
		Rects:     make([]TaggedRect, 0, next),
		Adjacency: make([]*mapset.Set[int], 0, next),
		Modifier:  b.modifier,
	}
	for idx := range b.rects {
		if b.states[idx] == nodeDead {
			continue
		}
		g.Rects = append(g.Rects, TaggedRect{
			Rect:    b.rects[idx],
			Removed: b.states[idx] == nodeRemoved,
		})
		set := mapset.New[int]()
		b.neighbors[idx].Each(func(n int) {
			set.Put(remap[n])
		})
		g.Adjacency = append(g.Adjacency, &set)
	}
	return g
}
