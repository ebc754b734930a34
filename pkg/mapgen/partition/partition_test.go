package partition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/mapgen/style"
)

// requireTiling asserts the group's rectangles cover its origin exactly,
// with no overlap and no gap.
func requireTiling(t *testing.T, g Group) {
	t.Helper()
	seen := make(map[geom.Cell]int)
	for idx, tr := range g.Rects {
		for _, c := range tr.Rect.Cells() {
			require.True(t, g.Origin.Contains(c), "rect %d leaks outside the region", idx)
			prev, dup := seen[c]
			require.False(t, dup, "cell %v claimed by rects %d and %d", c, prev, idx)
			seen[c] = idx
		}
	}
	require.Equal(t, g.Origin.Area(), len(seen), "rects must tile the region with no gap")
}

// requireSaneAdjacency asserts the adjacency array is parallel to the
// rects, symmetric, and only links rectangles that share an edge.
func requireSaneAdjacency(t *testing.T, g Group) {
	t.Helper()
	require.Equal(t, len(g.Rects), len(g.Adjacency))
	for idx := range g.Rects {
		g.Adjacency[idx].Each(func(n int) {
			require.NotEqual(t, idx, n, "rect %d neighbors itself", idx)
			require.Less(t, n, len(g.Rects))
			require.True(t, g.Adjacency[n].Has(idx), "adjacency %d->%d not symmetric", idx, n)
			require.True(t, g.Rects[idx].Rect.EdgeAdjacentTo(g.Rects[n].Rect),
				"rects %d and %d linked but not edge-adjacent", idx, n)
		})
	}
}

func TestGenerateAndTrim_InvariantsAcrossSeeds(t *testing.T) {
	cfg := style.ConfigFor(style.CastlevaniaI).Partition
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		groups := GenerateAndTrim(40, 24, cfg, rng)
		require.NotEmpty(t, groups)

		covered := 0
		for _, g := range groups {
			requireTiling(t, g)
			requireSaneAdjacency(t, g)
			covered += g.Origin.Area()

			// Trimming never leaves a stranded active rectangle.
			for idx, tr := range g.Rects {
				if tr.Removed {
					continue
				}
				deg := 0
				g.Adjacency[idx].Each(func(n int) {
					if !g.Rects[n].Removed {
						deg++
					}
				})
				require.Greater(t, deg, 0, "seed %d: active rect %d has no active neighbor", seed, idx)
			}
		}
		require.Equal(t, 40*24, covered, "macro regions must tile the canvas")
	}
}

func TestGenerateAndTrim_RegionCountIsDeterministic(t *testing.T) {
	// 20x20 with a split factor of 400 forces N=2 macro regions: the
	// canvas is too big to stand alone, and after one bisection both
	// halves are small enough. That holds for every seed.
	cfg := style.ConfigFor(style.MetroidI).Partition
	cfg.RegionSplitFactor = 400
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		groups := GenerateAndTrim(20, 20, cfg, rng)
		require.Len(t, groups, 2, "seed %d", seed)
	}
}

func TestGenerateAndTrim_RejectsSmallCanvas(t *testing.T) {
	cfg := style.ConfigFor(style.CastlevaniaI).Partition
	rng := rand.New(rand.NewSource(1))
	require.Nil(t, GenerateAndTrim(cfg.MinCanvasSide-1, 20, cfg, rng))
	require.Nil(t, GenerateAndTrim(20, cfg.MinCanvasSide-1, cfg, rng))
	require.NotNil(t, GenerateAndTrim(cfg.MinCanvasSide, cfg.MinCanvasSide, cfg, rng))
}

func TestCountActive_MatchesTags(t *testing.T) {
	cfg := style.ConfigFor(style.SuperMetroid).Partition
	rng := rand.New(rand.NewSource(7))
	for _, g := range GenerateAndTrim(32, 20, cfg, rng) {
		manual := 0
		for _, tr := range g.Rects {
			if !tr.Removed {
				manual++
			}
		}
		require.Equal(t, manual, g.CountActive())
	}
}
