// Package style defines the fixed set of generation styles and the
// probability bundles each style selects. A style is the only tuning
// surface the generator exposes: every numeric knob of the pipeline
// lives here, compiled in.
package style

import (
	"fmt"
	"math/rand"
)

// Style selects one of the built-in generation presets.
type Style int

// Available styles. The castle family produces long horizontal halls with
// sparse single-cell side rooms; the metroid family produces denser, more
// vertical layouts with an extra item-room bucket in decoration.
const (
	CastlevaniaI Style = iota
	CastlevaniaIII
	CastlevaniaSOTN
	MetroidI
	SuperMetroid
)

// Family groups styles that share a decoration policy.
type Family int

// Style families
const (
	FamilyCastle Family = iota
	FamilyMetroid
)

// All returns every selectable style, for iteration and CLI listings.
func All() []Style {
	return []Style{CastlevaniaI, CastlevaniaIII, CastlevaniaSOTN, MetroidI, SuperMetroid}
}

// String returns the style's CLI-facing name.
func (s Style) String() string {
	switch s {
	case CastlevaniaI:
		return "castlevania-1"
	case CastlevaniaIII:
		return "castlevania-3"
	case CastlevaniaSOTN:
		return "castlevania-sotn"
	case MetroidI:
		return "metroid-1"
	case SuperMetroid:
		return "super-metroid"
	default:
		return "unknown"
	}
}

// Family returns the decoration family the style belongs to.
func (s Style) Family() Family {
	switch s {
	case MetroidI, SuperMetroid:
		return FamilyMetroid
	default:
		return FamilyCastle
	}
}

// Parse resolves a CLI-facing style name back to its Style.
func Parse(name string) (Style, error) {
	for _, s := range All() {
		if s.String() == name {
			return s, nil
		}
	}
	return CastlevaniaI, fmt.Errorf("unknown style %q", name)
}

// PartitionConfig tunes the spatial partitioner.
type PartitionConfig struct {
	// MinCanvasSide is the smallest canvas dimension the partitioner
	// accepts; anything below yields no regions at all.
	MinCanvasSide int
	// RegionSplitFactor sets the macro region count: max(area/factor, 2).
	RegionSplitFactor int
	// MinArea is the area at or below which a rectangle stops splitting
	// and instead rolls RectSurvivalProb.
	MinArea int
	// MaxArea caps how large a rectangle may stay unsplit.
	MaxArea int
	// BigRectSurvivalProb is the chance a rectangle between MinArea and
	// MaxArea is kept whole instead of split.
	BigRectSurvivalProb float64
	// RectSurvivalProb is the chance a small rectangle stays active
	// rather than moving to the removed set.
	RectSurvivalProb float64
	// HeightCutoff forces a horizontal split when height/width exceeds it.
	HeightCutoff float64
	// WidthCutoff forces a vertical split when width/height exceeds it.
	WidthCutoff float64
	// HorizontalSplitProb weights the coin flip when neither cutoff fires.
	HorizontalSplitProb float64
	// TrimFullyConnectedProb removes rectangles with 8+ active neighbors.
	TrimFullyConnectedProb float64
	// TrimHighlyConnectedProb removes rectangles with 5-7 active neighbors.
	TrimHighlyConnectedProb float64
}

// ComposeConfig tunes the room composer stages.
type ComposeConfig struct {
	// MergeChance is the per-room probability of the random merge stage.
	MergeChance float64
	// BisectChance is the probability a long single-row room is split
	// into left/middle/right parts.
	BisectChance float64
	// BisectMinCells is the minimum cell count for bisection eligibility.
	BisectMinCells int
	// GroupLoopConnectionChance links a component to its second-nearest
	// neighbor as well, creating a connectivity loop.
	GroupLoopConnectionChance float64
	// ConsolidateProb is the merge probability of the first small-room
	// consolidation pass; the second pass uses half of it.
	ConsolidateProb float64
}

// DoorConfig tunes door placement.
type DoorConfig struct {
	// LoopConnectionChance allows a door to a room that already has one,
	// forming an intentional traversal loop.
	LoopConnectionChance float64
}

// DecorConfig tunes special-room decoration. Weights are bucket limits on
// a 0-99 draw: a roll below SaveLimit tags a save room, below NavLimit a
// navigation room, below ItemLimit an item room, anything else stays plain.
type DecorConfig struct {
	SaveLimit int
	NavLimit  int
	ItemLimit int
	// MinRoleDistance is the minimum Manhattan distance between two rooms
	// carrying the same role.
	MinRoleDistance int
}

// Config bundles every knob the pipeline consults for one style.
type Config struct {
	Partition PartitionConfig
	Compose   ComposeConfig
	Door      DoorConfig
	Decor     DecorConfig
}

// ConfigFor returns the compiled-in bundle for a style.
func ConfigFor(s Style) Config {
	cfg := baseConfig()
	switch s {
	case CastlevaniaI:
		cfg.Partition.HorizontalSplitProb = 0.30
		cfg.Compose.BisectChance = 0.35
		cfg.Compose.MergeChance = 0.55
	case CastlevaniaIII:
		cfg.Partition.HorizontalSplitProb = 0.35
		cfg.Compose.BisectChance = 0.45
		cfg.Compose.MergeChance = 0.60
		cfg.Door.LoopConnectionChance = 0.12
	case CastlevaniaSOTN:
		cfg.Partition.HorizontalSplitProb = 0.40
		cfg.Partition.MaxArea = 12
		cfg.Compose.BisectChance = 0.25
		cfg.Compose.MergeChance = 0.70
		cfg.Compose.GroupLoopConnectionChance = 0.25
		cfg.Door.LoopConnectionChance = 0.15
	case MetroidI:
		cfg.Partition.HorizontalSplitProb = 0.60
		cfg.Compose.BisectChance = 0.20
		cfg.Compose.MergeChance = 0.50
	case SuperMetroid:
		cfg.Partition.HorizontalSplitProb = 0.55
		cfg.Partition.MaxArea = 14
		cfg.Compose.BisectChance = 0.30
		cfg.Compose.MergeChance = 0.65
		cfg.Compose.GroupLoopConnectionChance = 0.30
		cfg.Door.LoopConnectionChance = 0.18
	}
	cfg.Decor = decorFor(s.Family())
	return cfg
}

// baseConfig holds the knobs shared by every style before per-style tweaks.
func baseConfig() Config {
	return Config{
		Partition: PartitionConfig{
			MinCanvasSide:           4,
			RegionSplitFactor:       96,
			MinArea:                 6,
			MaxArea:                 10,
			BigRectSurvivalProb:     0.20,
			RectSurvivalProb:        0.70,
			HeightCutoff:            2.0,
			WidthCutoff:             3.0,
			HorizontalSplitProb:     0.50,
			TrimFullyConnectedProb:  0.60,
			TrimHighlyConnectedProb: 0.30,
		},
		Compose: ComposeConfig{
			MergeChance:               0.55,
			BisectChance:              0.30,
			BisectMinCells:            5,
			GroupLoopConnectionChance: 0.20,
			ConsolidateProb:           0.60,
		},
		Door: DoorConfig{
			LoopConnectionChance: 0.10,
		},
	}
}

// decorFor returns the decoration table for a style family. The castle
// table splits eligible rooms save/navigation/untagged; the metroid table
// adds an item-room bucket.
func decorFor(f Family) DecorConfig {
	if f == FamilyMetroid {
		return DecorConfig{SaveLimit: 30, NavLimit: 50, ItemLimit: 70, MinRoleDistance: 8}
	}
	return DecorConfig{SaveLimit: 50, NavLimit: 71, ItemLimit: 71, MinRoleDistance: 8}
}

// RegionModifier perturbs a macro region's local split parameters, giving
// each region its own character within one map.
type RegionModifier int

// Region modifiers
const (
	Standard RegionModifier = iota
	PreferHorizontal
	PreferVertical
	Chaotic
)

// RandomRegionModifier draws a modifier uniformly for a macro region.
func RandomRegionModifier(rng *rand.Rand) RegionModifier {
	return RegionModifier(rng.Intn(4))
}

// Apply returns the partition config as seen through the modifier. Chaotic
// jitters the parameters on every call, so callers must re-apply it each
// time they consult the config rather than caching the result.
func (m RegionModifier) Apply(cfg PartitionConfig, rng *rand.Rand) PartitionConfig {
	switch m {
	case PreferHorizontal:
		cfg.HorizontalSplitProb = clampProb(cfg.HorizontalSplitProb + 0.25)
		cfg.HeightCutoff += 0.5
	case PreferVertical:
		cfg.HorizontalSplitProb = clampProb(cfg.HorizontalSplitProb - 0.25)
		cfg.WidthCutoff += 0.5
	case Chaotic:
		cfg.HorizontalSplitProb = clampProb(cfg.HorizontalSplitProb + (rng.Float64()-0.5)*0.5)
		cfg.HeightCutoff += (rng.Float64() - 0.5)
		cfg.WidthCutoff += (rng.Float64() - 0.5)
	}
	return cfg
}

// String returns the modifier's name, mostly for test failure messages.
func (m RegionModifier) String() string {
	switch m {
	case Standard:
		return "Standard"
	case PreferHorizontal:
		return "PreferHorizontal"
	case PreferVertical:
		return "PreferVertical"
	case Chaotic:
		return "Chaotic"
	default:
		return "Unknown"
	}
}

// clampProb keeps a perturbed probability inside [0.05, 0.95] so a modifier
// can bias an axis without eliminating the other entirely.
func clampProb(p float64) float64 {
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}
