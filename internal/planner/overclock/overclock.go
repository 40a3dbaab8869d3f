package overclock

import "math"

// TicksPerSecond is the simulation clock rate.
const TicksPerSecond = 20.0

// Voltage tier names in ascending order. Index in this slice is the tier
// ordinal used for overclock math.
var tierNames = []string{
	"ULV", "LV", "MV", "HV", "EV", "IV", "LuV", "ZPM", "UV", "UHV", "UEV", "UIV", "UMV", "UXV",
}

// TierIndex returns the ordinal of a voltage tier name, or -1 when unknown.
func TierIndex(name string) int {
	for i, t := range tierNames {
		if t == name {
			return i
		}
	}
	return -1
}

// TiersBetween resolves a (min tier, selected tier) pair into a number of
// overclock steps. Unknown min tier means no overclock is applied; a selected
// tier below the minimum clamps to zero.
func TiersBetween(minTier, selectedTier string) int {
	minIdx := TierIndex(minTier)
	selIdx := TierIndex(selectedTier)
	if minIdx < 0 || selIdx < 0 {
		return 0
	}
	if selIdx < minIdx {
		return 0
	}
	return selIdx - minIdx
}

// Model applies voltage-tier overclocking to recipe timing and power. The
// scale constants are balance data from the target simulation (classic
// GregTech: 0.5 duration, 4.0 EU/t per tier) and are injected, not baked in.
type Model struct {
	durationScale float64
	eutScale      float64
}

func New(durationScalePerTier, eutScalePerTier float64) *Model {
	return &Model{
		durationScale: durationScalePerTier,
		eutScale:      eutScalePerTier,
	}
}

// Apply returns the effective duration (ticks) and EU/t for a recipe run at
// tiers steps above its minimum tier. Duration floors at 1 tick and never
// increases with tier; power never decreases.
func (m *Model) Apply(baseDurationTicks int, baseEUT int64, tiers int) (int, float64) {
	if baseDurationTicks < 1 {
		baseDurationTicks = 1
	}
	if tiers < 0 {
		tiers = 0
	}

	duration := math.Floor(float64(baseDurationTicks) * math.Pow(m.durationScale, float64(tiers)))
	if duration < 1 {
		duration = 1
	}

	eut := float64(baseEUT) * math.Pow(m.eutScale, float64(tiers))
	if eut < 0 {
		eut = 0
	}

	return int(duration), eut
}

// RatePerSecond converts an amount-per-cycle into amount-per-second at the
// given effective duration.
func RatePerSecond(amountPerCycle float64, durationTicks int) float64 {
	if durationTicks < 1 {
		durationTicks = 1
	}
	return amountPerCycle / float64(durationTicks) * TicksPerSecond
}
