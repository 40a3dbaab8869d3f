package overclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_ZeroTiersIsIdentity(t *testing.T) {
	m := New(0.5, 4.0)

	dur, eut := m.Apply(100, 32, 0)
	assert.Equal(t, 100, dur)
	assert.Equal(t, 32.0, eut)
}

func TestApply_ScalesPerTier(t *testing.T) {
	m := New(0.5, 4.0)

	t.Run("one tier halves duration and quadruples power", func(t *testing.T) {
		dur, eut := m.Apply(100, 32, 1)
		assert.Equal(t, 50, dur)
		assert.Equal(t, 128.0, eut)
	})

	t.Run("duration floors via floor then clamps at one tick", func(t *testing.T) {
		dur, _ := m.Apply(5, 8, 1)
		assert.Equal(t, 2, dur) // floor(2.5)

		dur, _ = m.Apply(5, 8, 10)
		assert.Equal(t, 1, dur)
	})
}

func TestApply_Monotonic(t *testing.T) {
	m := New(0.5, 4.0)

	prevDur, prevEUT := m.Apply(600, 16, 0)
	for tiers := 1; tiers <= 12; tiers++ {
		dur, eut := m.Apply(600, 16, tiers)
		assert.LessOrEqual(t, dur, prevDur, "duration must never increase with tier")
		assert.GreaterOrEqual(t, eut, prevEUT, "power must never decrease with tier")
		assert.GreaterOrEqual(t, dur, 1)
		prevDur, prevEUT = dur, eut
	}
}

func TestTierIndex(t *testing.T) {
	assert.Equal(t, 0, TierIndex("ULV"))
	assert.Equal(t, 1, TierIndex("LV"))
	assert.Equal(t, 13, TierIndex("UXV"))
	assert.Equal(t, -1, TierIndex("MAX"))
	assert.Equal(t, -1, TierIndex(""))
}

func TestTiersBetween(t *testing.T) {
	assert.Equal(t, 2, TiersBetween("LV", "HV"))
	assert.Equal(t, 0, TiersBetween("LV", "LV"))
	assert.Equal(t, 0, TiersBetween("HV", "LV"), "selection below minimum clamps to zero")
	assert.Equal(t, 0, TiersBetween("", "HV"), "unknown minimum disables overclock")
}

func TestRatePerSecond(t *testing.T) {
	assert.Equal(t, 0.2, RatePerSecond(1, 100))
	assert.Equal(t, 0.4, RatePerSecond(1, 50))
	assert.Equal(t, 10.0, RatePerSecond(1000, 2000))
}
