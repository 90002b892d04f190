package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementChance_MentionForcesOne(t *testing.T) {
	assert.Equal(t, 1.0, EngagementChance(0.05, 1.0, true))
	assert.Equal(t, 1.0, EngagementChance(0, 0, true))
	assert.Equal(t, 1.0, EngagementChance(5, 10, true))
}

func TestEngagementChance_ZeroActivity(t *testing.T) {
	assert.Equal(t, 0.0, EngagementChance(0, 1.0, false))
	assert.Equal(t, 0.0, EngagementChance(-0.5, 1.0, false))
}

func TestEngagementChance_CapHolds(t *testing.T) {
	// Large level and multiplier must never exceed the cap.
	assert.Equal(t, MaxEngagementChance, EngagementChance(10, 10, false))
	assert.Equal(t, MaxEngagementChance, EngagementChance(2.0, 5.0, false))
}

func TestEngagementChance_AlwaysInUnitInterval(t *testing.T) {
	for level := -1.0; level <= 5.0; level += 0.05 {
		for _, mult := range []float64{0, 0.5, 1.0, 2.5, 10} {
			p := EngagementChance(level, mult, false)
			assert.GreaterOrEqual(t, p, 0.0, "level=%.2f mult=%.2f", level, mult)
			assert.LessOrEqual(t, p, 1.0, "level=%.2f mult=%.2f", level, mult)
		}
	}
}

func TestEngagementChance_MultiplierScales(t *testing.T) {
	low := EngagementChance(0.5, 0.5, false)
	high := EngagementChance(0.5, 1.5, false)
	assert.Less(t, low, high)
}

func TestEngagementChance_LowActivityNearZero(t *testing.T) {
	// base 0.05 * mult 1.0 * level 0.05 = 0.0025
	p := EngagementChance(0.05, 1.0, false)
	assert.InDelta(t, 0.0025, p, 1e-9)
}
