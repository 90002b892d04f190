package live

// MaxEngagementChance caps the proactive-speech probability for non-mention
// cases so the bot never dominates a channel.
const MaxEngagementChance = 0.85

// MentionWindow is how many recent buffered messages count as "recent" when
// checking for a direct mention.
const MentionWindow = 5

// baseChance is the per-tier base probability factor, stepped alongside the
// frequency table.
func baseChance(level float64) float64 {
	switch {
	case level <= 0.1:
		return 0.05
	case level <= 0.3:
		return 0.10
	case level <= 0.7:
		return 0.20
	case level <= 1.3:
		return 0.30
	case level <= 1.5:
		return 0.35
	default:
		return 0.40
	}
}

// EngagementChance computes the probability of speaking this cycle:
// base(level) * multiplier * level, clamped to [0, MaxEngagementChance].
// A recent direct mention forces exactly 1.0.
func EngagementChance(level, multiplier float64, mentioned bool) float64 {
	if mentioned {
		return 1.0
	}
	if level <= 0 {
		return 0
	}
	p := baseChance(level) * multiplier * level
	if p < 0 {
		return 0
	}
	if p > MaxEngagementChance {
		return MaxEngagementChance
	}
	return p
}
