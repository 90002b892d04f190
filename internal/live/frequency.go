package live

// Session reschedule frequencies in seconds. The table maps disjoint
// half-open activity intervals to one of six values; quiet guilds are polled
// slowly, busy guilds quickly. Breakpoints are tunable policy, but the
// mapping must stay total and monotone.
const (
	FrequencyIdle     = 30 // level <= 0.1
	FrequencyLow      = 20 // 0.1 < level <= 0.3
	FrequencyModerate = 15 // 0.3 < level <= 0.7
	FrequencyActive   = 10 // 0.7 < level <= 1.3
	FrequencyBusy     = 8  // 1.3 < level <= 1.5
	FrequencyPeak     = 6  // level > 1.5
)

// StartingFrequencySeconds is the cadence a fresh session begins with before
// its first adjustment.
const StartingFrequencySeconds = FrequencyModerate

// FrequencyForLevel returns the reschedule interval in seconds for an
// activity level. Total over all reals and non-increasing as level grows.
func FrequencyForLevel(level float64) int {
	switch {
	case level <= 0.1:
		return FrequencyIdle
	case level <= 0.3:
		return FrequencyLow
	case level <= 0.7:
		return FrequencyModerate
	case level <= 1.3:
		return FrequencyActive
	case level <= 1.5:
		return FrequencyBusy
	default:
		return FrequencyPeak
	}
}
