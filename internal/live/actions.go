package live

import "math/rand"

// Action is one canned engagement behavior the bot may perform proactively.
type Action int

const (
	ActionAskQuestion Action = iota
	ActionShareFact
	ActionTellJoke
	ActionStartTopic
	ActionShareThought
	ActionGiveOpinion
	ActionJoinConversation
	ActionCheckIn
)

var actionNames = map[Action]string{
	ActionAskQuestion:      "ask_question",
	ActionShareFact:        "share_fact",
	ActionTellJoke:         "tell_joke",
	ActionStartTopic:       "start_topic",
	ActionShareThought:     "share_thought",
	ActionGiveOpinion:      "give_opinion",
	ActionJoinConversation: "join_conversation",
	ActionCheckIn:          "check_in",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Tier buckets an activity level for action selection.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierVeryHigh
)

var tierNames = map[Tier]string{
	TierLow:      "low",
	TierMedium:   "medium",
	TierHigh:     "high",
	TierVeryHigh: "very_high",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// TierForLevel buckets an activity level. Boundaries line up with the
// frequency table so a guild's tier and cadence agree.
func TierForLevel(level float64) Tier {
	switch {
	case level <= 0.3:
		return TierLow
	case level <= 0.7:
		return TierMedium
	case level <= 1.3:
		return TierHigh
	default:
		return TierVeryHigh
	}
}

// actionWeights maps each tier to the actions allowed there and their
// integer weights. Idle guilds get topic-starters; busy guilds get
// participation and opinion actions.
var actionWeights = map[Tier]map[Action]int{
	TierLow: {
		ActionStartTopic:  3,
		ActionAskQuestion: 2,
		ActionShareFact:   2,
		ActionCheckIn:     1,
	},
	TierMedium: {
		ActionAskQuestion:  3,
		ActionShareFact:    2,
		ActionTellJoke:     2,
		ActionShareThought: 2,
		ActionStartTopic:   1,
	},
	TierHigh: {
		ActionJoinConversation: 3,
		ActionGiveOpinion:      3,
		ActionAskQuestion:      2,
		ActionTellJoke:         1,
		ActionShareThought:     1,
	},
	TierVeryHigh: {
		ActionJoinConversation: 4,
		ActionGiveOpinion:      4,
		ActionShareThought:     2,
	},
}

// pickOrder fixes the iteration order so sampling is deterministic for a
// seeded source.
var pickOrder = []Action{
	ActionAskQuestion,
	ActionShareFact,
	ActionTellJoke,
	ActionStartTopic,
	ActionShareThought,
	ActionGiveOpinion,
	ActionJoinConversation,
	ActionCheckIn,
}

// ActionWeights returns the weight table for a tier.
func ActionWeights(tier Tier) map[Action]int {
	return actionWeights[tier]
}

// PickAction draws one action from the tier's weight table using standard
// weighted sampling.
func PickAction(tier Tier, rng *rand.Rand) Action {
	weights := actionWeights[tier]
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return ActionAskQuestion
	}
	roll := rng.Intn(total)
	for _, a := range pickOrder {
		w := weights[a]
		if w <= 0 {
			continue
		}
		if roll < w {
			return a
		}
		roll -= w
	}
	return ActionAskQuestion
}
