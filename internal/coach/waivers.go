package coach

import "sort"

// SuggestWaivers ranks free-agent features by projection alone and returns
// the top five. Unlike draft scoring this applies no scarcity or need
// adjustment; the asymmetry is inherited behavior, kept as-is.
func SuggestWaivers(freeAgents []LineupFeature) []LineupFeature {
	ranked := make([]LineupFeature, len(freeAgents))
	copy(ranked, freeAgents)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Projected > ranked[j].Projected
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}
