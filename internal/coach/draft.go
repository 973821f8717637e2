package coach

import "sort"

// qualityCut is the projection floor a player must clear to count toward
// positional scarcity.
const qualityCut = 10.0

// tierBreak is the projection drop between consecutive players that starts a
// new tier.
const tierBreak = 1.8

// ScoredCandidate is a draft candidate with its composite score attached.
type ScoredCandidate struct {
	DraftCandidate
	Score float64 `json:"score"`
}

// SuggestPicks ranks the available pool for an on-the-clock decision:
// projection plus a scarcity bonus (fewer quality options left at the
// position), plus a need bonus when the roster still wants a starter there,
// minus a reach penalty for taking a player well past their ADP. Returns the
// top five.
func SuggestPicks(available []DraftCandidate, rosterNeeds map[string]int) []ScoredCandidate {
	remainingQuality := make(map[string]int)
	for _, p := range available {
		if p.Projected >= qualityCut {
			remainingQuality[p.Position]++
		}
	}

	score := func(p DraftCandidate) float64 {
		quality := remainingQuality[p.Position]
		if quality < 1 {
			quality = 1
		}
		scarcity := 2.0 / float64(quality)
		needBonus := 0.5
		if rosterNeeds[p.Position] > 0 {
			needBonus = 2.5
		}
		reach := p.PickNum - p.ADPPick
		if reach < 0 {
			reach = 0
		}
		return p.Projected + scarcity + needBonus - 0.02*float64(reach)
	}

	ranked := make([]ScoredCandidate, 0, len(available))
	for _, p := range available {
		ranked = append(ranked, ScoredCandidate{DraftCandidate: p, Score: score(p)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

// TierPlayers groups same-position players into contiguous tiers of strictly
// descending projection, starting a new tier whenever the drop between
// consecutive players exceeds the break threshold.
func TierPlayers(pool []DraftCandidate) [][]DraftCandidate {
	byPos := make(map[string][]DraftCandidate)
	order := make([]string, 0, 8)
	for _, p := range pool {
		if _, seen := byPos[p.Position]; !seen {
			order = append(order, p.Position)
		}
		byPos[p.Position] = append(byPos[p.Position], p)
	}

	tiers := make([][]DraftCandidate, 0, len(pool)/2+1)
	for _, pos := range order {
		players := byPos[pos]
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].Projected > players[j].Projected
		})
		var current []DraftCandidate
		for i, p := range players {
			if i > 0 && players[i-1].Projected-p.Projected > tierBreak {
				tiers = append(tiers, current)
				current = nil
			}
			current = append(current, p)
		}
		if len(current) > 0 {
			tiers = append(tiers, current)
		}
	}
	return tiers
}
