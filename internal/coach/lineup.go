package coach

import (
	"math"
	"sort"
)

// LineupSlot is one assignment in a suggested lineup.
type LineupSlot struct {
	PlayerID string  `json:"player_id"`
	Slot     string  `json:"slot"`
	Score    float64 `json:"score"`
}

// flexEligible are the positions a FLEX slot accepts.
var flexEligible = map[string]bool{"RB": true, "WR": true, "TE": true}

// lineupScore is projection adjusted for opponent defense ease and injury.
// Rank 16 is neutral; easier defenses (higher rank) add, tougher subtract.
func lineupScore(f LineupFeature) float64 {
	var injuryPen float64
	switch f.Injury {
	case "O", "IR":
		injuryPen = 4.0
	case "Q", "D":
		injuryPen = 2.0
	}
	defAdj := float64(f.DefenseRank-16) * 0.1
	return f.Projected + defAdj - injuryPen
}

// SuggestLineup greedily fills the required slots in descending score order,
// then FLEX for RB/WR/TE. A slot whose count is exhausted is first-come-
// first-served: later players at that position fall through to FLEX or sit.
// No slot, FLEX included, is ever filled beyond its configured count.
func SuggestLineup(features []LineupFeature, slots map[string]int) []LineupSlot {
	ranked := make([]LineupFeature, len(features))
	copy(ranked, features)
	sort.SliceStable(ranked, func(i, j int) bool {
		return lineupScore(ranked[i]) > lineupScore(ranked[j])
	})

	filled := make(map[string]int, len(slots))
	lineup := make([]LineupSlot, 0, len(slots))
	for _, f := range ranked {
		score := math.Round(lineupScore(f)*100) / 100
		if max, ok := slots[f.Position]; ok && filled[f.Position] < max {
			lineup = append(lineup, LineupSlot{PlayerID: f.PlayerID, Slot: f.Position, Score: score})
			filled[f.Position]++
			continue
		}
		if max, ok := slots["FLEX"]; ok && filled["FLEX"] < max && flexEligible[f.Position] {
			lineup = append(lineup, LineupSlot{PlayerID: f.PlayerID, Slot: "FLEX", Score: score})
			filled["FLEX"]++
		}
	}
	return lineup
}
