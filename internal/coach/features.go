package coach

// LineupFeature is the read-only per-player input to lineup and waiver
// scoring. Callers build it; scorers never mutate it.
type LineupFeature struct {
	PlayerID    string  `json:"player_id"`
	Position    string  `json:"pos"`
	Projected   float64 `json:"proj"`
	DefenseRank int     `json:"def_rank"` // opponent defense rank, 1 = toughest
	Injury      string  `json:"injury"`   // Q, D, O, IR, or empty
}

// DraftCandidate extends the lineup features with draft context.
type DraftCandidate struct {
	PlayerID  string  `json:"player_id"`
	Name      string  `json:"name"`
	Position  string  `json:"pos"`
	Projected float64 `json:"proj"`
	ADPPick   int     `json:"adp_pick"`
	PickNum   int     `json:"pick_num"`
}

// RosterPlayer is the minimal roster row the feature builder consumes.
type RosterPlayer struct {
	PlayerID  string
	Position  string
	Projected float64
	Status    string
}

// neutralDefenseRank is assumed when the opponent defense is unknown.
const neutralDefenseRank = 16

// BuildLineupFeatures turns roster rows plus per-position opponent defense
// ranks into scorer inputs.
func BuildLineupFeatures(roster []RosterPlayer, opponentDefense map[string]int) []LineupFeature {
	feats := make([]LineupFeature, 0, len(roster))
	for _, p := range roster {
		rank, ok := opponentDefense[p.Position]
		if !ok {
			rank = neutralDefenseRank
		}
		feats = append(feats, LineupFeature{
			PlayerID:    p.PlayerID,
			Position:    p.Position,
			Projected:   p.Projected,
			DefenseRank: rank,
			Injury:      p.Status,
		})
	}
	return feats
}
