// Package draft reads league draft results into an ordered pick board.
package draft

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Pick is one completed draft selection.
type Pick struct {
	PickNum  int    `json:"pick"`
	Round    int    `json:"round"`
	TeamKey  string `json:"team_key"`
	PlayerID string `json:"player_id"`
}

// ParseResults extracts the pick list from a draft results payload. Same
// two-shape tolerance as the rest of the API surface: a flat
// "draft_results" array, or the fantasy_content envelope with an indexed
// mapping. Malformed input yields an empty board.
func ParseResults(body []byte) []Pick {
	if !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)

	var frags []gjson.Result
	if dr := root.Get("draft_results"); dr.IsArray() {
		frags = dr.Array()
	} else if dr := root.Get("fantasy_content.league.1.draft_results"); dr.IsObject() {
		for i := 0; ; i++ {
			entry := dr.Get(strconv.Itoa(i))
			if !entry.Exists() {
				break
			}
			frags = append(frags, entry)
		}
	}

	picks := make([]Pick, 0, len(frags))
	for _, f := range frags {
		if inner := f.Get("draft_result"); inner.IsObject() {
			f = inner
		}
		p := Pick{
			PickNum:  int(f.Get("pick").Int()),
			Round:    int(f.Get("round").Int()),
			TeamKey:  f.Get("team_key").String(),
			PlayerID: playerIDFromKey(f.Get("player_key").String()),
		}
		if p.PickNum == 0 && p.PlayerID == "" {
			continue
		}
		picks = append(picks, p)
	}
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].PickNum < picks[j].PickNum })
	return picks
}

// playerIDFromKey strips the game prefix from a player key like "nfl.p.30123".
func playerIDFromKey(key string) string {
	if key == "" {
		return ""
	}
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}

// NextPick returns the overall pick currently on the clock: one past the
// highest completed pick, or 1 for an empty board.
func NextPick(picks []Pick) int {
	max := 0
	for _, p := range picks {
		if p.PickNum > max {
			max = p.PickNum
		}
	}
	return max + 1
}

// SquadByTeam groups drafted player ids per team in pick order.
func SquadByTeam(picks []Pick) map[string][]string {
	out := make(map[string][]string)
	for _, p := range picks {
		if p.TeamKey == "" || p.PlayerID == "" {
			continue
		}
		out[p.TeamKey] = append(out[p.TeamKey], p.PlayerID)
	}
	return out
}
