package yahoo

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Availability marks which pool a row came from.
type Availability string

const (
	FreeAgent Availability = "FA"
	Waiver    Availability = "W"
)

// PlayerRow is the flat schema every player fragment is normalized into.
// Produced fresh per query; never persisted by this package.
type PlayerRow struct {
	PlayerID          string       `json:"player_id"`
	Name              string       `json:"name"`
	Team              string       `json:"team"`
	Position          string       `json:"pos"`
	EligiblePositions []string     `json:"elig"`
	ByeWeek           int          `json:"bye"`
	PercentOwned      float64      `json:"percent_owned"`
	Status            string       `json:"status"`
	InjuryNote        string       `json:"injury_note"`
	Availability      Availability `json:"availability"`
}

// Yahoo payloads are inconsistent: the same field shows up in at least two
// shapes depending on the endpoint and collection. Each extractor below is a
// prioritized list of shape decoders; the first one that matches wins, and
// everything degrades to the zero value on missing or malformed input.

// normalizePlayer flattens one player fragment into a PlayerRow.
func normalizePlayer(p gjson.Result, avail Availability) PlayerRow {
	elig := eligiblePositions(p)
	pos := ""
	if len(elig) > 0 {
		pos = elig[0]
	}
	return PlayerRow{
		PlayerID:          playerID(p),
		Name:              playerName(p),
		Team:              stringField(p, "editorial_team_abbr"),
		Position:          pos,
		EligiblePositions: elig,
		ByeWeek:           byeWeek(p),
		PercentOwned:      percentOwned(p),
		Status:            stringField(p, "status"),
		InjuryNote:        stringField(p, "injury_note"),
		Availability:      avail,
	}
}

// coercePlayers unwraps a list of fragments that are either bare player
// objects or {"player": {...}} wrappers.
func coercePlayers(items gjson.Result) []gjson.Result {
	if !items.IsArray() {
		return nil
	}
	out := make([]gjson.Result, 0, 16)
	for _, it := range items.Array() {
		if !it.IsObject() {
			continue
		}
		if inner := it.Get("player"); inner.IsObject() {
			out = append(out, inner)
			continue
		}
		out = append(out, it)
	}
	return out
}

// fromKV digs through Yahoo's kv-array shape:
// {"0": {"...": [{"name": "status", "value": "Q"}, ...]}}. Falls back to a
// direct field lookup.
func fromKV(p gjson.Result, key string) gjson.Result {
	if kv := p.Get("0"); kv.IsObject() {
		var found gjson.Result
		kv.ForEach(func(_, maybeList gjson.Result) bool {
			if !maybeList.IsArray() {
				return true
			}
			for _, item := range maybeList.Array() {
				if item.Get("name").String() == key {
					found = item.Get("value")
					return false
				}
			}
			return true
		})
		if found.Exists() {
			return found
		}
	}
	return p.Get(key)
}

func stringField(p gjson.Result, key string) string {
	v := fromKV(p, key)
	if v.Type == gjson.String || v.Type == gjson.Number {
		return v.String()
	}
	return ""
}

// playerID tries, in order: a scalar player_id, the nested
// player_id.0.player_id shape, and the kv-array shape.
func playerID(p gjson.Result) string {
	if v := p.Get("player_id"); v.Type == gjson.String || v.Type == gjson.Number {
		return v.String()
	}
	if v := p.Get("player_id.0.player_id"); v.Exists() {
		return v.String()
	}
	if v := fromKV(p, "player_id"); v.Type == gjson.String || v.Type == gjson.Number {
		return v.String()
	}
	return ""
}

// playerName handles a plain string, the {"first": ..., "last": ...} object,
// and the same two shapes nested under "0".
func playerName(p gjson.Result) string {
	name := p.Get("0.name")
	if !name.Exists() {
		name = p.Get("name")
	}
	switch {
	case name.Type == gjson.String:
		return name.String()
	case name.IsObject():
		first := name.Get("first").String()
		last := name.Get("last").String()
		full := name.Get("full").String()
		if full != "" {
			return full
		}
		return strings.TrimSpace(first + " " + last)
	}
	return ""
}

// eligiblePositions handles a flat list of strings, a list of
// {"position": X} objects, and an indexed mapping {"0": {"position": X}}.
func eligiblePositions(p gjson.Result) []string {
	ep := p.Get("eligible_positions")
	if !ep.Exists() {
		return nil
	}
	if ep.IsArray() {
		out := make([]string, 0, 4)
		for _, item := range ep.Array() {
			switch {
			case item.Type == gjson.String:
				out = append(out, item.String())
			case item.IsObject():
				if pos := item.Get("position"); pos.Type == gjson.String {
					out = append(out, pos.String())
				}
			}
		}
		return out
	}
	if ep.IsObject() {
		out := make([]string, 0, 4)
		for i := 0; ; i++ {
			pos := ep.Get(strconv.Itoa(i) + ".position")
			if !pos.Exists() {
				break
			}
			out = append(out, pos.String())
		}
		return out
	}
	return nil
}

// byeWeek handles a scalar and the {"week": "14"} object.
func byeWeek(p gjson.Result) int {
	bw := fromKV(p, "bye_weeks")
	if bw.IsObject() {
		bw = bw.Get("week")
	}
	switch bw.Type {
	case gjson.Number:
		return int(bw.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(bw.String()))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// percentOwned handles a scalar and the {"value": ...} object, in both the
// direct and kv-array positions.
func percentOwned(p gjson.Result) float64 {
	po := p.Get("percent_owned")
	if !po.Exists() {
		po = fromKV(p, "percent_owned")
	}
	if po.IsObject() {
		inner := po.Get("value")
		if !inner.Exists() {
			inner = po.Get("percent_owned")
		}
		po = inner
	}
	switch po.Type {
	case gjson.Number:
		return po.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(po.String()), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// extractPlayers locates the player collection inside a raw payload. Two
// shapes are known: a top-level "players" array, and the fantasy_content
// envelope where players is an object keyed "0".."n" plus a "count".
func extractPlayers(body []byte) []gjson.Result {
	if !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)
	if pl := root.Get("players"); pl.IsArray() {
		return coercePlayers(pl)
	}
	pl := root.Get("fantasy_content.league.1.players")
	if !pl.IsObject() {
		return nil
	}
	out := make([]gjson.Result, 0, int(pl.Get("count").Int()))
	for i := 0; ; i++ {
		entry := pl.Get(strconv.Itoa(i))
		if !entry.Exists() {
			break
		}
		if inner := entry.Get("player"); inner.Exists() {
			entry = inner
		}
		out = append(out, entry)
	}
	return out
}
