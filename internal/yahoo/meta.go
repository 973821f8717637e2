package yahoo

import "github.com/tidwall/gjson"

// Payload probes for the thin metadata the CLI surfaces. Same two-shape rule
// as the normalizer: the fantasy_content envelope first, then a flat body.

// TeamCount pulls the number of teams out of a teams payload.
func TeamCount(body []byte) int {
	if !gjson.ValidBytes(body) {
		return 0
	}
	root := gjson.ParseBytes(body)
	if n := root.Get("fantasy_content.league.1.teams.count"); n.Exists() {
		return int(n.Int())
	}
	if teams := root.Get("teams"); teams.IsArray() {
		return len(teams.Array())
	}
	return 0
}

// ScoringType pulls the league scoring type out of a settings payload.
func ScoringType(body []byte) string {
	return firstNonEmpty(
		jsonString(body, "fantasy_content.league.0.scoring_type"),
		jsonString(body, "scoring_type"),
	)
}
