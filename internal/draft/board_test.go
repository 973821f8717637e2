package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResults(t *testing.T) {
	t.Run("Should read a flat draft_results array sorted by pick", func(t *testing.T) {
		body := []byte(`{"draft_results": [
			{"pick": 2, "round": 1, "team_key": "nfl.l.1.t.2", "player_key": "nfl.p.200"},
			{"pick": 1, "round": 1, "team_key": "nfl.l.1.t.1", "player_key": "nfl.p.100"}
		]}`)
		picks := ParseResults(body)
		require.Len(t, picks, 2)
		assert.Equal(t, 1, picks[0].PickNum)
		assert.Equal(t, "100", picks[0].PlayerID)
		assert.Equal(t, "nfl.l.1.t.2", picks[1].TeamKey)
	})

	t.Run("Should read the fantasy_content envelope", func(t *testing.T) {
		body := []byte(`{"fantasy_content": {"league": [
			{"league_key": "nfl.l.1"},
			{"draft_results": {
				"count": 2,
				"0": {"draft_result": {"pick": 1, "round": 1, "team_key": "t1", "player_key": "nfl.p.7"}},
				"1": {"draft_result": {"pick": 2, "round": 1, "team_key": "t2", "player_key": "nfl.p.8"}}
			}}
		]}}`)
		picks := ParseResults(body)
		require.Len(t, picks, 2)
		assert.Equal(t, "7", picks[0].PlayerID)
	})

	t.Run("Should return an empty board on malformed input", func(t *testing.T) {
		assert.Empty(t, ParseResults([]byte(`nope`)))
		assert.Empty(t, ParseResults([]byte(`{"draft_results": 3}`)))
	})
}

func TestNextPick(t *testing.T) {
	assert.Equal(t, 1, NextPick(nil))
	picks := []Pick{{PickNum: 1}, {PickNum: 5}, {PickNum: 3}}
	assert.Equal(t, 6, NextPick(picks))
}

func TestSquadByTeam(t *testing.T) {
	picks := []Pick{
		{PickNum: 1, TeamKey: "t1", PlayerID: "a"},
		{PickNum: 2, TeamKey: "t2", PlayerID: "b"},
		{PickNum: 3, TeamKey: "t1", PlayerID: "c"},
	}
	squads := SquadByTeam(picks)
	assert.Equal(t, []string{"a", "c"}, squads["t1"])
	assert.Equal(t, []string{"b"}, squads["t2"])
}
