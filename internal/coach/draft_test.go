package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, pos string, proj float64) DraftCandidate {
	return DraftCandidate{PlayerID: id, Name: id, Position: pos, Projected: proj}
}

func TestSuggestPicks(t *testing.T) {
	t.Run("Should return at most five, best first", func(t *testing.T) {
		pool := []DraftCandidate{
			candidate("a", "RB", 18), candidate("b", "RB", 17), candidate("c", "RB", 16),
			candidate("d", "WR", 15), candidate("e", "WR", 14), candidate("f", "TE", 13),
			candidate("g", "QB", 12),
		}
		top := SuggestPicks(pool, nil)
		require.Len(t, top, 5)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
		}
	})

	t.Run("Should boost positions the roster still needs", func(t *testing.T) {
		pool := []DraftCandidate{
			candidate("rb", "RB", 12),
			candidate("wr", "WR", 12),
		}
		top := SuggestPicks(pool, map[string]int{"WR": 1})
		require.NotEmpty(t, top)
		// Same projection and scarcity; the 2.5 vs 0.5 need bonus decides.
		assert.Equal(t, "wr", top[0].PlayerID)
		assert.InDelta(t, 2.0, top[0].Score-top[1].Score, 1e-9)
	})

	t.Run("Should boost scarce positions", func(t *testing.T) {
		// Two quality RBs vs one quality TE: the TE gets 2/1 over 2/2.
		pool := []DraftCandidate{
			candidate("rb1", "RB", 12), candidate("rb2", "RB", 12),
			candidate("te", "TE", 12),
		}
		top := SuggestPicks(pool, nil)
		require.NotEmpty(t, top)
		assert.Equal(t, "te", top[0].PlayerID)
	})

	t.Run("Should penalize reaching past ADP but never reward late value", func(t *testing.T) {
		reach := candidate("reach", "RB", 12)
		reach.ADPPick = 10
		reach.PickNum = 60 // 50 picks early: -1.0
		value := candidate("value", "RB", 12)
		value.ADPPick = 60
		value.PickNum = 10 // falls to you: no bonus

		top := SuggestPicks([]DraftCandidate{reach, value}, nil)
		require.Len(t, top, 2)
		assert.Equal(t, "value", top[0].PlayerID)
		assert.InDelta(t, 1.0, top[0].Score-top[1].Score, 1e-9)
	})
}

func TestTierPlayers(t *testing.T) {
	t.Run("Should split tiers at gaps over the threshold", func(t *testing.T) {
		// A:20, B:18, C:10: both gaps exceed 1.8, so three tiers of one.
		pool := []DraftCandidate{
			candidate("A", "RB", 20), candidate("B", "RB", 18), candidate("C", "RB", 10),
		}
		tiers := TierPlayers(pool)
		require.Len(t, tiers, 3)
		assert.Equal(t, "A", tiers[0][0].PlayerID)
		assert.Equal(t, "B", tiers[1][0].PlayerID)
		assert.Equal(t, "C", tiers[2][0].PlayerID)
	})

	t.Run("Should keep close projections in one tier", func(t *testing.T) {
		pool := []DraftCandidate{
			candidate("A", "WR", 15), candidate("B", "WR", 14.1), candidate("C", "WR", 13.2),
		}
		tiers := TierPlayers(pool)
		require.Len(t, tiers, 1)
		assert.Len(t, tiers[0], 3)
	})

	t.Run("Should never put a gap over the threshold inside one tier", func(t *testing.T) {
		pool := []DraftCandidate{
			candidate("A", "RB", 22), candidate("B", "RB", 21), candidate("C", "RB", 18),
			candidate("D", "WR", 16), candidate("E", "WR", 15.5), candidate("F", "WR", 12),
		}
		for _, tier := range TierPlayers(pool) {
			for i := 1; i < len(tier); i++ {
				assert.LessOrEqual(t, tier[i-1].Projected-tier[i].Projected, tierBreak)
			}
		}
	})

	t.Run("Should tier each position independently", func(t *testing.T) {
		pool := []DraftCandidate{
			candidate("rb", "RB", 20),
			candidate("wr", "WR", 19), // within 1.8 of rb, but different position
		}
		tiers := TierPlayers(pool)
		require.Len(t, tiers, 2)
	})
}
