package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poolServer fakes the two pool endpoints: free agents keyed by position and
// one waiver wire.
func poolServer(t *testing.T, freeAgents map[string][]map[string]any, waivers []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var players []map[string]any
		switch {
		case strings.Contains(r.URL.Path, "status=W"):
			players = waivers
		case strings.Contains(r.URL.Path, "status=FA"):
			pos := r.URL.Path[strings.LastIndex(r.URL.Path, "position=")+len("position="):]
			players = freeAgents[pos]
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"players": players})
	}))
}

func player(id, name, team string, elig []string, owned float64) map[string]any {
	return map[string]any{
		"player_id":           id,
		"name":                name,
		"editorial_team_abbr": team,
		"eligible_positions":  elig,
		"percent_owned":       owned,
	}
}

func poolClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := testClient(t, srv, RetryPolicy{Attempts: 1, BaseSleep: time.Millisecond, MaxSleep: time.Millisecond})
	c.Pace = 0
	return c
}

func TestAvailablePlayers(t *testing.T) {
	t.Run("Should never contain duplicate player ids", func(t *testing.T) {
		srv := poolServer(t,
			map[string][]map[string]any{
				"RB": {player("1", "Aaron Jones", "MIN", []string{"RB"}, 40)},
				"WR": {player("2", "Jauan Jennings", "SF", []string{"WR"}, 35)},
			},
			[]map[string]any{
				player("1", "Aaron Jones", "MIN", []string{"RB"}, 40), // dup of FA pass
				player("3", "Tyjae Spears", "TEN", []string{"RB"}, 20),
			})
		defer srv.Close()

		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), DefaultPoolOptions())
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, r := range rows {
			require.False(t, seen[r.PlayerID], "duplicate id %s", r.PlayerID)
			seen[r.PlayerID] = true
		}
		assert.Len(t, rows, 3)
	})

	t.Run("Should sort POWN by non-increasing ownership", func(t *testing.T) {
		srv := poolServer(t,
			map[string][]map[string]any{"RB": {
				player("1", "A Back", "AAA", []string{"RB"}, 10),
				player("2", "B Back", "BBB", []string{"RB"}, 70),
				player("3", "C Back", "CCC", []string{"RB"}, 40),
			}},
			nil)
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "RB"
		opts.Sort = SortOwned
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := 1; i < len(rows); i++ {
			assert.LessOrEqual(t, rows[i].PercentOwned, rows[i-1].PercentOwned)
		}
	})

	t.Run("Should filter waiver entries by eligibility when a position is set", func(t *testing.T) {
		srv := poolServer(t,
			map[string][]map[string]any{"WR": {player("1", "Some Receiver", "DAL", []string{"WR"}, 12)}},
			[]map[string]any{
				player("2", "Waiver Receiver", "NYG", []string{"WR", "W/R/T"}, 9),
				player("3", "Waiver Back", "NYJ", []string{"RB"}, 9),
			})
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "WR"
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)

		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.PlayerID)
		}
		assert.ElementsMatch(t, []string{"1", "2"}, ids)
	})

	t.Run("Should apply case-insensitive name search", func(t *testing.T) {
		srv := poolServer(t,
			map[string][]map[string]any{"QB": {
				player("1", "Jordan Love", "GB", []string{"QB"}, 80),
				player("2", "Will Levis", "TEN", []string{"QB"}, 15),
			}},
			nil)
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "QB"
		opts.Search = "lOvE"
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Jordan Love", rows[0].Name)
	})

	t.Run("Should sort NAME by last name then first", func(t *testing.T) {
		srv := poolServer(t,
			map[string][]map[string]any{"TE": {
				player("1", "Sam LaPorta", "DET", []string{"TE"}, 90),
				player("2", "Tucker Kraft", "GB", []string{"TE"}, 60),
				player("3", "Dallas Goedert", "PHI", []string{"TE"}, 55),
			}},
			nil)
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "TE"
		opts.Sort = SortName
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Dallas Goedert", rows[0].Name)
		assert.Equal(t, "Tucker Kraft", rows[1].Name)
		assert.Equal(t, "Sam LaPorta", rows[2].Name)
	})

	t.Run("Should enforce the result limit after sorting", func(t *testing.T) {
		agents := make([]map[string]any, 0, 10)
		for i := 0; i < 10; i++ {
			agents = append(agents, player(fmt.Sprintf("%d", i), fmt.Sprintf("Player %d", i), "T", []string{"RB"}, float64(i)))
		}
		srv := poolServer(t, map[string][]map[string]any{"RB": agents}, nil)
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "RB"
		opts.Limit = 4
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("Should keep building the pool when one source fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "status=W") {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"players": []map[string]any{
				player("1", "Only Agent", "KC", []string{"RB"}, 5),
			}})
		}))
		defer srv.Close()

		opts := DefaultPoolOptions()
		opts.Position = "RB"
		rows, err := poolClient(t, srv).AvailablePlayers(context.Background(), opts)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}
