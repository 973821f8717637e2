package yahoo

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Sort orders for the merged available pool.
const (
	// SortRecent approximates "added recently": least owned first, then name.
	SortRecent = "AR"
	// SortOwned is percent owned descending, then name.
	SortOwned = "POWN"
	// SortName is alphabetical by last name, then first.
	SortName = "NAME"
)

// PoolOptions filters and shapes the merged available-player pool.
type PoolOptions struct {
	// Position limits the pool to one Yahoo position (QB,RB,WR,TE,DEF,K).
	// Empty queries all core positions.
	Position string
	// IncludeWaivers merges players currently on waivers into the pool.
	IncludeWaivers bool
	// Search is a case-insensitive substring match on player name.
	Search string
	// Sort is one of SortRecent (default), SortOwned, SortName.
	Sort string
	// Limit caps the result count when >= 0; -1 means no cap.
	Limit int
}

// DefaultPoolOptions returns the options the `available` command starts from.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{IncludeWaivers: true, Sort: SortRecent, Limit: -1}
}

// AvailablePlayers builds one deduplicated candidate list from the free-agent
// pool (per position) and the waiver wire. Per-source fetch failures degrade
// to an empty contribution so a flaky position query never sinks the whole
// pool. Between successive per-position calls a short randomized pause keeps
// the request pattern from tripping rate limits.
func (c *Client) AvailablePlayers(ctx context.Context, opts PoolOptions) ([]PlayerRow, error) {
	positions := CorePositions
	if opts.Position != "" {
		positions = []string{opts.Position}
	}

	pool := make([]PlayerRow, 0, 64)
	seen := make(map[string]bool)

	for i, pos := range positions {
		if i > 0 {
			if err := c.pace(ctx); err != nil {
				return nil, err
			}
		}
		body, err := c.FreeAgents(ctx, pos)
		if err != nil {
			c.log.Debug("free agent fetch failed, skipping position", "pos", pos, "error", err)
			continue
		}
		for _, frag := range extractPlayers(body) {
			row := normalizePlayer(frag, FreeAgent)
			if row.PlayerID != "" && seen[row.PlayerID] {
				continue
			}
			if row.PlayerID != "" {
				seen[row.PlayerID] = true
			}
			pool = append(pool, row)
		}
	}

	if opts.IncludeWaivers {
		body, err := c.Waivers(ctx)
		if err != nil {
			c.log.Debug("waiver fetch failed, skipping waivers", "error", err)
		} else {
			for _, frag := range extractPlayers(body) {
				row := normalizePlayer(frag, Waiver)
				if row.PlayerID == "" || seen[row.PlayerID] {
					continue
				}
				// Waiver entries honor the position filter by exact match
				// against eligibility.
				if opts.Position != "" && !contains(row.EligiblePositions, opts.Position) {
					continue
				}
				seen[row.PlayerID] = true
				pool = append(pool, row)
			}
		}
	}

	rows := filterSearch(pool, opts.Search)
	sortPool(rows, opts.Sort)
	if opts.Limit >= 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows, nil
}

// pace sleeps a random fraction of c.Pace, honoring ctx cancellation.
func (c *Client) pace(ctx context.Context) error {
	if c.Pace <= 0 {
		return nil
	}
	d := time.Duration(rand.Int63n(int64(c.Pace)))
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func filterSearch(rows []PlayerRow, search string) []PlayerRow {
	if search == "" {
		return rows
	}
	needle := strings.ToLower(search)
	out := make([]PlayerRow, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

func sortPool(rows []PlayerRow, key string) {
	switch strings.ToUpper(key) {
	case SortOwned:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].PercentOwned != rows[j].PercentOwned {
				return rows[i].PercentOwned > rows[j].PercentOwned
			}
			return rows[i].Name < rows[j].Name
		})
	case SortName:
		sort.SliceStable(rows, func(i, j int) bool {
			li, fi := splitName(rows[i].Name)
			lj, fj := splitName(rows[j].Name)
			if li != lj {
				return li < lj
			}
			return fi < fj
		})
	default: // SortRecent
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].PercentOwned != rows[j].PercentOwned {
				return rows[i].PercentOwned < rows[j].PercentOwned
			}
			return rows[i].Name < rows[j].Name
		})
	}
}

// splitName returns (last, first); single-word names count as both.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first := parts[0]
	last := first
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return last, first
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
