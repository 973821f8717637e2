package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fantasy-coach/internal/coach"
	"fantasy-coach/internal/draft"
	"fantasy-coach/internal/render"
	"fantasy-coach/internal/yahoo"
)

// ping checks API reachability and prints a small health table.
func (a *app) ping(ctx context.Context) error {
	teams, err := a.client.Teams(ctx)
	if err != nil {
		return err
	}
	settings, err := a.client.Settings(ctx)
	if err != nil {
		return err
	}
	render.KV(a.out, "Yahoo Health", []string{"League", "Teams", "Scoring"}, map[string]string{
		"League":  a.cfg.LeagueKey,
		"Teams":   strconv.Itoa(yahoo.TeamCount(teams)),
		"Scoring": yahoo.ScoringType(settings),
	})
	render.Success(a.out, "Yahoo API reachable.")
	return nil
}

// available lists the merged FA+waiver pool.
func (a *app) available(ctx context.Context, opts yahoo.PoolOptions, jsonl bool) error {
	rows, err := a.client.AvailablePlayers(ctx, opts)
	if err != nil {
		return err
	}
	if jsonl {
		enc := json.NewEncoder(a.out)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	if len(rows) == 0 {
		render.Warn(a.out, "No available players found with the given filters.")
		return nil
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		inj := r.InjuryNote
		if len(inj) > 20 {
			inj = inj[:20]
		}
		table = append(table, []string{
			r.Name, r.Position, strings.Join(r.EligiblePositions, ","), r.Team,
			strconv.Itoa(r.ByeWeek), fmt.Sprintf("%.1f", r.PercentOwned),
			r.Status, inj, string(r.Availability), r.PlayerID,
		})
	}
	render.Table(a.out, "Available Players",
		[]string{"Player", "Pos", "Elig", "Team", "Bye", "%Own", "Stat", "Inj", "Avail", "ID"}, table)
	render.Success(a.out, fmt.Sprintf("Shown: %d (pos=%s, sort=%s)", len(rows), orAny(opts.Position), opts.Sort))
	return nil
}

func orAny(s string) string {
	if s == "" {
		return "ANY"
	}
	return s
}

// lineup scores the cached roster and prints slot assignments.
func (a *app) lineup(ctx context.Context) error {
	week := a.currentWeek(ctx)
	players, err := a.cache.Players(ctx)
	if err != nil {
		return err
	}
	proj, err := a.cache.ProjectionsForWeek(ctx, week)
	if err != nil {
		return err
	}
	roster := make([]coach.RosterPlayer, 0, len(players))
	names := make(map[string]string, len(players))
	for _, p := range players {
		roster = append(roster, coach.RosterPlayer{
			PlayerID:  p.ID,
			Position:  p.Position,
			Projected: proj[p.ID],
			Status:    p.Status,
		})
		names[p.ID] = p.Name
	}
	feats := coach.BuildLineupFeatures(roster, nil)
	sug := coach.SuggestLineup(feats, defaultSlots)
	if len(sug) == 0 {
		render.Warn(a.out, "No lineup suggestions yet (cache empty; run `sync` or wait for the poller).")
		return nil
	}
	table := make([][]string, 0, len(sug))
	for _, s := range sug {
		table = append(table, []string{names[s.PlayerID], s.Slot, fmt.Sprintf("%.2f", s.Score), s.PlayerID})
	}
	render.Table(a.out, "Lineup Suggestions", []string{"Player", "Slot", "Score", "ID"}, table)
	return nil
}

// waivers ranks the available pool by cached projection.
func (a *app) waivers(ctx context.Context) error {
	week := a.currentWeek(ctx)
	rows, err := a.client.AvailablePlayers(ctx, yahoo.DefaultPoolOptions())
	if err != nil {
		return err
	}
	proj, err := a.cache.ProjectionsForWeek(ctx, week)
	if err != nil {
		return err
	}
	feats := make([]coach.LineupFeature, 0, len(rows))
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		feats = append(feats, coach.LineupFeature{
			PlayerID:  r.PlayerID,
			Position:  r.Position,
			Projected: proj[r.PlayerID],
			Injury:    r.Status,
		})
		names[r.PlayerID] = r.Name
	}
	top := coach.SuggestWaivers(feats)
	if len(top) == 0 {
		render.Warn(a.out, "No waiver suggestions yet (pool empty).")
		return nil
	}
	table := make([][]string, 0, len(top))
	for _, f := range top {
		table = append(table, []string{names[f.PlayerID], f.Position, fmt.Sprintf("%.1f", f.Projected), f.PlayerID})
	}
	render.Table(a.out, "Top Waiver Targets", []string{"Player", "Pos", "Proj", "ID"}, table)
	return nil
}

// draft ranks the available pool for an on-the-clock pick. When pickNum is
// zero the completed draft results decide which overall pick is up.
func (a *app) draft(ctx context.Context, pickNum int) error {
	week := a.currentWeek(ctx)
	if pickNum <= 0 {
		if body, err := a.client.DraftResults(ctx); err == nil {
			pickNum = draft.NextPick(draft.ParseResults(body))
		} else {
			a.log.Debug("draft results unavailable, skipping reach penalty", "error", err)
		}
	}
	rows, err := a.client.AvailablePlayers(ctx, yahoo.DefaultPoolOptions())
	if err != nil {
		return err
	}
	proj, err := a.cache.ProjectionsForWeek(ctx, week)
	if err != nil {
		return err
	}
	available := poolToCandidates(rows, proj, pickNum)
	needs, err := a.rosterNeeds(ctx)
	if err != nil {
		return err
	}
	top := coach.SuggestPicks(available, needs)
	if len(top) == 0 {
		render.Warn(a.out, "No draft suggestions yet (empty pool).")
		return nil
	}
	table := make([][]string, 0, len(top))
	for _, c := range top {
		table = append(table, []string{c.Name, c.Position, fmt.Sprintf("%.1f", c.Projected), fmt.Sprintf("%.2f", c.Score), c.PlayerID})
	}
	render.Table(a.out, "Draft Picks (Top 5)", []string{"Player", "Pos", "Proj", "Score", "ID"}, table)
	return nil
}

// tiers prints positional tiers over the available pool.
func (a *app) tiers(ctx context.Context) error {
	week := a.currentWeek(ctx)
	rows, err := a.client.AvailablePlayers(ctx, yahoo.DefaultPoolOptions())
	if err != nil {
		return err
	}
	proj, err := a.cache.ProjectionsForWeek(ctx, week)
	if err != nil {
		return err
	}
	tiers := coach.TierPlayers(poolToCandidates(rows, proj, 0))
	if len(tiers) == 0 {
		render.Warn(a.out, "No tiers yet (empty pool).")
		return nil
	}
	table := make([][]string, 0, len(rows))
	for i, tier := range tiers {
		for _, p := range tier {
			table = append(table, []string{strconv.Itoa(i + 1), p.Name, p.Position, fmt.Sprintf("%.1f", p.Projected)})
		}
	}
	render.Table(a.out, "Positional Tiers", []string{"Tier", "Player", "Pos", "Proj"}, table)
	return nil
}

func poolToCandidates(rows []yahoo.PlayerRow, proj map[string]float64, pickNum int) []coach.DraftCandidate {
	out := make([]coach.DraftCandidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, coach.DraftCandidate{
			PlayerID:  r.PlayerID,
			Name:      r.Name,
			Position:  r.Position,
			Projected: proj[r.PlayerID],
			PickNum:   pickNum,
		})
	}
	return out
}

// rosterNeeds counts how many starters each slot still wants versus the
// cached roster.
func (a *app) rosterNeeds(ctx context.Context) (map[string]int, error) {
	players, err := a.cache.Players(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[string]int)
	for _, p := range players {
		have[p.Position]++
	}
	needs := make(map[string]int, len(defaultSlots))
	for pos, want := range defaultSlots {
		if pos == "FLEX" {
			continue
		}
		if n := want - have[pos]; n > 0 {
			needs[pos] = n
		}
	}
	return needs, nil
}
