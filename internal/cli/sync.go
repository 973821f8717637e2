package cli

import (
	"context"
	"fmt"

	"fantasy-coach/internal/cache"
	"fantasy-coach/internal/render"
	"fantasy-coach/internal/yahoo"
)

// sync pulls the league player collection and refreshes the local cache.
// Projections stay whatever was last imported; this only touches identity
// and status fields.
func (a *app) sync(ctx context.Context) error {
	rows, err := a.client.AvailablePlayers(ctx, yahoo.DefaultPoolOptions())
	if err != nil {
		return err
	}
	n := 0
	for _, r := range rows {
		if r.PlayerID == "" {
			continue
		}
		err := a.cache.UpsertPlayer(ctx, cache.Player{
			ID:       r.PlayerID,
			Name:     r.Name,
			Position: r.Position,
			Team:     r.Team,
			Status:   r.Status,
		})
		if err != nil {
			return fmt.Errorf("cache player %s: %w", r.PlayerID, err)
		}
		n++
	}
	render.Success(a.out, fmt.Sprintf("Synced %d players into the cache.", n))
	return nil
}
