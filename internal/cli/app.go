package cli

import (
	"context"
	"fmt"
	"io"

	"fantasy-coach/internal/cache"
	"fantasy-coach/internal/config"
	"fantasy-coach/internal/logger"
	"fantasy-coach/internal/rawstore"
	"fantasy-coach/internal/yahoo"
)

// defaultSlots is the starting-lineup shape assumed when the league settings
// have not been synced into the cache.
var defaultSlots = map[string]int{"QB": 1, "RB": 2, "WR": 2, "TE": 1, "FLEX": 1}

// app bundles the wired collaborators every command needs.
type app struct {
	cfg    *config.Settings
	log    logger.Logger
	client *yahoo.Client
	cache  *cache.Cache
	out    io.Writer
}

// newApp loads settings, opens the cache, and builds the API client with the
// credential on file.
func newApp(ctx context.Context, out io.Writer, logLevel string, logJSON bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logJSON {
		cfg.LogJSON = true
	}
	log := logger.New(&logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	tokens, err := yahoo.NewFileTokenSource(ctx, cfg.OAuthFile)
	if err != nil {
		return nil, fmt.Errorf("yahoo credential: %w", err)
	}
	opts := []yahoo.Option{yahoo.WithLogger(log)}
	if cfg.RawRoot != "" {
		opts = append(opts, yahoo.WithRawStore(rawstore.New(cfg.RawRoot)))
	}
	client := yahoo.NewClient(cfg.LeagueKey, tokens, opts...)

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	return &app{cfg: cfg, log: log, client: client, cache: db, out: out}, nil
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
}

// currentWeek reads the synced week from the cache, defaulting to 1.
func (a *app) currentWeek(ctx context.Context) int {
	v, err := a.cache.Setting(ctx, "current_week")
	if err != nil || v == "" {
		return 1
	}
	var week int
	if _, err := fmt.Sscanf(v, "%d", &week); err != nil || week < 1 {
		return 1
	}
	return week
}
