// Package cli is the command surface: thin cobra wrappers plus a small REPL.
// Every error is rendered; nothing here is allowed to crash the loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fantasy-coach/internal/poller"
	"fantasy-coach/internal/render"
	"fantasy-coach/internal/yahoo"
)

func Execute() error {
	var (
		logLevel string
		logJSON  bool
	)

	root := &cobra.Command{
		Use:           "fantasy-coach",
		Short:         "Personal fantasy-football assistant for one Yahoo league",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug|info|warn|error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	withApp := func(run func(ctx context.Context, a *app, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd.OutOrStdout(), logLevel, logJSON)
			if err != nil {
				return err
			}
			defer a.Close()
			return run(cmd.Context(), a, cmd)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Quick connectivity test against the Yahoo Fantasy API",
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			return a.ping(ctx)
		}),
	})

	availableCmd := &cobra.Command{
		Use:   "available",
		Short: "List available players (free agents + waivers)",
	}
	var (
		pos    string
		search string
		sortBy string
		limit  int
		jsonl  bool
	)
	availableCmd.Flags().StringVar(&pos, "pos", "", "filter by position (QB,RB,WR,TE,DEF,K)")
	availableCmd.Flags().StringVar(&search, "search", "", "substring on player name")
	availableCmd.Flags().StringVar(&sortBy, "sort", yahoo.SortRecent, "sort: AR, POWN, NAME")
	availableCmd.Flags().IntVar(&limit, "limit", 50, "max rows (-1 for all)")
	availableCmd.Flags().BoolVar(&jsonl, "jsonl", false, "emit newline-delimited JSON instead of a table")
	availableCmd.RunE = withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
		opts := yahoo.DefaultPoolOptions()
		opts.Position = pos
		opts.Search = search
		opts.Sort = sortBy
		opts.Limit = limit
		return a.available(ctx, opts, jsonl)
	})
	root.AddCommand(availableCmd)

	root.AddCommand(&cobra.Command{
		Use:   "lineup",
		Short: "Suggest starters and FLEX from the cached roster",
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			return a.lineup(ctx)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "waivers",
		Short: "Top waiver targets by projection",
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			return a.waivers(ctx)
		}),
	})

	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "On-the-clock pick suggestions",
	}
	var pickNum int
	draftCmd.Flags().IntVar(&pickNum, "pick", 0, "your overall pick number (for the reach penalty)")
	draftCmd.RunE = withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
		return a.draft(ctx, pickNum)
	})
	root.AddCommand(draftCmd)

	root.AddCommand(&cobra.Command{
		Use:   "tiers",
		Short: "Positional tiers over the available pool",
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			return a.tiers(ctx)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Refresh the local player cache from the league",
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			return a.sync(ctx)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Interactive coach with the background league poller",
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			return a.run(ctx)
		}),
	})

	return root.Execute()
}

// run starts the poller and drops into a plain line-based REPL.
func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := poller.New(a.client, a.cfg.PollInterval, a.log)
	if err := p.Start(ctx); err != nil {
		render.Warn(a.out, fmt.Sprintf("Poller warning: %v", err))
	} else {
		defer p.Stop()
		render.Info(a.out, fmt.Sprintf("Poller running every %s.", a.cfg.PollInterval))
	}

	render.Info(a.out, "Fantasy Coach ready. Type a command.")
	a.printCommands()

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(a.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return nil
		}
		q := strings.TrimSpace(sc.Text())
		if q == "" {
			continue
		}
		low := strings.ToLower(q)

		switch {
		case low == "quit" || low == "exit" || low == "q":
			return nil
		case low == "help" || low == "?":
			a.printCommands()
		case low == "ping" || low == "health" || low == "check":
			a.tryCmd(ctx, a.ping)
		case strings.HasPrefix(low, "lineup"):
			a.tryCmd(ctx, a.lineup)
		case strings.HasPrefix(low, "waivers"):
			a.tryCmd(ctx, a.waivers)
		case strings.HasPrefix(low, "draft"):
			a.tryCmd(ctx, func(ctx context.Context) error { return a.draft(ctx, 0) })
		case strings.HasPrefix(low, "available"):
			a.tryCmd(ctx, func(ctx context.Context) error {
				return a.available(ctx, yahoo.DefaultPoolOptions(), false)
			})
		case strings.HasPrefix(low, "tiers"):
			a.tryCmd(ctx, a.tiers)
		case strings.HasPrefix(low, "sync"):
			a.tryCmd(ctx, a.sync)
		case strings.Contains(low, "who should i start"):
			render.Info(a.out, "Try `lineup` to see ranked starters and FLEX.")
		case strings.Contains(low, "who do i draft") || strings.Contains(low, "on the clock"):
			render.Info(a.out, "Try `draft` to see on-the-clock suggestions.")
		default:
			a.printCommands()
		}
	}
}

// tryCmd runs fn and renders the failure instead of propagating it, so one
// bad call never kills the loop.
func (a *app) tryCmd(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		render.Error(a.out, err)
	}
}

func (a *app) printCommands() {
	render.Info(a.out, "Commands: available, lineup, waivers, draft, tiers, sync, ping, help, quit")
}
