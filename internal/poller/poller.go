// Package poller runs the background league poll: a light standings touch on
// the configured cadence, plus a slower draft-status check. Failure tracking
// is an explicit state value updated and returned each tick, not a counter
// captured in a closure.
package poller

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"fantasy-coach/internal/logger"
	"fantasy-coach/internal/yahoo"
)

// backoffInterval is the reduced cadence used while the API keeps flaking.
const backoffInterval = 15 * time.Minute

// muteAfter is how many consecutive failures trigger the cadence backoff.
const muteAfter = 3

// API is the slice of the client the poller needs.
type API interface {
	Standings(ctx context.Context) ([]byte, error)
	Settings(ctx context.Context) ([]byte, error)
}

// FailState tracks consecutive poll failures across ticks.
type FailState struct {
	Count int
	Muted bool
}

// Tick performs one standings poll and returns the updated state. The second
// return reports whether the cadence should change: +1 to back off, -1 to
// restore, 0 to keep the current cadence.
func Tick(ctx context.Context, api API, state FailState, log logger.Logger) (FailState, int) {
	_, err := api.Standings(ctx)
	if err == nil {
		next := FailState{}
		if state.Muted {
			log.Info("api recovered; resuming normal cadence")
			return next, -1
		}
		log.Debug("standings poll ok")
		return next, 0
	}

	next := FailState{Count: state.Count + 1, Muted: state.Muted}
	switch next.Count {
	case 1:
		log.Error("standings poll failed", "error", err)
	case 5, 10:
		log.Error(fmt.Sprintf("standings poll still failing (x%d)", next.Count), "error", err)
	}
	if next.Count >= muteAfter && !next.Muted {
		log.Warn("backing off poll cadence due to transient errors", "interval", backoffInterval)
		next.Muted = true
		return next, +1
	}
	return next, 0
}

// Poller owns the cron schedule and the failure state between ticks.
type Poller struct {
	api      API
	log      logger.Logger
	interval time.Duration

	cron  *cron.Cron
	ctx   context.Context
	mu    sync.Mutex
	state FailState
	entry cron.EntryID
}

func New(api API, interval time.Duration, log logger.Logger) *Poller {
	return &Poller{
		api:      api,
		log:      log,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start schedules the poll and draft-check jobs and begins running them. The
// first poll fires after a small jitter so restarts do not always hit at the
// top of the minute.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx = ctx
	entry, err := p.cron.AddFunc(every(p.interval), p.tick)
	if err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	p.entry = entry

	if _, err := p.cron.AddFunc(every(15*time.Minute), p.draftCheck); err != nil {
		return fmt.Errorf("schedule draft check: %w", err)
	}

	go func() {
		jitter := 10*time.Second + time.Duration(rand.Int63n(int64(8*time.Second)))
		select {
		case <-time.After(jitter):
			p.tick()
		case <-ctx.Done():
			return
		}
		p.cron.Start()
	}()
	return nil
}

// Stop halts the schedule; running ticks finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

func (p *Poller) tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, cadence := Tick(p.ctx, p.api, p.state, p.log)
	p.state = next
	switch cadence {
	case +1:
		p.reschedule(backoffInterval)
	case -1:
		p.reschedule(p.interval)
	}
}

// reschedule swaps the poll entry for one at a new cadence.
func (p *Poller) reschedule(interval time.Duration) {
	p.cron.Remove(p.entry)
	entry, err := p.cron.AddFunc(every(interval), p.tick)
	if err != nil {
		p.log.Error("reschedule failed", "error", err)
		return
	}
	p.entry = entry
}

func (p *Poller) draftCheck() {
	body, err := p.api.Settings(p.ctx)
	if err != nil {
		// Quiet by default; the standings poll already reports outages.
		p.log.Debug("draft check failed", "error", err)
		return
	}
	if yahoo.DraftStatus(body) == "inprogress" {
		p.log.Info("your draft is LIVE")
	}
}

func every(d time.Duration) string {
	return "@every " + d.String()
}
