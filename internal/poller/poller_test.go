package poller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fantasy-coach/internal/logger"
)

type fakeAPI struct {
	standingsErr error
	settings     []byte
}

func (f *fakeAPI) Standings(context.Context) ([]byte, error) {
	if f.standingsErr != nil {
		return nil, f.standingsErr
	}
	return []byte(`{"standings": []}`), nil
}

func (f *fakeAPI) Settings(context.Context) ([]byte, error) {
	return f.settings, nil
}

func TestTick(t *testing.T) {
	ctx := context.Background()
	log := logger.New(&logger.Config{Level: "error"})

	t.Run("Should reset the failure count on success", func(t *testing.T) {
		api := &fakeAPI{}
		state, cadence := Tick(ctx, api, FailState{Count: 2}, log)
		assert.Equal(t, FailState{}, state)
		assert.Zero(t, cadence)
	})

	t.Run("Should count consecutive failures", func(t *testing.T) {
		api := &fakeAPI{standingsErr: errors.New("boom")}
		state, cadence := Tick(ctx, api, FailState{}, log)
		assert.Equal(t, 1, state.Count)
		assert.False(t, state.Muted)
		assert.Zero(t, cadence)

		state, cadence = Tick(ctx, api, state, log)
		assert.Equal(t, 2, state.Count)
		assert.Zero(t, cadence)
	})

	t.Run("Should back off after three straight failures", func(t *testing.T) {
		api := &fakeAPI{standingsErr: errors.New("boom")}
		state := FailState{Count: 2}
		state, cadence := Tick(ctx, api, state, log)
		assert.Equal(t, 3, state.Count)
		assert.True(t, state.Muted)
		assert.Equal(t, +1, cadence)

		// Already muted: keep the reduced cadence, keep counting.
		state, cadence = Tick(ctx, api, state, log)
		assert.Equal(t, 4, state.Count)
		assert.True(t, state.Muted)
		assert.Zero(t, cadence)
	})

	t.Run("Should restore cadence when the api recovers from a muted state", func(t *testing.T) {
		api := &fakeAPI{}
		state, cadence := Tick(ctx, api, FailState{Count: 6, Muted: true}, log)
		assert.Equal(t, FailState{}, state)
		assert.Equal(t, -1, cadence)
	})
}
