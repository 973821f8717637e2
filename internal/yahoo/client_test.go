package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-coach/internal/rawstore"
)

func settingsServer(t *testing.T, draftStatus string) (*httptest.Server, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprintf(w, `{"fantasy_content": {"league": [
			{"league_key": "nfl.l.12345", "draft_status": %q, "scoring_type": "head"},
			{"settings": {"uses_faab": "1"}}
		]}}`, draftStatus)
	}))
	return srv, &calls
}

func TestSettingsCache(t *testing.T) {
	t.Run("Should serve pre-draft settings from cache within the TTL", func(t *testing.T) {
		srv, calls := settingsServer(t, "predraft")
		defer srv.Close()
		c := poolClient(t, srv)

		for i := 0; i < 3; i++ {
			_, err := c.Settings(context.Background())
			require.NoError(t, err)
		}
		assert.EqualValues(t, 1, atomic.LoadInt64(calls))
	})

	t.Run("Should never cache in-draft or post-draft settings", func(t *testing.T) {
		for _, status := range []string{"inprogress", "postdraft", ""} {
			srv, calls := settingsServer(t, status)
			c := poolClient(t, srv)

			for i := 0; i < 2; i++ {
				_, err := c.Settings(context.Background())
				require.NoError(t, err)
			}
			assert.EqualValues(t, 2, atomic.LoadInt64(calls), "status %q must not be cached", status)
			srv.Close()
		}
	})
}

func TestDraftStatus(t *testing.T) {
	envelope := []byte(`{"fantasy_content": {"league": [{"draft_status": "predraft"}]}}`)
	assert.Equal(t, "predraft", DraftStatus(envelope))
	assert.Equal(t, "inprogress", DraftStatus([]byte(`{"draft_status": "inprogress"}`)))
	assert.Equal(t, "", DraftStatus([]byte(`{}`)))
}

func TestRawStoreMirror(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings": []}`))
	}))
	defer srv.Close()

	root := t.TempDir()
	c := poolClient(t, srv)
	c.Raw = rawstore.New(root)

	_, err := c.Standings(context.Background())
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(root, "league", "nfl.l.12345", "standings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "standings")
}

func TestStaleMirrorFallback(t *testing.T) {
	t.Run("Should serve the mirrored payload when the API stays down", func(t *testing.T) {
		var calls int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt64(&calls, 1) == 1 {
				w.Write([]byte(`{"standings": ["mirrored"]}`))
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := poolClient(t, srv)
		c.Raw = rawstore.New(t.TempDir())

		_, err := c.Standings(context.Background())
		require.NoError(t, err)

		body, err := c.Standings(context.Background())
		require.NoError(t, err)
		assert.Contains(t, string(body), "mirrored")
	})

	t.Run("Should not fall back on an auth failure", func(t *testing.T) {
		var calls int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt64(&calls, 1) == 1 {
				w.Write([]byte(`{"standings": []}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := poolClient(t, srv)
		c.Raw = rawstore.New(t.TempDir())

		_, err := c.Standings(context.Background())
		require.NoError(t, err)

		_, err = c.Standings(context.Background())
		require.Error(t, err)
		var apiErr *APIError
		require.True(t, asAPIError(err, &apiErr))
		assert.Equal(t, KindAuth, apiErr.Kind)
	})
}

func TestFileTokenSource(t *testing.T) {
	t.Run("Should classify a missing credential file as an auth failure", func(t *testing.T) {
		_, err := NewFileTokenSource(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
		var apiErr *APIError
		require.True(t, asAPIError(err, &apiErr))
		assert.Equal(t, KindAuth, apiErr.Kind)
	})

	t.Run("Should classify a file without a refresh token as an auth failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"consumer_key": "k", "consumer_secret": "s"}`), 0o600))

		_, err := NewFileTokenSource(context.Background(), path)
		var apiErr *APIError
		require.True(t, asAPIError(err, &apiErr))
		assert.Equal(t, KindAuth, apiErr.Kind)
		assert.Contains(t, apiErr.Description, "refresh token")
	})

	t.Run("Should serve a still-valid token without refreshing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		creds := fmt.Sprintf(`{
			"consumer_key": "k", "consumer_secret": "s",
			"access_token": "live", "refresh_token": "r",
			"expiry": %q
		}`, time.Now().Add(time.Hour).Format(time.RFC3339))
		require.NoError(t, os.WriteFile(path, []byte(creds), 0o600))

		src, err := NewFileTokenSource(context.Background(), path)
		require.NoError(t, err)
		tok, err := src.Token()
		require.NoError(t, err)
		assert.Equal(t, "live", tok.AccessToken)
	})
}
