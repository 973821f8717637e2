package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"

	"fantasy-coach/internal/logger"
	"fantasy-coach/internal/rawstore"
)

const (
	defaultBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"
	userAgent      = "fantasy-coach/1.0"

	// settingsTTL bounds how long a pre-draft settings payload is served
	// from memory before the API is asked again.
	settingsTTL = 5 * time.Minute
)

// CorePositions are the position filters queried when no explicit position
// is given.
var CorePositions = []string{"QB", "RB", "WR", "TE", "DEF", "K"}

// Client wraps the Yahoo Fantasy API for a single league. It owns the
// credential lifecycle, the retry policy, and response normalization; callers
// get either a payload or a classified *APIError. All state lives on the
// struct, nothing ambient.
type Client struct {
	http      *resty.Client
	tokens    oauth2.TokenSource
	leagueKey string
	retry     RetryPolicy
	log       logger.Logger

	// Raw is optional; when set, successful payloads are mirrored to disk.
	Raw *rawstore.Store

	// Pace is the randomized delay ceiling between successive per-position
	// pool calls; see AvailablePlayers.
	Pace time.Duration

	settingsCache *expirable.LRU[string, []byte]
}

// Option mutates a Client under construction.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.http.SetBaseURL(u) }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

func WithRawStore(s *rawstore.Store) Option {
	return func(c *Client) { c.Raw = s }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient builds a client for leagueKey using tokens for auth.
func NewClient(leagueKey string, tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(20 * time.Second).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		tokens:        tokens,
		leagueKey:     leagueKey,
		retry:         DefaultRetryPolicy(),
		log:           logger.New(nil),
		Pace:          300 * time.Millisecond,
		settingsCache: expirable.NewLRU[string, []byte](4, nil, settingsTTL),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs one authenticated GET against path, classifying any failure.
// It does not retry; see fetch.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		var apiErr *APIError
		if asAPIError(err, &apiErr) {
			apiErr.Endpoint = path
			return nil, apiErr
		}
		return nil, &APIError{Kind: KindAuth, Endpoint: path, Description: err.Error(), Err: err}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetQueryParam("format", "json").
		Get(path)
	if err != nil {
		// Transport-level failures (timeouts, resets) are timeout-like and
		// worth a retry.
		return nil, &APIError{Kind: KindTransient, Endpoint: path, Description: err.Error(), Err: err}
	}

	body := resp.Body()
	if resp.IsError() {
		kind := classifyStatus(resp.StatusCode())
		apiErr := normalizeError(kind, path, body, fmt.Errorf("GET %s: %s", path, resp.Status()))
		if kind != KindAuth && isAuthText(apiErr.Description+" "+string(body)) {
			apiErr.Kind = KindAuth
		}
		return nil, apiErr
	}

	if c.Raw != nil {
		rel := rawKey(path)
		if err := c.Raw.Write(rel, body); err != nil {
			c.log.Warn("raw payload write failed", "path", rel, "error", err)
		}
	}
	return body, nil
}

// fetch runs get under the retry policy. When the retry budget is exhausted
// on a transient failure and a mirrored payload exists, the stale mirror is
// served instead. Auth and unknown failures never fall back.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	body, err := doWithRetry(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, path)
	})
	if err == nil {
		return body, nil
	}

	var apiErr *APIError
	if c.Raw != nil && asAPIError(err, &apiErr) && apiErr.Kind == KindTransient {
		rel := rawKey(path)
		if c.Raw.Exists(rel) {
			if stale, readErr := c.Raw.Read(rel); readErr == nil {
				c.log.Warn("api unavailable, serving stale mirrored payload", "path", rel)
				return stale, nil
			}
		}
	}
	return nil, err
}

func rawKey(path string) string {
	return strings.TrimPrefix(path, "/") + ".json"
}

func (c *Client) leaguePath(sub string) string {
	return "/league/" + url.PathEscape(c.leagueKey) + sub
}

// Standings returns the league standings payload.
func (c *Client) Standings(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath("/standings"))
}

// Teams returns the league team list payload.
func (c *Client) Teams(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath("/teams"))
}

// Matchups returns the scoreboard payload for week.
func (c *Client) Matchups(ctx context.Context, week int) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath(fmt.Sprintf("/scoreboard;week=%d", week)))
}

// FreeAgents returns the free-agent pool payload for one position filter.
func (c *Client) FreeAgents(ctx context.Context, pos string) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath(";out=players/players;status=FA;position="+url.QueryEscape(pos)))
}

// Waivers returns the waiver-wire payload.
func (c *Client) Waivers(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath(";out=players/players;status=W"))
}

// Players returns the full league player collection payload.
func (c *Client) Players(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath("/players"))
}

// DraftResults returns the draft results payload.
func (c *Client) DraftResults(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath("/draftresults"))
}

// Transactions returns the league transactions payload.
func (c *Client) Transactions(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.leaguePath("/transactions"))
}

// Settings returns the league settings payload. Results are cached for a
// short TTL, but only while the league is pre-draft: in-draft and post-draft
// settings are volatile and always fetched fresh.
func (c *Client) Settings(ctx context.Context) ([]byte, error) {
	if b, ok := c.settingsCache.Get(c.leagueKey); ok {
		return b, nil
	}
	body, err := c.fetch(ctx, c.leaguePath("/settings"))
	if err != nil {
		return nil, err
	}
	if DraftStatus(body) == "predraft" {
		c.settingsCache.Add(c.leagueKey, body)
	}
	return body, nil
}

// DraftStatus pulls the league draft phase out of a settings or metadata
// payload; empty when absent.
func DraftStatus(body []byte) string {
	return firstNonEmpty(
		jsonString(body, "fantasy_content.league.0.draft_status"),
		jsonString(body, "draft_status"),
	)
}
