package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"lifesystem/core"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the Life System HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAuthToken adds an Authorization: Bearer token header to all requests (HTTP + WS).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if strings.TrimSpace(token) != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAPIKey adds an X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// WithHeader sets an arbitrary header applied to HTTP and WS calls.
func WithHeader(k, v string) Option {
	return func(c *Client) {
		if k != "" {
			c.headers.Set(k, v)
		}
	}
}

// Health probes /healthz and returns status + storage check.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &hs)
	return hs, err
}

// State fetches the full player state.
func (c *Client) State(ctx context.Context) (core.PlayerState, error) {
	var st core.PlayerState
	err := c.do(ctx, http.MethodGet, "/state", nil, &st)
	return st, err
}

// Stats fetches the dashboard view.
func (c *Client) Stats(ctx context.Context) (core.Stats, error) {
	var st core.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &st)
	return st, err
}

// Quests lists today's daily quests.
func (c *Client) Quests(ctx context.Context) ([]core.Quest, error) {
	var qs []core.Quest
	err := c.do(ctx, http.MethodGet, "/quests", nil, &qs)
	return qs, err
}

// AwardXP grants amount XP attributed to source.
func (c *Client) AwardXP(ctx context.Context, amount int, source string) (ActionResult, error) {
	body := map[string]any{"amount": amount, "source": source}
	var res ActionResult
	err := c.do(ctx, http.MethodPost, "/xp", body, &res)
	return res, err
}

func (c *Client) LogWorkout(ctx context.Context, in core.DetailedWorkoutInput) (core.Workout, error) {
	var w core.Workout
	err := c.do(ctx, http.MethodPost, "/workouts", in, &w)
	return w, err
}

func (c *Client) LogWorkoutSession(ctx context.Context, in core.WorkoutSessionInput) (core.Workout, error) {
	var w core.Workout
	err := c.do(ctx, http.MethodPost, "/workouts/session", in, &w)
	return w, err
}

func (c *Client) LogQuickExercise(ctx context.Context, exerciseType string) (core.QuickExercise, error) {
	if strings.TrimSpace(exerciseType) == "" {
		return core.QuickExercise{}, ErrEmptyName
	}
	var q core.QuickExercise
	err := c.do(ctx, http.MethodPost, "/exercises/"+url.PathEscape(exerciseType), nil, &q)
	return q, err
}

func (c *Client) LogMeal(ctx context.Context, in core.MealInput) (core.Meal, error) {
	var m core.Meal
	err := c.do(ctx, http.MethodPost, "/meals", in, &m)
	return m, err
}

func (c *Client) LogSleep(ctx context.Context, in core.SleepInput) (core.SleepLog, error) {
	var s core.SleepLog
	err := c.do(ctx, http.MethodPost, "/sleep", in, &s)
	return s, err
}

func (c *Client) LogJournal(ctx context.Context, in core.JournalInput) (core.JournalEntry, error) {
	var j core.JournalEntry
	err := c.do(ctx, http.MethodPost, "/journal", in, &j)
	return j, err
}

func (c *Client) DefeatUrge(ctx context.Context) (ActionResult, error) {
	return c.action(ctx, "/urges")
}

func (c *Client) Meditate(ctx context.Context) (ActionResult, error) {
	return c.action(ctx, "/meditation")
}

func (c *Client) CheckIn(ctx context.Context) (ActionResult, error) {
	return c.action(ctx, "/checkin")
}

// Relapse restarts the clean streak. Without confirm the server refuses
// and the error satisfies IsConfirmationRequired.
func (c *Client) Relapse(ctx context.Context, confirm bool) (ActionResult, error) {
	return c.action(ctx, "/relapse"+confirmQuery(confirm))
}

func (c *Client) UseEmergencyTool(ctx context.Context, tool string) (ActionResult, error) {
	if strings.TrimSpace(tool) == "" {
		return ActionResult{}, ErrEmptyName
	}
	return c.action(ctx, "/emergency/"+url.PathEscape(tool))
}

func (c *Client) UseRecoveryTool(ctx context.Context, tool string) (ActionResult, error) {
	if strings.TrimSpace(tool) == "" {
		return ActionResult{}, ErrEmptyName
	}
	return c.action(ctx, "/recovery-tools/"+url.PathEscape(tool))
}

func (c *Client) RecordVictory(ctx context.Context, track core.Track) (ActionResult, error) {
	return c.action(ctx, "/recovery/"+url.PathEscape(string(track))+"/victory")
}

func (c *Client) ResetTrack(ctx context.Context, track core.Track, confirm bool) (ActionResult, error) {
	return c.action(ctx, "/recovery/"+url.PathEscape(string(track))+"/reset"+confirmQuery(confirm))
}

// SubscribeEvents connects to the WebSocket stream and emits core.Event values.
// The returned channel closes when ctx is done or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan core.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, c.headers)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	out := make(chan core.Event, 32)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			var evt core.Event
			if err := conn.ReadJSON(&evt); err != nil {
				return
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			default:
				// drop if consumer is slow
			}
		}
	}()
	return out, nil
}

func (c *Client) action(ctx context.Context, path string) (ActionResult, error) {
	var res ActionResult
	err := c.do(ctx, http.MethodPost, path, nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, out)
}

func confirmQuery(confirm bool) string {
	if confirm {
		return "?confirm=true"
	}
	return ""
}

func (c *Client) applyHeaders(r *http.Request) {
	for k, vals := range c.headers {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		// leave as-is for custom schemes
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
