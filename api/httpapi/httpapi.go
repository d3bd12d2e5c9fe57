package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	wsadapter "lifesystem/adapters/websocket"
	"lifesystem/core"
	"lifesystem/engine"
	"lifesystem/realtime"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP API surface.
type Options struct {
	// PathPrefix, if set, is prepended to all routes (e.g., "/api").
	PathPrefix string
	// AllowCORSOrigin, if non-empty, enables basic CORS with the given origin (use "*" for any).
	AllowCORSOrigin string
	// APIKeys, if non-empty, enables static API key auth via Authorization: Bearer or X-API-Key.
	APIKeys []string
	// RateLimitEnabled toggles rate limiting.
	RateLimitEnabled bool
	// RateLimitRPM is the allowed requests per minute per client key.
	RateLimitRPM int
	// RateLimitBurst defines burst capacity.
	RateLimitBurst int
	// RateLimitCleanup evicts idle client buckets after this long. Zero keeps them.
	RateLimitCleanup time.Duration
}

type api struct {
	eng *engine.Engine
}

// NewMux builds an http.Handler exposing the engine as a JSON API and a
// WebSocket notification stream.
// Routes:
//   - GET  {prefix}/healthz, /state, /stats, /quests
//   - POST {prefix}/xp, /workouts, /workouts/session, /exercises/{type}
//   - POST {prefix}/meals, /sleep, /journal, /meditation, /checkin
//   - POST {prefix}/urges, /relapse?confirm=true
//   - POST {prefix}/emergency/{tool}, /recovery-tools/{tool}
//   - POST {prefix}/recovery/{track}/victory, /recovery/{track}/reset?confirm=true
//   - WS   {prefix}/ws
func NewMux(eng *engine.Engine, hub *realtime.Hub, opts Options) http.Handler {
	a := &api{eng: eng}
	mux := http.NewServeMux()
	route := func(method, path string, h http.HandlerFunc) {
		mux.HandleFunc(method+" "+withPrefix(opts.PathPrefix, path), h)
	}

	route(http.MethodGet, "/healthz", a.health)
	route(http.MethodGet, "/state", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, eng.State()) })
	route(http.MethodGet, "/stats", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, eng.Stats()) })
	route(http.MethodGet, "/quests", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, eng.Quests()) })

	route(http.MethodPost, "/xp", a.awardXP)
	route(http.MethodPost, "/workouts", record(eng.LogDetailedWorkout))
	route(http.MethodPost, "/workouts/session", record(eng.LogWorkoutSession))
	route(http.MethodPost, "/exercises/{type}", a.quickExercise)
	route(http.MethodPost, "/meals", record(eng.LogMeal))
	route(http.MethodPost, "/sleep", record(eng.LogSleep))
	route(http.MethodPost, "/journal", record(eng.LogJournal))

	route(http.MethodPost, "/urges", a.action(eng.DefeatUrge))
	route(http.MethodPost, "/meditation", a.action(eng.Meditate))
	route(http.MethodPost, "/checkin", a.action(eng.CheckIn))
	route(http.MethodPost, "/relapse", a.relapse)
	route(http.MethodPost, "/emergency/{tool}", a.tool(eng.UseEmergencyTool))
	route(http.MethodPost, "/recovery-tools/{tool}", a.tool(eng.UseRecoveryTool))
	route(http.MethodPost, "/recovery/{track}/victory", a.victory)
	route(http.MethodPost, "/recovery/{track}/reset", a.resetTrack)

	if hub != nil {
		mux.Handle(withPrefix(opts.PathPrefix, "/ws"), wsadapter.Handler(hub))
	}

	var handler http.Handler = mux
	if opts.AllowCORSOrigin != "" {
		handler = withCORS(handler, opts.AllowCORSOrigin)
	}
	if len(opts.APIKeys) > 0 {
		handler = withAPIKeyAuth(handler, opts.APIKeys)
	}
	if opts.RateLimitEnabled && opts.RateLimitRPM > 0 && opts.RateLimitBurst > 0 {
		handler = withRateLimit(handler, opts.RateLimitRPM, opts.RateLimitBurst, opts.RateLimitCleanup)
	}
	return handler
}

// health reports whether saves reach storage. A memory-only engine still
// serves every route, so it is degraded rather than down.
func (a *api) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "healthy",
		"checks": map[string]any{"storage": "ok"},
	}
	if a.eng.MemoryOnly() {
		status["status"] = "degraded"
		status["checks"] = map[string]any{"storage": "memory_only"}
	}
	writeJSON(w, http.StatusOK, status)
}

type xpRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

func (a *api) awardXP(w http.ResponseWriter, r *http.Request) {
	var req xpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.eng.AwardXP(r.Context(), req.Amount, req.Source); err != nil {
		writeEngineError(w, err)
		return
	}
	a.ok(w)
}

func (a *api) quickExercise(w http.ResponseWriter, r *http.Request) {
	rec, err := a.eng.LogQuickExercise(r.Context(), r.PathValue("type"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *api) relapse(w http.ResponseWriter, r *http.Request) {
	if err := a.eng.Relapse(r.Context(), confirmed(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	a.ok(w)
}

func (a *api) victory(w http.ResponseWriter, r *http.Request) {
	if err := a.eng.RecordVictory(r.Context(), core.Track(r.PathValue("track"))); err != nil {
		writeEngineError(w, err)
		return
	}
	a.ok(w)
}

func (a *api) resetTrack(w http.ResponseWriter, r *http.Request) {
	if err := a.eng.ResetTrack(r.Context(), core.Track(r.PathValue("track")), confirmed(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	a.ok(w)
}

func (a *api) action(fn func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			writeEngineError(w, err)
			return
		}
		a.ok(w)
	}
}

func (a *api) tool(fn func(ctx context.Context, tool string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context(), r.PathValue("tool")); err != nil {
			writeEngineError(w, err)
			return
		}
		a.ok(w)
	}
}

func (a *api) ok(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": a.eng.Stats()})
}

// record adapts an engine log method to a handler that decodes In from the
// body and answers 201 with the stored record.
func record[In, Out any](fn func(ctx context.Context, in In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if !decodeJSON(w, r, &in) {
			return
		}
		out, err := fn(r.Context(), in)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

// Helpers

func withPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	if prefix[len(prefix)-1] == '/' {
		return prefix[:len(prefix)-1] + path
	}
	return prefix + path
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, details any) {
	writeJSON(w, status, apiError{Code: code, Message: msg, Details: details})
}

func writeEngineError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(),
			map[string]string{"field": verr.Field, "reason": verr.Reason})
	case errors.Is(err, core.ErrNotConfirmed):
		writeError(w, http.StatusConflict, "confirmation_required", err.Error(), nil)
	case errors.Is(err, core.ErrUnknownTrack):
		writeError(w, http.StatusNotFound, "unknown_track", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}
