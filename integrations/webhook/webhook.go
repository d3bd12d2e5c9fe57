package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"lifesystem/core"
)

// Sink posts engine events to configured HTTP endpoints.
// Delivery is best effort: failures are logged and never reach the engine.
type Sink struct {
	client    *http.Client
	endpoints []string
	log       *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithClient overrides the HTTP client (defaults to 2s timeout).
func WithClient(c *http.Client) Option {
	return func(s *Sink) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithLogger sets where delivery failures are reported.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a webhook sink.
func New(endpoints []string, opts ...Option) *Sink {
	s := &Sink{
		client: &http.Client{Timeout: 2 * time.Second},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.endpoints = append([]string{}, endpoints...)
	return s
}

// Endpoints returns the configured URLs.
func (s *Sink) Endpoints() []string { return append([]string(nil), s.endpoints...) }

// OnEvent posts the event JSON to every endpoint. Its signature matches an
// event bus handler.
func (s *Sink) OnEvent(ctx context.Context, e core.Event) {
	if len(s.endpoints) == 0 {
		return
	}
	body, err := json.Marshal(e)
	if err != nil {
		s.log.Warn("webhook: encode event", "type", e.Type, "error", err)
		return
	}
	for _, ep := range s.endpoints {
		s.post(ctx, ep, e.Type, body)
	}
}

func (s *Sink) post(ctx context.Context, endpoint string, typ core.EventType, body []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		s.log.Warn("webhook: build request", "endpoint", endpoint, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Lifesystem-Event", string(typ))

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("webhook: deliver", "endpoint", endpoint, "type", typ, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		s.log.Warn("webhook: rejected", "endpoint", endpoint, "type", typ, "status", resp.StatusCode)
	}
}
