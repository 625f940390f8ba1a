// Package api provides the HTTP surface of the intake chat service.
//
// It exposes the websocket chat endpoint driving the conversation flow, the
// mail-relay candidature endpoint, the song search proxy, the analysis
// endpoint, and health/metrics.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/harmos/intakebot/internal/flow"
	"github.com/harmos/intakebot/internal/mailer"
	"github.com/harmos/intakebot/internal/metrics"
	"github.com/harmos/intakebot/internal/songs"
)

// DefaultAddr is the default API listen address.
const DefaultAddr = ":8080"

// Server wires the flow controller and the boundary clients behind HTTP
// endpoints.
type Server struct {
	addr        string
	controller  *flow.Controller
	songsClient *songs.Client
	emailSender mailer.Sender
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
	limiter     *rate.Limiter
	upgrader    websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithController sets the conversation flow controller.
func WithController(c *flow.Controller) Option {
	return func(s *Server) { s.controller = c }
}

// WithSongsClient sets the song catalog client backing the search proxy.
func WithSongsClient(c *songs.Client) Option {
	return func(s *Server) { s.songsClient = c }
}

// WithEmailSender sets the transport behind the candidature endpoint.
func WithEmailSender(sender mailer.Sender) Option {
	return func(s *Server) { s.emailSender = sender }
}

// WithMetrics attaches the collector set and registers it.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSearchRateLimit bounds the song search proxy request rate.
func WithSearchRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewServer creates a Server with the given options.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{
		addr:     DefaultAddr,
		registry: prometheus.NewRegistry(),
		limiter:  rate.NewLimiter(rate.Limit(10), 20),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The chat page is served from arbitrary origins during
			// development; candidature data is not an authenticated surface.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.controller == nil {
		return nil, fmt.Errorf("api: flow controller is required")
	}
	if s.emailSender == nil {
		return nil, fmt.Errorf("api: email sender is required")
	}
	if s.metrics != nil {
		if err := s.metrics.Register(s.registry); err != nil {
			return nil, fmt.Errorf("api: failed to register metrics: %w", err)
		}
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/candidature", s.candidatureHandler)
	mux.HandleFunc("/api/songs/search", s.songSearchHandler)
	mux.HandleFunc("/api/analyze", s.analyzeHandler)
	mux.HandleFunc("/ws/chat", s.chatHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run starts the API server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("Server.Run: intake chat API listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}
