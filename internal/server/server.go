// Package server provides the HTTP server of the roster dashboard.
package server

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/roster/internal/server/cache"
	"github.com/agentstation/roster/internal/server/events"
	"github.com/agentstation/roster/internal/server/handlers"
	ws "github.com/agentstation/roster/internal/server/websocket"
	"github.com/agentstation/roster/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	handlers  *handlers.Handlers
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates a server over the master store in deps.
func New(deps handlers.Deps, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if deps.Master == nil {
		return nil, &errors.ValidationError{Field: "master", Message: "a master dataset is required"}
	}
	cfg = cfg.withDefaults()
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = cfg.MaxUploadBytes
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	broker.Subscribe(wsHub)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cache:  cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.CORSOrigins),
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.handlers = handlers.New(deps, s.cache, broker, wsHub, s.upgrader, logger)
	logger.Debug().
		Str("master", deps.Master.Location()).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Server instance created")
	return s, nil
}

// Start runs the event broker and the websocket hub in the background.
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for the configured address and
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Shutdown stops the background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.cancel()
	s.logger.Info().Msg("Server background services stopped")
	return nil
}

// Cache returns the dataset cache.
func (s *Server) Cache() *cache.Cache { return s.cache }

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker { return s.broker }

// WSHub returns the websocket hub.
func (s *Server) WSHub() *ws.Hub { return s.wsHub }

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time { return s.startTime }

// checkOrigin accepts same-host requests and the configured CORS origins.
func checkOrigin(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed["*"] || allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
