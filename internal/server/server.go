// Package server exposes tables over HTTP and a websocket event feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/table"
	"github.com/lox/pokertable/poker"
)

const shutdownTimeout = 5 * time.Second

// Server serves the table API.
type Server struct {
	tables   *table.Registry
	store    handhistory.Store
	ranker   poker.Ranker
	logger   *log.Logger
	origins  []string
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the browser origins allowed to call the API. "*"
// allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates a server for the given tables and history store.
func New(tables *table.Registry, store handhistory.Store, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		tables: tables,
		store:  store,
		ranker: poker.NewEvaluator(),
		logger: logger.WithPrefix("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

// NewRegistry creates the configured tables. They share one event hub and
// record into store.
func NewRegistry(cfg *Config, store handhistory.Store, logger *log.Logger, clock quartz.Clock) (*table.Registry, error) {
	reg := table.NewRegistry(cfg.Server.DefaultTable)
	hub := table.NewHub()
	for _, tc := range cfg.Tables {
		tcfg := table.Config{
			ID:          tc.Name,
			MinBet:      tc.MinBet,
			MaxPlayers:  tc.MaxPlayers,
			TurnTimeout: tc.TurnTimeout(),
		}
		t := table.New(tcfg,
			table.WithStore(store),
			table.WithLogger(logger),
			table.WithClock(clock),
			table.WithHub(hub))
		if err := reg.Add(t); err != nil {
			return nil, err
		}
		logger.Info("Created table",
			"id", tc.Name,
			"blinds", fmt.Sprintf("%d/%d", tc.MinBet/2, tc.MinBet),
			"max_players", tc.MaxPlayers,
			"turn_timeout", tc.TurnTimeout())
	}
	return reg, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.corsHandler())

	r.Get("/health", s.handleHealth)
	r.Get("/ws/tables/{table}", s.handleFeed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Route("/tables/{table}", s.gameRoutes)
		// Single-table paths served by the default table.
		r.Route("/game", s.gameRoutes)

		r.Route("/hands", func(r chi.Router) {
			r.Get("/", s.handleListHands)
			r.Get("/{hand}", s.handleGetHand)
			r.Get("/{hand}/actions", s.handleHandActions)
			r.Get("/{hand}/phh", s.handleHandPHH)
			r.Get("/{hand}/replay", s.handleHandReplay)
		})

		r.Get("/stats", s.handleStats)
	})
	return r
}

func (s *Server) gameRoutes(r chi.Router) {
	r.Post("/start-hand", s.handleStartHand)
	r.Post("/action", s.handleAction)
	r.Post("/timeout", s.handleTimeout)
	r.Post("/deal-flop", s.handleDeal(game.Flop))
	r.Post("/deal-turn", s.handleDeal(game.Turn))
	r.Post("/deal-river", s.handleDeal(game.River))
	r.Post("/complete-hand", s.handleComplete)
	r.Get("/state", s.handleState)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tables": s.tables.IDs(),
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	type tableInfo struct {
		ID          string `json:"id"`
		MinBet      int    `json:"min_bet"`
		MaxPlayers  int    `json:"max_players"`
		TurnTimeout int    `json:"turn_timeout_seconds"`
	}
	var out []tableInfo
	for _, id := range s.tables.IDs() {
		t, err := s.tables.Get(id)
		if err != nil {
			continue
		}
		cfg := t.Config()
		out = append(out, tableInfo{
			ID:          cfg.ID,
			MinBet:      cfg.MinBet,
			MaxPlayers:  cfg.MaxPlayers,
			TurnTimeout: int(cfg.TurnTimeout / time.Second),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": out})
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
