package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/leaderboard"
	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/live"
)

// Engine is the leaderboard surface the server exposes.
type Engine interface {
	ComputeLeaderboard(ctx context.Context, timeframe string, limit int) (*leaderboard.Response, error)
	ComputeAccountRanking(ctx context.Context, accountID, timeframe string) (*leaderboard.AccountRanking, error)
	InvalidateCache()
	Stats() leaderboard.Stats
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server settings.
type Config struct {
	Port int
}

// Server is the HTTP surface over the leaderboard engine. Routing and JSON
// encoding only; all semantics live in the engine.
type Server struct {
	cfg    Config
	engine Engine
	store  Pinger
	hub    *live.Hub // nil when the live hub is disabled
	logger *slog.Logger

	httpServer *http.Server
}

// New creates a Server.
func New(cfg Config, engine Engine, store Pinger, hub *live.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		hub:    hub,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.Router(),
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods("GET")
	api.HandleFunc("/leaderboard/accounts/{accountId}", s.handleAccountRanking).Methods("GET")
	api.HandleFunc("/cache/invalidate", s.handleInvalidateCache).Methods("POST")

	if s.hub != nil {
		r.HandleFunc("/ws", s.hub.ServeWS)
	}

	return r
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Info("http server started", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.logger.Info("http server stopped")
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.store.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["store"] = map[string]string{
			"status": "disconnected",
			"error":  err.Error(),
		}
	} else {
		health.Components["store"] = "connected"
	}

	stats := s.engine.Stats()
	health.Components["leaderboard"] = map[string]any{
		"computes":      stats.Computes,
		"cache_hits":    stats.CacheHits,
		"degraded":      stats.Degraded,
		"cache_entries": stats.Cache.Entries,
	}

	if s.hub != nil {
		health.Components["live"] = map[string]any{
			"clients": s.hub.ClientCount(),
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "7d"
	}

	// limit 0 lets the engine apply its default.
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	resp, err := s.engine.ComputeLeaderboard(r.Context(), timeframe, limit)
	if err != nil {
		// Only cancellation reaches here; the engine fails open otherwise.
		s.writeError(w, http.StatusInternalServerError, "leaderboard computation aborted")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountRanking(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "7d"
	}

	ranking, err := s.engine.ComputeAccountRanking(r.Context(), accountID, timeframe)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "ranking computation aborted")
		return
	}
	s.writeJSON(w, http.StatusOK, ranking)
}

// handleInvalidateCache is the external invalidation hook over HTTP. The
// claiming process and account-management flows call it after any write.
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	s.engine.InvalidateCache()
	if s.hub != nil {
		s.hub.BroadcastUpdate("cache-invalidated", nil)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
