// Package api provides the HTTP API for observing the simulation.
// All endpoints are GET and read-only; they serve the snapshot of the
// last completed turn.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tcgarvin/spacesim2/internal/engine"
	"github.com/tcgarvin/spacesim2/internal/persistence"
)

// Server serves the simulation state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	DB   *persistence.DB
	Port int

	// HistoryRate caps history-endpoint requests per client per minute.
	// Zero means the default.
	HistoryRate int
}

const defaultHistoryRate = 120

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	rate := s.HistoryRate
	if rate <= 0 {
		rate = defaultHistoryRate
	}
	historyLimiter := NewRateLimiter(rate, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/markets", s.handleMarkets)
	mux.HandleFunc("/api/v1/market/", s.handleMarketDetail)
	mux.HandleFunc("/api/v1/actors", s.handleActors)
	mux.HandleFunc("/api/v1/ships", s.handleShips)
	mux.HandleFunc("/api/v1/turns", RateLimitMiddleware(historyLimiter, s.handleTurnHistory))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	status := map[string]any{
		"turn":    s.Sim.CurrentTurn(),
		"planets": len(s.Sim.Planets),
		"actors":  len(s.Sim.Actors),
		"ships":   len(s.Sim.Ships),
	}
	if snap != nil {
		status["summary"] = snap.Summary
	}
	writeJSON(w, status)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	if snap == nil {
		writeJSON(w, []any{})
		return
	}
	writeJSON(w, snap.Planets)
}

// handleMarketDetail serves one planet's quotes: GET /api/v1/market/:name.
func (s *Server) handleMarketDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/market/")
	if name == "" {
		http.Error(w, "missing planet name", http.StatusBadRequest)
		return
	}

	snap := s.Sim.Snapshot()
	if snap == nil {
		http.Error(w, "no completed turn yet", http.StatusServiceUnavailable)
		return
	}
	for _, p := range snap.Planets {
		if p.Name == name {
			writeJSON(w, p)
			return
		}
	}
	http.Error(w, "planet not found", http.StatusNotFound)
}

func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	if snap == nil {
		writeJSON(w, []any{})
		return
	}

	out := snap.Actors
	if planet := r.URL.Query().Get("planet"); planet != "" {
		var filtered []engine.ActorSnapshot
		for _, a := range out {
			if a.Planet == planet {
				filtered = append(filtered, a)
			}
		}
		out = filtered
	}
	writeJSON(w, out)
}

func (s *Server) handleShips(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	if snap == nil {
		writeJSON(w, []any{})
		return
	}
	writeJSON(w, snap.Ships)
}

func (s *Server) handleTurnHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	rows, err := s.DB.RecentTurns(limit)
	if err != nil {
		slog.Error("turn history query failed", "error", err)
		writeJSON(w, []persistence.TurnStats{})
		return
	}
	if rows == nil {
		rows = []persistence.TurnStats{}
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
