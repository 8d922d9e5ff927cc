package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/engine"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load("../../data")
	require.NoError(t, err)
	sim := engine.NewDemoSimulation(cat, 1)
	sim.RunTurn()
	return &Server{Sim: sim}
}

func TestStatusEndpoint(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.EqualValues(t, 1, status["turn"])
	require.EqualValues(t, 3, status["planets"])
	require.Contains(t, status, "summary")
}

func TestMarketsEndpoint(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleMarkets(w, httptest.NewRequest(http.MethodGet, "/api/v1/markets", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var planets []engine.PlanetSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &planets))
	require.Len(t, planets, 3)
}

func TestMarketDetailEndpoint(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.handleMarketDetail(w, httptest.NewRequest(http.MethodGet, "/api/v1/market/Aldrin", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var planet engine.PlanetSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &planet))
	require.Equal(t, "Aldrin", planet.Name)

	w = httptest.NewRecorder()
	s.handleMarketDetail(w, httptest.NewRequest(http.MethodGet, "/api/v1/market/Atlantis", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestActorsEndpointPlanetFilter(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleActors(w, httptest.NewRequest(http.MethodGet, "/api/v1/actors?planet=Borman", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var out []engine.ActorSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out)
	for _, a := range out {
		require.Equal(t, "Borman", a.Planet)
	}
}

func TestEndpointsBeforeFirstTurn(t *testing.T) {
	cat, err := catalog.Load("../../data")
	require.NoError(t, err)
	s := &Server{Sim: engine.NewSimulation(cat, 1)}

	w := httptest.NewRecorder()
	s.handleMarkets(w, httptest.NewRequest(http.MethodGet, "/api/v1/markets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	w = httptest.NewRecorder()
	s.handleMarketDetail(w, httptest.NewRequest(http.MethodGet, "/api/v1/market/Aldrin", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTurnHistoryWithoutDB(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleTurnHistory(w, httptest.NewRequest(http.MethodGet, "/api/v1/turns", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
	require.Greater(t, rl.RetryAfter("10.0.0.1"), 0)

	// Separate bucket per IP.
	require.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
	rl.now = func() time.Time { return base.Add(30 * time.Second) }
	require.Equal(t, 31, rl.RetryAfter("10.0.0.1"))

	// Once the window elapses the client starts fresh.
	rl.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	require.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/turns", nil)
	req.RemoteAddr = "192.0.2.1:9999"

	w := httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	// A forwarded client gets its own bucket.
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/turns", nil)
	req2.RemoteAddr = "192.0.2.1:9999"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.1")
	w = httptest.NewRecorder()
	handler(w, req2)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
