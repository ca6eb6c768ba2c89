package httpx

import (
	"log/slog"
	"net/http"

	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/app"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/store"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/ws"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/pkg/auth"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)

	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}
	timerAPI := &TimerAPI{DB: db}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// Room protocol endpoint. No rate limit here: one connection carries the
	// whole event stream.
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// API routes get CORS + rate limiting as a block, so preflights are
	// answered before method matching
	api := http.NewServeMux()

	// Auth endpoints
	api.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	api.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	api.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Timer preference endpoints (JWT-protected)
	api.Handle("POST /api/time", mw.Auth(http.HandlerFunc(timerAPI.Create)))
	api.Handle("GET /api/timedata", mw.Auth(http.HandlerFunc(timerAPI.Get)))
	api.Handle("PUT /api/edittime", mw.Auth(http.HandlerFunc(timerAPI.Update)))

	mux.Handle("/api/", mw.Wrap(api))

	return mux
}
