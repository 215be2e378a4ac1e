package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmuslimabdulj/quickmeet/internal/middleware"
)

// NewRouter wires every route. Form posts share the API limiter, WebSocket
// upgrades have their own.
func NewRouter(h *Handler, staticDir string, apiLimiter, wsLimiter *middleware.IPRateLimiter) http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	page := func(f http.HandlerFunc) http.Handler {
		return middleware.NoCache(f)
	}
	action := func(f http.HandlerFunc) http.Handler {
		return middleware.NoCache(middleware.RateLimitMiddleware(apiLimiter)(f))
	}

	// Page routes
	mux.Handle("GET /{$}", page(h.HandleLanding))
	mux.Handle("GET /create", page(h.HandleCreatePage))
	mux.Handle("GET /join", page(h.HandleJoinPage))
	mux.Handle("GET /meeting/{id}", page(h.HandleMeeting))

	// Form actions with rate limiting
	mux.Handle("POST /create", action(h.HandleCreate))
	mux.Handle("POST /create/schedule", action(h.HandleSchedule))
	mux.Handle("POST /join", action(h.HandleJoin))
	mux.Handle("POST /meeting/{id}/end", action(h.HandleEnd))
	mux.Handle("POST /meeting/{id}/intent", action(h.HandleIntent))
	mux.Handle("POST /theme", action(h.HandleTheme))

	// WebSocket route with rate limiting
	mux.HandleFunc("GET /ws", middleware.RateLimitFunc(wsLimiter, h.HandleWebSocket))

	// Operations
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestLogger(middleware.SecurityHeaders(mux))
}
