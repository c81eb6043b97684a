/*
Package handler provides the HTTP handlers and routing setup for the doceasy server.

This file defines the main Router, applying middleware like logging, CORS,
and IP-based rate limiting before delegating to the REST and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"doceasy/internal/pkg/auth/jwt"
	"doceasy/internal/pkg/limiter"
	"doceasy/internal/pkg/logx"
	"doceasy/internal/pkg/resp"
)

const (
	// AuthRate limits register/login attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// ConnectRate limits WebSocket upgrades per IP.
	ConnectRate  = 0.5
	ConnectBurst = 10
)

// Router sets up the HTTP routing table (chi.Router) for the application.
// It configures CORS from the allowed origins, wires global and per-route
// middleware, and mounts the REST API and the signaling WebSocket endpoint.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth(deps))

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Verifier))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Get("/user/profile", HandleProfile(deps))

		api.Post("/rooms", HandleCreateRoom(deps))
		api.Get("/rooms/{id}", HandleGetRoom(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}

// HandleHealth reports liveness, whether account storage is configured, and
// the number of live authenticated socket sessions.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "not configured"
		if deps.Users != nil {
			dbStatus = "connected"
		}

		resp.RespondSuccess(w, r, map[string]any{
			"status":   "healthy",
			"service":  "doceasy-server",
			"database": dbStatus,
			"sessions": deps.Relay.Registry().Len(),
		})
	}
}
