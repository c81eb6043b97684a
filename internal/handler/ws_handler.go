/*
Package handler provides the HTTP handlers and routing setup for the doceasy server.

This file contains the WebSocket upgrade handler: rate limiting, upgrading the
HTTP connection, and starting the client's pump goroutines. Authentication
happens after the upgrade, over the socket itself, via the authenticate event.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"doceasy/internal/app/signaling"
	"doceasy/internal/pkg/errs"
	"doceasy/internal/pkg/limiter"
	"doceasy/internal/pkg/logx"
	"doceasy/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request to a
// WebSocket and hands the connection to the signaling relay.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := signaling.NewClient(deps.Relay, conn)

		logx.Info("WebSocket connection established", "conn_id", client.ID())

		go client.WritePump()

		client.ReadPump(r.Context())
	}
}
