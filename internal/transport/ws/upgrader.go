package ws

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// NewUpgrader builds the upgrader for the websocket route. Browser tabs
// connect from the configured frontend origins; localhost variants are
// admitted for development, and callers without an Origin header (backend
// services announcing over the socket) are always accepted.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, candidate := range allowedOrigins {
				if origin == candidate {
					return true
				}
			}
			return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
		},
	}
}
