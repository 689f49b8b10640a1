package handlers

import (
	"log/slog"
	"net/http"

	"notify-gateway/internal/transport/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	sink     ws.EventSink
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSHandler(sink ws.EventSink, allowedOrigins []string, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		sink:     sink,
		upgrader: ws.NewUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleWebSocket upgrades the request and hands the socket to the
// gateway. Callers announce themselves with a frame after connecting;
// the upgrade itself carries no identity.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err, "remote", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}

	client := ws.NewClient(conn, h.sink, h.logger)
	client.Start()
}
