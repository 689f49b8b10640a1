package handlers

import (
	"net/http"

	"notify-gateway/internal/gateway"

	"github.com/gin-gonic/gin"
)

// StatsProvider exposes a snapshot of the registry; satisfied by
// *gateway.Gateway.
type StatsProvider interface {
	Stats() gateway.Stats
}

type SystemHandler struct {
	stats StatsProvider
}

func NewSystemHandler(stats StatsProvider) *SystemHandler {
	return &SystemHandler{stats: stats}
}

// GetConnections reports how many sockets are registered and how they
// spread across announced users.
func (h *SystemHandler) GetConnections(c *gin.Context) {
	stats := h.stats.Stats()
	c.JSON(http.StatusOK, gin.H{
		"connections": stats.Connections,
		"users":       stats.Users,
	})
}

// Health answers in-process liveness probes. Answering at all is the
// whole proof; the process-table scan belongs to the external checker,
// which cannot assume a serving process.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
