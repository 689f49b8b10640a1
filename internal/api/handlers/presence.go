package handlers

import (
	"net/http"

	"notify-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presence *services.PresenceService
}

func NewPresenceHandler(presence *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// GetUserStatus returns the presence record for one user.
func (h *PresenceHandler) GetUserStatus(c *gin.Context) {
	userID := c.Param("userId")
	status, err := h.presence.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read presence"})
		return
	}
	if len(status) == 0 {
		c.JSON(http.StatusOK, gin.H{"userId": userID, "status": "offline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "status": status["status"], "lastSeen": status["last_seen"]})
}

// GetOnlineUsers lists users with at least one announced connection.
func (h *PresenceHandler) GetOnlineUsers(c *gin.Context) {
	users, err := h.presence.OnlineUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read presence"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
