package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"notify-gateway/internal/gateway"

	"github.com/gin-gonic/gin"
)

// Notifier accepts delivery requests; satisfied by *gateway.Gateway.
type Notifier interface {
	Notify(req *gateway.NotificationRequest)
}

type NotifyHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewNotifyHandler(notifier Notifier, logger *slog.Logger) *NotifyHandler {
	return &NotifyHandler{notifier: notifier, logger: logger}
}

type notifyRequest struct {
	UserID             string          `json:"userId"`
	ConnectionID       string          `json:"connectionId"`
	SocketEndpointName string          `json:"socketEndpointName"`
	Message            json.RawMessage `json:"message"`
}

// PushNotification lets backend services push to connected clients over
// HTTP instead of the topic. Delivery is best effort; the response only
// confirms the request was accepted.
func (h *NotifyHandler) PushNotification(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" && req.ConnectionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId or connectionId is required"})
		return
	}

	selector := gateway.ByConnectionID(req.ConnectionID)
	if req.UserID != "" {
		selector = gateway.ByUserID(req.UserID)
	}
	h.notifier.Notify(&gateway.NotificationRequest{
		Selector:   selector,
		Endpoint:   req.SocketEndpointName,
		Payload:    req.Message,
		CanRespond: true,
	})

	h.logger.Debug("notification accepted",
		"userId", req.UserID, "connectionId", req.ConnectionID, "endpoint", req.SocketEndpointName)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
