package routes

import (
	"log/slog"
	"time"

	"notify-gateway/internal/api/handlers"
	"notify-gateway/internal/api/middleware"
	"notify-gateway/internal/config"
	"notify-gateway/internal/gateway"
	"notify-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine          *gin.Engine
	wsHandler       *handlers.WSHandler
	notifyHandler   *handlers.NotifyHandler
	presenceHandler *handlers.PresenceHandler
	systemHandler   *handlers.SystemHandler
	rateLimitMW     *middleware.RateLimitMiddleware
	authMW          *middleware.AuthMiddleware
}

func NewRouter(
	gw *gateway.Gateway,
	presence *services.PresenceService,
	cfg *config.Config,
	logger *slog.Logger,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	engine.Use(middleware.LogApi())

	return &Router{
		engine:          engine,
		wsHandler:       handlers.NewWSHandler(gw, cfg.Server.AllowedOrigins, logger),
		notifyHandler:   handlers.NewNotifyHandler(gw, logger),
		presenceHandler: handlers.NewPresenceHandler(presence),
		systemHandler:   handlers.NewSystemHandler(gw),
		rateLimitMW:     middleware.NewRateLimitMiddleware(presence),
		authMW:          middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.systemHandler.Health)

	api := r.engine.Group("/api/v1")

	// Public websocket upgrade; identity arrives later over the socket.
	api.GET("/ws",
		r.rateLimitMW.RateLimitIP(30, time.Minute),
		r.wsHandler.HandleWebSocket,
	)

	// Backend-only routes.
	backend := api.Group("/")
	backend.Use(r.authMW.RequireAuth())
	{
		backend.POST("/notify",
			r.rateLimitMW.RateLimit(600, time.Minute),
			r.notifyHandler.PushNotification,
		)
		backend.GET("/connections", r.systemHandler.GetConnections)
		backend.GET("/presence", r.presenceHandler.GetOnlineUsers)
		backend.GET("/presence/:userId", r.presenceHandler.GetUserStatus)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
