// Package adapters wires the relay core and the stores to the outside world:
// gin HTTP routes, REST handlers, and the websocket transport.
package adapters

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/config"
)

// SetupRouter wires HTTP routes (REST + WS).
// - Static files are served from cfg.StaticPath.
// - REST is under /api/*
// - WebSocket upgrade lives at /ws
func SetupRouter(ctx context.Context, cfg *config.Config, api *API, ws *WSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.CORSOrigin}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CheckpointSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	apiGroup := r.Group("/api")

	apiGroup.POST("/auth/register", api.Register)
	apiGroup.POST("/auth/login", api.Login)

	apiGroup.GET("/rooms", api.ListRooms)
	apiGroup.POST("/rooms", AuthRequired(api.Tokens), api.CreateRoom)
	apiGroup.GET("/rooms/:name", api.GetRoom)
	apiGroup.DELETE("/rooms/:name", AuthRequired(api.Tokens), api.DeleteRoom)
	apiGroup.GET("/rooms/:name/messages", api.RoomMessages)

	apiGroup.GET("/stats", api.Stats)

	r.GET("/ws", func(c *gin.Context) {
		ws.HandleWS(ctx, c)
	})

	return r
}
