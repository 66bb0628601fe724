package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/screenerhq/screener/internal/adapters/signal"
	"github.com/screenerhq/screener/internal/app/orch"
	"github.com/screenerhq/screener/internal/config"
	"github.com/screenerhq/screener/internal/videos"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware gives every browser a stable token, used to tag
// uploads with their owner.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, svc *videos.Service) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ScreenerSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.Static(cfg.MediaBase, cfg.MediaDir)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Str("media", cfg.MediaDir).Msg("router setup")

	ctl := signal.NewSignalWSController(o, cfg.ReadLimit, cfg.PingPeriod)
	vh := &VideoHandlers{Svc: svc, MaxUploadBytes: cfg.MaxUploadBytes()}

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	api.POST("/upload", vh.Upload)
	api.GET("/videos", vh.List)
	api.GET("/videos/:id", vh.Get)
	api.DELETE("/videos/:id", vh.Delete)
	api.POST("/videos/fix-thumbnails", vh.FixThumbnails)

	return r
}
