package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"node-manager/internal/config"
	"node-manager/internal/handler"
	"node-manager/internal/pkg/logger"
)

// NewEngine builds the gin engine with middleware and the node routes.
func NewEngine(corsCfg config.CORSConfig, log *logger.Logger, nodeHandler *handler.NodeHandler) *gin.Engine {
	r := gin.New()
	// Wrong verbs on known paths are unmatched routes, not 405s.
	r.HandleMethodNotAllowed = false

	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	if corsCfg.Enabled {
		r.Use(cors.New(corsConfig(corsCfg)))
		r.OPTIONS("/*path", func(c *gin.Context) {
			c.AbortWithStatus(http.StatusNoContent)
		})
	}

	RegisterRoutes(r, nodeHandler)
	r.NoRoute(handler.NotFound)

	return r
}

func RegisterRoutes(r *gin.Engine, nodeHandler *handler.NodeHandler) {
	r.GET("/status", nodeHandler.Status)
	r.POST("/configure", nodeHandler.Configure)
	r.PATCH("/restart", nodeHandler.Restart)
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || (len(c.AllowOrigins) == 1 && c.AllowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowOrigins
	}
	return cfg
}
