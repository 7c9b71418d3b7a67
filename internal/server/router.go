// Package server assembles the gin engine that fronts the catalog and cart.
package server

import (
	"net/http"
	"strings"

	"github.com/dwikikusuma/shopping-cart/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Registrar mounts a handler's routes on a group.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

type RouterConfig struct {
	Service     string
	Log         *zap.Logger
	APIPrefix   string
	CORSOrigins []string
	Session     middleware.SessionOptions

	// Public routes need no session; SessionRoutes run behind the session
	// cookie middleware.
	Public        []Registrar
	SessionRoutes []Registrar

	// Ready reports whether dependencies are reachable; nil means always.
	Ready func() error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(otelgin.Middleware(cfg.Service))
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/" + strings.Trim(cfg.APIPrefix, "/"))
	for _, reg := range cfg.Public {
		reg.Register(api)
	}

	sessioned := api.Group("", middleware.Session(cfg.Session))
	for _, reg := range cfg.SessionRoutes {
		reg.Register(sessioned)
	}
	return r
}
