// Package nfpproxy owns the HTTP surface of the NFP proxy process.
//
// Ownership boundary:
// - health endpoints for the proxy and its components
// - prometheus metrics exposure
//
// The proxy is launched by the extra phase inside the router namespace;
// it does not perform provisioning itself.
package nfpproxy

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/observability"
)

const version = "0.1.0"

// Server is the NFP proxy HTTP server.
type Server struct {
	cfg       config.ProxyConfig
	router    *gin.Engine
	logger    zerolog.Logger
	startedAt time.Time
}

func NewServer(cfg config.ProxyConfig, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Middleware: keep it lean
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.RequestMetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{
		cfg:       cfg,
		router:    router,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	observability.RegisterMetrics()
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("nfp proxy listening")
	return s.router.Run(s.cfg.Addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
