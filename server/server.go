// Package server exposes WebP validation over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/deepteams/webpcheck"
	"github.com/deepteams/webpcheck/internal/logging"
)

// DefaultMaxBodySize bounds request bodies when Options.MaxFileSize is 0.
const DefaultMaxBodySize = 32 << 20

// Options configures the HTTP handler.
type Options struct {
	Validate webpcheck.Options
	Logger   *slog.Logger
}

// New returns a gin engine serving:
//
//	POST /v1/validate  raw image body -> Result JSON
//	GET  /healthz      {"status":"ok"}
//
// The gin mode is left to the caller.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	h := &handler{opts: opts.Validate}
	if h.opts.MaxFileSize <= 0 {
		h.opts.MaxFileSize = DefaultMaxBodySize
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/v1/validate", h.validate)
	return engine
}

type handler struct {
	opts webpcheck.Options
}

// validate answers 200 for every readable body, valid image or not. Only a
// body over the size limit is an HTTP error.
func (h *handler) validate(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxFileSize)
	res := webpcheck.ValidateReader(body, &h.opts)

	var tooLarge *http.MaxBytesError
	if errors.As(res.Err(), &tooLarge) || errors.Is(res.Err(), webpcheck.ErrTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
