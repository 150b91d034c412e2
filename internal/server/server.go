package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// DefaultCORSOrigins are the front-end dev servers allowed by default.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Queue is the part of the download manager the API exposes.
type Queue interface {
	download.Actions
	Cancel(id string) error
	ClearFailed() int
	Snapshot() []model.Item
	Sync(fn func(items []model.Item, stats model.Stats)) error
	Item(id string) (model.Item, bool)
	Stats() model.Stats
	Settings() *config.Settings
}

// Options configures a Server.
type Options struct {
	// SettingsPath is where PUT /api/config saves. Empty disables saving.
	SettingsPath string

	CORSOrigins []string
}

// Server serves the REST API and the event WebSocket.
type Server struct {
	queue  Queue
	hub    *Hub
	opts   Options
	router *gin.Engine
	log    *logrus.Entry
}

// New creates a Server. The hub must be running and be the queue's
// presentation for WebSocket clients to see updates.
func New(queue Queue, hub *Hub, opts Options) *Server {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = DefaultCORSOrigins
	}

	s := &Server{
		queue: queue,
		hub:   hub,
		opts:  opts,
		log:   logutils.Component("http"),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())
	r.Use(s.logging())
	s.setupRoutes(r)
	s.router = r

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)

		downloads := api.Group("/downloads")
		{
			downloads.GET("", s.listDownloads)
			downloads.POST("", s.addDownloads)
			downloads.POST("/cancel", s.cancelAll)
			downloads.POST("/clear", s.clear)
			downloads.GET("/:id", s.getDownload)
			downloads.DELETE("/:id", s.cancelDownload)
		}

		api.GET("/config", s.getConfig)
		api.PUT("/config", s.updateConfig)

		api.GET("/ws", s.websocket)
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = s.opts.CORSOrigins
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return cors.New(cfg)
}

// logging logs each request through logrus.
func (s *Server) logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Debug("Request served")
		}
	}
}
