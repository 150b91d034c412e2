package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	ioutils "github.com/royal-15/SpotiPlay-Desktop/internal/io"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// addRequest is the body of POST /api/downloads.
type addRequest struct {
	Text string        `json:"text" binding:"required"`
	Mode classify.Mode `json:"mode"`
}

type rejection struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) listDownloads(c *gin.Context) {
	items := s.queue.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"stats": model.ComputeStats(items),
	})
}

func (s *Server) addDownloads(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := s.queue.AddRequest(req.Text, req.Mode)
	var verr *classify.ValidationError
	switch {
	case errors.Is(err, download.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.As(err, &verr):
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    err.Error(),
				"rejected": rejections(verr),
			})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"items":    items,
			"rejected": rejections(verr),
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"items": items,
	})
}

func rejections(verr *classify.ValidationError) []rejection {
	out := make([]rejection, len(verr.Rejected))
	for i, r := range verr.Rejected {
		out[i] = rejection{Line: r.Line, Reason: r.Reason}
	}
	return out
}

func (s *Server) getDownload(c *gin.Context) {
	item, ok := s.queue.Item(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (s *Server) cancelDownload(c *gin.Context) {
	if err := s.queue.Cancel(c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, download.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "download cancelled"})
}

func (s *Server) cancelAll(c *gin.Context) {
	s.queue.CancelAll()
	c.JSON(http.StatusOK, gin.H{"message": "all downloads cancelled"})
}

func (s *Server) clear(c *gin.Context) {
	var removed int
	if c.Query("only") == "failed" {
		removed = s.queue.ClearFailed()
	} else {
		removed = s.queue.ClearCompleted()
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) getConfig(c *gin.Context) {
	settings := s.queue.Settings()
	if settings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": download.ErrClosed.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateConfig applies a full or partial settings document on top of the
// active settings.
func (s *Server) updateConfig(c *gin.Context) {
	settings := s.queue.Settings()
	if settings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": download.ErrClosed.Error()})
		return
	}
	if err := c.ShouldBindJSON(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings: " + err.Error()})
		return
	}
	settings.Normalize()

	var verr *config.ValidationError
	if err := settings.Validate(); errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid settings",
			"problems": verr.Problems,
		})
		return
	}
	if err := ioutils.CheckWritableDir(settings.OutputDir); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid settings",
			"problems": []string{err.Error()},
		})
		return
	}

	if err := s.queue.UpdateConfig(settings); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	if s.opts.SettingsPath != "" {
		if err := settings.Save(s.opts.SettingsPath); err != nil {
			s.log.WithError(err).Error("Failed to save settings")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}

	c.JSON(http.StatusOK, settings)
}

func (s *Server) websocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := NewClient(s.hub, conn)

	joined := false
	err = s.queue.Sync(func(items []model.Item, stats model.Stats) {
		joined = s.hub.Join(client, items, stats)
	})
	if errors.Is(err, download.ErrClosed) {
		// nothing changes any more
		joined = s.hub.Join(client, nil, model.Stats{})
	}
	if !joined {
		conn.Close()
		return
	}
	client.StartPumps()
}
