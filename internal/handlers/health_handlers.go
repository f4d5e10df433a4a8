package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/internal/realtime"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueStatser interface {
	Stats() jobs.QueueStats
}

// Monitor collects the components reported by the health endpoint. Nil
// components are left out.
type Monitor struct {
	DB       Pinger
	Registry *realtime.Registry
	Feed     *realtime.Feed
	Hub      *realtime.Hub
	Queue    QueueStatser
}

func HealthHandler(m Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		body := gin.H{}

		if m.DB != nil {
			if err := m.DB.Ping(ctx); err != nil {
				status = "degraded"
				body["database"] = gin.H{"status": "down", "error": err.Error()}
			} else {
				body["database"] = gin.H{"status": "up"}
			}
		}
		if m.Registry != nil {
			body["listeners"] = m.Registry.Stats()
		}
		if m.Feed != nil {
			feed := m.Feed.Stats()
			if !feed.Connected {
				status = "degraded"
			}
			body["change_feed"] = feed
		}
		if m.Hub != nil {
			body["websocket"] = m.Hub.Stats()
		}
		if m.Queue != nil {
			body["jobs"] = m.Queue.Stats()
		}

		body["status"] = status
		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	}
}
