package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"markmycampus/internal/bootstrap"
)

const (
	probeUp       = "up"
	probeDown     = "down"
	probeDisabled = "disabled"
)

type HealthHandler struct {
	app    *bootstrap.App
	probes []probe
}

// probe checks one backing service; a nil check means the service is switched off.
type probe struct {
	name  string
	check func(ctx context.Context) error
}

type probeResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	h := &HealthHandler{app: app}
	h.probes = []probe{
		{name: "database", check: h.pingDatabase},
		{name: "redis"},
		{name: "rabbitmq"},
	}
	if app.Redis != nil {
		h.probes[1].check = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	if app.Config.RabbitMQ.Enabled {
		h.probes[2].check = h.amqpOpen
	}
	return h
}

// Check answers 503 as soon as any enabled dependency is unreachable.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	results := make(map[string]probeResult, len(h.probes))
	for _, p := range h.probes {
		res := run(ctx, p)
		if res.Status == probeDown {
			healthy = false
		}
		results[p.name] = res
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":       status,
		"app":          h.app.Config.App.Name,
		"db_driver":    h.app.Config.Database.Driver,
		"uptime_sec":   int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": results,
	})
}

func run(ctx context.Context, p probe) probeResult {
	if p.check == nil {
		return probeResult{Status: probeDisabled}
	}
	if err := p.check(ctx); err != nil {
		return probeResult{Status: probeDown, Detail: err.Error()}
	}
	return probeResult{Status: probeUp}
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthHandler) amqpOpen(context.Context) error {
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return errors.New("connection closed")
	}
	return nil
}
