package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/contable/internal/application/event"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks database reachability; *sql.DB satisfies it
type Pinger interface {
	PingContext(ctx context.Context) error
}

// OutboxStats reports the outbox backlog
type OutboxStats interface {
	GetStats(ctx context.Context) (*event.OutboxStatsDTO, error)
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	outbox    OutboxStats
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. outbox may be nil.
func NewSystemHandler(name, version string, db Pinger, outbox OutboxStats) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		outbox:    outbox,
		startTime: time.Now(),
	}
}

// RegisterRoutes mounts /health
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthResponse represents the health check payload
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string                `json:"status" example:"ok"`
	Name      string                `json:"name" example:"erp-contable"`
	Version   string                `json:"version" example:"1.0.0"`
	GoVersion string                `json:"go_version" example:"go1.25.5"`
	Uptime    string                `json:"uptime" example:"1h30m45s"`
	Database  string                `json:"database" example:"ok"`
	Outbox    *event.OutboxStatsDTO `json:"outbox,omitempty"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports database reachability and the outbox backlog. 503 when the database is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
	}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			logger.L(ctx).Warn("Health check: database unreachable", zap.Error(err))
			resp.Status = "unavailable"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.outbox != nil && status == http.StatusOK {
		stats, err := h.outbox.GetStats(ctx)
		if err != nil {
			logger.L(ctx).Warn("Health check: outbox stats failed", zap.Error(err))
		} else {
			resp.Outbox = stats
			if !stats.Healthy() {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
