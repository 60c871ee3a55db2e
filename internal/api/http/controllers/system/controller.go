package system

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"hyCache/internal/ports"
)

// Controller — системные маршруты: liveness, readiness (пинг всех backend'ов), метрики.
type Controller struct {
	health   ports.IHealthChecker
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// New создаёт системный контроллер. gatherer == nil — prometheus.DefaultGatherer.
func New(health ports.IHealthChecker, gatherer prometheus.Gatherer, log *slog.Logger) *Controller {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Controller{health: health, gatherer: gatherer, log: log}
}

// RegisterRoutes реализует http.Controller: регистрирует маршруты на роутере.
func (c *Controller) RegisterRoutes(r *gin.Engine) {
	r.GET("/liveness", c.live)
	r.GET("/readyness", c.ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))
}

func (c *Controller) live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (c *Controller) ready(ctx *gin.Context) {
	if err := c.health.Ping(ctx.Request.Context()); err != nil {
		c.log.Warn("ready check failed", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
