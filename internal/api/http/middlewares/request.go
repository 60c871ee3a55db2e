package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger логирует запросы: метод, путь, статус, длительность.
// Успешные пробы (liveness/readiness/metrics) пишутся на уровне Debug, чтобы не забивать лог.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelWarn
		case isProbe(c.Request.URL.Path):
			level = slog.LevelDebug
		}
		log.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"ip", c.ClientIP(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func isProbe(path string) bool {
	switch path {
	case "/liveness", "/readyness", "/metrics":
		return true
	}
	return false
}
