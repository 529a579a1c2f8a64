package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/database"
)

// live — liveness: процесс жив, без обращений к базе.
func (h *ContentHandler) live(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ready — readiness. Для файлового хранилища (monitor == nil) сервис
// готов всегда. Открытый circuit breaker отвечает мгновенно, без
// похода в базу.
func (h *ContentHandler) ready(c *gin.Context) {
	if h.monitor == nil {
		c.String(http.StatusOK, "ready")
		return
	}
	if err := h.monitor.Check(c.Request.Context()); err != nil {
		if errors.Is(err, database.ErrCircuitOpen) {
			c.String(http.StatusServiceUnavailable, "db-circuit-open")
			return
		}
		c.String(http.StatusServiceUnavailable, "db-down")
		return
	}
	c.String(http.StatusOK, "ready")
}
