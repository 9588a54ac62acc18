package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// LivenessCheck reports that the process is up.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{
		"status": "alive",
		"time":   time.Now().UTC(),
	}))
}

// ReadinessCheck reports whether the service can reach its dependencies.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := timeoutContext(c)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("database unreachable"))
		return
	}

	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{
		"status": "ready",
	}))
}

func (h *HealthHandler) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.LivenessCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/metrics", h.MetricsHandler())
}
