package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(gdb *gorm.DB) *HealthController {
	return &HealthController{db: gdb}
}

// Health reports database connectivity
// GET /api/health
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := db.Ping(ctx, ctrl.db); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Health check: database unreachable", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DEGRADED",
			"database": "Disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "OK",
		"database": "Connected",
	})
}
