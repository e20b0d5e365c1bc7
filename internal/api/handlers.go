package api

import (
	"net/http"

	"hackshare/internal/config"
	"hackshare/internal/db"
	"hackshare/internal/hack"

	"github.com/gin-gonic/gin"
)

// GET /health
func healthHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil || svc.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		if err := db.Ping(c.Request.Context(), svc.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"categories":  hack.Categories,
			"maxPageSize": hack.MaxPageSize,
			"rateLimit": gin.H{
				"votesPerMinute": cfg.RateLimit.VotesPerMinute,
			},
		})
	}
}
