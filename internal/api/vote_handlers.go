package api

import (
	"net/http"
	"time"

	"hackshare/internal/auth"
	"hackshare/internal/config"
	"hackshare/internal/logger"
	redisdb "hackshare/internal/redis"
	"hackshare/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type VoteRequest struct {
	Value *int `json:"value"`
}

// POST /hacks/:id/vote
func CastVoteHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _ := auth.CallerID(c)
		var req VoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		var errs validate.Errors
		if c.Param("id") == "" {
			errs.Add("hackId", "hackId is required")
		}
		if req.Value == nil {
			errs.Add("value", "value is required")
		}
		if err := errs.OrNil(); err != nil {
			respondError(c, err)
			return
		}
		changed, err := svc.Votes.Cast(c.Request.Context(), c.Param("id"), callerID, *req.Value)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": changed})
	}
}

// VoteRateLimit caps votes per user per minute. It is a no-op without a
// redis client or with a non-positive limit, and lets requests through when
// redis is unavailable.
func VoteRateLimit(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	limit := cfg.RateLimit.VotesPerMinute
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}
		callerID, _ := auth.CallerID(c)
		ok, err := redisdb.Allow(c.Request.Context(), rdb, "vote:"+callerID, limit, time.Minute)
		if err != nil {
			logger.Warningf("vote rate limit unavailable: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "Too many votes, slow down"}})
			return
		}
		c.Next()
	}
}
