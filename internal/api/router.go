package api

import (
	"time"

	"hackshare/internal/auth"
	"hackshare/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SetupRouter registers every route under cfg.Server.Subpath. rdb is only
// used for vote rate limiting and may be nil.
func SetupRouter(cfg *config.Config, svc *Services, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	// Tokens travel in the Authorization header, never in cookies.
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	subpath := cfg.Server.Subpath // e.g. "/hacks-api", always starts with '/'
	requireUser := auth.AuthMiddleware(cfg, svc.Sessions, svc.Users, false)
	requireAdmin := auth.AuthMiddleware(cfg, svc.Sessions, svc.Users, true)
	optionalUser := auth.OptionalAuth(cfg, svc.Sessions, svc.Users)

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler(svc))
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler(svc))

		// Auth
		group.POST("/auth/register", RegisterHandler(cfg, svc))
		group.POST("/auth/login", LoginHandler(cfg, svc))
		group.POST("/auth/logout", requireUser, LogoutHandler(svc))
		group.GET("/auth/me", requireUser, MeHandler(svc))

		// Admin: users
		group.GET("/users", requireAdmin, ListUsersHandler(svc))
		group.POST("/users", requireAdmin, CreateUserHandler(svc))
		group.GET("/users/online", OnlineUserCountHandler(svc))
		group.GET("/users/:id", requireAdmin, GetUserByIdHandler(svc))
		group.GET("/users/:id/hacks", optionalUser, ListUserHacksHandler(svc))

		// --- Hacks ---
		group.GET("/hacks", optionalUser, ListHacksHandler(svc))
		group.GET("/hacks/unverified", requireAdmin, ListUnverifiedHandler(svc))
		group.GET("/hacks/all", requireAdmin, ListAllHacksHandler(svc))
		group.GET("/hacks/mine", requireUser, ListMyHacksHandler(svc))
		group.GET("/hacks/:id", optionalUser, GetHackHandler(svc))
		group.POST("/hacks", requireUser, CreateHackHandler(svc))
		group.PATCH("/hacks/:id", requireUser, ProposeUpdateHandler(svc))
		group.DELETE("/hacks/:id", requireUser, DeleteHackHandler(svc))
		group.POST("/hacks/:id/verify", requireAdmin, VerifyHackHandler(svc))
		group.POST("/hacks/:id/verify-update", requireAdmin, VerifyUpdateHandler(svc))
		group.POST("/hacks/:id/vote", requireUser, VoteRateLimit(cfg, rdb), CastVoteHandler(svc))

		// --- Moderation event stream ---
		group.GET("/ws/moderation", WSModerationHandler(cfg, svc))
	}
	return r
}
