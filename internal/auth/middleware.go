package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hackshare/internal/config"
	"hackshare/internal/user"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserGone         = errors.New("user no longer exists")
	ErrNotAdmin         = errors.New("not enough permissions")
)

const (
	ctxUserID   = "userId"
	ctxUsername = "username"
	ctxUserRole = "userRole"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// authenticate resolves the bearer token to a live session and an existing
// user, in that order.
func authenticate(c *gin.Context, cfg *config.Config, sessions SessionStore, users UserFinder) (*user.User, error) {
	authHeader := c.GetHeader("Authorization")
	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, ErrNotAuthenticated
	}
	claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	ctx := c.Request.Context()
	sessionToken, err := sessions.Get(ctx, claims.UserID)
	if err != nil || sessionToken != tokenStr {
		return nil, ErrNotAuthenticated
	}
	u, err := users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserGone
	}
	// sliding inactivity window
	_ = sessions.Set(ctx, claims.UserID, tokenStr, time.Duration(cfg.Server.SessionMinutes)*time.Minute)
	return u, nil
}

func setCaller(c *gin.Context, u *user.User) {
	c.Set(ctxUserID, u.ID)
	c.Set(ctxUsername, u.Username)
	c.Set(ctxUserRole, string(u.Role))
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": message}})
}

// AuthMiddleware rejects requests without a valid session for an existing
// user, and non-admins when requireAdmin is set.
func AuthMiddleware(cfg *config.Config, sessions SessionStore, users UserFinder, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := authenticate(c, cfg, sessions, users)
		switch {
		case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrUserGone):
			abort(c, http.StatusUnauthorized, err.Error())
			return
		case err != nil:
			abort(c, http.StatusInternalServerError, "DB error")
			return
		}
		setCaller(c, u)

		if requireAdmin && !u.IsAdmin() {
			abort(c, http.StatusForbidden, ErrNotAdmin.Error())
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when the request carries a valid session
// and lets anonymous requests through otherwise.
func OptionalAuth(cfg *config.Config, sessions SessionStore, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := authenticate(c, cfg, sessions, users); err == nil {
			setCaller(c, u)
		}
		c.Next()
	}
}

// CallerID returns the authenticated user's id, if any.
func CallerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func CallerIsAdmin(c *gin.Context) bool {
	return c.GetString(ctxUserRole) == string(user.RoleAdmin)
}
