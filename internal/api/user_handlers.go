package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hackshare/internal/auth"
	"hackshare/internal/config"
	"hackshare/internal/logger"
	"hackshare/internal/user"

	"github.com/gin-gonic/gin"
)

const tokenLifetime = 7 * 24 * time.Hour

type LoginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func userJSON(u *user.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
	}
}

func sessionTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Server.SessionMinutes) * time.Minute
}

// createUser validates reg and stores a new user with role.
func createUser(ctx context.Context, svc *Services, reg user.Registration, role user.Role) (*user.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := user.ValidateRegistration(reg).OrNil(); err != nil {
		return nil, err
	}
	pwHash, err := user.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := svc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// issueSession signs a token for u and records it as the user's live session.
func issueSession(c *gin.Context, cfg *config.Config, svc *Services, u *user.User) (*LoginResponse, error) {
	token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Username, string(u.Role), tokenLifetime)
	if err != nil {
		return nil, err
	}
	if err := svc.Sessions.Set(c.Request.Context(), u.ID, token, sessionTTL(cfg)); err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}, nil
}

// POST /auth/register
func RegisterHandler(cfg *config.Config, svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.Registration
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		u, err := createUser(c.Request.Context(), svc, req, user.RoleRegular)
		if err != nil {
			respondError(c, err)
			return
		}
		resp, err := issueSession(c, cfg, svc, u)
		if err != nil {
			logger.Errorf("register %s: session: %v", u.ID, err)
			errorJSON(c, http.StatusInternalServerError, "Failed to start session")
			return
		}
		logger.Infof("user registered: %s", u.Username)
		c.JSON(http.StatusCreated, resp)
	}
}

// POST /auth/login
func LoginHandler(cfg *config.Config, svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		// If no users exist, indicate need for setup
		count, err := svc.Users.Count(ctx)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Initial setup required", "need_setup": true}})
			return
		}
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		login := req.Login
		if login == "" {
			login = req.Username
		}
		u, err := svc.Users.FindByLogin(ctx, strings.TrimSpace(login))
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if u == nil || user.CheckPassword(u.PasswordHash, req.Password) != nil {
			errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		resp, err := issueSession(c, cfg, svc, u)
		if err != nil {
			logger.Errorf("login %s: session: %v", u.ID, err)
			errorJSON(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /auth/logout
func LogoutHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CallerID(c)
		if !ok {
			errorJSON(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		_ = svc.Sessions.Delete(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// GET /auth/me
func MeHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.CallerID(c)
		u, err := svc.Users.FindByID(c.Request.Context(), userID)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if u == nil {
			errorJSON(c, http.StatusUnauthorized, auth.ErrUserGone.Error())
			return
		}
		c.JSON(http.StatusOK, userJSON(u))
	}
}

type onlineCounter interface {
	OnlineCount(ctx context.Context) (int, error)
}

// OnlineUserCountHandler returns the number of unique online users.
func OnlineUserCountHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counter, ok := svc.Sessions.(onlineCounter)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"online": 0})
			return
		}
		count, err := counter.OnlineCount(c.Request.Context())
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to count online users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"online": count})
	}
}
