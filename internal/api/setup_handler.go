package api

import (
	"net/http"

	"hackshare/internal/logger"
	"hackshare/internal/user"

	"github.com/gin-gonic/gin"
)

// POST /setup
// Creates the first admin. Refused once any user exists.
func SetupHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		count, err := svc.Users.Count(ctx)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if count != 0 {
			errorJSON(c, http.StatusForbidden, "Setup not allowed; users already exist")
			return
		}
		var req user.Registration
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		u, err := createUser(ctx, svc, req, user.RoleAdmin)
		if err != nil {
			respondError(c, err)
			return
		}
		logger.Infof("initial admin created: %s", u.Username)
		body := userJSON(u)
		body["setup_complete"] = true
		c.JSON(http.StatusCreated, body)
	}
}
