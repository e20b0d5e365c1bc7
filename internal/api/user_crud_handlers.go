package api

import (
	"net/http"

	"hackshare/internal/user"

	"github.com/gin-gonic/gin"
)

// GET /users  [admin only]
func ListUsersHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.Users.List(c.Request.Context())
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "List error")
			return
		}
		result := make([]gin.H, 0, len(users))
		for i := range users {
			result = append(result, userJSON(&users[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /users/:id  [admin only]
func GetUserByIdHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Users.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if u == nil {
			errorJSON(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, userJSON(u))
	}
}

type CreateUserRequest struct {
	user.Registration
	Role user.Role `json:"role"`
}

// POST /users  [admin only]
// The role is chosen here and cannot be changed later.
func CreateUserHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		if req.Role == "" {
			req.Role = user.RoleRegular
		}
		if !req.Role.Valid() {
			errorJSON(c, http.StatusBadRequest, "Invalid role")
			return
		}
		u, err := createUser(c.Request.Context(), svc, req.Registration, req.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, userJSON(u))
	}
}
