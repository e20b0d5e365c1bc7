package api

import (
	"errors"
	"net/http"

	"hackshare/internal/hack"
	"hackshare/internal/logger"
	"hackshare/internal/validate"

	"github.com/gin-gonic/gin"
)

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *gin.Context, err error) {
	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
	case errors.Is(err, hack.ErrPermissionDenied):
		errorJSON(c, http.StatusForbidden, err.Error())
	case errors.Is(err, hack.ErrUserNotFound):
		errorJSON(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, hack.ErrInvalidCursor):
		errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}
