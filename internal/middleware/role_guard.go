package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/pkg/apperrors"
)

// RoleGuard rejects authenticated requests whose role is not in the
// allowed set. Runs after Auth, before any side effect.
func RoleGuard(allowed ...string) gin.HandlerFunc {
	set := make(map[string]bool, len(allowed))
	for _, r := range allowed {
		set[r] = true
	}

	return func(c *gin.Context) {
		if !set[c.GetString("role")] {
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrorBody{
					Code:    "FORBIDDEN",
					Message: "insufficient permissions",
				},
			})
			return
		}

		c.Next()
	}
}
