package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// RequireRole gates a route group to one role. Admin passes everything.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole != role && userRole != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", role))
			c.Abort()
			return
		}

		c.Next()
	}
}
