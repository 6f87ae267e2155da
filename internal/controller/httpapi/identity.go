package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/model"
)

const identityKey = "identity"

// RequireIdentity extracts the caller identity placed in headers by the
// authenticating gateway and restricts access to admins and counselors.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Code:    http.StatusUnauthorized,
				Message: "authentication required",
			})
			return
		}

		role := model.Role(c.GetHeader("X-User-Role"))
		if role != model.RoleAdmin && role != model.RoleCounselor {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{
				Code:    http.StatusForbidden,
				Message: "insufficient role",
			})
			return
		}

		c.Set(identityKey, model.Identity{UserID: userID, Role: role})
		c.Next()
	}
}

func identityFrom(c *gin.Context) model.Identity {
	return c.MustGet(identityKey).(model.Identity)
}
