package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/response"
)

// RequireRoles lets through only callers whose token carries one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, permitted := allowed[actor.Role]; !permitted {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(actor.Role)+" may not perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Editors are the roles allowed to change course availability.
func Editors() gin.HandlerFunc {
	return RequireRoles(models.RoleMentor, models.RoleAdmin)
}
