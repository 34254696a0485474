package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/response"
)

// RequireRoles allows the request through only for the listed profile roles.
func RequireRoles(roles ...models.ProfileRole) gin.HandlerFunc {
	allowed := make(map[models.ProfileRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireStaff is RequireRoles for director, preceptor and teacher.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.StaffRoles()...)
}
