package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/logger"
	"github.com/noah-isme/school-records-api/pkg/response"
)

// ContextActorKey is the gin context key storing the authenticated *models.Actor.
const ContextActorKey = "currentActor"

// Authenticator resolves a bearer token to the calling actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Actor, error)
}

// JWT protects routes by requiring a valid access token tied to a profile.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Set(logger.ActorIDKey, actor.UserID)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by JWT.
func ActorFromContext(c *gin.Context) (*models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*models.Actor)
	return actor, ok && actor != nil
}
