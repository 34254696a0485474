package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/models"
)

// AuditResourceIDKey lets a handler name the row it created for the audit entry.
const AuditResourceIDKey = "audit_resource_id"

// AuditRecorder accepts audit events.
type AuditRecorder interface {
	Record(event models.AuditEvent)
}

// Audit records an event after every successful request on the route.
func Audit(recorder AuditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		var actorID string
		if actor, ok := ActorFromContext(c); ok {
			actorID = actor.UserID
		}
		resourceID := c.GetString(AuditResourceIDKey)
		if resourceID == "" {
			resourceID = c.Param("id")
		}

		recorder.Record(models.AuditEvent{
			ActorID:    actorID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Details: map[string]interface{}{
				"path":       c.FullPath(),
				"method":     c.Request.Method,
				"status":     c.Writer.Status(),
				"latency_ms": time.Since(start).Milliseconds(),
			},
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			OccurredAt: start,
		})
	}
}
