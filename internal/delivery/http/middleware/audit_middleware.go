package middleware

import (
	"net/http"

	"job-marketplace-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// NewAuditEvent prefills an audit event with the request's client details.
func NewAuditEvent(c *gin.Context, eventType security.EventType) security.Event {
	return security.Event{
		Type:      eventType,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(RequestIDKey),
	}
}

// AccessAudit records rejected requests once the handler chain has run:
// 401 and 403 as access events, 429 as rate limiting.
func AccessAudit(audit *security.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var eventType security.EventType
		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			eventType = security.EventUnauthenticated
		case http.StatusForbidden:
			eventType = security.EventAccessDenied
		case http.StatusTooManyRequests:
			eventType = security.EventRateLimited
		default:
			return
		}

		event := NewAuditEvent(c, eventType)
		event.SubjectType, event.SubjectValue = "ip", event.IP
		if r := CurrentRequester(c); r.UserID != "" {
			event.SubjectType, event.SubjectValue = "user_id", r.UserID
		}
		event.Details = map[string]string{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}
		audit.Log(c.Request.Context(), event)
	}
}
