package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/guard"
)

const guardRetryAfterSeconds = 1

// requireRole gates a route on the caller's session. An empty role only
// demands a signed-in user.
func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := workspaceFrom(c).Session.Snapshot()
		d := guard.Decide(snap.Status, snap.User, role, c.Request.URL.RequestURI())
		switch {
		case d.Outcome == guard.Render:
			c.Next()
		case d.Outcome == guard.Loading:
			c.Header("Retry-After", strconv.Itoa(guardRetryAfterSeconds))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":    "Session is being established",
				"decision": d,
			})
		case d.Target == guard.LoginPath:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Please sign in to continue",
				"decision": d,
				"location": d.Location(),
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "You do not have access to this page",
				"decision": d,
				"location": d.Location(),
			})
		}
	}
}

// guardDecision exposes the guard to the browser router:
// GET /api/guard?path=/admin&role=admin.
func (h *handlers) guardDecision(c *gin.Context) {
	snap := workspaceFrom(c).Session.Snapshot()
	var role domain.Role
	if raw := c.Query("role"); raw != "" {
		role = domain.ParseRole(raw)
	}
	d := guard.Decide(snap.Status, snap.User, role, c.Query("path"))
	c.JSON(http.StatusOK, gin.H{"decision": d, "location": d.Location()})
}
