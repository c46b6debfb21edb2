package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/workspace"
)

const (
	defaultProfileCookie = "rwooga_profile"
	profileHeader        = "X-Profile-ID"
	profileCookieMaxAge  = 365 * 24 * 60 * 60
)

type ctxKey string

const workspaceCtxKey ctxKey = "workspace"

// profileMiddleware resolves the caller's profile from the X-Profile-ID header
// or the profile cookie, issuing a new id when neither carries a valid one,
// and places its workspace in the request context.
func profileMiddleware(registry *workspace.Registry, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(profileHeader)
		if !workspace.ValidProfileID(id) {
			id, _ = c.Cookie(cookieName)
		}
		if !workspace.ValidProfileID(id) {
			id = workspace.NewProfileID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, profileCookieMaxAge, "/", "", secure, true)
		}
		c.Header(profileHeader, id)
		c.Set("profile_id", id)

		ws := registry.Get(c.Request.Context(), id)
		ctx := context.WithValue(c.Request.Context(), workspaceCtxKey, ws)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// workspaceFrom returns the workspace placed by profileMiddleware.
func workspaceFrom(c *gin.Context) *workspace.Workspace {
	ws, _ := c.Request.Context().Value(workspaceCtxKey).(*workspace.Workspace)
	return ws
}
