package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/validation"
)

func (h *handlers) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(workspaceFrom(c).Session.Snapshot()))
}

func (h *handlers) login(c *gin.Context) {
	var form validation.Login
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c)
		return
	}
	ws := workspaceFrom(c)
	if _, err := ws.Session.Login(c.Request.Context(), form); err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			c.JSON(http.StatusUnauthorized, errorResponse{Error: apiclient.Message(err, "Login failed")})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(ws.Session.Snapshot()))
}

func (h *handlers) register(c *gin.Context) {
	var form validation.Registration
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c)
		return
	}
	resp, err := workspaceFrom(c).Session.Register(c.Request.Context(), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": resp.Message, "email": resp.Email})
}

type verifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (h *handlers) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.doVerifyEmail(c, req.Token, req.Email)
}

func (h *handlers) verifyEmailToken(c *gin.Context) {
	h.doVerifyEmail(c, c.Param("token"), c.Query("email"))
}

func (h *handlers) doVerifyEmail(c *gin.Context, token, email string) {
	resp, err := workspaceFrom(c).Session.VerifyEmail(c.Request.Context(), token, email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	msg := resp.Message
	if msg == "" {
		msg = "Email verified successfully"
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (h *handlers) logout(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.Session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, toSessionResponse(ws.Session.Snapshot()))
}

func (h *handlers) clearSessionError(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.Session.ClearError()
	c.JSON(http.StatusOK, toSessionResponse(ws.Session.Snapshot()))
}

func (h *handlers) requestPasswordReset(c *gin.Context) {
	var form validation.PasswordResetRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c)
		return
	}
	resp, err := workspaceFrom(c).Session.RequestPasswordReset(c.Request.Context(), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: firstNonEmpty(resp.Message, resp.Detail, "Check your email for a reset link")})
}

func (h *handlers) confirmPasswordReset(c *gin.Context) {
	var form validation.PasswordResetConfirm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c)
		return
	}
	resp, err := workspaceFrom(c).Session.ConfirmPasswordReset(c.Request.Context(), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: firstNonEmpty(resp.Message, resp.Detail, "Password updated")})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
