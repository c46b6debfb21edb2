package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/service/intake"
)

func (h *handlers) settings(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Intake.Settings(c.Request.Context()))
}

func (h *handlers) submitCustomRequest(c *gin.Context) {
	var in intake.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	sub, err := h.deps.Intake.SubmitRequest(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *handlers) submitContact(c *gin.Context) {
	var in intake.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	msg, err := h.deps.Intake.SubmitContact(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
