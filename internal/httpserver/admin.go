package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/service/admin"
)

func (h *handlers) adminListings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.deps.Admin.Listings(c.Request.Context())})
}

func (h *handlers) adminCreateListing(c *gin.Context) {
	var in admin.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	l, err := h.deps.Admin.CreateListing(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *handlers) adminUpdateListing(c *gin.Context) {
	var in admin.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	l, err := h.deps.Admin.UpdateListing(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *handlers) adminDeleteListing(c *gin.Context) {
	if err := h.deps.Admin.DeleteListing(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminRequests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.deps.Admin.Requests(c.Request.Context())})
}

func (h *handlers) adminDeleteRequest(c *gin.Context) {
	if err := h.deps.Admin.DeleteRequest(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.deps.Admin.Messages(c.Request.Context())})
}

func (h *handlers) adminDeleteMessage(c *gin.Context) {
	if err := h.deps.Admin.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type customPrintingRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *handlers) adminSetCustomPrinting(c *gin.Context) {
	var req customPrintingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		badRequest(c)
		return
	}
	if err := h.deps.Admin.SetCustomPrinting(c.Request.Context(), *req.Enabled); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customPrintingEnabled": h.deps.Admin.CustomPrinting(c.Request.Context())})
}
