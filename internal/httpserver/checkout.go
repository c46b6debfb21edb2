package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/service/checkout"
)

func (h *handlers) checkout(c *gin.Context) {
	var in checkout.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	ws := workspaceFrom(c)
	in = in.Prefill(ws.Session.Snapshot().User)

	order, err := h.deps.Checkout.PlaceOrder(c.Request.Context(), ws.Cart, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
