package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rwooga-storefront/internal/cart"
	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/validation"
)

const defaultCurrency = "RWF"

type cartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0,lte=1000000000000"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Currency string `json:"currency"`
}

func (r cartItemRequest) toItem() domain.CartItem {
	currency := strings.TrimSpace(r.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	return domain.CartItem{
		ID:       r.ID,
		Name:     r.Name,
		Price:    r.Price,
		Image:    r.Image,
		Category: r.Category,
		Currency: currency,
	}
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(workspaceFrom(c).Cart.State()))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		h.respondError(c, err)
		return
	}

	ws := workspaceFrom(c)
	if err := ws.Cart.AddItem(c.Request.Context(), req.toItem()); err != nil {
		if cart.Rejected(err) {
			h.respondError(c, err)
			return
		}
		h.logger.Warn("cart write-through failed", zap.String("profile_id", ws.ProfileID), zap.Error(err))
	}
	c.JSON(http.StatusOK, toCartResponse(ws.Cart.State()))
}

func (h *handlers) addCartProduct(c *gin.Context) {
	ws := workspaceFrom(c)
	if _, err := h.deps.Catalog.AddToCart(c.Request.Context(), ws.Cart, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(ws.Cart.State()))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	ws := workspaceFrom(c)
	if err := ws.Cart.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Warn("cart write-through failed", zap.String("profile_id", ws.ProfileID), zap.Error(err))
	}
	c.JSON(http.StatusOK, toCartResponse(ws.Cart.State()))
}

func (h *handlers) clearCart(c *gin.Context) {
	ws := workspaceFrom(c)
	if err := ws.Cart.Clear(c.Request.Context()); err != nil {
		h.logger.Warn("cart write-through failed", zap.String("profile_id", ws.ProfileID), zap.Error(err))
	}
	c.JSON(http.StatusOK, toCartResponse(ws.Cart.State()))
}
