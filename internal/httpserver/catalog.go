package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/service/catalog"
)

func productQuery(c *gin.Context) apiclient.ProductQuery {
	q := apiclient.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if raw := c.Query("published"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			q.Published = &v
		}
	}
	q.MinPrice, _ = strconv.ParseInt(c.Query("min_price"), 10, 64)
	q.MaxPrice, _ = strconv.ParseInt(c.Query("max_price"), 10, 64)
	return q
}

func (h *handlers) listProducts(c *gin.Context) {
	list, err := h.deps.Catalog.List(c.Request.Context(), productQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nonNil(list)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) productMedia(c *gin.Context) {
	list, err := h.deps.Catalog.Media(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nonNil(list)})
}

func (h *handlers) productFeedback(c *gin.Context) {
	list, err := h.deps.Catalog.Feedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nonNil(list)})
}

func (h *handlers) postFeedback(c *gin.Context) {
	var in catalog.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	fb, err := h.deps.Catalog.PostFeedback(c.Request.Context(), workspaceFrom(c).Session, c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": nonNil(list)})
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
