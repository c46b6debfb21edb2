package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/service/catalog"
	"rwooga-storefront/internal/validation"
)

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// respondError maps err onto a status code and JSON body.
func (h *handlers) respondError(c *gin.Context, err error) {
	if verrs, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: verrs.Error(), Fields: verrs})
		return
	}

	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	case errors.Is(err, domain.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid price"})
	case errors.Is(err, domain.ErrCartTotalOverflow):
		c.JSON(http.StatusConflict, errorResponse{Error: "Your cart total is too large"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusConflict, errorResponse{Error: "Your cart is empty"})
	case errors.Is(err, domain.ErrIntakeClosed):
		c.JSON(http.StatusConflict, errorResponse{Error: "Custom printing is currently paused. Please explore our shop for ready-to-ship products."})
	case errors.Is(err, catalog.ErrSignedOut):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Please sign in to continue"})
	case errors.As(err, &apiErr):
		c.JSON(remoteStatus(apiErr.Status), errorResponse{Error: apiclient.Message(err, "Request failed")})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong"})
	}
}

// remoteStatus translates a remote API status into ours. Unreachable or
// failing upstreams are a bad gateway; client errors keep their class.
func remoteStatus(status int) int {
	switch {
	case status == 0, status >= 500:
		return http.StatusBadGateway
	case status == http.StatusUnauthorized, status == http.StatusNotFound:
		return status
	case status >= 400:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
}
