package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/logging"
	"rwooga-storefront/internal/service/admin"
	"rwooga-storefront/internal/service/catalog"
	"rwooga-storefront/internal/service/checkout"
	"rwooga-storefront/internal/service/intake"
	"rwooga-storefront/internal/workspace"
)

// Deps groups the services the router dispatches to.
type Deps struct {
	Registry *workspace.Registry
	Catalog  *catalog.Service
	Admin    *admin.Service
	Intake   *intake.Service
	Checkout *checkout.Service
	Ready    PingFunc

	AllowedOrigins []string
	ProfileCookie  string
	CookieSecure   bool
}

type handlers struct {
	logger *zap.Logger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Registry == nil {
		return nil, errors.New("workspace registry required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.ProfileCookie == "" {
		deps.ProfileCookie = defaultProfileCookie
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", profileHeader},
			ExposeHeaders:    []string{profileHeader, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))

	h := &handlers{logger: logger, deps: deps}
	api := router.Group("/api")
	api.Use(profileMiddleware(deps.Registry, deps.ProfileCookie, deps.CookieSecure))

	cart := api.Group("/cart")
	cart.GET("", h.getCart)
	cart.POST("/items", h.addCartItem)
	cart.POST("/products/:id", h.addCartProduct)
	cart.DELETE("/items/:id", h.removeCartItem)
	cart.DELETE("", h.clearCart)

	sess := api.Group("/session")
	sess.GET("", h.getSession)
	sess.POST("/login", h.login)
	sess.POST("/register", h.register)
	sess.POST("/verify-email", h.verifyEmail)
	sess.GET("/verify-email/:token", h.verifyEmailToken)
	sess.POST("/logout", h.logout)
	sess.DELETE("/error", h.clearSessionError)
	sess.POST("/password-reset", h.requestPasswordReset)
	sess.POST("/password-reset/confirm", h.confirmPasswordReset)

	api.GET("/guard", h.guardDecision)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	products.GET("/:id/media", h.productMedia)
	products.GET("/:id/feedback", h.productFeedback)
	products.POST("/:id/feedback", requireRole(""), h.postFeedback)
	api.GET("/categories", h.listCategories)

	api.GET("/settings", h.settings)
	api.POST("/custom-requests", h.submitCustomRequest)
	api.POST("/contact", h.submitContact)

	api.POST("/checkout", requireRole(domain.RoleUser), h.checkout)

	adm := api.Group("/admin", requireRole(domain.RoleAdmin))
	adm.GET("/listings", h.adminListings)
	adm.POST("/listings", h.adminCreateListing)
	adm.PUT("/listings/:id", h.adminUpdateListing)
	adm.DELETE("/listings/:id", h.adminDeleteListing)
	adm.GET("/requests", h.adminRequests)
	adm.DELETE("/requests/:id", h.adminDeleteRequest)
	adm.GET("/messages", h.adminMessages)
	adm.DELETE("/messages/:id", h.adminDeleteMessage)
	adm.PUT("/settings/custom-printing", h.adminSetCustomPrinting)

	return router, nil
}
