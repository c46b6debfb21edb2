// Package devapi is a local stand-in for the remote auth and catalog API. It
// speaks the same wire shapes, error bodies included, and keeps everything in
// memory. It exists for development and tests only.
package devapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rwooga-storefront/internal/logging"
)

// Options configures a Server.
type Options struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	Logger        *zap.Logger
}

type account struct {
	ID       int
	FullName string
	Email    string
	Phone    string
	Role     string
	Hash     []byte
	Verified bool
}

type Server struct {
	logger *zap.Logger
	tokens *tokenIssuer

	mu           sync.Mutex
	nextID       int
	accounts     map[string]*account
	verifyTokens map[string]string
	resetTokens  map[string]string
	revoked      map[string]bool
	catalog      *catalog
}

// New builds a Server seeded with a verified admin account and a small
// catalog.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	s := &Server{
		logger: logger,
		tokens: &tokenIssuer{
			secret:     []byte(opts.JWTSecret),
			accessTTL:  time.Hour,
			refreshTTL: 7 * 24 * time.Hour,
			now:        time.Now,
		},
		nextID:       1,
		accounts:     make(map[string]*account),
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
		revoked:      make(map[string]bool),
		catalog:      seedCatalog(),
	}
	if opts.AdminEmail != "" {
		if _, err := s.addAccount("Rwooga Admin", opts.AdminEmail, "", opts.AdminPassword, "admin", true); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	return s, nil
}

// Handler returns the gin engine serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(s.logger))

	auth := r.Group("/auth")
	auth.POST("/login/", s.login)
	auth.POST("/register/", s.register)
	auth.POST("/verify-email/", s.verifyEmailBody)
	auth.GET("/verify-email/:token/", s.verifyEmailPath)
	auth.POST("/logout/", s.logout)
	auth.POST("/password-reset/", s.requestReset)
	auth.POST("/password-reset/confirm/", s.confirmReset)

	products := r.Group("/products")
	products.GET("/products/", s.listProducts)
	products.GET("/products/:id/", s.getProduct)
	products.GET("/categories/", s.listCategories)
	products.GET("/media/", s.listMedia)
	products.GET("/feedback/", s.listFeedback)
	products.POST("/feedback/", s.createFeedback)

	return r
}

// VerificationToken returns the pending verification token for email, as the
// real API would have emailed it.
func (s *Server) VerificationToken(email string) (string, bool) {
	return s.pendingToken(s.verifyTokens, email)
}

// ResetToken returns the pending password reset token for email.
func (s *Server) ResetToken(email string) (string, bool) {
	return s.pendingToken(s.resetTokens, email)
}

func (s *Server) pendingToken(tokens map[string]string, email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	for tok, owner := range tokens {
		if owner == email {
			return tok, true
		}
	}
	return "", false
}

// addAccount must not be called with mu held.
func (s *Server) addAccount(fullName, email, phone, password, role string, verified bool) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	if _, exists := s.accounts[email]; exists {
		return nil, errEmailTaken
	}
	a := &account{
		ID:       s.nextID,
		FullName: fullName,
		Email:    email,
		Phone:    phone,
		Role:     role,
		Hash:     hash,
		Verified: verified,
	}
	s.nextID++
	s.accounts[email] = a
	return a, nil
}

func (s *Server) accountByID(id string) *account {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == n {
			return a
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bearer extracts and validates the access token of c.
func (s *Server) bearer(c *gin.Context) (*claims, bool) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return nil, false
	}
	cl, err := s.tokens.parse(raw, kindAccess)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
		return nil, false
	}
	return cl, true
}
