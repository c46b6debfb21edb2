package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rwooga-storefront/internal/validation"
)

var errEmailTaken = errors.New("email already registered")

type wireUser struct {
	ID          int    `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
}

func toWire(a *account) wireUser {
	return wireUser{ID: a.ID, FullName: a.FullName, Email: a.Email, PhoneNumber: a.Phone, Role: a.Role}
}

func (s *Server) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	s.mu.Lock()
	a := s.accounts[normalizeEmail(in.Email)]
	s.mu.Unlock()
	if a == nil || bcrypt.CompareHashAndPassword(a.Hash, []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
		return
	}
	if !a.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email before logging in."})
		return
	}

	id := strconv.Itoa(a.ID)
	access, err := s.tokens.issue(id, a.Role, kindAccess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	refresh, err := s.tokens.issue(id, a.Role, kindRefresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toWire(a), "access": access, "refresh": refresh})
}

func (s *Server) register(c *gin.Context) {
	var in struct {
		FullName        string `json:"full_name"`
		Email           string `json:"email"`
		PhoneNumber     string `json:"phone_number"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}

	fieldErrs := gin.H{}
	if strings.TrimSpace(in.FullName) == "" {
		fieldErrs["full_name"] = []string{"This field may not be blank."}
	}
	if !strings.Contains(in.Email, "@") {
		fieldErrs["email"] = []string{"Enter a valid email address."}
	}
	if !validation.StrongPassword(in.Password) {
		fieldErrs["password"] = []string{"This password is too weak."}
	}
	if in.Password != in.PasswordConfirm {
		fieldErrs["password_confirm"] = []string{"Passwords do not match."}
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	a, err := s.addAccount(strings.TrimSpace(in.FullName), in.Email, in.PhoneNumber, in.Password, "user", false)
	if errors.Is(err, errEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"user with this email already exists."}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.verifyTokens[token] = a.Email
	s.mu.Unlock()
	s.logger.Info("verification email", zap.String("email", a.Email), zap.String("token", token))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account.",
		"email":   a.Email,
	})
}

func (s *Server) verifyEmailBody(c *gin.Context) {
	var in struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"token": []string{"This field is required."}})
		return
	}
	s.verify(c, in.Token)
}

func (s *Server) verifyEmailPath(c *gin.Context) {
	s.verify(c, c.Param("token"))
}

func (s *Server) verify(c *gin.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.verifyTokens[token]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token."})
		return
	}
	delete(s.verifyTokens, token)
	if a := s.accounts[email]; a != nil {
		a.Verified = true
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully. You can now log in."})
}

func (s *Server) logout(c *gin.Context) {
	if _, ok := s.bearer(c); !ok {
		return
	}
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"refresh": []string{"This field is required."}})
		return
	}
	cl, err := s.tokens.parse(in.Refresh, kindRefresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Token is invalid or expired"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[cl.ID] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Token is blacklisted"})
		return
	}
	s.revoked[cl.ID] = true
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

func (s *Server) requestReset(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"This field is required."}})
		return
	}

	email := normalizeEmail(in.Email)
	s.mu.Lock()
	if _, ok := s.accounts[email]; ok {
		token := uuid.NewString()
		s.resetTokens[token] = email
		s.logger.Info("password reset email", zap.String("email", email), zap.String("token", token))
	}
	s.mu.Unlock()

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "If an account exists for this email, a reset link has been sent."})
}

func (s *Server) confirmReset(c *gin.Context) {
	var in struct {
		Token              string `json:"token"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if in.NewPassword != in.NewPasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Passwords do not match."}})
		return
	}
	if len(in.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"new_password": []string{"Ensure this field has at least 8 characters."}})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[in.Token]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token."})
		return
	}
	delete(s.resetTokens, in.Token)
	if a := s.accounts[email]; a != nil {
		a.Hash = hash
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
