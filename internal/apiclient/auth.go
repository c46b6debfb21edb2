package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rwooga-storefront/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User    *domain.User `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// MessageResponse is the acknowledgement body of side-effecting endpoints.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Login exchanges credentials for a user record and token pair.
func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: "/auth/login/", body: in}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{Status: http.StatusOK, Message: "Login failed: no user returned"}
	}
	return &out, nil
}

// Register creates an unverified account.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: "/auth/register/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms a pending registration using the configured VerifyMode.
func (c *Client) VerifyEmail(ctx context.Context, in VerifyEmailRequest) (*MessageResponse, error) {
	req := request{method: http.MethodPost, path: "/auth/verify-email/", body: in}
	if c.verifyMode == VerifyPath {
		req = request{method: http.MethodGet, path: "/auth/verify-email/" + url.PathEscape(in.Token) + "/"}
	}
	var out MessageResponse
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the remote API to revoke refresh.
func (c *Client) Logout(ctx context.Context, access, refresh string) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/auth/logout/",
		token:  access,
		body:   LogoutRequest{Refresh: refresh},
	}, nil)
}

// RequestPasswordReset asks the remote API to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, in PasswordResetRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: "/auth/password-reset/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmPasswordReset sets a new password using a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, in PasswordResetConfirmRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: "/auth/password-reset/confirm/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
