// Package session tracks who is signed in for one profile. It drives the
// anonymous/authenticating/authenticated/error state machine, calls the remote
// auth API, and mirrors the identity and tokens into the profile store.
package session

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/storage"
	"rwooga-storefront/internal/validation"
)

// API is the part of the remote API the session depends on.
type API interface {
	Login(ctx context.Context, in apiclient.LoginRequest) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, in apiclient.RegisterRequest) (*apiclient.RegisterResponse, error)
	VerifyEmail(ctx context.Context, in apiclient.VerifyEmailRequest) (*apiclient.MessageResponse, error)
	Logout(ctx context.Context, access, refresh string) error
	RequestPasswordReset(ctx context.Context, in apiclient.PasswordResetRequest) (*apiclient.MessageResponse, error)
	ConfirmPasswordReset(ctx context.Context, in apiclient.PasswordResetConfirmRequest) (*apiclient.MessageResponse, error)
}

// Store is the slice of the profile bucket the session mirrors into.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	GetJSON(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key, value string) error
	SetJSON(ctx context.Context, key string, v any) error
	Remove(ctx context.Context, keys ...string) error
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Status  domain.SessionStatus `json:"status"`
	User    *domain.User         `json:"user"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error,omitempty"`
}

// Authenticated reports whether the snapshot holds a user.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Fallback messages used when the remote API gives nothing better.
const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
	verificationFailed = "Email verification failed"
	resetFailed        = "Password reset failed"
)

// Context is the session of one profile. Remote calls run outside the lock;
// overlapping calls each apply their result when they finish, so the last
// response wins.
type Context struct {
	api    API
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	status   domain.SessionStatus
	user     *domain.User
	tokens   domain.Tokens
	errMsg   string
	inflight int
}

// Restore rebuilds the session from store. A decodable user record carrying
// an id or email restores an authenticated session without asking the remote
// API; null or empty records count as absent.
func Restore(ctx context.Context, api API, store Store, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Context{api: api, store: store, logger: logger, status: domain.SessionAnonymous}

	var user *domain.User
	if store.GetJSON(ctx, storage.KeyUser, &user) && user.Identified() {
		s.user = user
		s.tokens.Access, _ = store.Get(ctx, storage.KeyAccessToken)
		s.tokens.Refresh, _ = store.Get(ctx, storage.KeyRefreshToken)
		s.status = domain.SessionAuthenticated
	}
	return s
}

// Snapshot returns the current state.
func (s *Context) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Status: s.status, Loading: s.inflight > 0, Error: s.errMsg}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// AccessToken returns the bearer token for authenticated remote calls.
func (s *Context) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Access
}

// Login authenticates with the remote API. On failure the status becomes
// error and any previously held user and tokens are kept.
func (s *Context) Login(ctx context.Context, form validation.Login) (*domain.User, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	s.begin(func() {
		s.status = domain.SessionAuthenticating
		s.errMsg = ""
	})
	resp, err := s.api.Login(ctx, apiclient.LoginRequest{Email: form.Email, Password: form.Password})
	if err == nil && (resp == nil || !resp.User.Identified()) {
		err = &apiclient.Error{Status: http.StatusOK, Message: "Login failed: no user returned"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil {
		s.status = domain.SessionError
		s.errMsg = apiclient.Message(err, loginFailed)
		return nil, err
	}

	user := *resp.User
	s.user = &user
	s.tokens = domain.Tokens{Access: resp.Access, Refresh: resp.Refresh}
	s.status = domain.SessionAuthenticated
	s.errMsg = ""
	s.mirror(ctx)

	s.logger.Info("session authenticated",
		zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	out := user
	return &out, nil
}

// Register creates an unverified account. The session itself is unchanged;
// only a failure message is recorded.
func (s *Context) Register(ctx context.Context, form validation.Registration) (*apiclient.RegisterResponse, error) {
	form = form.Normalize()
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	s.begin(func() { s.errMsg = "" })
	resp, err := s.api.Register(ctx, apiclient.RegisterRequest{
		FullName:        form.Name,
		Email:           form.Email,
		PhoneNumber:     form.Phone,
		Password:        form.Password,
		PasswordConfirm: form.ConfirmPassword,
	})
	s.finish(err, registrationFailed)
	return resp, err
}

// VerifyEmail confirms a pending registration. It never signs the user in.
func (s *Context) VerifyEmail(ctx context.Context, token, email string) (*apiclient.MessageResponse, error) {
	if token == "" {
		return nil, validation.Errors{{Field: "token", Message: "Verification token is missing"}}
	}

	s.begin(func() { s.errMsg = "" })
	resp, err := s.api.VerifyEmail(ctx, apiclient.VerifyEmailRequest{Token: token, Email: email})
	s.finish(err, verificationFailed)
	return resp, err
}

// RequestPasswordReset asks the remote API to send a reset link.
func (s *Context) RequestPasswordReset(ctx context.Context, form validation.PasswordResetRequest) (*apiclient.MessageResponse, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	s.begin(func() { s.errMsg = "" })
	resp, err := s.api.RequestPasswordReset(ctx, apiclient.PasswordResetRequest{Email: form.Email})
	s.finish(err, resetFailed)
	return resp, err
}

// ConfirmPasswordReset sets a new password from a reset token.
func (s *Context) ConfirmPasswordReset(ctx context.Context, form validation.PasswordResetConfirm) (*apiclient.MessageResponse, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	s.begin(func() { s.errMsg = "" })
	resp, err := s.api.ConfirmPasswordReset(ctx, apiclient.PasswordResetConfirmRequest{
		Token:              form.Token,
		NewPassword:        form.NewPassword,
		NewPasswordConfirm: form.ConfirmPassword,
	})
	s.finish(err, resetFailed)
	return resp, err
}

// Logout clears the session locally and then notifies the remote API. The
// notification is best effort: its failure is logged and never undoes the
// local logout.
func (s *Context) Logout(ctx context.Context) {
	tokens := s.reset(ctx)
	if tokens.Refresh == "" {
		return
	}
	if err := s.api.Logout(ctx, tokens.Access, tokens.Refresh); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
	}
}

// Invalidate drops the session after the remote API rejected its token.
func (s *Context) Invalidate(ctx context.Context) {
	s.reset(ctx)
	s.logger.Info("session invalidated by remote token rejection")
}

// ClearError drops the error message. An error status falls back to
// authenticated when a user is held, anonymous otherwise.
func (s *Context) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = ""
	if s.status == domain.SessionError {
		if s.user != nil {
			s.status = domain.SessionAuthenticated
		} else {
			s.status = domain.SessionAnonymous
		}
	}
}

func (s *Context) begin(apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	apply()
}

func (s *Context) finish(err error, fallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil {
		s.errMsg = apiclient.Message(err, fallback)
	}
}

// reset clears identity in memory and store and returns the tokens held
// before clearing.
func (s *Context) reset(ctx context.Context) domain.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.tokens
	s.user = nil
	s.tokens = domain.Tokens{}
	s.status = domain.SessionAnonymous
	s.errMsg = ""
	if err := s.store.Remove(ctx, storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyUser); err != nil {
		s.logger.Warn("clear stored session failed", zap.Error(err))
	}
	return prev
}

// mirror writes the held identity to the store. Must be called with mu held.
func (s *Context) mirror(ctx context.Context) {
	if err := s.store.SetJSON(ctx, storage.KeyUser, s.user); err != nil {
		s.logger.Warn("persist user failed", zap.Error(err))
	}
	if err := s.store.Set(ctx, storage.KeyAccessToken, s.tokens.Access); err != nil {
		s.logger.Warn("persist access token failed", zap.Error(err))
	}
	if err := s.store.Set(ctx, storage.KeyRefreshToken, s.tokens.Refresh); err != nil {
		s.logger.Warn("persist refresh token failed", zap.Error(err))
	}
}
