package devapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/domain"
)

const (
	adminEmail    = "admin@rwooga.rw"
	adminPassword = "Admin#2024"
)

func newTestAPI(t *testing.T, mode apiclient.VerifyMode) (*Server, *apiclient.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := New(Options{JWTSecret: "test-secret", AdminEmail: adminEmail, AdminPassword: adminPassword})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, apiclient.New(apiclient.Options{BaseURL: ts.URL, VerifyMode: mode})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestLogin_Admin(t *testing.T) {
	_, client := newTestAPI(t, apiclient.VerifyPost)

	resp, err := client.Login(context.Background(), apiclient.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.Equal(t, "Rwooga Admin", resp.User.Name)
	assert.Equal(t, "1", resp.User.ID)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, client := newTestAPI(t, apiclient.VerifyPost)

	_, err := client.Login(context.Background(), apiclient.LoginRequest{Email: adminEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.Equal(t, "No active account found with the given credentials", err.Error())
}

func register(t *testing.T, client *apiclient.Client, email string) {
	t.Helper()
	_, err := client.Register(context.Background(), apiclient.RegisterRequest{
		FullName:        "Aline Uwase",
		Email:           email,
		PhoneNumber:     "0781234567",
		Password:        "Secret#2024",
		PasswordConfirm: "Secret#2024",
	})
	require.NoError(t, err)
}

func TestRegisterVerifyLogin(t *testing.T) {
	for _, mode := range []apiclient.VerifyMode{apiclient.VerifyPost, apiclient.VerifyPath} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			srv, client := newTestAPI(t, mode)
			register(t, client, "aline@example.com")

			creds := apiclient.LoginRequest{Email: "aline@example.com", Password: "Secret#2024"}
			_, err := client.Login(ctx, creds)
			assert.Equal(t, http.StatusForbidden, statusOf(t, err))
			assert.Equal(t, "Please verify your email before logging in.", err.Error())

			token, ok := srv.VerificationToken("aline@example.com")
			require.True(t, ok)
			_, err = client.VerifyEmail(ctx, apiclient.VerifyEmailRequest{Token: token})
			require.NoError(t, err)

			resp, err := client.Login(ctx, creds)
			require.NoError(t, err)
			assert.Equal(t, domain.RoleUser, resp.User.Role)
			assert.Equal(t, "0781234567", resp.User.Phone)

			_, err = client.VerifyEmail(ctx, apiclient.VerifyEmailRequest{Token: token})
			assert.Equal(t, "Invalid or expired verification token.", apiclient.Message(err, ""))
		})
	}
}

func TestRegister_FieldErrors(t *testing.T) {
	_, client := newTestAPI(t, apiclient.VerifyPost)
	register(t, client, "aline@example.com")

	_, err := client.Register(context.Background(), apiclient.RegisterRequest{
		FullName: "Aline", Email: "aline@example.com", Password: "Secret#2024", PasswordConfirm: "Secret#2024",
	})
	assert.Equal(t, "email: user with this email already exists.", apiclient.Message(err, ""))

	_, err = client.Register(context.Background(), apiclient.RegisterRequest{
		FullName: "Eric", Email: "eric@example.com", Password: "weak", PasswordConfirm: "other",
	})
	assert.Equal(t, "password: This password is too weak.", apiclient.Message(err, ""))
}

func TestLogout_RevokesRefresh(t *testing.T) {
	ctx := context.Background()
	_, client := newTestAPI(t, apiclient.VerifyPost)
	resp, err := client.Login(ctx, apiclient.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx, resp.Access, resp.Refresh))
	err = client.Logout(ctx, resp.Access, resp.Refresh)
	assert.Equal(t, "Token is blacklisted", apiclient.Message(err, ""))

	err = client.Logout(ctx, "garbage", resp.Refresh)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestAPI(t, apiclient.VerifyPost)

	_, err := client.RequestPasswordReset(ctx, apiclient.PasswordResetRequest{Email: adminEmail})
	require.NoError(t, err)
	token, ok := srv.ResetToken(adminEmail)
	require.True(t, ok)

	_, err = client.ConfirmPasswordReset(ctx, apiclient.PasswordResetConfirmRequest{
		Token: token, NewPassword: "NewPass#1", NewPasswordConfirm: "Different#1",
	})
	assert.Equal(t, "Passwords do not match.", apiclient.Message(err, ""))

	_, err = client.ConfirmPasswordReset(ctx, apiclient.PasswordResetConfirmRequest{
		Token: token, NewPassword: "NewPass#1", NewPasswordConfirm: "NewPass#1",
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, apiclient.LoginRequest{Email: adminEmail, Password: "NewPass#1"})
	require.NoError(t, err)

	_, err = client.RequestPasswordReset(ctx, apiclient.PasswordResetRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	_, ok = srv.ResetToken("nobody@example.com")
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	_, client := newTestAPI(t, apiclient.VerifyPost)

	published := true
	list, err := client.ListProducts(ctx, apiclient.ProductQuery{Published: &published, Ordering: "-price"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Articulated Dragon", list[0].Name)
	assert.Equal(t, apiclient.Amount(25000), list[0].Price)
	assert.Equal(t, apiclient.Label("Toys"), list[0].Category)

	list, err = client.ListProducts(ctx, apiclient.ProductQuery{Category: "home-decor", MaxPrice: 20000})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, apiclient.ID("1"), list[0].ID)

	p, err := client.GetProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Minimalist Phone Stand", p.Name)

	_, err = client.GetProduct(ctx, "99")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	cats, err := client.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	med, err := client.ListProductMedia(ctx, "3")
	require.NoError(t, err)
	require.Len(t, med, 1)
	assert.Equal(t, "video", med[0].MediaType)
}

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	_, client := newTestAPI(t, apiclient.VerifyPost)
	resp, err := client.Login(ctx, apiclient.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	fb, err := client.CreateFeedback(ctx, resp.Access, apiclient.FeedbackRequest{Product: "2", Rating: 4, Comment: "Sturdy"})
	require.NoError(t, err)
	assert.Equal(t, apiclient.Label("Rwooga Admin"), fb.User)

	list, err := client.ListProductFeedback(ctx, "2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sturdy", list[0].Comment)

	_, err = client.CreateFeedback(ctx, resp.Refresh, apiclient.FeedbackRequest{Product: "2", Rating: 4, Comment: "x"})
	assert.True(t, apiclient.IsUnauthorized(err))

	_, err = client.CreateFeedback(ctx, resp.Access, apiclient.FeedbackRequest{Product: "2", Rating: 7, Comment: "x"})
	assert.Equal(t, "rating: Ensure this value is between 1 and 5.", apiclient.Message(err, ""))
}
