package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rwooga-storefront/internal/storage"
	"rwooga-storefront/internal/workspace"
)

func newProfileRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := workspace.NewRegistry(storage.NewMemory(), nil, time.Hour, nil)
	router := gin.New()
	router.Use(profileMiddleware(registry, defaultProfileCookie, false))
	router.GET("/test", func(c *gin.Context) {
		if workspaceFrom(c) == nil {
			t.Fatalf("expected workspace in context")
		}
		c.String(http.StatusOK, c.GetString("profile_id"))
	})
	return router
}

func TestProfileMiddleware_IssuesCookie(t *testing.T) {
	router := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != defaultProfileCookie {
		t.Fatalf("expected profile cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly profile cookie")
	}
	if rec.Body.String() != cookies[0].Value || rec.Header().Get(profileHeader) != cookies[0].Value {
		t.Fatalf("profile id mismatch: body=%q header=%q cookie=%q", rec.Body.String(), rec.Header().Get(profileHeader), cookies[0].Value)
	}
}

func TestProfileMiddleware_ReusesCookie(t *testing.T) {
	router := newProfileRouter(t)
	id := workspace.NewProfileID()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: defaultProfileCookie, Value: id})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Body.String() != id {
		t.Fatalf("expected profile %s, got %s", id, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie")
	}
}

func TestProfileMiddleware_HeaderWins(t *testing.T) {
	router := newProfileRouter(t)
	id := workspace.NewProfileID()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(profileHeader, id)
	req.AddCookie(&http.Cookie{Name: defaultProfileCookie, Value: workspace.NewProfileID()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Body.String() != id {
		t.Fatalf("expected profile %s, got %s", id, rec.Body.String())
	}
}

func TestProfileMiddleware_RejectsForgedID(t *testing.T) {
	router := newProfileRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(profileHeader, "../../site")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !workspace.ValidProfileID(rec.Body.String()) {
		t.Fatalf("expected a fresh profile id, got %q", rec.Body.String())
	}
}

func TestBuildRouter_RequiresRegistry(t *testing.T) {
	if _, err := buildRouter(nil, Deps{}); err == nil {
		t.Fatalf("expected error without registry")
	}
}

func TestRemoteStatus(t *testing.T) {
	cases := map[int]int{
		0:                              http.StatusBadGateway,
		http.StatusInternalServerError: http.StatusBadGateway,
		http.StatusUnauthorized:        http.StatusUnauthorized,
		http.StatusNotFound:            http.StatusNotFound,
		http.StatusForbidden:           http.StatusBadRequest,
		http.StatusBadRequest:          http.StatusBadRequest,
	}
	for in, want := range cases {
		if got := remoteStatus(in); got != want {
			t.Fatalf("remoteStatus(%d) = %d, want %d", in, got, want)
		}
	}
}
