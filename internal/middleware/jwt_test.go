package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := mw(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c, nextCalled
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, nextCalled := invoke(t, JWTAuth(testSecret), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if nextCalled {
		t.Fatal("next handler must not run without a token")
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, nextCalled := invoke(t, JWTAuth(testSecret), "Bearer not-a-jwt")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if nextCalled {
		t.Fatal("next handler must not run with an invalid token")
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 1, false, 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, _, _ := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJWTAuthValidTokenPopulatesContext(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, true, 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, c, nextCalled := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	if rec.Code != http.StatusOK || !nextCalled {
		t.Fatalf("status = %d nextCalled = %v, want 200 true", rec.Code, nextCalled)
	}
	if sub, _ := c.Get("user_id").(float64); uint64(sub) != 42 {
		t.Fatalf("user_id = %v, want 42", c.Get("user_id"))
	}
	if isAdmin, _ := c.Get("is_admin").(bool); !isAdmin {
		t.Fatalf("is_admin = %v, want true", c.Get("is_admin"))
	}
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(isAdmin any) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/genres/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if isAdmin != nil {
			c.Set("is_admin", isAdmin)
		}
		handler := RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	if rec := run(true); rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}
	if rec := run(false); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status = %d, want 403", rec.Code)
	}
	if rec := run(nil); rec.Code != http.StatusForbidden {
		t.Fatalf("missing claim: status = %d, want 403", rec.Code)
	}
}
