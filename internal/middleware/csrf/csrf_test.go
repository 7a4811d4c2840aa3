package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPaths: []string{"/login"}, EnforceSameOrigin: true}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/cart", ok)
	e.POST("/api/cart/checkout", ok)
	e.POST("/login", ok)
	return e
}

func fetchToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	tok := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, tok)
	return tok
}

func TestCSRF_SafeMethodIssuesToken(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "XSRF-TOKEN=")
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
}

func TestCSRF_UnsafeMethodNeedsMatchingHeader(t *testing.T) {
	e := newServer()
	tok := fetchToken(t, e)

	missing := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil)
	missing.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tok})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, missing)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	good := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil)
	good.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tok})
	good.Header.Set("X-CSRF-Token", tok)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, good)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_CrossOriginRejected(t *testing.T) {
	e := newServer()
	tok := fetchToken(t, e)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tok})
	req.Header.Set("X-CSRF-Token", tok)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"invalid origin"}`, rec.Body.String())
}

func TestCSRF_SkipPaths(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
