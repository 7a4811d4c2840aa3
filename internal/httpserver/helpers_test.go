package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/db/dbtest"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

type testEnv struct {
	e    *echo.Echo
	repo *repo.GormRepo
	auth *service.AuthService
	pub  *recordingPublisher
	m    *metrics.Metrics
}

type envOption func(*Deps)

func withLegacyCartStatus() envOption {
	return func(d *Deps) { d.Cart.LegacyViewStatus = true }
}

func withLoginRateLimit(n int) envOption {
	return func(d *Deps) { d.LoginRateLimit = n }
}

func withReady(fn func(context.Context) error) envOption {
	return func(d *Deps) { d.Ready = fn }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	r := repo.New(dbtest.Open(t))
	pub := &recordingPublisher{}
	m := metrics.New()
	events := &service.Events{Pub: pub, Observe: m.EventPublished}

	auth := &service.AuthService{
		Users:    r,
		Sessions: r,
		Events:   events,
		Secret:   []byte("http-test-secret"),
		TTL:      time.Hour,
	}

	d := &Deps{
		Auth:     &AuthHTTP{Svc: auth},
		Catalog:  &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events}},
		Cart:     &CartHTTP{Svc: &service.CartService{Repo: r, Users: r, Products: r, Events: events}},
		Sessions: &authmw.Sessions{Auth: auth},
		Metrics:  m,
		Logger:   logging.NewWithWriter(io.Discard, "error"),
	}
	for _, opt := range opts {
		opt(d)
	}

	return &testEnv{e: New(d), repo: r, auth: auth, pub: pub, m: m}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createUser(t *testing.T, username, password string) uint {
	t.Helper()
	u, err := env.auth.CreateUser(context.Background(), username, password)
	require.NoError(t, err)
	return u.ID
}

// login signs in and returns the session cookie.
func (env *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokens.SessionCookie {
			return c
		}
	}
	require.FailNow(t, "no session cookie in response")
	return nil
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
