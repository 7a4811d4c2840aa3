package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP

	Sessions *authmw.Sessions
	Metrics  *metrics.Metrics
	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error

	Logger         *slog.Logger
	CSRF           bool
	CookieSecure   bool
	LoginRateLimit int
}

// New builds the echo instance with the middleware chain and all routes.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = transport.NewValidator()

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(middleware.CORS())
	if d.CSRF {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:    d.CookieSecure,
			SkipPaths: []string{"/login", "/metrics", "/health/live", "/health/ready"},
		}))
	}

	Register(e, d)
	return e
}

func loginLimiter(perSecond int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     perSecond,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: func(c echo.Context, id string, err error) error {
			logging.FromContext(c.Request().Context()).Warn("login_rate_limited", "status", 429, "client", id)
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts")
		},
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	e.GET("/swagger.yaml", OpenAPISpec)
	e.GET("/swagger", SwaggerUI)

	e.POST("/login", d.Auth.Login, loginLimiter(d.LoginRateLimit), d.Sessions.Resolve)
	e.POST("/logout", d.Auth.Logout, d.Sessions.Resolve, authmw.RequireAuth)

	api := e.Group("/api", d.Sessions.Resolve)

	products := api.Group("/products")
	products.GET("", d.Catalog.ListProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("/add", d.Catalog.AddProduct, authmw.RequireAuth)
	products.PUT("/update/:id", d.Catalog.UpdateProduct, authmw.RequireAuth)
	products.DELETE("/delete/:id", d.Catalog.DeleteProduct, authmw.RequireAuth)

	cart := api.Group("/cart", authmw.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/add/:productId", d.Cart.AddToCart)
	cart.DELETE("/remove/:productId", d.Cart.RemoveFromCart)
	cart.POST("/checkout", d.Cart.Checkout)
}
