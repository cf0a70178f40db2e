// Package router maps HTTP routes to handlers and decides which
// middleware guards each group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/handler"
	"github.com/renthall/video-rental/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication beyond
// what the individual groups add themselves.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires registration, login and token lifecycle endpoints.
// Registration lives under /api/users to keep the user collection and
// its /me endpoint together.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	users := e.Group("/api/users")
	users.POST("", a.Register)
	users.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))

	auth := e.Group("/api/auth")
	auth.POST("", a.Login)
	auth.POST("/refresh", a.Refresh)
	auth.POST("/refresh-access", a.RefreshAccess)
	// logout accepts either a refresh_token body or the bearer identity
	auth.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog wires the genre and movie collections. Reads are
// public and cached; catalog writes are admin operations.
func RegisterCatalog(e *echo.Echo, g *handler.GenreHandler, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	admin := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireAdmin()}

	genres := e.Group("/api/genres")
	genres.GET("", g.List, cache)
	genres.GET("/:id", g.Get, cache)
	genres.POST("", g.Create, admin...)
	genres.PUT("/:id", g.Update, admin...)
	genres.DELETE("/:id", g.Delete, admin...)

	movies := e.Group("/api/movies")
	movies.GET("", m.List, cache)
	movies.GET("/:id", m.Get, cache)
	movies.POST("", m.Create, admin...)
	movies.PUT("/:id", m.Update, admin...)
	movies.DELETE("/:id", m.Delete, admin...)
}

// RegisterCustomers wires the customer collection. Customer records
// carry personal data, so even reads require a token; mutations are
// admin operations.
func RegisterCustomers(e *echo.Echo, c *handler.CustomerHandler, jwtSecret string) {
	customers := e.Group("/api/customers", middleware.JWTAuth(jwtSecret))
	customers.GET("", c.List)
	customers.GET("/:id", c.Get)
	customers.POST("", c.Create, middleware.RequireAdmin())
	customers.PUT("/:id", c.Update, middleware.RequireAdmin())
	customers.DELETE("/:id", c.Delete, middleware.RequireAdmin())
}

// RegisterRentals wires the rental history plus the checkout and return
// workflows. Everything requires a token.
func RegisterRentals(e *echo.Echo, r *handler.RentalHandler, jwtSecret string) {
	rentals := e.Group("/api/rentals", middleware.JWTAuth(jwtSecret))
	rentals.GET("", r.List)
	rentals.GET("/:id", r.Get)
	rentals.POST("", r.Checkout)

	e.POST("/api/returns", r.Return, middleware.JWTAuth(jwtSecret))
}
