package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-api/internal/auth"       // token service for the auth middleware
	"github.com/iliyamo/movie-api/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movie-api/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterUser registers the account endpoints under /user.  Register,
// login, refresh and logout are unauthenticated (refresh/logout carry the
// refresh token in the body).  Profile reads attach an identity when one is
// presented; profile writes require the owning identity.  authLimiter is
// the stricter rate-limit bucket for the credential endpoints.
func RegisterUser(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler,
	ts *auth.TokenService, users middleware.UserStore, authLimiter echo.MiddlewareFunc) {
	g := e.Group("/user")
	g.POST("/register", a.Register, authLimiter)
	g.POST("/login", a.Login, authLimiter)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/:email/profile", p.Get, middleware.OptionalAuth(ts, users))
	g.PUT("/:email/profile", p.Update, middleware.RequireAuth(ts, users))
}

// RegisterCatalog registers the movie and people endpoints.  Movie routes
// are public reference data and sit behind the response cache; people
// routes require a valid access token.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, pe *handler.PersonHandler,
	ts *auth.TokenService, users middleware.UserStore, cache echo.MiddlewareFunc) {
	movies := e.Group("/movies", cache)
	movies.GET("/search", m.Search)
	movies.GET("/data/:imdbID", m.Data)

	people := e.Group("/people", middleware.RequireAuth(ts, users))
	people.GET("/:id", pe.Get)
	people.GET("/:id/credits", pe.Credits)
}
