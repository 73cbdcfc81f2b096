package main // Entry point package

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-api/internal/auth"
	"github.com/iliyamo/movie-api/internal/config"
	"github.com/iliyamo/movie-api/internal/database"
	"github.com/iliyamo/movie-api/internal/handler"
	"github.com/iliyamo/movie-api/internal/middleware"
	"github.com/iliyamo/movie-api/internal/queue"
	"github.com/iliyamo/movie-api/internal/repository"
	"github.com/iliyamo/movie-api/internal/router"
)

func main() {
	// .env is a convenience for local runs; deployed environments set real
	// variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	people := repository.NewPersonRepo(db)

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.BearerTTLSec, cfg.RefreshTTLSec, tokens)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(cfg)

	// Redis-backed rate limiting and catalog response caching.  A nil client
	// (Redis unreachable) turns both into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	authLimiter := middleware.NewTokenBucket(config.LoadAuthRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Background consumer for registration events; reconnects on its own.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("signup-consumer stopped: %v", err)
		}
	}()

	router.RegisterRoutes(e)
	router.RegisterUser(e, handler.NewAuthHandler(cfg, users, tokenService),
		handler.NewProfileHandler(users), tokenService, users, authLimiter)
	router.RegisterCatalog(e, handler.NewMovieHandler(movies),
		handler.NewPersonHandler(people), tokenService, users, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// errorHandler converts unhandled errors into the API-wide error body.
// Internal detail is logged with request context and, outside prod, echoed
// to the caller; a hardened deployment only ever sees a generic message.
func errorHandler(cfg config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if status >= http.StatusInternalServerError {
			log.Printf("request failed: method=%s path=%s err=%v",
				c.Request().Method, c.Request().URL.Path, err)
			if cfg.Env == "prod" {
				msg = "Internal server error"
			} else {
				msg = err.Error()
			}
		}
		_ = c.JSON(status, echo.Map{"error": true, "message": msg})
	}
}
