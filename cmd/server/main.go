package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/config"
	"github.com/renthall/video-rental/internal/database"
	"github.com/renthall/video-rental/internal/handler"
	"github.com/renthall/video-rental/internal/middleware"
	"github.com/renthall/video-rental/internal/queue"
	"github.com/renthall/video-rental/internal/repository"
	"github.com/renthall/video-rental/internal/router"
	"github.com/renthall/video-rental/internal/validation"
	"github.com/renthall/video-rental/internal/workflow"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "video-rental",
	})

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	genres := repository.NewGenreRepo(db)
	customers := repository.NewCustomerRepo(db)
	movies := repository.NewMovieRepo(db)
	rentals := repository.NewRentalRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := workflow.New(repository.NewRentalStore(db, customers), logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	// Redis is optional; with no client both middlewares become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewGenreHandler(genres), handler.NewMovieHandler(movies, genres), cfg.JWTSecret, cacheMW)
	router.RegisterCustomers(e, handler.NewCustomerHandler(customers), cfg.JWTSecret)
	router.RegisterRentals(e, handler.NewRentalHandler(rentals, engine, logger, cfg.AMQPURL), cfg.JWTSecret)

	if cfg.AMQPURL != "" {
		go queue.StartCheckoutConsumer(cfg.AMQPURL, cfg.RentalLogPath, logger)
	} else {
		logger.Info("AMQP_URL not set, checkout events disabled")
	}

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
