package main

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"gearguard/internal/routes"
	"gearguard/migrations"
	"gearguard/pkg/api"
	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/pkg/logger"
	"gearguard/pkg/utils"
)

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	cfg := config.New()

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	if err := runMigrations(dbConn); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("redis is unreachable, dashboard caching degraded", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator(validator.New())

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Server.FrontendOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/api/health", func(c echo.Context) error {
		return api.SuccessOne(c, http.StatusOK, "ok", map[string]string{"status": "up"})
	})

	routes.InitRouter(e, dbConn, redisClient, zapLogger, cfg)

	zapLogger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func runMigrations(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.Embed)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return goose.Up(db, ".")
}
