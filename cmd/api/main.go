package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/workhive/workhive-api/internal/config"
	dbpkg "github.com/workhive/workhive-api/internal/db"
	"github.com/workhive/workhive-api/internal/logger"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/presence"
	"github.com/workhive/workhive-api/internal/realtime"
	"github.com/workhive/workhive-api/internal/routes"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	tracker := presence.New(rdb)

	broker := realtime.NewBroker()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, broker, tracker)

	logger.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
