package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/config"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/database"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/handler"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/middleware"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/queue"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/realtime"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/repository"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: nil disables rate limiting and degrades health.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	requests := repository.NewCourseRequestRepo(db)
	courses := repository.NewCourseRepo(db)

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	consumer := &queue.Consumer{URL: cfg.AMQPURL, Requests: requests, Courses: courses, Hub: hub}
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("generation consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	healthH := handler.NewHealthHandler(db, rdb)
	courseH := handler.NewCourseHandler(courses)
	requestH := handler.NewCourseRequestHandler(cfg, requests)
	wsH := handler.NewWSHandler(requests, hub)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterHealth(e, healthH)
	router.RegisterAuth(e, authH, limiter)
	router.RegisterCourses(e, cfg.JWTSecret, courseH, requestH, wsH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
