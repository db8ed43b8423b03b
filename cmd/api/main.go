package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/quizreel/engagement-engine/internal/adapters/cache"
	adapterHTTP "github.com/quizreel/engagement-engine/internal/adapters/handler/http"
	"github.com/quizreel/engagement-engine/internal/adapters/repository"
	"github.com/quizreel/engagement-engine/internal/core/domain"
	"github.com/quizreel/engagement-engine/internal/core/services"
	"github.com/quizreel/engagement-engine/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, os.Getenv(key), fallback)
	}
	return fallback
}

// parseFeatureLimits reads "feature=limit,feature=limit" pairs, e.g.
// FEATURE_LIMITS=smart_picks=2,hints=3
func parseFeatureLimits(raw string) map[string]int {
	limits := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("Skipping malformed feature limit %q", pair)
			continue
		}
		limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || limit < 0 {
			log.Printf("Skipping malformed feature limit %q", pair)
			continue
		}
		limits[strings.TrimSpace(parts[0])] = limit
	}
	return limits
}

// @title       QuizReel Engagement Engine API
// @version     1.0
// @description Daily streak and entitlement accounting for the QuizReel trivia app.
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	startTime := time.Now()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "quizreel-engagement-engine")

	tzName := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("Critical: invalid APP_TIMEZONE %q: %v", tzName, err)
	}

	policy := domain.QuotaPolicy{
		DailyLimits:       parseFeatureLimits(getEnv("FEATURE_LIMITS", "smart_picks=2,hints=3")),
		DefaultDailyLimit: getEnvInt("DEFAULT_DAILY_LIMIT", 1),
		TrialDurationDays: getEnvInt("TRIAL_DURATION_DAYS", 3),
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		getEnvInt("REDIS_DB", 0),
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		rdb = nil
	}

	var stateStore domain.StateStore = repository.NewPostgresStateStore(db)
	if rdb != nil {
		stateStore = repository.NewCachedStateStore(stateStore, rdb)
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	clock := domain.NewSystemClock(loc)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	streakService := services.NewStreakService(stateStore, clock)
	entitlementService := services.NewEntitlementService(stateStore, clock, policy)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	retentionWorker := workers.NewRetentionWorker(entitlementService)
	retentionWorker.Start(workerCtx)
	entitlementService.SetRetentionQueue(retentionWorker)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:        adapterHTTP.NewAuthHandler(authService, tokenService),
		StreakHandler:      adapterHTTP.NewStreakHandler(streakService),
		EntitlementHandler: adapterHTTP.NewEntitlementHandler(entitlementService),
		AccountHandler:     adapterHTTP.NewAccountHandler(streakService, entitlementService),
		TokenService:       tokenService,
		DB:                 db,
		Redis:              rdb,
		StartTime:          startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Engagement Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
