package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shortkey/internal/cache"
	"shortkey/internal/config"
	"shortkey/internal/controllers"
	"shortkey/internal/database"
	"shortkey/internal/jwt"
	"shortkey/internal/metrics"
	"shortkey/internal/middleware"
	"shortkey/internal/repository"
	"shortkey/internal/service"
	"shortkey/internal/shortener"
	"shortkey/internal/workers"
)

func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; fall back to an in-process cache when unavailable.
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis (%v), using in-memory cache", err)
			cacheClient = cache.NewMemoryCache()
		} else {
			log.Println("Connected to Redis cache")
		}
	} else {
		cacheClient = cache.NewMemoryCache()
	}

	// Repositories and transaction runner
	userRepo := repository.NewUserRepository(db)
	urlRepo := repository.NewURLRepository(db)
	clickRepo := repository.NewClickRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	txRunner := database.NewTxRunner(db)

	jwtService := jwt.NewService(cfg.JWTSecret, time.Duration(cfg.JWTTTLSeconds)*time.Second)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, cfg.AdminEmail)
	urlService := service.NewURLService(urlRepo, clickRepo, cacheClient, shortener.NewRandomGenerator(cfg.CodeLength), txRunner, service.URLConfig{
		BaseURL:          cfg.BaseURL,
		CacheDefaultTTL:  time.Duration(cfg.CacheDefaultTTL) * time.Second,
		ResolveRefillTTL: time.Duration(cfg.ResolveRefillTTL) * time.Second,
		ResolveRefillCap: time.Duration(cfg.ResolveRefillCap) * time.Second,
		MaxAttempts:      cfg.CodeMaxAttempts,
	})
	adminService := service.NewAdminService(userRepo, urlRepo, clickRepo, txRunner)
	analyticsService := service.NewAnalyticsService(clickRepo)
	tokenService := service.NewTokenService(tokenRepo)

	// Click recorder pool; started now, drained on shutdown
	recorder := workers.NewRecorder(clickRepo, cfg.ClickWorkers, cfg.ClickQueueSize)
	recorder.Start()

	metrics.RegisterTotals(
		countFunc(userRepo.Count),
		countFunc(urlRepo.Count),
	)

	// Controllers
	authController := controllers.NewAuthController(authService)
	shortenerController := controllers.NewShortenerController(urlService, recorder)
	adminController := controllers.NewAdminController(adminService, authService)
	analyticsController := controllers.NewAnalyticsController(analyticsService, authService)
	tokenController := controllers.NewTokenController(tokenService)
	qrcodeController := controllers.NewQRCodeController(urlService)

	router := gin.Default()

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Redirect endpoint at the root
	router.GET("/:code", shortenerController.Redirect)

	api := router.Group("/api/v1")
	api.Use(middleware.Identity(jwtService, tokenRepo))
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		api.Use(limiter.Limit())
	}
	{
		api.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api.POST("/register", authController.Register)
		api.POST("/login", authController.Login)

		api.POST("/shorten", shortenerController.CreateShortURL)
		api.GET("/urls", shortenerController.GetUserURLs)
		api.DELETE("/urls/:code", shortenerController.DeleteURL)
		api.GET("/info/:code", shortenerController.GetInfo)
		api.GET("/qrcode/:code", qrcodeController.Generate)

		api.POST("/tokens", tokenController.Create)
		api.GET("/tokens", tokenController.List)

		api.GET("/admin/users", adminController.ListUsers)
		api.DELETE("/admin/users/:id", adminController.DeleteUser)
		api.GET("/analytics/summary", analyticsController.Summary)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}

	// Drain queued clicks before exiting
	recorder.Stop()
	log.Println("Shutdown complete")
}

// countFunc adapts a repository count method to a prometheus gauge function.
func countFunc(count func(context.Context) (int64, error)) func() float64 {
	return func() float64 {
		n, err := count(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	}
}
