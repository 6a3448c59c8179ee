package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nitteswaran/Routely/achievements"
	"github.com/Nitteswaran/Routely/cache"
	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/handlers"
	"github.com/Nitteswaran/Routely/middleware"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	if err := db.Connect(); err != nil {
		utils.Logger.Fatal("db_connect_failed", zap.Error(err))
	}
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.UserAction{},
		&models.UserAchievement{},
		&models.Achievement{},
		&models.Incident{},
		&models.JournalEntry{},
		&models.Guardian{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	if err := achievements.Seed(db.DB); err != nil {
		utils.Logger.Fatal("achievement_seed_failed", zap.Error(err))
	}

	// The app works without redis, responses just go uncached.
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_running_without_cache", zap.Error(err))
	}
	defer cache.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})

	// Public endpoints
	r.POST("/api/auth/register", handlers.Register)
	r.POST("/api/auth/login", handlers.Login)
	r.GET("/api/aqi", middleware.CacheResponse(10*time.Minute), handlers.GetAQI)
	r.GET("/api/aqi/places", middleware.CacheResponse(10*time.Minute), handlers.GetAQIPlaces)
	r.GET("/api/achievements", middleware.CacheResponse(time.Hour), handlers.GetAchievements)
	r.GET("/api/leaderboard", handlers.GetLeaderboard)

	// Anonymous incident reporting is allowed; auth is optional here.
	anon := r.Group("/api")
	anon.Use(middleware.OptionalAuth())
	{
		anon.POST("/incidents", handlers.CreateIncident)
		anon.GET("/incidents", handlers.GetIncidents)
		anon.DELETE("/incidents/:id", handlers.DeleteIncident)
	}

	// Authenticated endpoints
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/auth/me", handlers.Me)

		api.GET("/journal", handlers.GetJournalEntries)
		api.POST("/journal", handlers.CreateJournalEntry)
		api.GET("/journal/:id", handlers.GetJournalEntry)
		api.DELETE("/journal/:id", handlers.DeleteJournalEntry)

		api.GET("/achievements/my", handlers.GetMyAchievements)
		api.GET("/leaderboard/me", handlers.GetMyRank)

		api.GET("/guardians", handlers.GetGuardians)
		api.POST("/guardians", handlers.CreateGuardian)
		api.DELETE("/guardians/:id", handlers.DeleteGuardian)
		api.POST("/guardians/:id/test-alert", handlers.TestAlertGuardian)

		api.POST("/ai/chat", handlers.ChatWithAI)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	startServer(r)
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}
