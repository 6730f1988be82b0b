package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/config"
	"github.com/droplogic/connect4/internal/repository/postgres"
	"github.com/droplogic/connect4/internal/repository/redis"
	"github.com/droplogic/connect4/internal/service/cleanup"
	"github.com/droplogic/connect4/internal/service/game"
	"github.com/droplogic/connect4/internal/service/session"
	transportHttp "github.com/droplogic/connect4/internal/transport/http"
	"github.com/droplogic/connect4/internal/transport/http/middleware"
	"github.com/droplogic/connect4/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Info().Msg("no .env file found")
		}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if config.GetEnv("ENVIRONMENT", "development") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.LoadConfig()

	db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("database migrations applied")

	gameRepo := postgres.NewGameRepo(db)
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	if err := redis.InitRedis(cfg.RedisURL, cfg.RedisPassword); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, session cache disabled")
	}
	defer redis.CloseRedis()

	var cache session.CacheRepository
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	authService := session.NewAuthService(sessionRepo, cache)
	sessionManager := game.NewSessionManager(gameRepo)
	connManager := websocket.NewConnectionManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := cleanup.NewWorker(sessionManager, sessionRepo, 15*time.Minute)
	go cleanupWorker.Run(ctx)

	authHandler := transportHttp.NewAuthHandler(userRepo, authService, connManager)
	historyHandler := transportHttp.NewHistoryHandler(gameRepo)
	oauthHandler := transportHttp.NewOAuthHandler(userRepo, &cfg.OAuthConfig, authService, connManager)
	analyzeHandler := transportHttp.NewAnalyzeHandler()
	wsHandler := websocket.NewHandler(connManager, sessionManager, authService)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/leaderboard", authHandler.Leaderboard)

	router.GET("/api/auth/google/login", oauthHandler.GoogleLogin)
	router.GET("/api/auth/google/callback", oauthHandler.GoogleCallback)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/api/auth/logout", authHandler.Logout)
		protected.GET("/api/auth/me", authHandler.Me)
		protected.GET("/api/history", historyHandler.GetHistory)
		protected.GET("/api/history/:id", historyHandler.GetGameDetails)
		protected.POST("/api/analyze", analyzeHandler.Analyze)
	}

	router.GET("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
