package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/config"
	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	"github.com/jaychopda/ai-interview-taking-system/internal/jobs"
	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"
	mongorepo "github.com/jaychopda/ai-interview-taking-system/internal/repositories/mongo"
	"github.com/jaychopda/ai-interview-taking-system/internal/routers"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/interviewer"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/sarvam"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env is a local development convenience; absence is fine
	_ = godotenv.Load()

	utils.InitLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	mongoClient, err := mongorepo.NewClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	userRepo, err := mongorepo.NewUserRepo(mongoClient)
	if err != nil {
		logger.Fatal("failed to initialize user repository", zap.Error(err))
	}
	interviewRepo, err := mongorepo.NewInterviewRepo(mongoClient)
	if err != nil {
		logger.Fatal("failed to initialize interview repository", zap.Error(err))
	}
	resumeRepo, err := mongorepo.NewResumeRepo(mongoClient)
	if err != nil {
		logger.Fatal("failed to initialize resume repository", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	sessions := session.NewStore(rdb, cfg.SessionTTL)

	aiClient := interviewer.NewClient(cfg.AIServiceURL, cfg.UpstreamTimeout)
	speechClient := sarvam.NewClient(cfg.SarvamURL, cfg.SarvamAPIKey, cfg.UpstreamTimeout)

	authHandler := handlers.NewAuthHandler(userRepo, sessions, logger)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, aiClient, logger)
	historyHandler := handlers.NewHistoryHandler(interviewRepo, aiClient, logger)
	resumeHandler := handlers.NewResumeHandler(resumeRepo, aiClient, cfg.UploadDir, logger)
	speechHandler := handlers.NewSpeechHandler(speechClient, cfg.UploadDir, logger)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"mongo": mongoClient,
		"redis": sessions,
	})

	sweeper := jobs.NewUploadSweeper(cfg.UploadDir, cfg.UploadMaxAge, cfg.UploadSweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Error("failed to start upload sweeper", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware())

	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler)
	routers.InterviewRoutes(router, sessions, interviewHandler, historyHandler, resumeHandler)
	routers.SpeechRoutes(router, speechHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview backend starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview backend shutting down...")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("failed to disconnect MongoDB", zap.Error(err))
	}
	_ = rdb.Close()

	logger.Info("Interview backend exited")
}
