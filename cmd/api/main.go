package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/api"
	"github.com/d60-Lab/vidtube/internal/api/handler"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/database"
	"github.com/d60-Lab/vidtube/pkg/hash"
	"github.com/d60-Lab/vidtube/pkg/logger"
	"github.com/d60-Lab/vidtube/pkg/redisc"
	"github.com/d60-Lab/vidtube/pkg/token"
	"github.com/d60-Lab/vidtube/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Server.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
			sentryEnabled = false
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), "vidtube", cfg.Trace.Endpoint)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	rdb, err := redisc.New(cfg)
	if err != nil {
		log.Fatalf("init redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(rdb, 100)

	// services
	tokens := token.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := hash.NewBcryptHasher(0)
	authSvc := service.NewAuthService(userRepo, tokens, hasher)
	relSvc := service.NewRelationService(likeRepo, subRepo, userRepo, videoRepo, tweetRepo, commentRepo)
	viewSvc := service.NewViewService(userRepo, videoRepo, tweetRepo, commentRepo, likeRepo, subRepo, historyRepo, relSvc)

	recorder := service.NewHistoryRecorder(historyRepo, 10000)
	stopRecorder := recorder.Start(4)
	cleanup := service.NewCleanupWorker(db, likeRepo, 2, 128, 200*time.Millisecond)
	stopCleanup := cleanup.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = stopRecorder(ctx)
		_ = stopCleanup(ctx)
	}()

	contentSvc := service.NewContentService(db, videoRepo, tweetRepo, commentRepo, recorder)

	h := handler.New(authSvc, relSvc, viewSvc, contentSvc)
	r := api.NewRouter(h, authSvc, cfg.Server.Debug, sentryEnabled)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
