package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/account-service/docs"
	"github.com/tazhibayda/account-service/internal/config"
	api "github.com/tazhibayda/account-service/internal/http"
	"github.com/tazhibayda/account-service/internal/log"
	"github.com/tazhibayda/account-service/internal/mail"
	"github.com/tazhibayda/account-service/internal/media"
	"github.com/tazhibayda/account-service/internal/metrics"
	"github.com/tazhibayda/account-service/internal/queue"
	"github.com/tazhibayda/account-service/internal/repo"
	"github.com/tazhibayda/account-service/internal/security"
	"github.com/tazhibayda/account-service/internal/service"
)

// @title Account Service API
// @version 0.1.0
// @description Registration with email verification and password login.
// @schemes http https
// @BasePath /
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	metrics.MustRegister()

	var uploader service.MediaUploader
	if cfg.S3AccessKey != "" {
		up, err := media.NewUploader(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket,
			cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			logger.Warn("media uploader unavailable, profile images disabled", zap.Error(err))
		} else {
			uploader = up
		}
	}

	sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Warn("rabbit unavailable, events disabled", zap.Error(err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	accounts := service.NewAccounts(store, security.Bcrypt{}, uploader, sender, cfg.BaseURL())

	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(accounts, store, pub, cfg.RabbitExchange)
	r := api.NewRouter(h)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	logger.Info("account-service listening", zap.String("port", cfg.Port))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}
}
