// Package main запускает HTTP-сервер вебхука бота начисления баллов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/earning-bot/internal/config"
	"github.com/mmeshcher/earning-bot/internal/handler"
	"github.com/mmeshcher/earning-bot/internal/logger"
	"github.com/mmeshcher/earning-bot/internal/repository"
	"github.com/mmeshcher/earning-bot/internal/service"
	"github.com/mmeshcher/earning-bot/internal/telegram"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Sugar().Fatalw("configuration error", "error", err.Error())
	}

	log, closeLog, err := logger.New(cfg.LogLevel, cfg.ErrorLog)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Sugar().Fatalw("logger initialization error", "error", err.Error())
	}
	defer closeLog()

	sugar := log.Sugar()

	repo, opts, err := openStore(cfg)
	if err != nil {
		sugar.Fatalw("store initialization error", "store", cfg.StoreKind(), "error", err.Error())
	}
	sugar.Infow("ledger store ready", "store", cfg.StoreKind())

	bot, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		sugar.Fatalw("telegram initialization error", "error", err.Error())
	}

	username := cfg.BotUsername
	if username == "" {
		username = bot.Username()
	}

	dispatcher := service.NewDispatcher(username, log)
	svc := service.NewService(repo, bot, dispatcher, log, opts...)
	defer svc.Close()

	h := handler.NewHandler(svc, bot, cfg.WebhookURL(), cfg.WebhookPath, log)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RegisterWebhook {
		if err := bot.SetWebhook(ctx, cfg.WebhookURL()); err != nil {
			sugar.Errorw("webhook registration failed", "url", cfg.WebhookURL(), "error", err)
		} else {
			sugar.Infow("webhook registered", "url", cfg.WebhookURL())
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting earning bot server", "addr", cfg.RunAddress, "bot", username)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// openStore выбирает хранилище реестра по конфигурации.
func openStore(cfg *config.Config) (service.Repository, []service.Option, error) {
	switch cfg.StoreKind() {
	case "postgres":
		repo, err := repository.NewPostgresStore(cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	case "redis":
		repo, err := repository.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return repo, []service.Option{service.WithLocker(repo)}, nil
	default:
		return repository.NewFileStore(cfg.UsersFile), nil, nil
	}
}
