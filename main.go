package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/tutorchat/client/pkg/localstore"
	"github.com/tutorchat/client/pkg/logger"
	"github.com/tutorchat/client/pkg/restapi"
	"github.com/tutorchat/client/pkg/service"
	"github.com/tutorchat/client/pkg/store"
	"github.com/tutorchat/client/pkg/workers"
)

type Config struct {
	APIBaseURL           string        `env:"TUTORCHAT_API_URL" envDefault:"http://localhost:8080/api"`
	HTTPTimeout          time.Duration `env:"TUTORCHAT_HTTP_TIMEOUT" envDefault:"30s"`
	DataDir              string        `env:"TUTORCHAT_DATA_DIR"`
	RefreshLead          time.Duration `env:"TUTORCHAT_REFRESH_LEAD" envDefault:"5m"`
	RefreshCheckInterval time.Duration `env:"TUTORCHAT_REFRESH_CHECK_INTERVAL" envDefault:"1m"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	serviceGroup, err := setupServices()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices() (service.Group, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tutorchat")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	local, err := localstore.New(filepath.Join(dataDir, "client.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}

	client := restapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, local)

	authStore := store.NewAuthStore(restapi.NewAuthAPI(client), local)
	topicsStore := store.NewTopicsStore(restapi.NewTopicsAPI(client))
	chatStore := store.NewChatStore(restapi.NewChatAPI(client))
	adminStore := store.NewAdminStore(restapi.NewAdminAPI(client))
	uiStore := store.NewUIStore(local, nil, nil)

	client.OnUnauthorized(func() {
		authStore.HandleUnauthorized()
		uiStore.NotifyError("session expired", "please sign in again")
	})

	ctx := context.Background()
	if err := authStore.LoadUser(ctx); err != nil {
		slog.Warn("restoring session", logger.Err(err))
	}
	uiStore.LoadSettings(ctx)

	return service.Group{
		workers.NewConsole(authStore, topicsStore, chatStore, adminStore, uiStore),
		workers.NewSessionRefresher(authStore, cfg.RefreshLead, cfg.RefreshCheckInterval),
	}, nil
}
