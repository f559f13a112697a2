package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authapp/internal/account"
	"authapp/internal/adapter/database/postgres"
	postgresrepo "authapp/internal/adapter/database/postgres/repository"
	redisdb "authapp/internal/adapter/database/redis"
	"authapp/internal/adapter/database/sqlite"
	sqliterepo "authapp/internal/adapter/database/sqlite/repository"
	"authapp/internal/credential"
	"authapp/internal/delivery/http/handler"
	"authapp/internal/delivery/http/routes"
	"authapp/internal/shared"
)

func main() {
	ctx := context.Background()

	config := shared.GetDefaultConfig()

	logger, err := shared.NewAppLogger("authapp")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    "authapp",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",
		OTLPEndpoint:   "localhost:4317",
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	store, err := newStore(config)

	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	digest, err := credential.NewDigest(config.CredentialScheme, config.CredentialPepper)

	if err != nil {
		log.Fatal("Failed to initialize credential scheme:", err)
	}

	manager := account.NewManager(account.NewCachedStore(store), digest, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		AccountHandler: handler.NewAccountHandler(manager, config.BaseURL, logger),
	}, metrics, logger)

	srv := &http.Server{
		Addr:         ":" + config.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.InfoWithTrace(ctx, "server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithTrace(ctx, "server shutdown failed")
	}
}

func newStore(config *shared.AppConfig) (account.Store, error) {
	switch config.StorageEngine {
	case "postgres":
		db, err := postgres.NewDB(config.DatabaseURL)

		if err != nil {
			return nil, err
		}

		return postgresrepo.NewAccountRepository(db), nil
	case "redis":
		client, err := redisdb.NewClient(config.RedisURL)

		if err != nil {
			return nil, err
		}

		return redisdb.NewAccountStore(client), nil
	default:
		return sqliterepo.NewAccountRepository(sqlite.New(config.DatabasePath)), nil
	}
}
