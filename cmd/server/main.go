package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankoffice/internal/config"
	"bankoffice/internal/db"
	"bankoffice/internal/handlers"
	"bankoffice/internal/logging"
	"bankoffice/internal/notify"
	"bankoffice/internal/services"
	"bankoffice/internal/session"
	"bankoffice/internal/store"
	"bankoffice/internal/websocket"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	customerStore := store.NewCustomerStore(database)
	accountStore := store.NewAccountStore(database)
	transactionStore := store.NewTransactionStore(database)
	accessLogStore := store.NewAccessLogStore(database)
	txRunner := db.NewTxRunner(database)

	issuer := session.NewIssuer()
	sender, redisClient, err := newSender(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure notification sender")
	}
	dispatcher := notify.NewDispatcher(sender, log, notify.DispatcherConfig{
		MaxInFlight: cfg.NotifyMaxInFlight,
		Timeout:     cfg.NotifyTimeout,
	})
	hub := websocket.NewHub()

	customers := services.NewCustomerService(txRunner, customerStore, accountStore)
	accounts := services.NewAccountService(txRunner, accountStore, customers)
	ledger := services.NewLedgerService(txRunner, transactionStore, accounts, hub, log)
	accessLogs := services.NewAccessLogService(txRunner, accessLogStore, customers, log)
	authService := services.NewAuthService(customers, issuer, dispatcher, accessLogs, services.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.VerificationTokenTTL,
		SessionTTL: cfg.SessionTTL,
	}, log)

	handler := handlers.New(cfg, log, customers, accounts, ledger, accessLogs, authService, issuer, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("bankoffice API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Error().Err(err).Msg("notification dispatcher did not drain")
	}
	_ = issuer.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

var errRedisRequired = errors.New("REDIS_URL is required outside development")

// newSender queues tokens on Redis. Only development may fall back to writing
// tokens to the log.
func newSender(cfg config.Config, log zerolog.Logger) (notify.Sender, *redis.Client, error) {
	if cfg.RedisURL == "" {
		if cfg.AppEnv != "development" {
			return nil, nil, errRedisRequired
		}
		log.Warn().Msg("REDIS_URL not set; verification tokens will only be logged")
		return notify.NewLogSender(log), nil, nil
	}
	client, err := notify.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return notify.NewRedisSender(client, cfg.NotifyQueue), client, nil
}
