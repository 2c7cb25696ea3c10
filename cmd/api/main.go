package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	authjwt "pet-ledger/internal/adapters/auth/jwt"
	"pet-ledger/internal/adapters/notify"
	mem "pet-ledger/internal/adapters/storage/memory"
	pg "pet-ledger/internal/adapters/storage/postgres"
	"pet-ledger/internal/adapters/storage/sqlite"
	"pet-ledger/internal/domain/pets"
	"pet-ledger/internal/platform/config"
	"pet-ledger/internal/platform/httpclient"
	"pet-ledger/internal/platform/logger"
	"pet-ledger/internal/ports/auth"
	"pet-ledger/internal/router"
)

// @title Pet Ledger API
// @version 1.0
// @description Registro de mascotas coleccionables: creación, reclamo por token, batallas y evolución.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	key, err := claimKey(cfg.ClaimTokenKey)
	if err != nil {
		return err
	}
	if cfg.ClaimTokenKey == "" {
		log.Warn("CLAIM_TOKEN_KEY not set; using a per-process random key", nil)
	}

	outbox, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	go outbox.Run(notifyCtx)
	defer func() {
		stopNotify()
		outbox.Wait()
	}()

	svc := pets.NewService(repo, pets.Options{
		ClaimKey: key,
		ClaimTTL: cfg.ClaimTokenTTL,
		Notifier: outbox,
		Logger:   log,
	})
	if _, err := svc.Bootstrap(ctx, pets.Config{
		Admin:          cfg.AdminID,
		BattleOracle:   cfg.BattleOracleID,
		BattleCooldown: cfg.BattleCooldownSeconds,
	}); err != nil {
		return fmt.Errorf("bootstrap registry: %w", err)
	}

	var verifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)
	if cfg.AuthJWTSecret != "" {
		verifier = authjwt.NewVerifier([]byte(cfg.AuthJWTSecret), cfg.AuthJWTIssuer)
	} else {
		log.Warn("AUTH_JWT_SECRET not set; accepting X-Debug-User-ID (dev mode)", nil)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			Pets:         svc,
			Logger:       log,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": cfg.StorageDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (pets.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return pg.NewPetsRepo(db), db.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return mem.NewPetRepo(), noop, nil
	}
}

// claimKey acepta hex o base64; vacío => key aleatoria.
func claimKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate claim key: %w", err)
		}
		return key, nil
	}
	if key, err := hex.DecodeString(raw); err == nil && len(key) >= 16 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) >= 16 {
		return key, nil
	}
	return nil, errors.New("CLAIM_TOKEN_KEY must be hex or base64 with at least 16 bytes")
}

// buildNotifier arma los sinks detrás de un Outbox: las operaciones solo encolan.
func buildNotifier(cfg config.Config, log logger.Logger) (*notify.Outbox, error) {
	sinks := notify.Fanout{notify.NewLogSink(log)}
	if cfg.NotifyWebhookURL != "" {
		client := httpclient.New(cfg.NotifyTimeout)
		client.UserAgent = cfg.AppName
		hook, err := notify.NewWebhookSink(client, cfg.NotifyWebhookURL)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, hook)
	}
	return notify.NewOutbox(sinks, cfg.NotifyQueueSize, cfg.NotifyTimeout, log), nil
}
