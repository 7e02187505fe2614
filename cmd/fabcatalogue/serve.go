package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"fabcatalogue/auth"
	"fabcatalogue/blobstore"
	"fabcatalogue/engine"
	"fabcatalogue/logger"
	"fabcatalogue/messaging"
	"fabcatalogue/schema"
	"fabcatalogue/store"
	"fabcatalogue/www"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Default()

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	log.Infof("fabcatalogue: database open (%s)", cfg.Database.Driver)

	validator, err := schema.New()
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	blobs, err := blobstore.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	log.Infof("fabcatalogue: drawing files stored in %s", blobs.Name())

	// Redis
	var revoker auth.Revoker
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnf("fabcatalogue: redis not available (%v), logout will only clear sessions", err)
		} else {
			log.Infof("fabcatalogue: redis connected (%s)", cfg.Redis.Address)
			revoker = auth.NewRedisRevoker(redisClient)
		}
		cancel()
	}

	sessions := auth.NewSessions(cfg.Web.SessionSecret, int(cfg.Auth.TokenTTL.Seconds()))
	gate := auth.NewGate(db, auth.NewTokens(cfg.Auth), revoker, sessions)

	// Messaging client
	var msgClient *messaging.Client
	if cfg.Messaging.Enabled {
		msgClient = messaging.NewClient(&cfg.Messaging)
		if err := msgClient.Connect(); err != nil {
			log.Warnf("fabcatalogue: messaging connect failed (%v)", err)
		} else {
			log.Info("fabcatalogue: messaging connected (kafka)")
		}
		defer msgClient.Close()
	}

	// Engine
	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		Validator: validator,
		Gate:      gate,
		Blobs:     blobs,
		MsgClient: msgClient,
	})
	eng.Start()
	defer eng.Stop()

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("fabcatalogue: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("fabcatalogue: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		stopWeb()
		return fmt.Errorf("web server: %w", err)
	}

	log.Info("fabcatalogue: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("fabcatalogue: shutdown")
	}

	log.Info("fabcatalogue: stopped")
	return nil
}
