// Package main is the entry point for the revista server.
// It loads configuration, restores the editor session, starts the remote
// sync loop, sets up routing, and serves HTTP with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revista/internal/api"
	"revista/internal/cache"
	"revista/internal/config"
	"revista/internal/handlers"
	"revista/internal/middleware"
	"revista/internal/preview"
	"revista/internal/router"
	"revista/internal/seed"
	"revista/internal/session"
	"revista/internal/storage"
	"revista/internal/store"
	"revista/internal/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"api", cfg.APIBaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bundled fallback content, shown until the first sync lands.
	fallback, err := seed.Load()
	if err != nil {
		slog.Error("failed to load fallback content", "error", err)
		os.Exit(1)
	}

	// The API client reads the bearer token from the session on every
	// write, so the session can be created after it.
	var sess *session.Session
	client := api.New(cfg.APIBaseURL, cfg.APITimeout, func() string { return sess.Token() })

	tokens, err := session.OpenBolt(cfg.TokenDBPath, cfg.TokenSecret)
	if err != nil {
		slog.Error("failed to open token store", "path", cfg.TokenDBPath, "error", err)
		os.Exit(1)
	}
	defer tokens.Close()

	secureCookies := !cfg.IsDev()
	sess = session.New(client, tokens, secureCookies)
	if err := sess.Restore(); err != nil {
		slog.Warn("stored session discarded", "error", err)
		if err := tokens.Clear(); err != nil {
			slog.Error("failed to clear token store", "error", err)
		}
	} else if sess.IsAuthenticated() {
		slog.Info("editor session restored", "username", sess.Current().Username)
	}

	contentStore := store.NewContentStore(client, fallback.Posts, fallback.Magazines)

	// Valkey view cache (optional: the app serves straight from memory
	// without it).
	var views *cache.ViewCache
	if cfg.UseCache {
		valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, view cache disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			views = cache.NewViewCache(valkeyClient, cfg.CacheTTL)
			views.InvalidateAll(ctx)
			defer views.Watch(contentStore)()
		}
	}

	// S3-compatible storage for inline post images (optional).
	var images handlers.ImageStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		images = storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, inline images go to the API as-is")
	}

	// Remote sync: fetch both collections now and every SyncInterval.
	ctrl := syncer.New(contentStore, client)
	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		ctrl.Run(ctx, cfg.SyncInterval)
	}()

	loginThrottle := middleware.NewLoginThrottle(cfg.LoginRateLimit, cfg.LoginRateWindow)
	defer loginThrottle.Stop()

	adminHandlers := handlers.NewAdmin(contentStore, client, ctrl, images, views)
	authHandlers := handlers.NewAuth(sess)
	publicHandlers := handlers.NewPublic(contentStore, client, preview.NewProber(), views)

	r := router.New(sess, loginThrottle, secureCookies, adminHandlers, authHandlers, publicHandlers)

	// WriteTimeout must accommodate the magazine preview probe and a
	// manual sync against a slow API.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + preview.LoadTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	<-syncDone
	ctrl.Wait()

	slog.Info("server stopped gracefully")
}

// setupLogger installs the default structured logger: JSON in production,
// text in development.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
