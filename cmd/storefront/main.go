// Package main initializes and starts the storefront gateway, setting up
// configuration, logging, the persisted store, the identity provider client,
// services, handlers, and the HTTP server.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arvachan/solestore/internal/config"
	"github.com/arvachan/solestore/internal/db"
	"github.com/arvachan/solestore/internal/identity"
	"github.com/arvachan/solestore/internal/logger"
	"github.com/arvachan/solestore/internal/repository"
	"github.com/arvachan/solestore/internal/server/handler/http"
	"github.com/arvachan/solestore/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// orDefault returns v if it is non-empty, otherwise def. It mirrors
// cmp.Or for strings, which is unavailable before Go 1.22.
func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", orDefault(version, "N/A"))
	fmt.Printf("Build date: %s\n", orDefault(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		panic(err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the persisted store.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Sweep cart lines orphaned by catalog removals.
	db.StartOrphanLineCleaner(ctx, postgresDB,
		time.Hour,    // interval
		24*time.Hour, // grace for in-flight catalog imports
		zapLogger,
	)

	// Initialize repositories for profiles, catalog, and cart lines.
	profileRepo := repository.NewPostgresProfileRepository(postgresDB)
	productRepo := repository.NewPostgresProductRepository(postgresDB)
	cartRepo := repository.NewPostgresCartRepository(postgresDB)

	// Identity provider client.
	provider := identity.NewClient(options.AuthURL, options.AuthAPIKey)

	// Business-logic services. The cart observes every session transition,
	// so its view is refreshed before any further cart operation runs.
	sessionService := service.NewSessionService(provider, profileRepo, options.SiteURL, zapLogger)
	cartService := service.NewCartService(cartRepo, productRepo, sessionService, zapLogger)
	sessionService.Subscribe(func() { cartService.OnSessionChange(ctx) })

	// Create HTTP handlers for the UI surface.
	sessionHandler := &http.SessionHandler{Sessions: sessionService}
	cartHandler := &http.CartHandler{Cart: cartService}
	catalogHandler := &http.CatalogHandler{Catalog: productRepo}
	navHandler := &http.NavHandler{Sessions: sessionService}

	// Build the router with middleware and routes.
	router := http.NewRouter(sessionHandler, cartHandler, catalogHandler, navHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Resolve any prior session while the gateway is already answering;
	// the UI sees the loading state until this settles.
	g.Go(func() error {
		sessionService.Restore(ctx, options.RefreshToken)
		return nil
	})

	g.Go(func() error {
		if options.TLSCert != "" && options.TLSKey != "" {
			zapLogger.Info("starting HTTPS gateway", zap.String("addr", options.Addr))
			err := server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			if err != nil && err != nethttp.ErrServerClosed {
				return err
			}
			return nil
		}
		zapLogger.Info("starting HTTP gateway", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		zapLogger.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("gateway stopped", zap.Error(err))
	}
}
