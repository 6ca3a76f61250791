// Package app wires configuration, storage, services, and the HTTP server
// together and owns the process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/imago-sys/occurrence-backend/internal/adapter/postgres"
	occurrencerepo "github.com/imago-sys/occurrence-backend/internal/adapter/postgres/occurrence"
	protocolrepo "github.com/imago-sys/occurrence-backend/internal/adapter/postgres/protocol"
	"github.com/imago-sys/occurrence-backend/internal/adapter/provider/analysis"
	"github.com/imago-sys/occurrence-backend/internal/blob"
	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/document"
	occservice "github.com/imago-sys/occurrence-backend/internal/service/occurrence"
	statsservice "github.com/imago-sys/occurrence-backend/internal/service/stats"
	"github.com/imago-sys/occurrence-backend/internal/transport/middleware"
	"github.com/imago-sys/occurrence-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the service graph, and serves HTTP until the context
// is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	documents, err := blob.NewStore(ctx, cfg.Document)
	if err != nil {
		return fmt.Errorf("document store: %w", err)
	}

	occurrences := occurrencerepo.New(pool)
	protocols := protocolrepo.New(pool)
	txManager := postgres.NewTxManager(pool)
	analyzer := analysis.NewProvider(cfg.Analysis, logger)
	renderer := document.NewRenderer()

	occurrenceSvc := occservice.NewService(
		logger, occurrences, protocols, txManager,
		analyzer, documents, renderer,
		cfg.Protocol, cfg.Document,
	)
	statsSvc := statsservice.NewService(logger, occurrences, protocols)

	router := rest.NewRouter(rest.RouterDeps{
		Intake:    rest.NewIntakeHandler(occurrenceSvc, logger),
		Admin:     rest.NewAdminHandler(occurrenceSvc, logger),
		Stats:     rest.NewStatsHandler(statsSvc, logger),
		Documents: rest.NewDocumentsHandler(documents, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Auth:      cfg.Auth,
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
