// Package main initializes and starts the UserKeeper record server,
// setting up configuration, logging, the database, the repository, the
// service, handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/UserKeeper/internal/config"
	"github.com/atinyakov/UserKeeper/internal/db"
	"github.com/atinyakov/UserKeeper/internal/logger"
	"github.com/atinyakov/UserKeeper/internal/repository"
	"github.com/atinyakov/UserKeeper/internal/server/handler/http"
	"github.com/atinyakov/UserKeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// recordRepository is what both storage backends provide.
type recordRepository interface {
	service.RecordRepository
	db.Purger
}

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := openRepository(options)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.String("driver", options.DatabaseDriver), zap.Error(err))
	}
	defer closeDB()

	// Purge soft-deleted records past retention.
	db.StartSoftDeleteCleaner(ctx, repo,
		time.Duration(options.CleanupInterval),
		time.Duration(options.Retention),
		zapLogger,
	)

	recordService := service.NewRecordService(repo)
	recordHandler := &http.RecordHandler{RecordService: recordService, Log: zapLogger}
	router := http.NewRouter(recordHandler, options.APIKey, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

// openRepository opens the configured database once at bootstrap.
func openRepository(options *config.ServerOptions) (recordRepository, func(), error) {
	switch options.DatabaseDriver {
	case "sqlite":
		gdb, err := db.InitSQLite(options.DatabaseDSN, &repository.RecordRow{})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormRecordRepository(gdb), func() { _ = sqlDB.Close() }, nil
	default:
		pg, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresRecordRepository(pg), func() { _ = pg.Close() }, nil
	}
}
