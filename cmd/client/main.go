package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/atinyakov/UserKeeper/internal/client/controller"
	"github.com/atinyakov/UserKeeper/internal/client/store"
	"github.com/atinyakov/UserKeeper/internal/client/view"
	"github.com/atinyakov/UserKeeper/internal/config"
	"github.com/atinyakov/UserKeeper/internal/logger"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main wires the record store client, the sync controller and the terminal view.
func main() {
	if len(os.Args) > 1 && os.Args[1] == "-version" {
		fmt.Printf("UserKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	options, err := config.ParseClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()

	httpClient, err := store.NewHTTPClient(options.CAFile, time.Duration(options.Timeout))
	if err != nil {
		log.Log.Fatal("cannot init store client", zap.Error(err))
	}
	records := store.New(httpClient, options.ServerURL, options.APIKey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := view.New(os.Stdin, os.Stdout)
	ctrl := controller.New(records, term, log.Log)

	if interval := time.Duration(options.RefreshInterval); interval > 0 {
		ctrl.StartAutoRefresh(ctx, interval)
	}

	term.Run(ctx, ctrl)
}
