package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/amqp"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/cache"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/cli"
	apphttp "github.com/sanjaii1/grow-financial-goals-sub000/internal/http"
	applog "github.com/sanjaii1/grow-financial-goals-sub000/internal/log"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/services"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
	gsheets "github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	metrics.Init()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var publisher services.EventPublisher
	if cfg.PublishingEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to the broker", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Record event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP_URL not set, record events stay local")
	}

	var pinger sheets.Pinger
	if cfg.SheetsEnabled() {
		client, err := gsheets.New(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize the sheets mirror", "error", err)
			os.Exit(1)
		}
		pinger = client
		logger.Info("Sheets mirror configured", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	ledger := services.NewLedgerService(repo, publisher)
	dashboard := services.NewDashboardService(repo, cfg.CacheSize, cfg.CacheTTL)

	caches := cache.NewManager()
	for _, c := range dashboard.Caches() {
		caches.Register(c)
	}
	caches.StartCleanup(cfg.CacheTTL)
	defer caches.Stop()

	srv := apphttp.NewServer(cfg, ledger, dashboard, repo, repo, pinger)
	srv.ReadTimeout = 10 * time.Second
	// Statement exports may run up to their 15s budget, so the write
	// window must outlast it.
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, stop := cli.NotifyShutdown()
	defer stop()

	serverClosed := make(chan struct{})
	go func() {
		<-shutdownCtx.Done()
		logger.Info("Shutdown signal received")

		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		close(serverClosed)
	}()

	logger.Info("Starting growfin server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-serverClosed
	logger.Info("Server stopped gracefully")
}
