package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/amqp"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/cli"
	applog "github.com/sanjaii1/grow-financial-goals-sub000/internal/log"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/metrics"
	gsheets "github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets/google"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	metrics.Init()

	// The worker exists to mirror records to the spreadsheet; without a
	// broker or a spreadsheet there is nothing for it to do.
	if !cfg.PublishingEnabled() {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if !cfg.SheetsEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheetClient, err := gsheets.New(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize the sheets mirror", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to the broker", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := cli.NotifyShutdown()
	defer stop()

	syncWorker := worker.NewSyncWorker(repo, sheetClient, cfg.SyncBatchSize, cfg.SyncInterval)

	// Drain anything that accumulated while the worker was down before
	// switching to event-driven mode.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	if err := syncWorker.Start(ctx); err != nil {
		logger.Error("Failed to start the pending scan", "error", err)
		os.Exit(1)
	}

	consumeDone := make(chan error, 1)
	go func() {
		consumeDone <- amqpClient.ConsumeRecordEvents(ctx, func(msg *amqp.RecordEventMessage) error {
			return syncWorker.HandleRecordEvent(ctx, msg)
		})
	}()

	logger.Info("Worker started",
		"queue", cfg.AMQPQueue,
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sync_interval", cfg.SyncInterval)

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-consumeDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Record event consumption failed", "error", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := syncWorker.Stop(stopCtx); err != nil {
		logger.Warn("Pending scan did not stop cleanly", "error", err)
	}

	logger.Info("Worker stopped gracefully")
}
