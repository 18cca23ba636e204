package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mduse88/family-expenses/internal/amqp"
	"github.com/mduse88/family-expenses/internal/config"
	"github.com/mduse88/family-expenses/internal/dashboard"
	"github.com/mduse88/family-expenses/internal/email"
	"github.com/mduse88/family-expenses/internal/export"
	"github.com/mduse88/family-expenses/internal/gdrive"
	"github.com/mduse88/family-expenses/internal/log"
	"github.com/mduse88/family-expenses/internal/splitwise"
	"github.com/mduse88/family-expenses/internal/storage"
)

func main() {
	recipient := flag.String("recipient", "", "override the summary email recipient for this run")
	flag.Parse()

	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting collector")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if *recipient != "" {
		cfg.SetRecipient(*recipient)
		logger.Info("Recipient email overridden", "recipient", *recipient)
	}

	// Abort the run on SIGINT/SIGTERM; there is no checkpointing, a rerun
	// starts from scratch.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Collector run failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Collector run complete")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	client, err := splitwise.NewClient(cfg.Splitwise.APIKey)
	if err != nil {
		return err
	}

	raw, err := splitwise.FetchAll(ctx, client, cfg.Splitwise.GroupID,
		logger.WithComponent(log.ComponentSplitwise))
	if err != nil {
		return fmt.Errorf("fetch expenses: %w", err)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	snapshotID, err := repo.SaveSnapshot(ctx, raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	result := dashboard.Transform(raw)
	logger.Info("Dashboard table derived",
		log.FieldRows, len(result.Rows),
		"payments_dropped", result.PaymentsDropped,
		"bad_dates", result.BadDates,
		"bad_costs", result.BadCosts)

	if err := repo.ReplaceDashboard(ctx, result.Rows); err != nil {
		return fmt.Errorf("store dashboard table: %w", err)
	}

	csvPath := filepath.Join(cfg.ExportDir,
		fmt.Sprintf("expenses_raw_%s.csv", time.Now().UTC().Format("20060102")))
	if err := export.WriteRawCSV(csvPath, raw); err != nil {
		return fmt.Errorf("export raw csv: %w", err)
	}
	logger.Info("Raw table exported", log.FieldFile, csvPath)

	// Upload and email are independent side-effects; run them in parallel
	// once the sequential fetch/store pipeline is done.
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Drive.IsConfigured() {
		g.Go(func() error {
			uploader, err := gdrive.NewUploader(gctx, cfg.Drive)
			if err != nil {
				return fmt.Errorf("init drive uploader: %w", err)
			}
			fileID, err := uploader.UploadFile(gctx, csvPath)
			if err != nil {
				return fmt.Errorf("upload backup: %w", err)
			}
			logger.Info("Backup uploaded to Drive", "file_id", fileID)
			return nil
		})
	} else {
		logger.Info("Google Drive not configured, skipping backup upload")
	}

	if cfg.Email.IsConfigured() {
		g.Go(func() error {
			sender := email.NewSender(cfg.Email)
			return sender.SendRunSummary(email.RunSummary{
				Title:           cfg.App.Title,
				FetchedAt:       time.Now(),
				RecordsFetched:  len(raw),
				DashboardRows:   len(result.Rows),
				PaymentsDropped: result.PaymentsDropped,
				RowsDropped:     result.BadDates + result.BadCosts,
			})
		})
	} else {
		logger.Info("Email not configured, skipping run summary")
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("init AMQP client: %w", err)
		}
		defer amqpClient.Close()

		msg := amqp.NewDatasetRefreshedMessage(snapshotID, len(raw), len(result.Rows))
		if err := amqpClient.PublishDatasetRefreshed(ctx, msg); err != nil {
			return fmt.Errorf("publish refresh event: %w", err)
		}
	}

	return nil
}
