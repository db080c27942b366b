package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	pkgconfig "github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/export"
	"github.com/worldcup26/hospitality/internal/pkg/logging"
	"github.com/worldcup26/hospitality/internal/pkg/notify"
	"github.com/worldcup26/hospitality/internal/pkg/pipeline"
	"github.com/worldcup26/hospitality/internal/pkg/rates"
	"github.com/worldcup26/hospitality/internal/pkg/storage"
	"github.com/worldcup26/hospitality/internal/portal/fifa"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	portal     string // restrict the run to one portal code
	priceMode  string // override scraper.price_mode from config
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scraper failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&appConfig.Logging, "scraper")

	if cfg.priceMode != "" {
		appConfig.Scraper.PriceMode = cfg.priceMode
	}
	if cfg.portal != "" {
		if err := restrictPortal(appConfig, cfg.portal); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(ctx, cancel)

	client := fifa.NewClient(&appConfig.Scraper)
	provider := rates.NewProvider(&appConfig.Rates)
	runner := pipeline.NewRunner(appConfig, client, provider)

	slog.Info("Starting pipeline run",
		"portals", len(appConfig.Portals),
		"price_mode", appConfig.Scraper.PriceMode,
		"currency_rule", appConfig.Scraper.CurrencyRule)

	set, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	exporter := export.NewExporter(appConfig.Scraper.ExportDir)
	if err := exporter.Write(set); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if appConfig.Postgres.DSN != "" {
		store, err := storage.NewPostgresHistoryStore(&appConfig.Postgres)
		if err != nil {
			return fmt.Errorf("connect price history store: %w", err)
		}
		defer store.Close()
		if err := store.SaveRun(ctx, set.ScrapedAt, set.Records); err != nil {
			return fmt.Errorf("save price history: %w", err)
		}
	}

	if appConfig.Telegram.BotToken != "" && appConfig.Telegram.ChatID != 0 {
		notifier := notify.NewTelegramNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)
		notifier.SendRunSummary(set)
	}

	slog.Info("Run complete", "records", len(set.Records))
	return nil
}

func parseFlags() flags {
	var cfg flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&cfg.portal, "portal", "", "Restrict the run to one portal code (e.g. 'us'). Empty = all configured portals")
	flag.StringVar(&cfg.priceMode, "mode", "", "Override scraper.price_mode ('all' or 'lowest'). Empty = use config")
	flag.Parse()
	return cfg
}

func restrictPortal(cfg *pkgconfig.Config, code string) error {
	for _, p := range cfg.Portals {
		if p.Code == code {
			cfg.Portals = []pkgconfig.PortalConfig{p}
			return nil
		}
	}
	return fmt.Errorf("unknown portal code %q", code)
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping run...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
}
