package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/export"
	"github.com/worldcup26/hospitality/internal/pkg/logging"
	"github.com/worldcup26/hospitality/internal/pkg/sheets"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Sheets sync failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var configPath, inputPath string
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&inputPath, "input", "", "Snapshot JSON to sync (default: <export_dir>/hospitality_latest.json)")
	flag.Parse()

	appConfig, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&appConfig.Logging, "sheets-sync")

	credsJSON := os.Getenv("GOOGLE_CREDENTIALS")
	if credsJSON == "" || appConfig.Sheets.SpreadsheetID == "" {
		slog.Warn("Google credentials or spreadsheet ID not configured, skipping sheets update")
		return nil
	}

	creds, err := sheets.ParseCredentials([]byte(credsJSON))
	if err != nil {
		return err
	}

	if inputPath == "" {
		inputPath = filepath.Join(appConfig.Scraper.ExportDir, "hospitality_latest.json")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", inputPath, err)
	}

	var snap export.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", inputPath, err)
	}

	grid := sheets.BuildGrid(snap.Records, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := sheets.NewClient(creds, appConfig.Sheets.SpreadsheetID, appConfig.Sheets.Range)
	if err := client.Update(ctx, grid); err != nil {
		return fmt.Errorf("update spreadsheet: %w", err)
	}

	slog.Info("Spreadsheet updated",
		"spreadsheet_id", appConfig.Sheets.SpreadsheetID,
		"rows", len(grid)-1,
		"source", inputPath)
	return nil
}
