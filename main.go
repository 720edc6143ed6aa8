package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/manifoldco/promptui"

	"github.com/kanat1390/network-actualizer/config"
	"github.com/kanat1390/network-actualizer/logging"
	"github.com/kanat1390/network-actualizer/process"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "Path to the YAML configuration file")
	assumeYes := flag.Bool("yes", false, "Overwrite an existing report without asking")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg)

	if !*assumeYes && fileExists(cfg.ReportFilePath) {
		prompt := promptui.Select{
			Label: "Report file exists, overwrite?",
			Items: []string{"Yes", "No"},
		}
		_, userSel, err := prompt.Run()
		if err != nil {
			log.Fatalf("Prompt failed %v\n", err)
		}
		if userSel == "No" {
			logger.Info("Keeping existing report", slog.String("path", cfg.ReportFilePath))
			return
		}
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		log.Fatal(err)
	}
}

// run executes one reconciliation: connect, load both datasets, compare and
// write the report.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := process.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Loading database data", slog.String("database", cfg.DBName))
	dbData, err := process.NewDBLoader(db, cfg.Schemas, logger).Load(ctx)
	if err != nil {
		return err
	}

	logger.Info("Loading radio data", slog.String("path", cfg.RadioDataFilePath))
	sheetData, err := process.NewSheetLoader(cfg.RadioDataFilePath, cfg.Schemas, logger).Load()
	if err != nil {
		return err
	}

	report, err := process.NewReconciler(dbData, sheetData, cfg.Schemas, logger).Reconcile()
	if err != nil {
		return err
	}
	if err := report.Write(cfg.ReportFilePath, cfg.ReportMissingEntities); err != nil {
		return err
	}
	logger.Info("Report saved", slog.String("path", cfg.ReportFilePath))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
