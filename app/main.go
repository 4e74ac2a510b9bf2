package main

import (
	"context"
	"fmt"
	"os"

	"github.com/castsite/feedimport/app/cfg"
	"github.com/castsite/feedimport/app/feed"
	"github.com/castsite/feedimport/app/hosts"
	"github.com/castsite/feedimport/app/images"
	"github.com/castsite/feedimport/app/importer"
	"github.com/castsite/feedimport/app/runlog"
	"github.com/castsite/feedimport/app/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help or version was shown, exit gracefully
		return nil
	}

	logger, err := runlog.New(appCfg.LogFilePath, appCfg.Verbose)
	if err != nil {
		return err
	}

	runErr := runImport(appCfg, logger)

	// A failed log write or close must not be lost, but the import
	// error takes priority when both happen
	if closeErr := logger.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	return runErr
}

func runImport(appCfg *cfg.Cfg, logger *runlog.Logger) error {
	logger.Info(fmt.Sprintf("Feed Import %s", appCfg.Version))

	storeClient, err := store.NewClient(store.Config{
		ProjectID:  appCfg.StoreProjectID,
		Dataset:    appCfg.StoreDataset,
		Token:      appCfg.StoreToken,
		APIVersion: appCfg.StoreAPIVersion,
		UserAgent:  appCfg.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("failed to build store client: %w", err)
	}

	registry := hosts.NewRegistry()
	adapter := registry.ForURL(appCfg.FeedURL)
	logger.Info(fmt.Sprintf("Using %s adapter for %s", adapter.Name(), appCfg.FeedURL))

	parser := feed.NewParser(appCfg.UserAgent)

	ctx := context.Background()
	show, episodes, err := parser.Run(ctx, appCfg.FeedURL, adapter)
	if err != nil {
		// No partial feed: acquisition failure is fatal to the run
		logger.Error(err.Error())
		return err
	}

	uploader := images.NewUploader(storeClient, appCfg.UserAgent)

	imp := importer.New(storeClient, uploader, logger, importer.Options{
		DryRun:         appCfg.DryRun,
		SkipImages:     appCfg.SkipImages,
		UpdateExisting: appCfg.UpdateExisting,
		EpisodeDelay:   appCfg.EpisodeDelay,
	})

	report := imp.Run(ctx, show, episodes)

	fmt.Print(report.Render())

	return nil
}
