package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uiforge/internal/config"
	"uiforge/internal/design"
	"uiforge/internal/llm"
	"uiforge/internal/materialize"
	"uiforge/internal/pipeline"
	"uiforge/internal/prompt"
	"uiforge/internal/store"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reference := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !skipSetup {
		if err := config.WriteStarter(configPath); err != nil {
			logger.Warn("could not write starter config", zap.Error(err))
		}
	}

	// Fatal precondition one: credentials, before any network call.
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	// Fatal precondition two: the reference must parse. Checked here so a
	// bad reference aborts before the completion client is even built.
	if _, err := design.ParseReference(reference); err != nil {
		return err
	}

	client, err := llm.NewGenAIClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrMissingCredentials, err)
	}

	meta, err := store.Open(cfg.Output.StorePath)
	if err != nil {
		return err
	}
	defer meta.Close()

	orch := pipeline.New(pipeline.Config{
		Fetcher:         design.NewHTTPFetcher(cfg.Design.BaseURL, cfg.Design.Token, logger),
		Runner:          pipeline.NewStageRunner(client, prompt.NewLibrary(cfg.Output.TemplateDir), logger),
		Materializer:    materialize.NewWriter(cfg.Output.Dir, meta, logger),
		AllowedElements: cfg.AllowedElements,
		Logger:          logger,
	})

	report, err := orch.Run(ctx, reference)
	if err != nil {
		return err
	}

	if err := writeReport(cfg.Output.Dir, report); err != nil {
		logger.Warn("could not write run report", zap.Error(err))
	}

	printRunBanner(report)
	return nil
}

// writeReport drops the machine-readable run report next to the artifacts.
func writeReport(dir string, report *pipeline.RunReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "run-"+report.RunID+".json"), data, 0644)
}
