// Command pickles analyzes recent journal entries from Notion or Google Docs
// with a language model and delivers the report.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	_ "time/tzdata"

	"github.com/ephemere-io/pickles/internal/adapters/driven/ai"
	"github.com/ephemere-io/pickles/internal/adapters/driven/config/file"
	"github.com/ephemere-io/pickles/internal/adapters/driven/delivery"
	"github.com/ephemere-io/pickles/internal/adapters/driven/storage/memory"
	"github.com/ephemere-io/pickles/internal/adapters/driven/storage/sqlite"
	"github.com/ephemere-io/pickles/internal/adapters/driving/cli"
	"github.com/ephemere-io/pickles/internal/connectors/google"
	"github.com/ephemere-io/pickles/internal/connectors/google/docs"
	"github.com/ephemere-io/pickles/internal/connectors/notion"
	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
	"github.com/ephemere-io/pickles/internal/core/ports/driving"
	"github.com/ephemere-io/pickles/internal/core/services"
	"github.com/ephemere-io/pickles/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := 0
	if err := run(ctx); err != nil {
		logger.Error("%v", err)
		code = 1
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context) error {
	configDir := os.Getenv("PICKLES_HOME")
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return err
	}
	settingsService := services.NewSettingsService(configStore, file.NewValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	observer := logger.Observer{}

	historyStore, runStore, closeStore := openStores(settings.DataDir)
	defer closeStore()

	prompts := services.NewPromptBuilder(observer)
	promptStore, err := file.NewPromptStore(filepath.Join(settings.DataDir, "prompts"), services.DefaultPrompts())
	if err != nil {
		logger.Warn("prompt templates unavailable, using built-ins: %v", err)
	} else {
		prompts.SetPromptStore(promptStore)
	}

	backend, err := ai.CreateBackend(ctx, &settings.LLM)
	if err != nil {
		logger.Warn("model backend unavailable: %v", err)
		backend = nil
	}
	if backend != nil {
		defer backend.Close()
	}

	reconciler := services.NewReconciler(services.ReconcilerOptions{
		StaleThreshold: settings.Notion.StaleThreshold,
		MaxRecords:     settings.Notion.MaxRecords,
		FullScan:       settings.Notion.FullScan,
	}, observer)
	registerSources(ctx, reconciler, settings)

	analyzer := services.NewAnalyzer(backend, historyStore, prompts, services.AnalyzerOptions{
		History:         settings.Analysis.History,
		MaxOutputTokens: settings.LLM.MaxOutputTokens,
		Effort:          settings.LLM.Effort,
		MinLength:       settings.Analysis.MinLength,
	}, observer)

	pipeline := services.NewPipeline(reconciler, analyzer, runStore, observer,
		delivery.FromSettings(settings.Delivery)...)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pipeline:   pipeline,
		Reconciler: reconciler,
		History:    services.NewHistoryService(historyStore),
		Runs:       services.NewRunService(runStore),
		Settings:   settingsService,
		SchedulerFactory: func(req driving.RunRequest) (driving.Scheduler, error) {
			return services.NewScheduler(settings.Schedule, pipeline, req, observer)
		},
		PromptWatcher: func(ctx context.Context) error {
			if promptStore == nil {
				return nil
			}
			return promptStore.Watch(ctx, func(name string) {
				logger.Info("reloaded prompt %s", name)
			})
		},
		PingModel: func(ctx context.Context) error {
			return ai.NewConfigValidator().ValidateLLM(ctx, &settings.LLM)
		},
	})

	return cli.Execute(ctx)
}

// openStores opens the sqlite database, falling back to process memory
// when it cannot be opened.
func openStores(dataDir string) (driven.HistoryStore, driven.RunStore, func()) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("database unavailable, history and runs will not persist: %v", err)
		return memory.NewHistoryStore(sqlite.DefaultHistorySize), memory.NewRunStore(), func() {}
	}
	return store.HistoryStore(sqlite.DefaultHistorySize), store.RunStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("close database: %v", err)
		}
	}
}

// registerSources adds every source that has enough configuration to be
// built. Unconfigured sources are skipped; fetching from them reports an
// unknown source.
func registerSources(ctx context.Context, r *services.Reconciler, s *domain.Settings) {
	ns, err := notion.New(notion.ConfigFromSettings(s.Notion))
	switch {
	case err == nil:
		r.RegisterWorkspace(ns)
	case errors.Is(err, notion.ErrNoToken):
		logger.Debug("notion source skipped: no integration token")
	default:
		logger.Warn("notion source unavailable: %v", err)
	}

	if s.GDocs.DocumentURL == "" {
		logger.Debug("gdocs source skipped: no document url")
		return
	}
	gs, err := docs.NewFromCredentials(ctx, google.Credentials{
		JSON: s.GDocs.CredentialsJSON,
		Path: s.GDocs.CredentialsPath,
	}, s.GDocs.DocumentURL)
	if err != nil {
		logger.Warn("gdocs source unavailable: %v", err)
		return
	}
	r.RegisterDocument(gs)
}
