// Package bootstrap wires configuration, infrastructure, and the core
// use cases into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rashidmajid/docuflow/internal/config"
	"github.com/rashidmajid/docuflow/internal/core/classify"
	"github.com/rashidmajid/docuflow/internal/core/extract"
	"github.com/rashidmajid/docuflow/internal/core/fieldmap"
	"github.com/rashidmajid/docuflow/internal/core/ports"
	"github.com/rashidmajid/docuflow/internal/core/recovery"
	"github.com/rashidmajid/docuflow/internal/core/usecase"
	"github.com/rashidmajid/docuflow/internal/infrastructure/extractor"
	"github.com/rashidmajid/docuflow/internal/infrastructure/extractor/pdfdoc"
	"github.com/rashidmajid/docuflow/internal/infrastructure/extractor/plaintext"
	"github.com/rashidmajid/docuflow/internal/infrastructure/extractor/sheet"
	"github.com/rashidmajid/docuflow/internal/infrastructure/llm/genai"
	"github.com/rashidmajid/docuflow/internal/infrastructure/queue/nats"
	"github.com/rashidmajid/docuflow/internal/infrastructure/repository/postgres"
	"github.com/rashidmajid/docuflow/internal/infrastructure/resilience"
	"github.com/rashidmajid/docuflow/internal/infrastructure/storage/localfs"
	"github.com/rashidmajid/docuflow/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue       ports.MessageQueue
	Documents   ports.DocumentRepository
	Profiles    ports.ProfileRepository
	IngestUC    ports.DocumentIngestor
	ReconcileUC *usecase.ReconcileDocumentUseCase
	MapFormUC   ports.FormMapper

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger("docuflow", cfg.LogLevel)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	profiles := postgres.NewProfileRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Guard:  resilience.NewGuard("nats", resilience.DefaultPolicy(), nats.ClassifyError, logger),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	genaiGuard := resilience.NewGuard("genai", resilience.DefaultPolicy(), genai.ClassifyError, logger)
	aiClassifier := genai.NewClassifier(genai.New(cfg.GenAIURL, cfg.GenAIModel, cfg.GenAIRequestsPerSecond, genaiGuard))

	extraKeywords, err := classify.LoadOverrides(cfg.ClassifierPatternsPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier patterns: %w", err)
	}
	classifier := classify.NewService(aiClassifier, classify.NewPatternClassifier(extraKeywords), logger)

	textExtractor := extractor.NewSelector(
		pdfdoc.NewExtractor(storage),
		sheet.NewExtractor(storage),
		plaintext.NewExtractor(storage),
	)

	scanner := extract.NewScanner("")
	agent := recovery.NewAgent(cfg.MaxRecoveryRetries)
	engine := fieldmap.NewEngine(cfg.MinMappingConfidence)

	ingestUC := usecase.NewIngestDocumentUseCase(documents, profiles, storage, queue)
	reconcileUC := usecase.NewReconcileDocumentUseCase(documents, profiles, textExtractor, classifier, scanner, agent, logger)
	mapFormUC := usecase.NewMapFormUseCase(profiles, engine)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:       queue,
		Documents:   documents,
		Profiles:    profiles,
		IngestUC:    ingestUC,
		ReconcileUC: reconcileUC,
		MapFormUC:   mapFormUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
