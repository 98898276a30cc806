package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rashidmajid/docuflow/internal/core/classify"
	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/extract"
	"github.com/rashidmajid/docuflow/internal/core/ports"
	"github.com/rashidmajid/docuflow/internal/core/recovery"
)

// ReconcileDocumentUseCase runs the full reconciliation pipeline for
// one document: extract text, classify, scan fields and entities, and
// merge the result into the owning profile. Failures go through the
// recovery agent; retry and fallback actions re-enter the pipeline,
// skip and manual actions park the document for human review.
type ReconcileDocumentUseCase struct {
	repo        ports.DocumentRepository
	profiles    ports.ProfileRepository
	extractor   ports.TextExtractor
	classifier  *classify.Service
	scanner     *extract.Scanner
	agent       *recovery.Agent
	logger      *slog.Logger
	recoveryObs RecoveryObserver
}

// RecoveryObserver is notified of every executed recovery action.
type RecoveryObserver interface {
	RecoveryActionExecuted(action domain.ActionType, category domain.ErrorCategory)
}

func NewReconcileDocumentUseCase(
	repo ports.DocumentRepository,
	profiles ports.ProfileRepository,
	extractor ports.TextExtractor,
	classifier *classify.Service,
	scanner *extract.Scanner,
	agent *recovery.Agent,
	logger *slog.Logger,
) *ReconcileDocumentUseCase {
	return &ReconcileDocumentUseCase{
		repo:       repo,
		profiles:   profiles,
		extractor:  extractor,
		classifier: classifier,
		scanner:    scanner,
		agent:      agent,
		logger:     logger,
	}
}

// SetRecoveryObserver is optional; a nil observer disables callbacks.
func (uc *ReconcileDocumentUseCase) SetRecoveryObserver(obs RecoveryObserver) {
	uc.recoveryObs = obs
}

func (uc *ReconcileDocumentUseCase) ReconcileByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	state := domain.ProcessingState{DocumentID: documentID}
	for {
		pipelineErr := uc.reconcilePipeline(ctx, documentID, &state)
		if pipelineErr == nil {
			if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
				return fmt.Errorf("set status=ready: %w", err)
			}
			return nil
		}

		category := uc.agent.ClassifyError(pipelineErr)
		action := uc.agent.Recover(pipelineErr, state, state.Control.RetryCount)
		uc.logger.Warn("reconcile pipeline failure",
			"document_id", documentID,
			"category", category,
			"action", action.Type,
			"retry_count", state.Control.RetryCount,
			"error", pipelineErr,
		)
		if uc.recoveryObs != nil {
			uc.recoveryObs.RecoveryActionExecuted(action.Type, category)
		}

		next, resumed := uc.agent.ExecuteAction(ctx, action, state)
		if !resumed {
			if failErr := uc.markFailed(ctx, documentID, pipelineErr); failErr != nil {
				return fmt.Errorf("%w; mark failed status: %v", pipelineErr, failErr)
			}
			return pipelineErr
		}
		state = next

		switch action.Type {
		case domain.ActionRetry, domain.ActionFallback:
			continue
		default:
			// Skip and manual actions both end the job in review.
			if err := uc.markStatus(ctx, documentID, domain.StatusNeedsReview, pipelineErr.Error()); err != nil {
				return fmt.Errorf("%w; mark needs_review status: %v", pipelineErr, err)
			}
			return nil
		}
	}
}

func (uc *ReconcileDocumentUseCase) reconcilePipeline(ctx context.Context, documentID string, state *domain.ProcessingState) error {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return err
	}

	classification := uc.classify(ctx, text, state)

	data := uc.scanner.Scan(text, classification.Confidence)
	if len(data.Fields) > 0 && doc.ProfileID != "" {
		if err := uc.mergeFields(ctx, doc.ProfileID, data.Fields, doc.ID); err != nil {
			return err
		}
	}

	if err := uc.persistClassification(ctx, doc.ID, classification); err != nil {
		return err
	}

	return nil
}

func (uc *ReconcileDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ReconcileDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

// classify forces the deterministic pattern classifier once a fallback
// action has degraded this job; the AI path is not retried afterwards.
func (uc *ReconcileDocumentUseCase) classify(ctx context.Context, text string, state *domain.ProcessingState) domain.ClassificationResult {
	if state.ExtractionMethod == recovery.PatternFallbackMethod {
		return uc.classifier.ClassifyWithPatterns(text)
	}
	return uc.classifier.Classify(ctx, text, nil)
}

func (uc *ReconcileDocumentUseCase) mergeFields(ctx context.Context, profileID string, fields map[string]any, documentID string) error {
	changed, err := uc.profiles.MergeFields(ctx, profileID, fields, documentID)
	if err != nil {
		return fmt.Errorf("merge profile fields: %w", err)
	}
	uc.logger.Debug("profile merge completed",
		"profile_id", profileID,
		"document_id", documentID,
		"fields", len(fields),
		"changed", changed,
	)
	return nil
}

func (uc *ReconcileDocumentUseCase) persistClassification(ctx context.Context, documentID string, classification domain.ClassificationResult) error {
	if err := uc.repo.SaveClassification(ctx, documentID, classification); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return nil
}

func (uc *ReconcileDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ReconcileDocumentUseCase) markFailed(ctx context.Context, documentID string, reconcileErr error) error {
	if reconcileErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, reconcileErr.Error())
}
