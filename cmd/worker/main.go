package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rashidmajid/docuflow/internal/bootstrap"
	"github.com/rashidmajid/docuflow/internal/config"
	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/observability/metrics"
)

type recoveryMetrics struct {
	m *metrics.WorkerMetrics
}

func (r recoveryMetrics) RecoveryActionExecuted(action domain.ActionType, category domain.ErrorCategory) {
	r.m.ObserveRecoveryAction(string(action), string(category))
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app.ReconcileUC.SetRecoveryObserver(recoveryMetrics{m: workerMetrics})

	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{Addr: ":" + cfg.WorkerMetricsPort, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReconcileRequested(ctx, func(handlerCtx context.Context, documentID string) error {
		workerMetrics.StartReconcile()
		start := time.Now()

		if doc, err := app.Documents.GetByID(handlerCtx, documentID); err == nil {
			workerMetrics.ObserveQueueLag(start.Sub(doc.CreatedAt))
		}

		reconcileCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()
		reconcileErr := app.ReconcileUC.ReconcileByID(reconcileCtx, documentID)

		workerMetrics.FinishReconcile("worker", time.Since(start), reconcileErr)
		return reconcileErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
