package scheduler

import (
	"context"
	"fmt"

	"leadqual_backend/internal/scoring/service"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultWorkerConcurrency = 2

// BatchScorer runs a synchronous scoring pass.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, req service.ScoreRequest) (service.BatchResult, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	scorer BatchScorer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scorer BatchScorer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultWorkerConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		scorer: scorer,
		log:    log,
	}
	w.mux.HandleFunc(TaskScoreBatch, w.handleScoreBatch)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleScoreBatch(ctx context.Context, task *asynq.Task) error {
	if taskID, ok := asynq.GetTaskID(ctx); ok {
		ctx = context.WithValue(ctx, logger.TaskIDKey, taskID)
	}
	return processScoreBatch(ctx, w.scorer, w.log, task)
}

// processScoreBatch is the task body. Malformed payloads and requests that
// can never succeed (unknown offer, invalid ids) are not retried.
func processScoreBatch(ctx context.Context, scorer BatchScorer, log *logger.Logger, task *asynq.Task) error {
	payload, err := ParseScoreBatchPayload(task)
	if err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TaskScoreBatch, err, asynq.SkipRetry)
	}
	batchID, offerID, err := payload.IDs()
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := scorer.ScoreBatch(ctx, service.ScoreRequest{BatchID: batchID, OfferID: offerID})
	if err != nil {
		switch apperr.GetKind(err) {
		case apperr.KindNotFound, apperr.KindValidation, apperr.KindBadRequest:
			log.WithContext(ctx).Warn("batch scoring rejected", "batchId", payload.BatchID, "offerId", payload.OfferID, "error", err)
			return fmt.Errorf("score batch %s: %v: %w", payload.BatchID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("score batch %s: %w", payload.BatchID, err)
	}

	log.WithContext(ctx).Info("batch scoring task complete", "batchId", payload.BatchID, "leads", len(res.Results))
	return nil
}
