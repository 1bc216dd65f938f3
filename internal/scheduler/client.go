package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadqual_backend/platform/config"
	"leadqual_backend/platform/redisx"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	defaultQueue        = "default"
	scoreBatchMaxRetry  = 3
	scoreBatchTimeout   = 30 * time.Minute
	scoreBatchRetention = 24 * time.Hour
)

type Client struct {
	client *asynq.Client
	queue  string
}

// BatchScoringEnqueuer schedules a background scoring run for a batch.
type BatchScoringEnqueuer interface {
	EnqueueBatchScoring(ctx context.Context, batchID, offerID uuid.UUID) (string, error)
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueBatchScoring enqueues a scoring.batch task and returns its id.
func (c *Client) EnqueueBatchScoring(ctx context.Context, batchID, offerID uuid.UUID) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("scheduler client not configured")
	}

	task, err := NewScoreBatchTask(ScoreBatchPayload{
		BatchID: batchID.String(),
		OfferID: offerID.String(),
	})
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(scoreBatchMaxRetry),
		asynq.Timeout(scoreBatchTimeout),
		asynq.Retention(scoreBatchRetention),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue batch scoring: %w", err)
	}
	return info.ID, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return defaultQueue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redisx.ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ BatchScoringEnqueuer = (*Client)(nil)
