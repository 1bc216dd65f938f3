package scoring

import (
	"context"
	"fmt"

	"leadqual_backend/internal/scoring/cache"
	"leadqual_backend/internal/scoring/pipeline"
	"leadqual_backend/platform/ai"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/redisx"
)

// ClassifierConfig is everything NewClassifier reads.
type ClassifierConfig interface {
	config.LLMConfig
	config.ScoringConfig
	config.CacheConfig
}

// NewClassifier builds the intent classifier from the configured text
// generation provider. The returned func releases the cache connection and
// is never nil.
func NewClassifier(ctx context.Context, cfg ClassifierConfig, log *logger.Logger) (*pipeline.Classifier, func(), error) {
	gen, err := ai.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init text generator: %w", err)
	}

	opts := []pipeline.ClassifierOption{
		pipeline.WithTimeout(cfg.GetClassifierTimeout()),
		pipeline.WithRateLimit(cfg.GetClassifierRatePerSecond(), cfg.GetClassifierBurst()),
	}

	closeFn := func() {}
	if cfg.IsClassificationCacheEnabled() {
		client, err := redisx.NewClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
		if err != nil {
			return nil, nil, fmt.Errorf("init classification cache: %w", err)
		}
		opts = append(opts, pipeline.WithCache(cache.NewRedisCache(client, cfg.GetClassificationCacheTTL())))
		closeFn = func() { _ = client.Close() }
		log.Info("classification cache enabled", "ttl", cfg.GetClassificationCacheTTL())
	}

	log.Info("intent classifier ready", "provider", gen.Name(), "timeout", cfg.GetClassifierTimeout())
	return pipeline.NewClassifier(gen, opts...), closeFn, nil
}
