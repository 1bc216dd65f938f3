package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TextGenerator is the external text generation service. One call per prompt.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// OutcomeCache stores raw model text for a prompt. A miss returns ok=false.
type OutcomeCache interface {
	Get(ctx context.Context, key string) (text string, ok bool, err error)
	Set(ctx context.Context, key, text string) error
}

// Outcome is the result of one classification call. Either Text holds the
// model response (possibly empty when the service returned no text) or Err
// describes why the call failed.
type Outcome struct {
	Text   string
	Err    error
	Cached bool
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// ResponseText returns the text to parse; failures parse as no response.
func (o Outcome) ResponseText() string {
	if !o.OK() {
		return ""
	}
	return o.Text
}

// Classifier wraps a TextGenerator with a per-call timeout and optional rate
// limiting and caching.
type Classifier struct {
	gen     TextGenerator
	timeout time.Duration
	limiter *rate.Limiter
	cache   OutcomeCache
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithTimeout bounds each generator call, including any rate limit wait.
func WithTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) { c.timeout = d }
}

// WithRateLimit caps generator calls per second across all goroutines.
func WithRateLimit(perSecond float64, burst int) ClassifierOption {
	return func(c *Classifier) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCache reuses successful responses for identical prompts.
func WithCache(cache OutcomeCache) ClassifierOption {
	return func(c *Classifier) { c.cache = cache }
}

// NewClassifier creates a classifier around gen.
func NewClassifier(gen TextGenerator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{gen: gen}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify performs one generator call for prompt. It never returns an
// error directly; failures are reported in the Outcome.
func (c *Classifier) Classify(ctx context.Context, prompt string) Outcome {
	key := c.cacheKey(prompt)
	if c.cache != nil {
		// A cache read failure only costs a model call.
		if text, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return Outcome{Text: text, Cached: true}
		}
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(callCtx); err != nil {
			return Outcome{Err: fmt.Errorf("classifier rate limit wait: %w", err)}
		}
	}

	text, err := c.generate(callCtx, prompt)
	if err != nil {
		return Outcome{Err: err}
	}

	if c.cache != nil && strings.TrimSpace(text) != "" {
		_ = c.cache.Set(ctx, key, text)
	}
	return Outcome{Text: text}
}

func (c *Classifier) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return c.gen.Generate(ctx, prompt)
}

func (c *Classifier) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.gen.Name() + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
