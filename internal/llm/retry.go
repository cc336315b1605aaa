package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// Retrier retries transient failures with jittered exponential backoff.
// Invalid output is retried at most once.
type Retrier struct {
	inner Provider
	cfg   RetryConfig
	log   logrus.FieldLogger
}

// WithRetry wraps p with retries.
func WithRetry(p Provider, cfg RetryConfig, log logrus.FieldLogger) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retrier{inner: p, cfg: cfg, log: log}
}

func (r *Retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		sawInvalid  bool
		attemptsMax = r.cfg.MaxAttempts
	)
	for attempt := 0; attempt < attemptsMax; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		retry, invalid := transient(err)
		if invalid {
			if sawInvalid {
				return nil, err
			}
			sawInvalid = true
		}
		if !retry || attempt == attemptsMax-1 {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"wait":    wait,
		}).Debug("retrying llm request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, err
}

func (r *Retrier) ModelID() string { return r.inner.ModelID() }

func (r *Retrier) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
