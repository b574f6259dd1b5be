package handlers

import (
	"context"
	"log"
	"time"

	"tallerit/repair-intake-worker/internal/model/provider"
)

const (
	// MaxQuotaAttempts is the total call ceiling under repeated quota errors.
	MaxQuotaAttempts = 3
	// MaxTransientAttempts is the total call ceiling under network faults.
	MaxTransientAttempts = 2
	// DefaultTransientDelay is the fixed wait before a transient retry.
	DefaultTransientDelay = 2 * time.Second
)

// RetryPolicy wraps a single provider call with bounded, classified retries.
// Auth and not-configured failures return immediately; quota errors back off
// linearly (attempt n waits n × QuotaBaseDelay); transient errors retry once
// after a short fixed delay.
type RetryPolicy struct {
	Backend        provider.Backend
	QuotaBaseDelay time.Duration
	TransientDelay time.Duration

	// test seam; defaults to a context-aware timer wait
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds the retry policy for one backend. The quota backoff
// base differs per provider (free tiers recover at different rates), so it
// comes from configuration.
func NewRetryPolicy(backend provider.Backend, quotaBaseDelay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		Backend:        backend,
		QuotaBaseDelay: quotaBaseDelay,
		TransientDelay: DefaultTransientDelay,
		sleep:          waitContext,
	}
}

// Do invokes call until it succeeds or the policy is exhausted. The returned
// error is always a classified *provider.Error.
func (p *RetryPolicy) Do(ctx context.Context, op string, call func(ctx context.Context) (string, error)) (string, error) {
	quotaAttempts := 0
	transientAttempts := 0

	for {
		result, err := call(ctx)
		if err == nil {
			return result, nil
		}

		classified := provider.Classify(p.Backend, err)
		if ctx.Err() != nil {
			return "", classified
		}

		switch classified.Kind {
		case provider.ErrQuota:
			quotaAttempts++
			if quotaAttempts >= MaxQuotaAttempts {
				log.Printf("[RetryPolicy] %s %s: quota exhausted after %d attempts", p.Backend, op, quotaAttempts)
				return "", provider.WrapError(p.Backend, provider.ErrQuota,
					"límite de cuota excedido, intenta nuevamente en unos minutos", classified.Err)
			}
			delay := time.Duration(quotaAttempts) * p.QuotaBaseDelay
			log.Printf("[RetryPolicy] %s %s: quota error, retrying in %v (attempt %d/%d)",
				p.Backend, op, delay, quotaAttempts, MaxQuotaAttempts)
			if err := p.sleep(ctx, delay); err != nil {
				return "", provider.Classify(p.Backend, err)
			}

		case provider.ErrTransient:
			transientAttempts++
			if transientAttempts >= MaxTransientAttempts {
				log.Printf("[RetryPolicy] %s %s: giving up after %d attempts: %v", p.Backend, op, transientAttempts, classified)
				return "", provider.WrapError(p.Backend, provider.ErrTransient,
					"error de red o del servidor, intenta nuevamente", classified.Err)
			}
			log.Printf("[RetryPolicy] %s %s: transient error, retrying in %v: %v",
				p.Backend, op, p.TransientDelay, classified)
			if err := p.sleep(ctx, p.TransientDelay); err != nil {
				return "", provider.Classify(p.Backend, err)
			}

		default:
			// auth, not_configured: surfaced immediately, never retried
			return "", classified
		}
	}
}

func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
