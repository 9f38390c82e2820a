package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/questforge/progression-engine/internal/circuitbreaker"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine/retry"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

// Dispatcher drains the reward outbox. Progression state is already
// committed by the time a grant lands here, so the only job is to get
// every grant through eventually: failures increment a bounded attempt
// counter and terminal exhaustion dead-letters the entry for operator
// review instead of losing it.
type Dispatcher struct {
	outbox  store.OutboxRepository
	client  Client
	breaker *circuitbreaker.Breaker
	limiter *rate.Limiter
	logger  *slog.Logger

	interval    time.Duration
	batchSize   int
	maxAttempts int
}

type Option func(*Dispatcher)

func WithInterval(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.batchSize = n
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.maxAttempts = n
		}
	}
}

func WithRateLimit(perSec float64, burst int) Option {
	return func(dp *Dispatcher) {
		dp.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithBreakerThreshold tunes how many consecutive issuance failures open
// the breaker.
func WithBreakerThreshold(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.breaker = circuitbreaker.New(circuitbreaker.Config{
				FailureThreshold: n,
				SuccessThreshold: 2,
				OpenTimeout:      30 * time.Second,
			})
		}
	}
}

func New(outbox store.OutboxRepository, client Client, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		outbox: outbox,
		client: client,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			OpenTimeout:      30 * time.Second,
		}),
		limiter:     rate.NewLimiter(rate.Limit(20), 40),
		logger:      logger.With("component", "dispatcher"),
		interval:    2 * time.Second,
		batchSize:   50,
		maxAttempts: 8,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drains the outbox on an interval until cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Drain(ctx); err != nil {
				d.logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

// Drain claims one batch of pending grants and dispatches each in turn.
// An open breaker skips the whole pass. Claimed grants that never reach
// a verdict (breaker trip mid-batch, process crash) come back once the
// claim goes stale.
func (d *Dispatcher) Drain(ctx context.Context) error {
	pending, err := d.outbox.CountPending(ctx)
	if err == nil {
		metrics.OutboxPendingGauge.Set(float64(pending))
	}

	if err := d.breaker.Allow(); err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			d.logger.Debug("issuance breaker open, skipping drain")
			return nil
		}
		return err
	}

	grants, err := d.outbox.ClaimPending(ctx, d.batchSize)
	if err != nil {
		return fmt.Errorf("claim pending grants: %w", err)
	}

	for i := range grants {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		d.dispatch(ctx, &grants[i])
		if d.breaker.CurrentState() == circuitbreaker.StateOpen {
			// Stop burning attempts against a downed service.
			break
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, grant *model.RewardGrant) {
	var err error
	switch grant.Kind {
	case model.RewardFungible:
		err = d.client.IssueFungible(ctx, grant.Recipient, grant.Amount, grant.SourceRef)
	case model.RewardCollectible:
		err = d.client.IssueCollectible(ctx, grant.Recipient, grant.CollectibleRef, grant.SourceRef)
	default:
		err = retry.Terminal(fmt.Errorf("unknown reward kind %q", grant.Kind))
	}

	if err == nil {
		d.breaker.RecordSuccess()
		if mErr := d.outbox.MarkDispatched(ctx, grant.ID, time.Now()); mErr != nil {
			// The reward went out but the record still says pending; the
			// issuance service must treat SourceRef as idempotency key.
			d.logger.Error("grant dispatched but not marked", "grant", grant.ID, "error", mErr)
			return
		}
		metrics.OutboxDispatchedTotal.WithLabelValues(string(grant.Kind)).Inc()
		return
	}

	d.breaker.RecordFailure()
	metrics.OutboxDispatchFailuresTotal.WithLabelValues(string(grant.Kind)).Inc()

	decision := retry.Classify(err)
	deadLetter := !decision.IsTransient() || grant.Attempts+1 >= d.maxAttempts
	if mErr := d.outbox.MarkFailed(ctx, grant.ID, err.Error(), deadLetter); mErr != nil {
		d.logger.Error("grant failure not recorded", "grant", grant.ID, "error", mErr)
		return
	}
	if deadLetter {
		metrics.OutboxDeadLetteredTotal.WithLabelValues(string(grant.Kind)).Inc()
		d.logger.Error("grant dead-lettered",
			"grant", grant.ID,
			"recipient", grant.Recipient,
			"attempts", grant.Attempts+1,
			"reason", decision.Reason,
			"error", err)
		return
	}
	d.logger.Warn("grant dispatch failed, will retry",
		"grant", grant.ID,
		"attempts", grant.Attempts+1,
		"error", err)
}
