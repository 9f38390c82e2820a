package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/questforge/progression-engine/internal/domain/event"
	"github.com/questforge/progression-engine/internal/engine/classifier"
	"github.com/questforge/progression-engine/internal/engine/generator"
	"github.com/questforge/progression-engine/internal/engine/progression"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/tracing"
)

// ErrUnauthorizedSource rejects notifications from ingresses outside
// the allow-list. Holding a connection to the engine is not enough to
// feed it events.
var ErrUnauthorizedSource = errors.New("source not in ingress allow-list")

// Transport is the inbound message boundary with durable checkpoints.
type Transport interface {
	PublishJSON(ctx context.Context, stream string, v any) (string, error)
	ReadJSON(ctx context.Context, stream string, lastID string, dst any) (string, error)
	LoadStreamCheckpoint(ctx context.Context, checkpointKey string) (string, error)
	PersistStreamCheckpoint(ctx context.Context, checkpointKey, streamID string) error
}

// Engine runs the event path: stream consumer, classify stage, and a
// worker pool of appliers sharded by subject hash so one player's
// events apply in order while distinct players proceed in parallel.
type Engine struct {
	transport  Transport
	classifier *classifier.Classifier
	applier    *progression.Applier
	generator  *generator.Generator
	health     *Health
	logger     *slog.Logger

	streamName    string
	checkpointKey string
	workers       int
	bufferSize    int
	allowed       map[string]struct{}

	classifyCh chan event.Envelope
	shards     []chan *event.Classified

	offsets *offsetTracker
	ackMu   sync.Mutex
}

type Option func(*Engine)

// WithGenerator feeds classified magnitudes into the dynamic content
// generator's rolling windows.
func WithGenerator(g *generator.Generator) Option {
	return func(e *Engine) { e.generator = g }
}

func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithBufferSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bufferSize = n
		}
	}
}

func New(
	transport Transport,
	cls *classifier.Classifier,
	applier *progression.Applier,
	streamName string,
	checkpointKey string,
	allowedSources []string,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		transport:     transport,
		classifier:    cls,
		applier:       applier,
		health:        NewHealth(),
		logger:        logger.With("component", "engine"),
		streamName:    streamName,
		checkpointKey: checkpointKey,
		workers:       4,
		bufferSize:    64,
		allowed:       make(map[string]struct{}, len(allowedSources)),
		offsets:       newOffsetTracker(),
	}
	for _, s := range allowedSources {
		e.allowed[s] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	e.classifyCh = make(chan event.Envelope, e.bufferSize)
	e.shards = make([]chan *event.Classified, e.workers)
	for i := range e.shards {
		e.shards[i] = make(chan *event.Classified, e.bufferSize)
	}
	return e
}

// Health exposes the engine's liveness view for the query surface.
func (e *Engine) HealthState() *Health {
	return e.health
}

// OnEvent is the direct ingestion entry. The source must be on the
// allow-list; the notification must be structurally valid. Accepted
// events are queued for classification and applied asynchronously.
func (e *Engine) OnEvent(ctx context.Context, env event.Envelope) error {
	n := env.Notification
	if _, ok := e.allowed[env.Source]; !ok {
		metrics.IngressRejectedTotal.WithLabelValues(n.Chain.String(), string(event.DropUnauthorized)).Inc()
		return fmt.Errorf("%w: %q", ErrUnauthorizedSource, env.Source)
	}
	if err := n.Validate(); err != nil {
		metrics.IngressRejectedTotal.WithLabelValues(n.Chain.String(), string(event.DropInvalid)).Inc()
		return fmt.Errorf("invalid notification: %w", err)
	}
	metrics.IngressNotificationsTotal.WithLabelValues(n.Chain.String(), env.Source).Inc()

	select {
	case e.classifyCh <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the stages and blocks until the context is cancelled or a
// stage fails.
func (e *Engine) Run(ctx context.Context) error {
	e.health.MarkStarted()
	defer e.health.MarkStopped()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return e.consume(ctx) })
	g.Go(func() error { return e.classify(ctx) })
	for i := range e.shards {
		shard := e.shards[i]
		worker := i
		g.Go(func() error { return e.applyLoop(ctx, worker, shard) })
	}
	g.Go(func() error { return e.sampleDepth(ctx) })

	e.logger.Info("engine started", "workers", e.workers, "stream", e.streamName)
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("engine stopped: %w", err)
	}
	return nil
}

// consume reads envelopes off the stream from the last durable
// checkpoint and feeds them through OnEvent. The durable checkpoint
// trails the appliers: an envelope's delivery ID is acked only once the
// event has been fully processed (applied, dropped, or rejected), so a
// crash redelivers anything that was still buffered in the pipeline.
func (e *Engine) consume(ctx context.Context) error {
	lastID, err := e.transport.LoadStreamCheckpoint(ctx, e.checkpointKey)
	if err != nil {
		return fmt.Errorf("load stream checkpoint: %w", err)
	}
	e.logger.Info("consuming notification stream", "stream", e.streamName, "from", lastID)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var env event.Envelope
		nextID, err := e.transport.ReadJSON(ctx, e.streamName, lastID, &env)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.logger.Error("stream read failed", "error", err)
			continue
		}

		env.StreamID = nextID
		e.offsets.Track(nextID)

		if err := e.OnEvent(ctx, env); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			e.logger.Warn("notification rejected",
				"source", env.Source,
				"chain", env.Notification.Chain,
				"error", err)
			// Rejections never enter the pipeline; ack them here so one
			// bad message cannot wedge the stream.
			e.ackStream(ctx, nextID)
		}

		lastID = nextID
	}
}

// ackStream marks a delivery fully processed and persists the durable
// checkpoint once every earlier delivery is done too. Serialised so
// commits from concurrent appliers cannot persist out of order.
func (e *Engine) ackStream(ctx context.Context, streamID string) {
	if streamID == "" {
		return
	}
	e.ackMu.Lock()
	defer e.ackMu.Unlock()
	commit := e.offsets.Complete(streamID)
	if commit == "" {
		return
	}
	if err := e.transport.PersistStreamCheckpoint(ctx, e.checkpointKey, commit); err != nil {
		e.logger.Error("checkpoint persist failed", "offset", commit, "error", err)
	}
}

// classify turns envelopes into classified events and routes them to
// the subject's shard.
func (e *Engine) classify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-e.classifyCh:
			n := env.Notification
			ev, err := e.classifier.Classify(n)
			if err != nil {
				reason := event.DropUnclassifiable
				var decodeErr *classifier.DecodeError
				if errors.As(err, &decodeErr) {
					reason = event.DropDecodeError
				}
				metrics.ClassifierDroppedTotal.WithLabelValues(n.Chain.String(), string(reason)).Inc()
				e.logger.Warn("notification dropped",
					"reason", reason,
					"chain", n.Chain,
					"raw_category", n.RawCategory,
					"error", err)
				e.ackStream(ctx, env.StreamID)
				continue
			}
			ev.StreamID = env.StreamID
			metrics.ClassifierDecodedTotal.WithLabelValues(n.Chain.String(), ev.Category().String()).Inc()

			if e.generator != nil {
				e.generator.Observe(n.Chain, ev.Decoded.Magnitude)
			}

			shard := e.shards[shardFor(n.Subject, e.workers)]
			select {
			case shard <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (e *Engine) applyLoop(ctx context.Context, worker int, shard <-chan *event.Classified) error {
	tracer := tracing.Tracer("engine")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-shard:
			spanCtx, span := tracer.Start(ctx, "apply_event")
			span.SetAttributes(
				attribute.String("chain", ev.Notification.Chain.String()),
				attribute.String("category", ev.Category().String()),
				attribute.String("subject", ev.Notification.Subject),
			)
			outcome, err := e.applier.ApplyWithRetry(spanCtx, ev)
			span.End()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					// Unacked: the delivery replays after restart.
					return err
				}
				// The retry budget is spent; give the event up and ack it
				// so the stream can move on.
				e.logger.Error("apply failed",
					"worker", worker,
					"fingerprint", ev.Fingerprint,
					"subject", ev.Notification.Subject,
					"error", err)
				e.ackStream(ctx, ev.StreamID)
				continue
			}
			e.health.MarkEvent()
			e.ackStream(ctx, ev.StreamID)
			if outcome.Dropped() {
				continue
			}
			if len(outcome.Completions) > 0 || outcome.LevelAfter > outcome.LevelBefore {
				e.logger.Info("progression applied",
					"subject", outcome.Subject,
					"completions", len(outcome.Completions),
					"xp", outcome.XPGained,
					"level", outcome.LevelAfter,
					"streak", outcome.Streak)
			}
		}
	}
}

// sampleDepth exports channel occupancy so backpressure shows up on a
// dashboard before it shows up as latency.
func (e *Engine) sampleDepth(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			metrics.EngineChannelDepth.WithLabelValues("classify").Set(float64(len(e.classifyCh)))
			var applyDepth int
			for _, shard := range e.shards {
				applyDepth += len(shard)
			}
			metrics.EngineChannelDepth.WithLabelValues("apply").Set(float64(applyDepth))
		}
	}
}

func shardFor(subject string, shards int) int {
	h := fnv.New32a()
	h.Write([]byte(subject))
	return int(h.Sum32() % uint32(shards))
}
