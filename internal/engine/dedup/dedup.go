package dedup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/questforge/progression-engine/internal/cache"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

const (
	defaultCacheSize = 100_000
	defaultCacheTTL  = 30 * time.Minute
)

// Deduper guards the pipeline against re-delivered notifications. The
// durable conditional insert decides; the LRU in front of it only
// short-circuits duplicates that were seen recently on this node.
type Deduper struct {
	repo       store.FingerprintRepository
	hot        *cache.LRU[string, struct{}]
	bucketSpan int64
	logger     *slog.Logger

	mu   sync.Mutex
	tips map[model.Chain]int64
}

type Option func(*options)

type options struct {
	cacheSize int
	cacheTTL  time.Duration
}

func WithCacheSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.cacheSize = size
		}
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

func New(repo store.FingerprintRepository, bucketSpan int64, logger *slog.Logger, opts ...Option) *Deduper {
	if bucketSpan <= 0 {
		bucketSpan = 1
	}
	o := options{cacheSize: defaultCacheSize, cacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Deduper{
		repo:       repo,
		hot:        cache.NewLRU[string, struct{}](o.cacheSize, o.cacheTTL),
		bucketSpan: bucketSpan,
		logger:     logger.With("component", "dedup"),
		tips:       make(map[model.Chain]int64),
	}
}

// Bucket maps a block height onto its retention bucket.
func (d *Deduper) Bucket(height int64) int64 {
	if height < 0 {
		return 0
	}
	return height / d.bucketSpan
}

// SeenRecently answers from the hot cache only. A hit is definitive; a
// miss means nothing.
func (d *Deduper) SeenRecently(fingerprint string, chain model.Chain) bool {
	if _, ok := d.hot.Get(fingerprint); ok {
		metrics.DedupCacheHitsTotal.WithLabelValues(chain.String()).Inc()
		metrics.DedupDuplicatesTotal.WithLabelValues(chain.String()).Inc()
		return true
	}
	return false
}

// RecordTx performs the durable check-and-record inside the caller's
// transaction. It returns true on first sight and false for a
// duplicate. The hot cache is not touched here: the transaction may
// still roll back. Call MarkSeen after commit.
func (d *Deduper) RecordTx(ctx context.Context, tx *sql.Tx, fingerprint string, chain model.Chain, height int64) (bool, error) {
	fresh, err := d.repo.RecordTx(ctx, tx, fingerprint, chain, d.Bucket(height))
	if err != nil {
		return false, fmt.Errorf("record fingerprint: %w", err)
	}
	d.observeTip(chain, height)
	if !fresh {
		metrics.DedupDuplicatesTotal.WithLabelValues(chain.String()).Inc()
	}
	return fresh, nil
}

// MarkSeen admits a committed fingerprint to the hot cache.
func (d *Deduper) MarkSeen(fingerprint string) {
	d.hot.Put(fingerprint, struct{}{})
}

func (d *Deduper) observeTip(chain model.Chain, height int64) {
	d.mu.Lock()
	if height > d.tips[chain] {
		d.tips[chain] = height
	}
	d.mu.Unlock()
}

// Tip returns the highest block height recorded for chain so far.
func (d *Deduper) Tip(chain model.Chain) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tips[chain]
}

// RunPrune periodically drops fingerprint buckets that have fallen
// behind the retention horizon on every chain with a known tip. A
// horizon of zero or below disables pruning entirely.
func (d *Deduper) RunPrune(ctx context.Context, interval time.Duration, horizonBuckets int64) error {
	if horizonBuckets <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.mu.Lock()
			tips := make(map[model.Chain]int64, len(d.tips))
			for c, h := range d.tips {
				tips[c] = h
			}
			d.mu.Unlock()
			for c, tip := range tips {
				if _, err := d.Prune(ctx, c, tip, horizonBuckets); err != nil {
					d.logger.Warn("fingerprint prune failed", "chain", c, "error", err)
				}
			}
		}
	}
}

// Prune drops fingerprint buckets older than the retention horizon for
// the given chain's current tip height. A horizon of zero or below
// keeps everything.
func (d *Deduper) Prune(ctx context.Context, chain model.Chain, tipHeight, horizonBuckets int64) (int64, error) {
	if horizonBuckets <= 0 {
		return 0, nil
	}
	beforeBucket := d.Bucket(tipHeight) - horizonBuckets
	if beforeBucket <= 0 {
		return 0, nil
	}
	pruned, err := d.repo.PruneBuckets(ctx, chain, beforeBucket)
	if err != nil {
		return 0, fmt.Errorf("prune fingerprints: %w", err)
	}
	if pruned > 0 {
		d.logger.Info("pruned fingerprint buckets",
			"chain", chain,
			"before_bucket", beforeBucket,
			"pruned", pruned)
	}
	return pruned, nil
}
