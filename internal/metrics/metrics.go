package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage counters and histograms, partitioned by chain where a
// notification carries one.

var (
	// Ingress
	IngressNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "ingress",
		Name:      "notifications_total",
		Help:      "Total notifications accepted from the relay",
	}, []string{"chain", "source"})

	IngressRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "ingress",
		Name:      "rejected_total",
		Help:      "Total notifications rejected before classification",
	}, []string{"chain", "reason"})

	// Classifier
	ClassifierDecodedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "classifier",
		Name:      "decoded_total",
		Help:      "Total notifications classified and decoded",
	}, []string{"chain", "category"})

	ClassifierDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "classifier",
		Name:      "dropped_total",
		Help:      "Total notifications dropped by the classifier",
	}, []string{"chain", "reason"})

	// Dedup
	DedupDuplicatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "dedup",
		Name:      "duplicates_total",
		Help:      "Total duplicate notifications dropped by fingerprint",
	}, []string{"chain"})

	DedupCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "dedup",
		Name:      "cache_hits_total",
		Help:      "Total duplicates answered from the fingerprint hot cache",
	}, []string{"chain"})

	// Matcher
	MatcherCandidatesScanned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "progression",
		Subsystem: "matcher",
		Name:      "candidates_scanned",
		Help:      "Catalog candidates scanned per notification",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	}, []string{"chain", "category"})

	MatcherQuestMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "matcher",
		Name:      "quest_matches_total",
		Help:      "Total quest definitions matched",
	}, []string{"chain", "category"})

	MatcherAchievementStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "matcher",
		Name:      "achievement_steps_total",
		Help:      "Total achievement progress accumulation steps",
	}, []string{"chain", "category"})

	// Applier
	ApplierCompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "quest_completions_total",
		Help:      "Total quest completions committed",
	}, []string{"chain", "category"})

	ApplierAchievementUnlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "achievement_unlocks_total",
		Help:      "Total achievement unlocks committed",
	}, []string{"chain"})

	ApplierLevelUpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "level_ups_total",
		Help:      "Total level-up transitions",
	}, []string{"chain"})

	ApplierXPGrantedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "xp_granted_total",
		Help:      "Total XP granted",
	}, []string{"chain"})

	ApplierErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "errors_total",
		Help:      "Total applier errors (after retry exhaustion)",
	}, []string{"chain"})

	ApplierLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "progression",
		Subsystem: "applier",
		Name:      "event_duration_seconds",
		Help:      "Per-event apply duration (DB transaction)",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"chain"})

	// Outbox / issuance
	OutboxEnqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "outbox",
		Name:      "enqueued_total",
		Help:      "Total reward grants enqueued to the outbox",
	}, []string{"kind", "source"})

	OutboxDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "outbox",
		Name:      "dispatched_total",
		Help:      "Total reward grants dispatched to the issuance service",
	}, []string{"kind"})

	OutboxDispatchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "outbox",
		Name:      "dispatch_failures_total",
		Help:      "Total issuance attempts that failed",
	}, []string{"kind"})

	OutboxDeadLetteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "outbox",
		Name:      "dead_lettered_total",
		Help:      "Total reward grants moved to dead-letter",
	}, []string{"kind"})

	OutboxPendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "outbox",
		Name:      "pending",
		Help:      "Current pending reward grants awaiting dispatch",
	})

	// Generator
	GeneratorEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "generator",
		Name:      "evaluations_total",
		Help:      "Total generator trigger evaluations",
	}, []string{"chain"})

	GeneratorQuestsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "generator",
		Name:      "quests_created_total",
		Help:      "Total dynamic quest definitions created",
	}, []string{"chain"})

	GeneratorVolatilityGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "generator",
		Name:      "volatility",
		Help:      "Current rolling volatility measure (0-100)",
	}, []string{"chain"})

	GeneratorActivityGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "generator",
		Name:      "activity",
		Help:      "Current rolling activity measure (0-100)",
	}, []string{"chain"})

	// Tournaments
	TournamentScoreUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "tournament",
		Name:      "score_updates_total",
		Help:      "Total tournament score updates",
	}, []string{"tournament"})

	TournamentSettlementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "progression",
		Subsystem: "tournament",
		Name:      "settlements_total",
		Help:      "Total tournaments settled",
	})

	// Engine-level
	EngineChannelDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "engine",
		Name:      "channel_depth",
		Help:      "Current depth of engine channel buffers",
	}, []string{"stage"})

	EngineHealthStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "engine",
		Name:      "health_status",
		Help:      "Engine health status (0=UNKNOWN, 1=HEALTHY, 2=UNHEALTHY, 3=INACTIVE)",
	})

	// Database pool
	DBPoolOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "postgres",
		Name:      "db_pool_open",
		Help:      "Current number of open PostgreSQL connections in the pool",
	})

	DBPoolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "postgres",
		Name:      "db_pool_in_use",
		Help:      "Current number of in-use PostgreSQL connections in the pool",
	})

	DBPoolIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "progression",
		Subsystem: "postgres",
		Name:      "db_pool_idle",
		Help:      "Current number of idle PostgreSQL connections in the pool",
	})
)
