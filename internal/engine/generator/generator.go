package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

const (
	observationWindow = time.Hour
	maxObservations   = 10_000

	// activityFullScale is the observation count per window that maps
	// to an activity reading of 100.
	activityFullScale = 1_000
)

// Generator watches per-chain event flow and mints short-lived quest
// definitions when volatility or activity crosses its triggers. Created
// definitions carry a 24 hour window by default and are indistinguishable
// from admin-created ones to the rest of the pipeline except by origin.
type Generator struct {
	quests  store.QuestRepository
	limiter *rate.Limiter
	logger  *slog.Logger

	volatilityTrigger int64
	activityTrigger   int64
	windowHours       int
	baseRewardFloor   int64

	mu     sync.Mutex
	chains map[model.Chain]*chainWindow

	nowFn func() time.Time
}

type chainWindow struct {
	observations []observation
}

type observation struct {
	magnitude int64
	at        time.Time
}

type Option func(*Generator)

func WithTriggers(volatility, activity int64) Option {
	return func(g *Generator) {
		g.volatilityTrigger = volatility
		g.activityTrigger = activity
	}
}

func WithWindowHours(hours int) Option {
	return func(g *Generator) {
		if hours > 0 {
			g.windowHours = hours
		}
	}
}

func WithBaseRewardFloor(floor int64) Option {
	return func(g *Generator) {
		if floor > 0 {
			g.baseRewardFloor = floor
		}
	}
}

// WithRateLimit bounds definition creation; the default allows one per
// evaluation interval at most.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(g *Generator) { g.limiter = rate.NewLimiter(r, burst) }
}

func WithNowFunc(fn func() time.Time) Option {
	return func(g *Generator) { g.nowFn = fn }
}

func New(quests store.QuestRepository, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		quests:            quests,
		limiter:           rate.NewLimiter(rate.Every(5*time.Minute), 1),
		logger:            logger.With("component", "generator"),
		volatilityTrigger: 60,
		activityTrigger:   70,
		windowHours:       24,
		baseRewardFloor:   500,
		chains:            make(map[model.Chain]*chainWindow),
		nowFn:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetTriggers retunes the thresholds at runtime.
func (g *Generator) SetTriggers(volatility, activity int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if volatility > 0 {
		g.volatilityTrigger = volatility
	}
	if activity > 0 {
		g.activityTrigger = activity
	}
}

// Triggers returns the current thresholds.
func (g *Generator) Triggers() (volatility, activity int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.volatilityTrigger, g.activityTrigger
}

// Observe feeds one classified event's magnitude into the rolling
// window for its chain. Safe for concurrent use.
func (g *Generator) Observe(chain model.Chain, magnitude int64) {
	now := g.nowFn()
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.chains[chain]
	if w == nil {
		w = &chainWindow{}
		g.chains[chain] = w
	}
	w.observations = append(w.observations, observation{magnitude: magnitude, at: now})
	if len(w.observations) > maxObservations {
		w.observations = w.observations[len(w.observations)-maxObservations:]
	}
}

// Volatility returns the 0-100 dispersion reading for chain: the
// coefficient of variation of observed magnitudes over the window,
// scaled so a stddev equal to the mean reads 100.
func (g *Generator) Volatility(chain model.Chain) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	obs := g.trimmed(chain)
	return volatilityOf(obs)
}

// Activity returns the 0-100 throughput reading for chain.
func (g *Generator) Activity(chain model.Chain) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return activityOf(len(g.trimmed(chain)))
}

func (g *Generator) trimmed(chain model.Chain) []observation {
	w := g.chains[chain]
	if w == nil {
		return nil
	}
	cutoff := g.nowFn().Add(-observationWindow)
	i := 0
	for i < len(w.observations) && w.observations[i].at.Before(cutoff) {
		i++
	}
	w.observations = w.observations[i:]
	return w.observations
}

func volatilityOf(obs []observation) int64 {
	if len(obs) < 2 {
		return 0
	}
	var sum float64
	for _, o := range obs {
		sum += float64(o.magnitude)
	}
	mean := sum / float64(len(obs))
	if mean <= 0 {
		return 0
	}
	var sq float64
	for _, o := range obs {
		d := float64(o.magnitude) - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(obs)))
	v := int64(stddev / mean * 100)
	if v > 100 {
		v = 100
	}
	return v
}

func activityOf(count int) int64 {
	a := int64(count) * 100 / activityFullScale
	if a > 100 {
		a = 100
	}
	return a
}

// DifficultyForVolatility buckets a volatility reading into the 1..5
// difficulty scale.
func DifficultyForVolatility(v int64) int {
	switch {
	case v > 80:
		return 5
	case v > 60:
		return 4
	case v > 40:
		return 3
	case v > 20:
		return 2
	default:
		return 1
	}
}

// Evaluate runs one trigger pass over every observed chain, creating at
// most one definition per chain per pass, further bounded by the rate
// limiter.
func (g *Generator) Evaluate(ctx context.Context) error {
	now := g.nowFn()

	g.mu.Lock()
	volTrigger, actTrigger := g.volatilityTrigger, g.activityTrigger
	chains := make([]model.Chain, 0, len(g.chains))
	for c := range g.chains {
		chains = append(chains, c)
	}
	g.mu.Unlock()

	for _, chain := range chains {
		metrics.GeneratorEvaluationsTotal.WithLabelValues(chain.String()).Inc()

		volatility := g.Volatility(chain)
		activity := g.Activity(chain)
		metrics.GeneratorVolatilityGauge.WithLabelValues(chain.String()).Set(float64(volatility))
		metrics.GeneratorActivityGauge.WithLabelValues(chain.String()).Set(float64(activity))

		if volatility < volTrigger && activity < actTrigger {
			continue
		}
		if !g.limiter.Allow() {
			g.logger.Debug("generation rate limited", "chain", chain)
			continue
		}

		q := g.buildDefinition(chain, volatility, activity, volatility >= volTrigger, now)
		if err := g.quests.Insert(ctx, q); err != nil {
			return fmt.Errorf("insert generated quest: %w", err)
		}
		metrics.GeneratorQuestsCreatedTotal.WithLabelValues(chain.String()).Inc()
		g.logger.Info("generated quest definition",
			"quest", q.ID,
			"chain", chain,
			"difficulty", q.Difficulty,
			"volatility", volatility,
			"activity", activity,
			"window_end", q.WindowEnd)
	}
	return nil
}

// buildDefinition derives the quest shape from the readings: volatile
// markets get swap quests, busy ones get transfer quests; reward scales
// with both readings above the floor.
func (g *Generator) buildDefinition(chain model.Chain, volatility, activity int64, volatile bool, now time.Time) *model.QuestDefinition {
	difficulty := DifficultyForVolatility(volatility)

	category := model.CategoryTransfer
	name := fmt.Sprintf("Surge: %s activity rush", chain)
	if volatile {
		category = model.CategorySwap
		name = fmt.Sprintf("Surge: %s volatility window", chain)
	}

	reward := g.baseRewardFloor + g.baseRewardFloor*(volatility+activity)/100

	return &model.QuestDefinition{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		ChainScope:  chain,
		BaseReward:  reward,
		Difficulty:  difficulty,
		WindowStart: now,
		WindowEnd:   now.Add(time.Duration(g.windowHours) * time.Hour),
		IsActive:    true,
		Origin:      model.OriginGenerator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Run evaluates on the given interval until cancelled.
func (g *Generator) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := g.Evaluate(ctx); err != nil {
				g.logger.Error("generator evaluation failed", "error", err)
			}
		}
	}
}
