package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questforge/progression-engine/internal/engine"
	"github.com/questforge/progression-engine/internal/engine/generator"
	"github.com/questforge/progression-engine/internal/engine/tournament"
	"github.com/questforge/progression-engine/internal/store"
)

// Server hosts the token-gated admin surface and the open query
// surface on one listener. Mutations live under /admin and require the
// bearer token; queries and metrics are read-only.
type Server struct {
	quests       store.QuestRepository
	achievements store.AchievementRepository
	progressions store.ProgressionRepository
	completions  store.CompletionRepository
	tournaments  store.TournamentRepository
	outbox       store.OutboxRepository
	db           store.TxBeginner

	aggregator *tournament.Aggregator
	settler    *tournament.Settler
	generator  *generator.Generator
	health     *engine.Health

	token  string
	logger *slog.Logger
	srv    *http.Server
}

type Deps struct {
	Quests       store.QuestRepository
	Achievements store.AchievementRepository
	Progressions store.ProgressionRepository
	Completions  store.CompletionRepository
	Tournaments  store.TournamentRepository
	Outbox       store.OutboxRepository
	DB           store.TxBeginner
	Aggregator   *tournament.Aggregator
	Settler      *tournament.Settler
	Generator    *generator.Generator
	Health       *engine.Health
}

func NewServer(port int, token string, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		quests:       deps.Quests,
		achievements: deps.Achievements,
		progressions: deps.Progressions,
		completions:  deps.Completions,
		tournaments:  deps.Tournaments,
		outbox:       deps.Outbox,
		db:           deps.DB,
		aggregator:   deps.Aggregator,
		settler:      deps.Settler,
		generator:    deps.Generator,
		health:       deps.Health,
		token:        token,
		logger:       logger.With("component", "admin"),
	}

	mux := http.NewServeMux()

	// Query surface
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /players/{subject}", s.handlePlayer)
	mux.HandleFunc("GET /definitions", s.handleDefinitions)
	mux.HandleFunc("GET /tournaments/{id}/leaderboard", s.handleLeaderboard)

	// Admin surface
	mux.Handle("POST /admin/quests", s.authed(s.handleCreateQuest))
	mux.Handle("POST /admin/quests/{id}/deactivate", s.authed(s.handleDeactivateQuest))
	mux.Handle("POST /admin/achievements", s.authed(s.handleCreateAchievement))
	mux.Handle("POST /admin/achievements/{id}/deactivate", s.authed(s.handleDeactivateAchievement))
	mux.Handle("POST /admin/tournaments", s.authed(s.handleCreateTournament))
	mux.Handle("POST /admin/tournaments/{id}/settle", s.authed(s.handleSettleTournament))
	mux.Handle("PUT /admin/generator/thresholds", s.authed(s.handleSetThresholds))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("admin server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("admin server shutdown: %w", err)
		}
		return ctx.Err()
	}
}

func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			writeError(w, http.StatusForbidden, "admin surface disabled: no token configured")
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
