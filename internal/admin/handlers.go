package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine"
	"github.com/questforge/progression-engine/internal/engine/tournament"
)

type healthResponse struct {
	engine.Snapshot
	PendingGrants int64 `json:"pending_grants"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.health.Snapshot()
	pending, err := s.outbox.CountPending(r.Context())
	if err != nil {
		s.logger.Warn("pending grant count failed", "error", err)
	}
	status := http.StatusOK
	if snap.Status == engine.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Snapshot: snap, PendingGrants: pending})
}

type playerSnapshot struct {
	Progression *model.PlayerProgression `json:"progression"`
	Completed   []uuid.UUID              `json:"completed_quests"`
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	prog, err := s.progressions.Get(r.Context(), subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if prog == nil {
		writeError(w, http.StatusNotFound, "unknown player")
		return
	}
	completed, err := s.completions.ListBySubject(r.Context(), subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, playerSnapshot{Progression: prog, Completed: completed})
}

func (s *Server) handleDefinitions(w http.ResponseWriter, r *http.Request) {
	quests, err := s.quests.GetActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	achievements, err := s.achievements.GetActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quests":       quests,
		"achievements": achievements,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	// Serve the live cache for ACTIVE boards, the store for settled
	// history.
	entries := s.aggregator.Leaderboard(id, tournament.LeaderboardSize)
	if len(entries) == 0 {
		entries, err = s.tournaments.TopScores(r.Context(), id, tournament.LeaderboardSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

type createQuestRequest struct {
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	TargetEmitter  string    `json:"target_emitter"`
	MinAmount      int64     `json:"min_amount"`
	ChainScope     string    `json:"chain_scope"`
	BaseReward     int64     `json:"base_reward"`
	BonusNFTRef    string    `json:"bonus_nft_ref"`
	Difficulty     int       `json:"difficulty"`
	MaxCompletions int64     `json:"max_completions"`
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
}

func (s *Server) handleCreateQuest(w http.ResponseWriter, r *http.Request) {
	var req createQuestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.BaseReward <= 0 {
		writeError(w, http.StatusBadRequest, "name and positive base_reward are required")
		return
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		writeError(w, http.StatusBadRequest, "difficulty must be 1..5")
		return
	}
	now := time.Now()
	q := &model.QuestDefinition{
		ID:             uuid.New(),
		Name:           req.Name,
		Category:       model.EventCategory(req.Category),
		TargetEmitter:  req.TargetEmitter,
		MinAmount:      req.MinAmount,
		ChainScope:     model.Chain(req.ChainScope),
		BaseReward:     req.BaseReward,
		BonusNFTRef:    req.BonusNFTRef,
		Difficulty:     req.Difficulty,
		MaxCompletions: req.MaxCompletions,
		WindowStart:    req.WindowStart,
		WindowEnd:      req.WindowEnd,
		IsActive:       true,
		Origin:         model.OriginAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if q.WindowStart.IsZero() {
		q.WindowStart = now
	}
	if err := s.quests.Insert(r.Context(), q); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("quest created", "quest", q.ID, "name", q.Name)
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleDeactivateQuest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	if err := s.quests.SetActive(r.Context(), id, false); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("quest deactivated", "quest", id)
	w.WriteHeader(http.StatusNoContent)
}

type createAchievementRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	TargetEmitter string `json:"target_emitter"`
	MinAmount     int64  `json:"min_amount"`
	ChainScope    string `json:"chain_scope"`
	RequiredCount int64  `json:"required_count"`
	BaseReward    int64  `json:"base_reward"`
	BonusNFTRef   string `json:"bonus_nft_ref"`
	Difficulty    int    `json:"difficulty"`
}

func (s *Server) handleCreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req createAchievementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.RequiredCount <= 0 {
		writeError(w, http.StatusBadRequest, "name and positive required_count are required")
		return
	}
	now := time.Now()
	a := &model.AchievementDefinition{
		ID:            uuid.New(),
		Name:          req.Name,
		Category:      model.EventCategory(req.Category),
		TargetEmitter: req.TargetEmitter,
		MinAmount:     req.MinAmount,
		ChainScope:    model.Chain(req.ChainScope),
		RequiredCount: req.RequiredCount,
		BaseReward:    req.BaseReward,
		BonusNFTRef:   req.BonusNFTRef,
		Difficulty:    req.Difficulty,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.achievements.Insert(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("achievement created", "achievement", a.ID, "name", a.Name)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleDeactivateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid achievement id")
		return
	}
	if err := s.achievements.SetActive(r.Context(), id, false); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("achievement deactivated", "achievement", id)
	w.WriteHeader(http.StatusNoContent)
}

type createTournamentRequest struct {
	Name      string    `json:"name"`
	Scope     []string  `json:"scope"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	PrizePool int64     `json:"prize_pool"`
}

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.PrizePool <= 0 || !req.EndTime.After(req.StartTime) {
		writeError(w, http.StatusBadRequest, "name, positive prize_pool and a forward window are required")
		return
	}
	now := time.Now()
	t := &model.Tournament{
		ID:        uuid.New(),
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		PrizePool: req.PrizePool,
		Status:    model.TournamentUpcoming,
		CreatedAt: now,
	}
	for _, c := range req.Scope {
		t.Scope = append(t.Scope, model.Chain(c))
	}
	if !now.Before(t.StartTime) {
		t.Status = model.TournamentActive
	}
	if err := s.tournaments.Insert(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("tournament created", "tournament", t.ID, "name", t.Name, "status", t.Status)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleSettleTournament(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tournament id")
		return
	}
	payouts, err := s.settler.Settle(r.Context(), s.db, id)
	switch {
	case errors.Is(err, tournament.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tournament.ErrAlreadySettled):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"payouts": payouts})
	}
}

type thresholdsRequest struct {
	VolatilityTrigger int64 `json:"volatility_trigger"`
	ActivityTrigger   int64 `json:"activity_trigger"`
}

func (s *Server) handleSetThresholds(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusNotFound, "generator disabled")
		return
	}
	var req thresholdsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.generator.SetTriggers(req.VolatilityTrigger, req.ActivityTrigger)
	vol, act := s.generator.Triggers()
	s.logger.Info("generator thresholds updated", "volatility", vol, "activity", act)
	writeJSON(w, http.StatusOK, thresholdsRequest{VolatilityTrigger: vol, ActivityTrigger: act})
}
