package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine"
	"github.com/questforge/progression-engine/internal/engine/generator"
	"github.com/questforge/progression-engine/internal/engine/tournament"
	storemocks "github.com/questforge/progression-engine/internal/store/mocks"
)

const testToken = "hunter2"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	quests       *storemocks.MockQuestRepository
	achievements *storemocks.MockAchievementRepository
	progressions *storemocks.MockProgressionRepository
	completions  *storemocks.MockCompletionRepository
	tournaments  *storemocks.MockTournamentRepository
	outbox       *storemocks.MockOutboxRepository
	db           *storemocks.MockTxBeginner
	health       *engine.Health
	generator    *generator.Generator
	server       *Server
}

func newFixture(t *testing.T, ctrl *gomock.Controller, token string) *fixture {
	t.Helper()
	f := &fixture{
		quests:       storemocks.NewMockQuestRepository(ctrl),
		achievements: storemocks.NewMockAchievementRepository(ctrl),
		progressions: storemocks.NewMockProgressionRepository(ctrl),
		completions:  storemocks.NewMockCompletionRepository(ctrl),
		tournaments:  storemocks.NewMockTournamentRepository(ctrl),
		outbox:       storemocks.NewMockOutboxRepository(ctrl),
		db:           storemocks.NewMockTxBeginner(ctrl),
		health:       engine.NewHealth(),
	}
	f.generator = generator.New(f.quests, newTestLogger())

	agg := tournament.NewAggregator(f.tournaments, newTestLogger())
	f.server = NewServer(0, token, Deps{
		Quests:       f.quests,
		Achievements: f.achievements,
		Progressions: f.progressions,
		Completions:  f.completions,
		Tournaments:  f.tournaments,
		Outbox:       f.outbox,
		DB:           f.db,
		Aggregator:   agg,
		Settler:      tournament.NewSettler(agg, f.outbox),
		Generator:    f.generator,
		Health:       f.health,
	}, newTestLogger())
	return f
}

func (f *fixture) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAdminSurfaceDisabledWithoutToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, "")

	rec := f.do(http.MethodPost, "/admin/quests", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin surface disabled")
}

func TestAdminRejectsBadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	rec := f.do(http.MethodPost, "/admin/quests", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing header entirely is also a bad token.
	rec = f.do(http.MethodPost, "/admin/quests", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)
	f.health.MarkStarted()
	f.outbox.EXPECT().CountPending(gomock.Any()).Return(int64(7), nil)

	rec := f.do(http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[healthResponse](t, rec)
	assert.Equal(t, engine.StatusHealthy, body.Status)
	assert.Equal(t, int64(7), body.PendingGrants)
}

func TestHealthzSurvivesOutboxError(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)
	f.health.MarkStarted()
	f.outbox.EXPECT().CountPending(gomock.Any()).Return(int64(0), fmt.Errorf("db down"))

	rec := f.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlayerSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	prog := model.NewPlayerProgression("0xalice", time.Now())
	prog.XP = 1500
	prog.Level = 2
	completed := []uuid.UUID{uuid.New(), uuid.New()}

	f.progressions.EXPECT().Get(gomock.Any(), "0xalice").Return(prog, nil)
	f.completions.EXPECT().ListBySubject(gomock.Any(), "0xalice").Return(completed, nil)

	rec := f.do(http.MethodGet, "/players/0xalice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[playerSnapshot](t, rec)
	require.NotNil(t, body.Progression)
	assert.Equal(t, int64(1500), body.Progression.XP)
	assert.Equal(t, completed, body.Completed)
}

func TestPlayerUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)
	f.progressions.EXPECT().Get(gomock.Any(), "0xghost").Return(nil, nil)

	rec := f.do(http.MethodGet, "/players/0xghost", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefinitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	f.quests.EXPECT().GetActive(gomock.Any()).Return([]model.QuestDefinition{{ID: uuid.New(), Name: "swap sprint"}}, nil)
	f.achievements.EXPECT().GetActive(gomock.Any()).Return([]model.AchievementDefinition{{ID: uuid.New(), Name: "serial swapper"}}, nil)

	rec := f.do(http.MethodGet, "/definitions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]json.RawMessage](t, rec)
	assert.Contains(t, body, "quests")
	assert.Contains(t, body, "achievements")
}

func TestLeaderboardFallsBackToStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	id := uuid.New()
	scores := []model.TournamentScore{
		{TournamentID: id, Subject: "0xalice", Score: 900},
		{TournamentID: id, Subject: "0xbob", Score: 400},
	}
	// Nothing is cached for this board, so the handler goes to the store.
	f.tournaments.EXPECT().TopScores(gomock.Any(), id, tournament.LeaderboardSize).Return(scores, nil)

	rec := f.do(http.MethodGet, "/tournaments/"+id.String()+"/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0xalice")
}

func TestLeaderboardInvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	rec := f.do(http.MethodGet, "/tournaments/nope/leaderboard", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateQuest(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	var inserted *model.QuestDefinition
	f.quests.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, q *model.QuestDefinition) error {
			inserted = q
			return nil
		})

	rec := f.do(http.MethodPost, "/admin/quests", createQuestRequest{
		Name:       "swap sprint",
		Category:   "swap",
		BaseReward: 1000,
		Difficulty: 3,
		ChainScope: "base",
	}, testToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, inserted)
	assert.Equal(t, model.OriginAdmin, inserted.Origin)
	assert.True(t, inserted.IsActive)
	assert.False(t, inserted.WindowStart.IsZero())
	assert.NotEqual(t, uuid.Nil, inserted.ID)
}

func TestCreateQuestValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	cases := []struct {
		name string
		req  createQuestRequest
	}{
		{"missing name", createQuestRequest{BaseReward: 1000, Difficulty: 3}},
		{"non-positive reward", createQuestRequest{Name: "x", Difficulty: 3}},
		{"difficulty too low", createQuestRequest{Name: "x", BaseReward: 1000, Difficulty: 0}},
		{"difficulty too high", createQuestRequest{Name: "x", BaseReward: 1000, Difficulty: 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/admin/quests", tc.req, testToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateQuestRejectsUnknownFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	req := httptest.NewRequest(http.MethodPost, "/admin/quests",
		bytes.NewReader([]byte(`{"name":"x","base_reward":1000,"difficulty":3,"bogus":true}`)))
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	f.server.srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivateQuest(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	id := uuid.New()
	f.quests.EXPECT().SetActive(gomock.Any(), id, false).Return(nil)

	rec := f.do(http.MethodPost, "/admin/quests/"+id.String()+"/deactivate", nil, testToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPost, "/admin/quests/not-a-uuid/deactivate", nil, testToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAchievement(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	var inserted *model.AchievementDefinition
	f.achievements.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, a *model.AchievementDefinition) error {
			inserted = a
			return nil
		})

	rec := f.do(http.MethodPost, "/admin/achievements", createAchievementRequest{
		Name:          "serial swapper",
		Category:      "swap",
		RequiredCount: 3,
		BaseReward:    2000,
		Difficulty:    3,
	}, testToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, inserted)
	assert.True(t, inserted.IsActive)
	assert.Equal(t, int64(3), inserted.RequiredCount)
}

func TestCreateAchievementValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	rec := f.do(http.MethodPost, "/admin/achievements", createAchievementRequest{
		Name: "serial swapper",
	}, testToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTournament(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	var inserted *model.Tournament
	f.tournaments.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, tr *model.Tournament) error {
			inserted = tr
			return nil
		})

	now := time.Now()
	rec := f.do(http.MethodPost, "/admin/tournaments", createTournamentRequest{
		Name:      "weekly cup",
		Scope:     []string{"base"},
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(24 * time.Hour),
		PrizePool: 10_000,
	}, testToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, inserted)
	// The window already opened, so the tournament starts ACTIVE.
	assert.Equal(t, model.TournamentActive, inserted.Status)
	assert.Equal(t, []model.Chain{model.Chain("base")}, inserted.Scope)
}

func TestCreateTournamentUpcoming(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	var inserted *model.Tournament
	f.tournaments.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, tr *model.Tournament) error {
			inserted = tr
			return nil
		})

	now := time.Now()
	rec := f.do(http.MethodPost, "/admin/tournaments", createTournamentRequest{
		Name:      "next cup",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(25 * time.Hour),
		PrizePool: 5_000,
	}, testToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.TournamentUpcoming, inserted.Status)
}

func TestCreateTournamentValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	now := time.Now()
	cases := []struct {
		name string
		req  createTournamentRequest
	}{
		{"missing name", createTournamentRequest{PrizePool: 1000, StartTime: now, EndTime: now.Add(time.Hour)}},
		{"non-positive pool", createTournamentRequest{Name: "x", StartTime: now, EndTime: now.Add(time.Hour)}},
		{"backward window", createTournamentRequest{Name: "x", PrizePool: 1000, StartTime: now, EndTime: now.Add(-time.Hour)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/admin/tournaments", tc.req, testToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSettleTournamentNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	id := uuid.New()
	f.tournaments.EXPECT().Get(gomock.Any(), id).Return(nil, nil)

	rec := f.do(http.MethodPost, "/admin/tournaments/"+id.String()+"/settle", nil, testToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettleTournamentAlreadySettled(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	id := uuid.New()
	f.tournaments.EXPECT().Get(gomock.Any(), id).Return(&model.Tournament{
		ID:     id,
		Status: model.TournamentCompleted,
	}, nil)

	rec := f.do(http.MethodPost, "/admin/tournaments/"+id.String()+"/settle", nil, testToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetThresholds(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)

	rec := f.do(http.MethodPut, "/admin/generator/thresholds", thresholdsRequest{
		VolatilityTrigger: 90,
		ActivityTrigger:   80,
	}, testToken)
	require.Equal(t, http.StatusOK, rec.Code)

	vol, act := f.generator.Triggers()
	assert.Equal(t, int64(90), vol)
	assert.Equal(t, int64(80), act)

	body := decode[thresholdsRequest](t, rec)
	assert.Equal(t, int64(90), body.VolatilityTrigger)
	assert.Equal(t, int64(80), body.ActivityTrigger)
}

func TestSetThresholdsWithoutGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, ctrl, testToken)
	f.server.generator = nil

	rec := f.do(http.MethodPut, "/admin/generator/thresholds", thresholdsRequest{
		VolatilityTrigger: 90,
	}, testToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
