package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lucha-gm/internal/config"
	"lucha-gm/internal/database"
	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"
	"lucha-gm/internal/service"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	logger := zerolog.Nop()
	cfg := &config.Config{StartingCash: 500_000}

	saveRepo := repository.NewSaveRepository(db, logger)
	wrestlerRepo := repository.NewWrestlerRepository(db, logger)
	titleRepo := repository.NewTitleRepository(db, logger)
	plannerRepo := repository.NewPlannerRepository(db, logger)
	financeRepo := repository.NewFinanceRepository(db, logger)
	matchLogRepo := repository.NewMatchLogRepository(db, logger)

	return New(
		service.NewSaveService(saveRepo, cfg, logger),
		service.NewRosterService(db, saveRepo, wrestlerRepo, financeRepo, logger),
		service.NewTitleService(db, saveRepo, titleRepo, wrestlerRepo, logger),
		service.NewPlannerService(db, saveRepo, plannerRepo, wrestlerRepo, titleRepo, logger),
		service.NewResolutionService(db, saveRepo, plannerRepo, wrestlerRepo, titleRepo, matchLogRepo, logger),
		service.NewWeekService(db, saveRepo, plannerRepo, wrestlerRepo, financeRepo, matchLogRepo, logger),
		service.NewDashboardService(saveRepo, wrestlerRepo, titleRepo, matchLogRepo, financeRepo, logger),
		logger,
	)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestSaveLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/saves", map[string]any{
		"name": "Lucha Uno", "brand": "AAA", "theme_color": "#f00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	save := decodeBody[domain.Save](t, rec)
	assert.Equal(t, 1, save.CurrentWeek)
	assert.Equal(t, int64(500_000), save.CurrentCash)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/v1/saves/%d", save.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/v1/saves/%d", save.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/v1/saves/%d", save.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/saves", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/saves/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/saves", map[string]any{"name": "Lucha Uno"})
	require.Equal(t, http.StatusCreated, rec.Code)
	save := decodeBody[domain.Save](t, rec)

	var wrestlers []domain.Wrestler
	for _, name := range []string{"Rey Dorado", "Máscara Negra"} {
		rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/v1/saves/%d/wrestlers", save.ID), map[string]any{
			"name": name, "alignment": "Face", "is_permanent": true,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		wrestlers = append(wrestlers, decodeBody[domain.Wrestler](t, rec))
	}

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/v1/saves/%d/matches", save.ID), map[string]any{
		"type":         domain.MatchSingle,
		"participants": map[string][]int64{"0": {wrestlers[0].ID}, "1": {wrestlers[1].ID}},
		"cost":         1_000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	match := decodeBody[domain.PlannedMatch](t, rec)

	// Rating is range-checked at the boundary.
	rec = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/v1/saves/%d/matches/%d/resolve", save.ID, match.ID),
		map[string]any{"winner_id": wrestlers[0].ID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/v1/saves/%d/matches/%d/resolve", save.ID, match.ID),
		map[string]any{"winner_id": wrestlers[0].ID, "rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	// A second attempt conflicts.
	rec = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/v1/saves/%d/matches/%d/resolve", save.ID, match.ID),
		map[string]any{"winner_id": wrestlers[1].ID, "rating": 3})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCloseWeekBlockedOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/saves", map[string]any{"name": "Lucha Uno"})
	require.Equal(t, http.StatusCreated, rec.Code)
	save := decodeBody[domain.Save](t, rec)

	var ids []int64
	for _, name := range []string{"A", "B"} {
		rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/v1/saves/%d/wrestlers", save.ID), map[string]any{
			"name": name, "alignment": "Heel", "is_permanent": true,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decodeBody[domain.Wrestler](t, rec).ID)
	}
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/v1/saves/%d/matches", save.ID), map[string]any{
		"type":         domain.MatchSingle,
		"participants": map[string][]int64{"0": {ids[0]}, "1": {ids[1]}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/v1/saves/%d/finances/close-week", save.ID),
		map[string]any{"network": 5000})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDashboardOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/saves", map[string]any{"name": "Lucha Uno"})
	require.Equal(t, http.StatusCreated, rec.Code)
	save := decodeBody[domain.Save](t, rec)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/v1/saves/%d/dashboard", save.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[domain.DashboardStats](t, rec)
	assert.Equal(t, 1, stats.CurrentWeek)
	require.NotEmpty(t, stats.News)
	assert.Equal(t, domain.NewsInfo, stats.News[0].Kind)
}
