package service

import (
	"context"
	"database/sql"
	"testing"

	"lucha-gm/internal/config"
	"lucha-gm/internal/database"
	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testStartingCash = int64(1_000_000)

// env wires every service over one in-memory database carrying the real
// production schema. A single connection keeps the :memory: database alive
// across the whole test.
type env struct {
	db *sql.DB

	saveRepo     *repository.SaveRepository
	wrestlerRepo *repository.WrestlerRepository
	titleRepo    *repository.TitleRepository
	plannerRepo  *repository.PlannerRepository
	financeRepo  *repository.FinanceRepository
	matchLogRepo *repository.MatchLogRepository

	saves      *SaveService
	roster     *RosterService
	titles     *TitleService
	planner    *PlannerService
	resolution *ResolutionService
	week       *WeekService
	dashboard  *DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	logger := zerolog.Nop()
	cfg := &config.Config{StartingCash: testStartingCash}

	e := &env{
		db:           db,
		saveRepo:     repository.NewSaveRepository(db, logger),
		wrestlerRepo: repository.NewWrestlerRepository(db, logger),
		titleRepo:    repository.NewTitleRepository(db, logger),
		plannerRepo:  repository.NewPlannerRepository(db, logger),
		financeRepo:  repository.NewFinanceRepository(db, logger),
		matchLogRepo: repository.NewMatchLogRepository(db, logger),
	}
	e.saves = NewSaveService(e.saveRepo, cfg, logger)
	e.roster = NewRosterService(db, e.saveRepo, e.wrestlerRepo, e.financeRepo, logger)
	e.titles = NewTitleService(db, e.saveRepo, e.titleRepo, e.wrestlerRepo, logger)
	e.planner = NewPlannerService(db, e.saveRepo, e.plannerRepo, e.wrestlerRepo, e.titleRepo, logger)
	e.resolution = NewResolutionService(db, e.saveRepo, e.plannerRepo, e.wrestlerRepo, e.titleRepo, e.matchLogRepo, logger)
	e.week = NewWeekService(db, e.saveRepo, e.plannerRepo, e.wrestlerRepo, e.financeRepo, e.matchLogRepo, logger)
	e.dashboard = NewDashboardService(e.saveRepo, e.wrestlerRepo, e.titleRepo, e.matchLogRepo, e.financeRepo, logger)
	return e
}

func (e *env) mustSave(t *testing.T) *domain.Save {
	t.Helper()
	save, err := e.saves.CreateSave(context.Background(), "Lucha Libre Uno", "AAA", "#ff0000")
	require.NoError(t, err)
	return save
}

func (e *env) mustWrestler(t *testing.T, saveID int64, name string) *domain.Wrestler {
	t.Helper()
	w, err := e.roster.AddWrestler(context.Background(), &domain.Wrestler{
		SaveID:      saveID,
		Name:        name,
		Gender:      "M",
		Alignment:   domain.AlignmentFace,
		RingLevel:   80,
		Mic:         70,
		MainClass:   "Technico",
		IsPermanent: true,
	})
	require.NoError(t, err)
	return w
}

func (e *env) mustContractWrestler(t *testing.T, saveID int64, name string, weeks int) *domain.Wrestler {
	t.Helper()
	w, err := e.roster.AddWrestler(context.Background(), &domain.Wrestler{
		SaveID:         saveID,
		Name:           name,
		Gender:         "M",
		Alignment:      domain.AlignmentHeel,
		RingLevel:      70,
		Mic:            60,
		MainClass:      "Rudo",
		WeeksRemaining: weeks,
		Salary:         5_000,
	})
	require.NoError(t, err)
	return w
}

func (e *env) mustTitle(t *testing.T, saveID int64, name string, category domain.TitleCategory) *domain.Title {
	t.Helper()
	title, err := e.titles.CreateTitle(context.Background(), saveID, name, category, "M")
	require.NoError(t, err)
	return title
}

func (e *env) mustSingle(t *testing.T, saveID, a, b int64) *domain.PlannedMatch {
	t.Helper()
	match, err := e.planner.AddPlannedMatch(context.Background(), saveID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a}, 1: {b}},
		Cost:         1_000,
	})
	require.NoError(t, err)
	return match
}

func (e *env) mustTitleSingle(t *testing.T, saveID, a, b, titleID int64) *domain.PlannedMatch {
	t.Helper()
	match, err := e.planner.AddPlannedMatch(context.Background(), saveID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a}, 1: {b}},
		Cost:         2_500,
		IsTitleMatch: true,
		TitleID:      &titleID,
	})
	require.NoError(t, err)
	return match
}

func (e *env) mustCloseWeek(t *testing.T, saveID int64, income IncomeBreakdown) *domain.WeeklySummary {
	t.Helper()
	summary, err := e.week.FinalizeWeek(context.Background(), saveID, income)
	require.NoError(t, err)
	return summary
}
