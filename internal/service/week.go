package service

import (
	"context"
	"database/sql"
	"fmt"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
)

type WeekService struct {
	db           *sql.DB
	saveRepo     *repository.SaveRepository
	plannerRepo  *repository.PlannerRepository
	wrestlerRepo *repository.WrestlerRepository
	financeRepo  *repository.FinanceRepository
	matchLogRepo *repository.MatchLogRepository
	logger       zerolog.Logger
}

func NewWeekService(
	db *sql.DB,
	saveRepo *repository.SaveRepository,
	plannerRepo *repository.PlannerRepository,
	wrestlerRepo *repository.WrestlerRepository,
	financeRepo *repository.FinanceRepository,
	matchLogRepo *repository.MatchLogRepository,
	logger zerolog.Logger,
) *WeekService {
	return &WeekService{
		db:           db,
		saveRepo:     saveRepo,
		plannerRepo:  plannerRepo,
		wrestlerRepo: wrestlerRepo,
		financeRepo:  financeRepo,
		matchLogRepo: matchLogRepo,
		logger:       logger,
	}
}

// IncomeBreakdown is the manual income entered at week closure.
type IncomeBreakdown struct {
	Network int64 `json:"network"`
	Tickets int64 `json:"tickets"`
	Ads     int64 `json:"ads"`
	Promos  int64 `json:"promos"`
	Other   int64 `json:"other"`
}

func (b IncomeBreakdown) categories() []struct {
	Name   string
	Amount int64
} {
	return []struct {
		Name   string
		Amount int64
	}{
		{"network", b.Network},
		{"tickets", b.Tickets},
		{"ads", b.Ads},
		{"promos", b.Promos},
		{"other", b.Other},
	}
}

func (b IncomeBreakdown) total() int64 {
	return b.Network + b.Tickets + b.Ads + b.Promos + b.Other
}

// FinalizeWeek settles the active week: records income per category,
// expenses from booked show costs, a summary snapshot, the cash delta, the
// week bump, and the contract tick. One transaction — a crash can never
// leave the week advanced without its ledger entries.
func (s *WeekService) FinalizeWeek(ctx context.Context, saveID int64, income IncomeBreakdown) (*domain.WeeklySummary, error) {
	for _, c := range income.categories() {
		if c.Amount < 0 {
			return nil, fmt.Errorf("%s income: %w", c.Name, domain.ErrInvalidAmount)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saveRepo := s.saveRepo.WithTx(tx)
	plannerRepo := s.plannerRepo.WithTx(tx)
	wrestlerRepo := s.wrestlerRepo.WithTx(tx)
	financeRepo := s.financeRepo.WithTx(tx)
	matchLogRepo := s.matchLogRepo.WithTx(tx)

	save, err := saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	week := save.CurrentWeek

	pending, err := plannerRepo.CountIncomplete(ctx, saveID, week)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, domain.ErrShowIncomplete
	}

	totalIncome := income.total()
	for _, c := range income.categories() {
		if c.Amount == 0 {
			continue
		}
		if _, err := financeRepo.Insert(ctx, &domain.FinanceEntry{
			SaveID:      saveID,
			Week:        week,
			Category:    c.Name,
			Description: fmt.Sprintf("Week %d %s income", week, c.Name),
			Amount:      c.Amount,
			Kind:        domain.EntryIn,
		}); err != nil {
			return nil, err
		}
	}

	totalExpenses, err := plannerRepo.ShowCost(ctx, saveID, week)
	if err != nil {
		return nil, err
	}
	if totalExpenses > 0 {
		if _, err := financeRepo.Insert(ctx, &domain.FinanceEntry{
			SaveID:      saveID,
			Week:        week,
			Category:    "show",
			Description: fmt.Sprintf("Week %d show costs", week),
			Amount:      totalExpenses,
			Kind:        domain.EntryOut,
		}); err != nil {
			return nil, err
		}
	}

	avgRating, err := matchLogRepo.AvgRating(ctx, saveID, week)
	if err != nil {
		return nil, err
	}

	summary := &domain.WeeklySummary{
		SaveID:        saveID,
		Week:          week,
		AvgRating:     avgRating,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
	}
	if _, err := financeRepo.InsertSummary(ctx, summary); err != nil {
		return nil, err
	}

	if err := saveRepo.CloseWeek(ctx, saveID, totalIncome-totalExpenses); err != nil {
		return nil, err
	}
	if err := wrestlerRepo.TickContracts(ctx, saveID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit week closure: %w", err)
	}

	s.logger.Info().
		Int64("save_id", saveID).
		Int("week", week).
		Int64("income", totalIncome).
		Int64("expenses", totalExpenses).
		Float64("avg_rating", avgRating).
		Msg("week closed")
	return summary, nil
}

// AddManualTransaction records an out-of-band ledger entry against the
// current week and applies it to the cash balance immediately.
func (s *WeekService) AddManualTransaction(ctx context.Context, saveID int64, category, description string, amount int64, kind domain.EntryKind) (*domain.FinanceEntry, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if kind != domain.EntryIn && kind != domain.EntryOut {
		return nil, fmt.Errorf("%w: kind must be IN or OUT", domain.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saveRepo := s.saveRepo.WithTx(tx)
	financeRepo := s.financeRepo.WithTx(tx)

	save, err := saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}

	entry := &domain.FinanceEntry{
		SaveID:      saveID,
		Week:        save.CurrentWeek,
		Category:    category,
		Description: description,
		Amount:      amount,
		Kind:        kind,
	}
	id, err := financeRepo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	delta := amount
	if kind == domain.EntryOut {
		delta = -amount
	}
	if err := saveRepo.AdjustCash(ctx, saveID, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction entry: %w", err)
	}
	return entry, nil
}

// WeekFinances bundles the active week's ledger view.
type WeekFinances struct {
	Week          int                   `json:"week"`
	Entries       []domain.FinanceEntry `json:"entries"`
	TotalIncome   int64                 `json:"total_income"`
	TotalExpenses int64                 `json:"total_expenses"`
	ShowCost      int64                 `json:"show_cost"`
}

func (s *WeekService) GetCurrentWeekFinances(ctx context.Context, saveID int64) (*WeekFinances, error) {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}

	entries, err := s.financeRepo.ListByWeek(ctx, saveID, save.CurrentWeek)
	if err != nil {
		return nil, err
	}
	showCost, err := s.plannerRepo.ShowCost(ctx, saveID, save.CurrentWeek)
	if err != nil {
		return nil, err
	}

	finances := &WeekFinances{Week: save.CurrentWeek, Entries: entries, ShowCost: showCost}
	for _, e := range entries {
		if e.Kind == domain.EntryIn {
			finances.TotalIncome += e.Amount
		} else {
			finances.TotalExpenses += e.Amount
		}
	}
	return finances, nil
}

func (s *WeekService) GetTransactionHistory(ctx context.Context, saveID int64) ([]domain.FinanceEntry, error) {
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}
	return s.financeRepo.ListBySave(ctx, saveID)
}

func (s *WeekService) GetWeeklySummaries(ctx context.Context, saveID int64) ([]domain.WeeklySummary, error) {
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}
	return s.financeRepo.ListSummaries(ctx, saveID)
}

func (s *WeekService) GetMatchesByWeek(ctx context.Context, saveID int64, week int) ([]domain.MatchLogEntry, error) {
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}
	return s.matchLogRepo.ListByWeek(ctx, saveID, week)
}
