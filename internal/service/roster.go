package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
)

type RosterService struct {
	db           *sql.DB
	saveRepo     *repository.SaveRepository
	wrestlerRepo *repository.WrestlerRepository
	financeRepo  *repository.FinanceRepository
	logger       zerolog.Logger
}

func NewRosterService(
	db *sql.DB,
	saveRepo *repository.SaveRepository,
	wrestlerRepo *repository.WrestlerRepository,
	financeRepo *repository.FinanceRepository,
	logger zerolog.Logger,
) *RosterService {
	return &RosterService{db: db, saveRepo: saveRepo, wrestlerRepo: wrestlerRepo, financeRepo: financeRepo, logger: logger}
}

func (s *RosterService) ListWrestlers(ctx context.Context, saveID int64) ([]domain.Wrestler, error) {
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}
	return s.wrestlerRepo.ListBySave(ctx, saveID)
}

func (s *RosterService) GetWrestler(ctx context.Context, saveID, wrestlerID int64) (*domain.Wrestler, error) {
	return s.wrestlerRepo.Get(ctx, saveID, wrestlerID)
}

func (s *RosterService) AddWrestler(ctx context.Context, w *domain.Wrestler) (*domain.Wrestler, error) {
	if err := validateWrestler(w); err != nil {
		return nil, err
	}
	if _, err := s.saveRepo.Get(ctx, w.SaveID); err != nil {
		return nil, err
	}

	id, err := s.wrestlerRepo.Insert(ctx, w)
	if err != nil {
		s.logger.Error().Err(err).Int64("save_id", w.SaveID).Str("name", w.Name).Msg("failed to add wrestler")
		return nil, err
	}

	s.logger.Info().Int64("save_id", w.SaveID).Int64("wrestler_id", id).Str("name", w.Name).Msg("wrestler signed")
	return s.wrestlerRepo.Get(ctx, w.SaveID, id)
}

func (s *RosterService) UpdateWrestler(ctx context.Context, w *domain.Wrestler) (*domain.Wrestler, error) {
	if err := validateWrestler(w); err != nil {
		return nil, err
	}
	if err := s.wrestlerRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return s.wrestlerRepo.Get(ctx, w.SaveID, w.ID)
}

func (s *RosterService) DeleteWrestler(ctx context.Context, saveID, wrestlerID int64) error {
	if err := s.wrestlerRepo.Delete(ctx, saveID, wrestlerID); err != nil {
		return err
	}
	s.logger.Info().Int64("save_id", saveID).Int64("wrestler_id", wrestlerID).Msg("wrestler released")
	return nil
}

// RenewContract extends a contract by the given weeks, charging the cost
// against the save's cash and recording it in the ledger. One transaction.
func (s *RosterService) RenewContract(ctx context.Context, saveID, wrestlerID int64, cost int64, weeks int) (*domain.Wrestler, error) {
	if weeks <= 0 {
		return nil, domain.ErrInvalidWeeks
	}
	if cost < 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saveRepo := s.saveRepo.WithTx(tx)
	wrestlerRepo := s.wrestlerRepo.WithTx(tx)
	financeRepo := s.financeRepo.WithTx(tx)

	save, err := saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	wrestler, err := wrestlerRepo.Get(ctx, saveID, wrestlerID)
	if err != nil {
		return nil, err
	}

	if err := wrestlerRepo.AddContractWeeks(ctx, saveID, wrestlerID, weeks); err != nil {
		return nil, err
	}

	if cost > 0 {
		if _, err := financeRepo.Insert(ctx, &domain.FinanceEntry{
			SaveID:      saveID,
			Week:        save.CurrentWeek,
			Category:    "contract",
			Description: fmt.Sprintf("Contract renewal: %s (%d weeks)", wrestler.Name, weeks),
			Amount:      cost,
			Kind:        domain.EntryOut,
		}); err != nil {
			return nil, err
		}
		if err := saveRepo.AdjustCash(ctx, saveID, -cost); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit renewal: %w", err)
	}

	s.logger.Info().
		Int64("save_id", saveID).
		Int64("wrestler_id", wrestlerID).
		Int("weeks", weeks).
		Int64("cost", cost).
		Msg("contract renewed")
	return s.wrestlerRepo.Get(ctx, saveID, wrestlerID)
}

func validateWrestler(w *domain.Wrestler) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: wrestler name is required", domain.ErrValidation)
	}
	if w.Alignment != domain.AlignmentFace && w.Alignment != domain.AlignmentHeel {
		return fmt.Errorf("%w: alignment must be Face or Heel", domain.ErrValidation)
	}
	if !w.IsPermanent && w.WeeksRemaining < 0 {
		return fmt.Errorf("%w: contract weeks cannot start negative", domain.ErrValidation)
	}
	if w.Salary < 0 {
		return fmt.Errorf("%w: salary cannot be negative", domain.ErrValidation)
	}
	w.Name = strings.TrimSpace(w.Name)
	return nil
}
