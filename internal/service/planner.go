package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
)

type PlannerService struct {
	db           *sql.DB
	saveRepo     *repository.SaveRepository
	plannerRepo  *repository.PlannerRepository
	wrestlerRepo *repository.WrestlerRepository
	titleRepo    *repository.TitleRepository
	logger       zerolog.Logger
}

func NewPlannerService(
	db *sql.DB,
	saveRepo *repository.SaveRepository,
	plannerRepo *repository.PlannerRepository,
	wrestlerRepo *repository.WrestlerRepository,
	titleRepo *repository.TitleRepository,
	logger zerolog.Logger,
) *PlannerService {
	return &PlannerService{
		db:           db,
		saveRepo:     saveRepo,
		plannerRepo:  plannerRepo,
		wrestlerRepo: wrestlerRepo,
		titleRepo:    titleRepo,
		logger:       logger,
	}
}

type PlannedMatchInput struct {
	Type         string
	Participants map[int][]int64
	Stipulation  string
	Cost         int64
	IsTitleMatch bool
	TitleID      *int64
}

// AddPlannedMatch books a card item at the end of the current week's
// running order. Every team slot must be filled, every wrestler must be
// bookable, and a title match must name a title from the same save.
func (s *PlannerService) AddPlannedMatch(ctx context.Context, saveID int64, in PlannedMatchInput) (*domain.PlannedMatch, error) {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, saveID, in); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	match := &domain.PlannedMatch{
		SaveID:       saveID,
		Week:         save.CurrentWeek,
		Type:         in.Type,
		Participants: in.Participants,
		Stipulation:  in.Stipulation,
		Cost:         in.Cost,
		IsTitleMatch: in.IsTitleMatch,
		TitleID:      in.TitleID,
	}
	id, err := s.plannerRepo.WithTx(tx).Insert(ctx, match)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	s.logger.Info().
		Int64("save_id", saveID).
		Int64("match_id", id).
		Str("type", in.Type).
		Int("week", save.CurrentWeek).
		Msg("match booked")
	return s.plannerRepo.Get(ctx, saveID, id)
}

// UpdatePlannedMatch edits a booking. Completed matches are frozen.
func (s *PlannerService) UpdatePlannedMatch(ctx context.Context, saveID, matchID int64, in PlannedMatchInput) (*domain.PlannedMatch, error) {
	existing, err := s.plannerRepo.Get(ctx, saveID, matchID)
	if err != nil {
		return nil, err
	}
	if existing.IsCompleted {
		return nil, domain.ErrNotEditable
	}
	if err := s.validateInput(ctx, saveID, in); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing.Type = in.Type
	existing.Participants = in.Participants
	existing.Stipulation = in.Stipulation
	existing.Cost = in.Cost
	existing.IsTitleMatch = in.IsTitleMatch
	existing.TitleID = in.TitleID

	if err := s.plannerRepo.WithTx(tx).Update(ctx, existing); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking update: %w", err)
	}
	return s.plannerRepo.Get(ctx, saveID, matchID)
}

// DeletePlannedMatch removes a booking regardless of completion state.
// This is the user's explicit override and the only undo for a resolved
// match card entry; the permanent log row stays.
func (s *PlannerService) DeletePlannedMatch(ctx context.Context, saveID, matchID int64) error {
	if err := s.plannerRepo.Delete(ctx, saveID, matchID); err != nil {
		return err
	}
	s.logger.Info().Int64("save_id", saveID).Int64("match_id", matchID).Msg("planned match deleted")
	return nil
}

// ReorderMatches rewrites the running order for the current week. The
// provided list must contain exactly the week's matches; the rewrite is
// all-or-nothing so order values can never duplicate or go missing.
func (s *PlannerService) ReorderMatches(ctx context.Context, saveID int64, orderedIDs []int64) error {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return err
	}

	current, err := s.plannerRepo.ListByWeek(ctx, saveID, save.CurrentWeek)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(current) {
		return fmt.Errorf("%w: reorder list must contain every match exactly once", domain.ErrValidation)
	}
	existing := make(map[int64]bool, len(current))
	for _, m := range current {
		existing[m.ID] = true
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !existing[id] || seen[id] {
			return fmt.Errorf("%w: reorder list must contain every match exactly once", domain.ErrValidation)
		}
		seen[id] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	plannerRepo := s.plannerRepo.WithTx(tx)
	for i, id := range orderedIDs {
		if err := plannerRepo.SetOrder(ctx, saveID, id, i+1); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

// ListPlannedMatches returns the current week's card in running order.
func (s *PlannerService) ListPlannedMatches(ctx context.Context, saveID int64) ([]domain.PlannedMatch, error) {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	return s.plannerRepo.ListByWeek(ctx, saveID, save.CurrentWeek)
}

// GetCurrentShowCost sums booking costs for the active week.
func (s *PlannerService) GetCurrentShowCost(ctx context.Context, saveID int64) (int64, error) {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return 0, err
	}
	return s.plannerRepo.ShowCost(ctx, saveID, save.CurrentWeek)
}

func (s *PlannerService) validateInput(ctx context.Context, saveID int64, in PlannedMatchInput) error {
	if err := domain.ValidateTeams(in.Type, in.Participants); err != nil {
		return err
	}
	if in.Cost < 0 {
		return domain.ErrInvalidAmount
	}

	var ids []int64
	for _, team := range in.Participants {
		ids = append(ids, team...)
	}
	wrestlers, err := s.wrestlerRepo.GetMany(ctx, saveID, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		w, ok := wrestlers[id]
		if !ok {
			return fmt.Errorf("wrestler %d: %w", id, domain.ErrNotFound)
		}
		if w.Expired() {
			return fmt.Errorf("%s: %w", w.Name, domain.ErrContractExpired)
		}
	}

	if in.IsTitleMatch {
		if in.TitleID == nil {
			return domain.ErrTitleRequired
		}
		title, err := s.titleRepo.Get(ctx, saveID, *in.TitleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrTitleMismatch
			}
			return err
		}
		// Tag belts are defended by teams, every other belt by individuals.
		format, _ := domain.FormatFor(in.Type)
		isTagTitle := title.Category == domain.CategoryTag
		if isTagTitle != (format.TeamSize > 1) {
			return fmt.Errorf("%w: %s title cannot be defended in a %s match",
				domain.ErrTitleMismatch, title.Category, in.Type)
		}
	}
	return nil
}
