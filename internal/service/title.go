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

type TitleService struct {
	db           *sql.DB
	saveRepo     *repository.SaveRepository
	titleRepo    *repository.TitleRepository
	wrestlerRepo *repository.WrestlerRepository
	logger       zerolog.Logger
}

func NewTitleService(
	db *sql.DB,
	saveRepo *repository.SaveRepository,
	titleRepo *repository.TitleRepository,
	wrestlerRepo *repository.WrestlerRepository,
	logger zerolog.Logger,
) *TitleService {
	return &TitleService{db: db, saveRepo: saveRepo, titleRepo: titleRepo, wrestlerRepo: wrestlerRepo, logger: logger}
}

var validCategories = map[domain.TitleCategory]bool{
	domain.CategoryWorld:   true,
	domain.CategoryMidcard: true,
	domain.CategoryTag:     true,
	domain.CategoryMITB:    true,
}

// CreateTitle registers a vacant championship for the save.
func (s *TitleService) CreateTitle(ctx context.Context, saveID int64, name string, category domain.TitleCategory, gender string) (*domain.Title, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: title name is required", domain.ErrValidation)
	}
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: unknown title category %q", domain.ErrValidation, category)
	}
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}

	title := &domain.Title{
		SaveID:   saveID,
		Name:     strings.TrimSpace(name),
		Category: category,
		Gender:   gender,
	}
	id, err := s.titleRepo.Insert(ctx, title)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("save_id", saveID).Int64("title_id", id).Str("name", title.Name).Msg("title created")
	return s.titleRepo.Get(ctx, saveID, id)
}

func (s *TitleService) ListTitles(ctx context.Context, saveID int64) ([]domain.Title, error) {
	if _, err := s.saveRepo.Get(ctx, saveID); err != nil {
		return nil, err
	}
	return s.titleRepo.ListBySave(ctx, saveID)
}

func (s *TitleService) DeleteTitle(ctx context.Context, saveID, titleID int64) error {
	return s.titleRepo.Delete(ctx, saveID, titleID)
}

// GetTitleHistory returns past reigns, most recent first. The active reign
// lives on the title row itself, not in history.
func (s *TitleService) GetTitleHistory(ctx context.Context, saveID, titleID int64) ([]domain.TitleReign, error) {
	if _, err := s.titleRepo.Get(ctx, saveID, titleID); err != nil {
		return nil, err
	}
	return s.titleRepo.ListReigns(ctx, saveID, titleID)
}

// AssignTitleWithHistory forces a coronation outside match resolution. An
// active reign is closed into history with no defeater recorded — a manual
// change has no attacker, and that gap is deliberate. Passing nil holders
// vacates the title.
func (s *TitleService) AssignTitleWithHistory(ctx context.Context, saveID, titleID int64, holder1, holder2 *int64) (*domain.Title, error) {
	if holder1 == nil && holder2 != nil {
		return nil, fmt.Errorf("%w: second holder requires a first holder", domain.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saveRepo := s.saveRepo.WithTx(tx)
	titleRepo := s.titleRepo.WithTx(tx)
	wrestlerRepo := s.wrestlerRepo.WithTx(tx)

	save, err := saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	title, err := titleRepo.Get(ctx, saveID, titleID)
	if err != nil {
		return nil, err
	}

	if holder2 != nil && title.Category != domain.CategoryTag {
		return nil, fmt.Errorf("%w: only tag titles have co-holders", domain.ErrValidation)
	}

	var newHolders []int64
	if holder1 != nil {
		newHolders = append(newHolders, *holder1)
	}
	if holder2 != nil {
		newHolders = append(newHolders, *holder2)
	}
	if len(newHolders) > 0 {
		found, err := wrestlerRepo.GetMany(ctx, saveID, newHolders)
		if err != nil {
			return nil, err
		}
		for _, id := range newHolders {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("holder %d: %w", id, domain.ErrNotFound)
			}
		}
	}

	if !title.Vacant() {
		names, err := wrestlerRepo.GetMany(ctx, saveID, title.HolderIDs())
		if err != nil {
			return nil, err
		}
		reign := &domain.TitleReign{
			SaveID:      saveID,
			TitleID:     titleID,
			Holder1ID:   title.Holder1ID,
			Holder2ID:   title.Holder2ID,
			Holder1Name: names[*title.Holder1ID].Name,
			WeekWon:     title.WeekWon,
			WeekLost:    save.CurrentWeek,
		}
		if title.Holder2ID != nil {
			reign.Holder2Name = names[*title.Holder2ID].Name
		}
		if _, err := titleRepo.InsertReign(ctx, reign); err != nil {
			return nil, err
		}
	}

	if err := titleRepo.SetHolders(ctx, titleID, holder1, holder2, save.CurrentWeek); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit coronation: %w", err)
	}

	s.logger.Info().
		Int64("save_id", saveID).
		Int64("title_id", titleID).
		Int("week", save.CurrentWeek).
		Msg("title assigned")
	return s.titleRepo.Get(ctx, saveID, titleID)
}
