package service

import (
	"context"
	"fmt"
	"strings"

	"lucha-gm/internal/config"
	"lucha-gm/internal/constants"
	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
)

type SaveService struct {
	saveRepo *repository.SaveRepository
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewSaveService(saveRepo *repository.SaveRepository, cfg *config.Config, logger zerolog.Logger) *SaveService {
	return &SaveService{saveRepo: saveRepo, cfg: cfg, logger: logger}
}

// CreateSave starts a new career at week 1 with the configured bankroll.
func (s *SaveService) CreateSave(ctx context.Context, name, brand, themeColor string) (*domain.Save, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: save name is required", domain.ErrValidation)
	}

	save := &domain.Save{
		Name:        strings.TrimSpace(name),
		Brand:       strings.TrimSpace(brand),
		ThemeColor:  themeColor,
		CurrentWeek: 1,
		CurrentCash: s.cfg.StartingCash,
	}

	id, err := s.saveRepo.Create(ctx, save)
	if err != nil {
		s.logger.Error().Err(err).Str("name", save.Name).Msg("failed to create save")
		return nil, err
	}
	save.ID = id

	s.logger.Info().Int64("save_id", id).Str("name", save.Name).Msg("save created")
	return s.saveRepo.Get(ctx, id)
}

func (s *SaveService) ListSaves(ctx context.Context) ([]domain.Save, error) {
	return s.saveRepo.List(ctx)
}

func (s *SaveService) GetSave(ctx context.Context, saveID int64) (*domain.Save, error) {
	return s.saveRepo.Get(ctx, saveID)
}

// DeleteSave removes the save; the schema cascades to every owned row.
func (s *SaveService) DeleteSave(ctx context.Context, saveID int64) error {
	if err := s.saveRepo.Delete(ctx, saveID); err != nil {
		return err
	}
	s.logger.Info().Int64("save_id", saveID).Msg("save deleted")
	return nil
}
