package service

import (
	"context"
	"sort"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DashboardService is the read-only projection over the match log and
// current state. Nothing here writes; every call recomputes from scratch,
// so two calls with no intervening writes return identical results.
type DashboardService struct {
	saveRepo     *repository.SaveRepository
	wrestlerRepo *repository.WrestlerRepository
	titleRepo    *repository.TitleRepository
	matchLogRepo *repository.MatchLogRepository
	financeRepo  *repository.FinanceRepository
	logger       zerolog.Logger
}

func NewDashboardService(
	saveRepo *repository.SaveRepository,
	wrestlerRepo *repository.WrestlerRepository,
	titleRepo *repository.TitleRepository,
	matchLogRepo *repository.MatchLogRepository,
	financeRepo *repository.FinanceRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		saveRepo:     saveRepo,
		wrestlerRepo: wrestlerRepo,
		titleRepo:    titleRepo,
		matchLogRepo: matchLogRepo,
		financeRepo:  financeRepo,
		logger:       logger,
	}
}

func (s *DashboardService) GetDashboardData(ctx context.Context, saveID int64) (*domain.DashboardStats, error) {
	save, err := s.saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	lastWeek := save.CurrentWeek - 1

	g, gCtx := errgroup.WithContext(ctx)
	var (
		entries     []domain.MatchLogEntry
		wrestlers   []domain.Wrestler
		titles      []domain.Title
		lastSummary *domain.WeeklySummary
	)

	g.Go(func() error {
		var err error
		entries, err = s.matchLogRepo.ListBySave(gCtx, saveID)
		return err
	})
	g.Go(func() error {
		var err error
		wrestlers, err = s.wrestlerRepo.ListBySave(gCtx, saveID)
		return err
	})
	g.Go(func() error {
		var err error
		titles, err = s.titleRepo.ListBySave(gCtx, saveID)
		return err
	})
	g.Go(func() error {
		var err error
		lastSummary, err = s.financeRepo.GetSummary(gCtx, saveID, lastWeek)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int64("save_id", saveID).Msg("failed to load dashboard inputs")
		return nil, err
	}

	names := make(map[int64]string, len(wrestlers))
	for _, w := range wrestlers {
		names[w.ID] = w.Name
	}

	var beforeLastWeek, throughLastWeek, ofLastWeek []domain.MatchLogEntry
	for _, e := range entries {
		if e.Week < lastWeek {
			beforeLastWeek = append(beforeLastWeek, e)
		}
		if e.Week <= lastWeek {
			throughLastWeek = append(throughLastWeek, e)
		}
		if e.Week == lastWeek {
			ofLastWeek = append(ofLastWeek, e)
		}
	}

	// Momentum tracks the live fold; the news feed compares the fold
	// through the last completed week against the fold excluding it.
	streaks := domain.ComputeStreaks(entries)
	newsStreaks := domain.ComputeStreaks(throughLastWeek)
	prevStreaks := domain.ComputeStreaks(beforeLastWeek)

	milestones := []domain.Milestone{}
	for _, t := range titles {
		if t.Vacant() {
			continue
		}
		var holders []string
		for _, id := range t.HolderIDs() {
			holders = append(holders, names[id])
		}
		milestones = append(milestones, domain.MilestoneFor(t, holders, save.CurrentWeek))
	}
	sort.Slice(milestones, func(i, j int) bool {
		if milestones[i].DaysHeld != milestones[j].DaysHeld {
			return milestones[i].DaysHeld > milestones[j].DaysHeld
		}
		return milestones[i].TitleID < milestones[j].TitleID
	})

	financeBad := lastSummary != nil && lastSummary.TotalExpenses > lastSummary.TotalIncome

	return &domain.DashboardStats{
		CurrentWeek: save.CurrentWeek,
		CurrentCash: save.CurrentCash,
		Momentum:    domain.MomentumList(streaks, names),
		Milestones:  milestones,
		News:        domain.BuildNewsFeed(ofLastWeek, newsStreaks, prevStreaks, names, financeBad),
	}, nil
}
