package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/repository"

	"github.com/rs/zerolog"
)

type ResolutionService struct {
	db           *sql.DB
	saveRepo     *repository.SaveRepository
	plannerRepo  *repository.PlannerRepository
	wrestlerRepo *repository.WrestlerRepository
	titleRepo    *repository.TitleRepository
	matchLogRepo *repository.MatchLogRepository
	logger       zerolog.Logger
}

func NewResolutionService(
	db *sql.DB,
	saveRepo *repository.SaveRepository,
	plannerRepo *repository.PlannerRepository,
	wrestlerRepo *repository.WrestlerRepository,
	titleRepo *repository.TitleRepository,
	matchLogRepo *repository.MatchLogRepository,
	logger zerolog.Logger,
) *ResolutionService {
	return &ResolutionService{
		db:           db,
		saveRepo:     saveRepo,
		plannerRepo:  plannerRepo,
		wrestlerRepo: wrestlerRepo,
		titleRepo:    titleRepo,
		matchLogRepo: matchLogRepo,
		logger:       logger,
	}
}

type ResolveResult struct {
	TitleChange bool   `json:"title_change"`
	ResultText  string `json:"result_text"`
}

// ResolveMatch applies a result to the roster, the title registry, and the
// permanent log, then freezes the planned match. Everything commits
// atomically: a failed precondition leaves no partial state behind.
//
// Rating range is the caller's responsibility; the HTTP boundary rejects
// anything outside 1..5 before it reaches here.
func (s *ResolutionService) ResolveMatch(ctx context.Context, saveID, matchID, winnerID int64, rating int) (*ResolveResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saveRepo := s.saveRepo.WithTx(tx)
	plannerRepo := s.plannerRepo.WithTx(tx)
	wrestlerRepo := s.wrestlerRepo.WithTx(tx)
	titleRepo := s.titleRepo.WithTx(tx)
	matchLogRepo := s.matchLogRepo.WithTx(tx)

	save, err := saveRepo.Get(ctx, saveID)
	if err != nil {
		return nil, err
	}
	match, err := plannerRepo.Get(ctx, saveID, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsCompleted {
		return nil, domain.ErrAlreadyResolved
	}

	winningTeam := match.TeamOf(winnerID)
	if winningTeam < 0 {
		return nil, domain.ErrInvalidWinner
	}

	winners := match.Participants[winningTeam]
	var losers []int64
	for idx, team := range match.Participants {
		if idx != winningTeam {
			losers = append(losers, team...)
		}
	}
	sort.Slice(losers, func(i, j int) bool { return losers[i] < losers[j] })

	wrestlers, err := wrestlerRepo.GetMany(ctx, saveID, match.ParticipantIDs())
	if err != nil {
		return nil, err
	}

	if err := wrestlerRepo.RecordResults(ctx, saveID, winners, losers); err != nil {
		return nil, err
	}

	titleChange := false
	titleName := ""
	if match.IsTitleMatch && match.TitleID != nil {
		title, err := titleRepo.Get(ctx, saveID, *match.TitleID)
		if err != nil {
			return nil, err
		}
		titleName = title.Name

		titleChange, err = s.settleTitle(ctx, titleRepo, wrestlerRepo, save, title, winners, wrestlers)
		if err != nil {
			return nil, err
		}
	}

	winnerName := wrestlers[winnerID].Name
	loserName := joinNames(losers, wrestlers)
	resultText := fmt.Sprintf("%s def. %s", teamName(winners, wrestlers), loserName)
	if titleChange {
		resultText = fmt.Sprintf("%s to win the %s", resultText, titleName)
	}

	entry := &domain.MatchLogEntry{
		SaveID:        saveID,
		Week:          save.CurrentWeek,
		MatchType:     match.Type,
		WinnerID:      &winnerID,
		WinnerName:    winnerName,
		LoserName:     loserName,
		Rating:        rating,
		IsTitleChange: titleChange,
		TitleName:     titleName,
		Winners:       winners,
		Losers:        losers,
	}
	if _, err := matchLogRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	if err := plannerRepo.MarkCompleted(ctx, matchID, resultText); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	s.logger.Info().
		Int64("save_id", saveID).
		Int64("match_id", matchID).
		Int64("winner_id", winnerID).
		Int("rating", rating).
		Bool("title_change", titleChange).
		Msg("match resolved")
	return &ResolveResult{TitleChange: titleChange, ResultText: resultText}, nil
}

// settleTitle decides retain vs change. The belt moves only when no current
// holder is on the winning side — that covers a vacant belt and a champion
// beaten (or absent) alike. If the reign ends, the old one is closed into
// history with the winning team recorded as defeaters.
func (s *ResolutionService) settleTitle(
	ctx context.Context,
	titleRepo *repository.TitleRepository,
	wrestlerRepo *repository.WrestlerRepository,
	save *domain.Save,
	title *domain.Title,
	winners []int64,
	wrestlers map[int64]domain.Wrestler,
) (bool, error) {
	for _, holderID := range title.HolderIDs() {
		for _, winnerID := range winners {
			if holderID == winnerID {
				return false, nil
			}
		}
	}

	if !title.Vacant() {
		holderNames, err := wrestlerRepo.GetMany(ctx, title.SaveID, title.HolderIDs())
		if err != nil {
			return false, err
		}
		reign := &domain.TitleReign{
			SaveID:      title.SaveID,
			TitleID:     title.ID,
			Holder1ID:   title.Holder1ID,
			Holder2ID:   title.Holder2ID,
			Holder1Name: holderNames[*title.Holder1ID].Name,
			WeekWon:     title.WeekWon,
			WeekLost:    save.CurrentWeek,
		}
		if title.Holder2ID != nil {
			reign.Holder2Name = holderNames[*title.Holder2ID].Name
		}
		if len(winners) > 0 {
			id := winners[0]
			reign.DefeatedBy1ID = &id
			reign.DefeatedBy1 = wrestlers[id].Name
		}
		if len(winners) > 1 {
			id := winners[1]
			reign.DefeatedBy2ID = &id
			reign.DefeatedBy2 = wrestlers[id].Name
		}
		if _, err := titleRepo.InsertReign(ctx, reign); err != nil {
			return false, err
		}
	}

	// Only tag belts ever carry a co-holder, no matter how many wrestlers
	// were on the winning team.
	holder1 := &winners[0]
	var holder2 *int64
	if title.Category == domain.CategoryTag && len(winners) > 1 {
		holder2 = &winners[1]
	}
	if err := titleRepo.SetHolders(ctx, title.ID, holder1, holder2, save.CurrentWeek); err != nil {
		return false, err
	}
	return true, nil
}

func teamName(ids []int64, wrestlers map[int64]domain.Wrestler) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, wrestlers[id].Name)
	}
	return strings.Join(names, " & ")
}

func joinNames(ids []int64, wrestlers map[int64]domain.Wrestler) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, wrestlers[id].Name)
	}
	return strings.Join(names, ", ")
}
