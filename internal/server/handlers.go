package server

import (
	"net/http"
	"strconv"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/service"
)

// Saves

type createSaveRequest struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	ThemeColor string `json:"theme_color"`
}

func (s *Server) handleCreateSave(w http.ResponseWriter, r *http.Request) {
	var req createSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	save, err := s.saveSvc.CreateSave(r.Context(), req.Name, req.Brand, req.ThemeColor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, save)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := s.saveSvc.ListSaves(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saves)
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	save, err := s.saveSvc.GetSave(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, save)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	if err := s.saveSvc.DeleteSave(r.Context(), saveID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Roster

type wrestlerRequest struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	Alignment      string `json:"alignment"`
	RingLevel      int    `json:"ring_level"`
	Mic            int    `json:"mic"`
	MainClass      string `json:"main_class"`
	AltClass       string `json:"alt_class"`
	IsPermanent    bool   `json:"is_permanent"`
	WeeksRemaining int    `json:"weeks_remaining"`
	Salary         int64  `json:"salary"`
	ImageRef       string `json:"image_ref"`
}

func (req wrestlerRequest) toDomain(saveID, wrestlerID int64) *domain.Wrestler {
	return &domain.Wrestler{
		ID:             wrestlerID,
		SaveID:         saveID,
		Name:           req.Name,
		Gender:         req.Gender,
		Alignment:      domain.Alignment(req.Alignment),
		RingLevel:      req.RingLevel,
		Mic:            req.Mic,
		MainClass:      req.MainClass,
		AltClass:       req.AltClass,
		IsPermanent:    req.IsPermanent,
		WeeksRemaining: req.WeeksRemaining,
		Salary:         req.Salary,
		ImageRef:       req.ImageRef,
	}
}

func (s *Server) handleListWrestlers(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	wrestlers, err := s.rosterSvc.ListWrestlers(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wrestlers)
}

func (s *Server) handleGetWrestler(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	wrestlerID, err2 := pathID(r, "wrestlerID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	wrestler, err := s.rosterSvc.GetWrestler(r.Context(), saveID, wrestlerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wrestler)
}

func (s *Server) handleAddWrestler(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var req wrestlerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wrestler, err := s.rosterSvc.AddWrestler(r.Context(), req.toDomain(saveID, 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wrestler)
}

func (s *Server) handleUpdateWrestler(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	wrestlerID, err2 := pathID(r, "wrestlerID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req wrestlerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wrestler, err := s.rosterSvc.UpdateWrestler(r.Context(), req.toDomain(saveID, wrestlerID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wrestler)
}

func (s *Server) handleDeleteWrestler(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	wrestlerID, err2 := pathID(r, "wrestlerID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.rosterSvc.DeleteWrestler(r.Context(), saveID, wrestlerID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renewContractRequest struct {
	Cost  int64 `json:"cost"`
	Weeks int   `json:"weeks"`
}

func (s *Server) handleRenewContract(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	wrestlerID, err2 := pathID(r, "wrestlerID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req renewContractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wrestler, err := s.rosterSvc.RenewContract(r.Context(), saveID, wrestlerID, req.Cost, req.Weeks)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wrestler)
}

// Titles

type createTitleRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Gender   string `json:"gender"`
}

func (s *Server) handleCreateTitle(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var req createTitleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := s.titleSvc.CreateTitle(r.Context(), saveID, req.Name, domain.TitleCategory(req.Category), req.Gender)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, title)
}

func (s *Server) handleListTitles(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	titles, err := s.titleSvc.ListTitles(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, titles)
}

func (s *Server) handleDeleteTitle(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	titleID, err2 := pathID(r, "titleID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.titleSvc.DeleteTitle(r.Context(), saveID, titleID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTitleHistory(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	titleID, err2 := pathID(r, "titleID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	reigns, err := s.titleSvc.GetTitleHistory(r.Context(), saveID, titleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reigns)
}

type assignTitleRequest struct {
	Holder1ID *int64 `json:"holder1_id"`
	Holder2ID *int64 `json:"holder2_id"`
}

func (s *Server) handleAssignTitle(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	titleID, err2 := pathID(r, "titleID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req assignTitleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := s.titleSvc.AssignTitleWithHistory(r.Context(), saveID, titleID, req.Holder1ID, req.Holder2ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, title)
}

// Planner

type plannedMatchRequest struct {
	Type         string          `json:"type"`
	Participants map[int][]int64 `json:"participants"`
	Stipulation  string          `json:"stipulation"`
	Cost         int64           `json:"cost"`
	IsTitleMatch bool            `json:"is_title_match"`
	TitleID      *int64          `json:"title_id"`
}

func (req plannedMatchRequest) toInput() service.PlannedMatchInput {
	return service.PlannedMatchInput{
		Type:         req.Type,
		Participants: req.Participants,
		Stipulation:  req.Stipulation,
		Cost:         req.Cost,
		IsTitleMatch: req.IsTitleMatch,
		TitleID:      req.TitleID,
	}
}

func (s *Server) handleListPlannedMatches(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	matches, err := s.plannerSvc.ListPlannedMatches(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleAddPlannedMatch(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var req plannedMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	match, err := s.plannerSvc.AddPlannedMatch(r.Context(), saveID, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

func (s *Server) handleUpdatePlannedMatch(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	matchID, err2 := pathID(r, "matchID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req plannedMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	match, err := s.plannerSvc.UpdatePlannedMatch(r.Context(), saveID, matchID, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleDeletePlannedMatch(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	matchID, err2 := pathID(r, "matchID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.plannerSvc.DeletePlannedMatch(r.Context(), saveID, matchID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	OrderedIDs []int64 `json:"ordered_ids"`
}

func (s *Server) handleReorderMatches(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.plannerSvc.ReorderMatches(r.Context(), saveID, req.OrderedIDs); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShowCost(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	cost, err := s.plannerSvc.GetCurrentShowCost(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"show_cost": cost})
}

// Resolution

type resolveRequest struct {
	WinnerID int64 `json:"winner_id"`
	Rating   int   `json:"rating"`
}

func (s *Server) handleResolveMatch(w http.ResponseWriter, r *http.Request) {
	saveID, err1 := pathID(r, "saveID")
	matchID, err2 := pathID(r, "matchID")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	result, err := s.resolutionSvc.ResolveMatch(r.Context(), saveID, matchID, req.WinnerID, req.Rating)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Finances

func (s *Server) handleCurrentWeekFinances(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	finances, err := s.weekSvc.GetCurrentWeekFinances(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finances)
}

func (s *Server) handleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	entries, err := s.weekSvc.GetTransactionHistory(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type manualTransactionRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
}

func (s *Server) handleAddManualTransaction(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var req manualTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.weekSvc.AddManualTransaction(r.Context(), saveID, req.Category, req.Description, req.Amount, domain.EntryKind(req.Kind))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleFinalizeWeek(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var income service.IncomeBreakdown
	if err := decodeJSON(r, &income); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	summary, err := s.weekSvc.FinalizeWeek(r.Context(), saveID, income)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWeeklySummaries(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	summaries, err := s.weekSvc.GetWeeklySummaries(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleMatchesByWeek(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		writeError(w, http.StatusBadRequest, "invalid week")
		return
	}
	entries, err := s.weekSvc.GetMatchesByWeek(r.Context(), saveID, week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Dashboard

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	saveID, err := pathID(r, "saveID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	stats, err := s.dashboardSvc.GetDashboardData(r.Context(), saveID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
