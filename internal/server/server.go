package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lucha-gm/internal/domain"
	"lucha-gm/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Server struct {
	saveSvc       *service.SaveService
	rosterSvc     *service.RosterService
	titleSvc      *service.TitleService
	plannerSvc    *service.PlannerService
	resolutionSvc *service.ResolutionService
	weekSvc       *service.WeekService
	dashboardSvc  *service.DashboardService
	logger        zerolog.Logger
	mux           *chi.Mux
}

func New(
	saveSvc *service.SaveService,
	rosterSvc *service.RosterService,
	titleSvc *service.TitleService,
	plannerSvc *service.PlannerService,
	resolutionSvc *service.ResolutionService,
	weekSvc *service.WeekService,
	dashboardSvc *service.DashboardService,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		saveSvc:       saveSvc,
		rosterSvc:     rosterSvc,
		titleSvc:      titleSvc,
		plannerSvc:    plannerSvc,
		resolutionSvc: resolutionSvc,
		weekSvc:       weekSvc,
		dashboardSvc:  dashboardSvc,
		logger:        logger,
		mux:           chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1/saves", func(r chi.Router) {
		r.Get("/", s.handleListSaves)
		r.Post("/", s.handleCreateSave)

		r.Route("/{saveID}", func(r chi.Router) {
			r.Get("/", s.handleGetSave)
			r.Delete("/", s.handleDeleteSave)

			r.Get("/dashboard", s.handleDashboard)

			r.Route("/wrestlers", func(r chi.Router) {
				r.Get("/", s.handleListWrestlers)
				r.Post("/", s.handleAddWrestler)
				r.Get("/{wrestlerID}", s.handleGetWrestler)
				r.Put("/{wrestlerID}", s.handleUpdateWrestler)
				r.Delete("/{wrestlerID}", s.handleDeleteWrestler)
				r.Post("/{wrestlerID}/renew", s.handleRenewContract)
			})

			r.Route("/titles", func(r chi.Router) {
				r.Get("/", s.handleListTitles)
				r.Post("/", s.handleCreateTitle)
				r.Delete("/{titleID}", s.handleDeleteTitle)
				r.Get("/{titleID}/history", s.handleTitleHistory)
				r.Post("/{titleID}/assign", s.handleAssignTitle)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", s.handleListPlannedMatches)
				r.Post("/", s.handleAddPlannedMatch)
				r.Get("/cost", s.handleShowCost)
				r.Post("/reorder", s.handleReorderMatches)
				r.Put("/{matchID}", s.handleUpdatePlannedMatch)
				r.Delete("/{matchID}", s.handleDeletePlannedMatch)
				r.Post("/{matchID}/resolve", s.handleResolveMatch)
			})

			r.Route("/finances", func(r chi.Router) {
				r.Get("/", s.handleCurrentWeekFinances)
				r.Get("/transactions", s.handleTransactionHistory)
				r.Post("/transactions", s.handleAddManualTransaction)
				r.Post("/close-week", s.handleFinalizeWeek)
				r.Get("/summaries", s.handleWeeklySummaries)
			})

			r.Get("/history", s.handleMatchesByWeek)
		})
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrNotEditable),
		errors.Is(err, domain.ErrShowIncomplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidWinner),
		errors.Is(err, domain.ErrIncompleteTeams),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidWeeks),
		errors.Is(err, domain.ErrContractExpired),
		errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleMismatch),
		errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
