package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/warroomlabs/warroom/internal/catalog"
	"github.com/warroomlabs/warroom/internal/draft"
	"github.com/warroomlabs/warroom/internal/draft/engine"
	"github.com/warroomlabs/warroom/internal/draft/store"
	"github.com/warroomlabs/warroom/internal/models"
)

// Handler is the HTTP command/query surface for draft sessions. Commands
// carry the acting identity in the X-Actor header; the app layer decides
// whether that identity may mutate the session.
type Handler struct {
	svc     *draft.Service
	catalog *catalog.App
}

func NewHandler(svc *draft.Service, catalogApp *catalog.App) *Handler {
	return &Handler{svc: svc, catalog: catalogApp}
}

// RegisterRoutes registers all draft routes with an HTTP mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/drafts", h.handleCreateDraft)
	mux.HandleFunc("GET /api/drafts/{id}", h.handleGetDraft)
	mux.HandleFunc("DELETE /api/drafts/{id}", h.handleDeleteDraft)

	mux.HandleFunc("POST /api/drafts/{id}/picks", h.handleCommitPick)
	mux.HandleFunc("POST /api/drafts/{id}/undo", h.handleUndo)
	mux.HandleFunc("POST /api/drafts/{id}/pause", h.handlePause)
	mux.HandleFunc("POST /api/drafts/{id}/resume", h.handleResume)
	mux.HandleFunc("POST /api/drafts/{id}/reset", h.handleReset)
	mux.HandleFunc("PUT /api/drafts/{id}/settings", h.handleUpdateSettings)

	mux.HandleFunc("GET /api/drafts/{id}/players", h.handleAvailablePlayers)
	mux.HandleFunc("GET /api/drafts/{id}/eligibility", h.handleEligibility)
	mux.HandleFunc("GET /api/drafts/{id}/clock", h.handleClock)
	mux.HandleFunc("GET /api/drafts/{id}/teams/{teamID}/roster", h.handleRosterView)

	mux.HandleFunc("PUT /api/catalog", h.handleReplaceCatalog)
	mux.HandleFunc("PUT /api/catalog/players/{id}/override", h.handleSetOverride)
}

type createDraftRequest struct {
	ID         string               `json:"id"`
	Controller string               `json:"controller"`
	Settings   models.DraftSettings `json:"settings"`
	Teams      []teamSeedRequest    `json:"teams"`
}

type teamSeedRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := uuid.New()
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid draft id")
			return
		}
		id = parsed
	}

	seeds := make([]engine.TeamSeed, 0, len(req.Teams))
	for _, t := range req.Teams {
		teamID := uuid.New()
		if t.ID != "" {
			parsed, err := uuid.Parse(t.ID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid team id")
				return
			}
			teamID = parsed
		}
		seeds = append(seeds, engine.TeamSeed{ID: teamID, Name: t.Name, Owner: t.Owner})
	}

	state, err := h.svc.App().CreateDraft(r.Context(), draft.CreateDraftRequest{
		ID:         id,
		Controller: req.Controller,
		Settings:   req.Settings,
		Teams:      seeds,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	state, err := h.svc.App().GetDraft(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.App().DeleteDraft(r.Context(), id, actor(r)); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commitPickRequest struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
	Amount   int    `json:"amount"`
}

func (h *Handler) handleCommitPick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req commitPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team_id")
		return
	}

	outcome, err := h.svc.App().CommitPick(r.Context(), id, actor(r), playerID, teamID, req.Amount)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, func(id uuid.UUID, act string) (*draft.CommandOutcome, error) {
		return h.svc.App().UndoLastPick(r.Context(), id, act)
	})
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, func(id uuid.UUID, act string) (*draft.CommandOutcome, error) {
		return h.svc.App().PauseDraft(r.Context(), id, act, r.URL.Query().Get("reason"))
	})
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, func(id uuid.UUID, act string) (*draft.CommandOutcome, error) {
		return h.svc.App().ResumeDraft(r.Context(), id, act)
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.handleCommand(w, r, func(id uuid.UUID, act string) (*draft.CommandOutcome, error) {
		return h.svc.App().ResetDraft(r.Context(), id, act)
	})
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID, string) (*draft.CommandOutcome, error)) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	outcome, err := fn(id, actor(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var settings models.DraftSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := h.svc.App().UpdateSettings(r.Context(), id, actor(r), settings)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	players, err := h.svc.App().ListAvailablePlayers(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	eligibility, err := h.svc.Eligibility(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eligibility)
}

func (h *Handler) handleClock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	clock, err := h.svc.Clock(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clock)
}

func (h *Handler) handleRosterView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	teamID, ok := pathUUID(w, r, "teamID")
	if !ok {
		return
	}

	players, err := h.catalog.ListPlayers(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	lookup := make(map[uuid.UUID]models.Player, len(players))
	for _, p := range players {
		lookup[p.ID] = p
	}

	view, err := h.svc.RosterView(r.Context(), id, teamID, lookup)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	var players []models.Player
	if err := json.NewDecoder(r.Body).Decode(&players); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.catalog.ReplaceCatalog(r.Context(), players); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var override *models.PlayerOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.catalog.SetOverride(r.Context(), id, override); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actor extracts the acting identity from the request. In production this
// would come from a verified token rather than a bare header.
func actor(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps app layer errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "draft not found")
	case errors.Is(err, catalog.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, draft.ErrNotController):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, draft.ErrSettingsLocked):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
