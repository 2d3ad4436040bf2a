package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bramley-breezers/club-records/services"
	"github.com/go-chi/chi/v5"
)

type ChampionshipHandler struct {
	champService services.ChampionshipService
	cacheService services.CacheService
}

func NewChampionshipHandler(champService services.ChampionshipService, cacheService services.CacheService) *ChampionshipHandler {
	return &ChampionshipHandler{champService: champService, cacheService: cacheService}
}

func (h *ChampionshipHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	entries, err := h.champService.Calendar(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UpsertCalendarSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		badRequestResponse(w, r, errors.New("slot must be a number"))
		return
	}
	var input services.CalendarSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entries, err := h.champService.UpsertCalendarSlot(r.Context(), slot, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UpsertReferenceTime(w http.ResponseWriter, r *http.Request) {
	var input services.ReferenceTimeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	ref, err := h.champService.UpsertReferenceTime(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reference_time": ref}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) ListReferenceTimes(w http.ResponseWriter, r *http.Request) {
	refs, err := h.champService.ListReferenceTimes(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reference_times": refs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Submit is the public entry point for championship claims.
func (h *ChampionshipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.ChampSubmitInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sub, err := h.champService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"submission": sub}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.champService.ListPending(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pending": pending}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.champService.Approve(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.champService.Reject(r.Context(), chi.URLParam(r, "submissionID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChampionshipHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.champService.ListResults(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) OverridePoints(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Points float64 `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	result, err := h.champService.OverridePoints(r.Context(), chi.URLParam(r, "resultID"), input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := h.champService.DeleteResult(r.Context(), chi.URLParam(r, "resultID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Standings serves the cached best-six table.
func (h *ChampionshipHandler) Standings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.cacheService.Standings(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
