package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bramley-breezers/club-records/services"
)

type LeaderboardHandler struct {
	cacheService services.CacheService
}

func NewLeaderboardHandler(cacheService services.CacheService) *LeaderboardHandler {
	return &LeaderboardHandler{cacheService: cacheService}
}

// Get serves the PB leaderboard. Without a season parameter the cached
// all-time board is returned; with one, a fresh season-filtered board.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	season := 0
	if raw := r.URL.Query().Get("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequestResponse(w, r, errors.New("season must be a positive year"))
			return
		}
		season = parsed
	}

	rows, err := h.cacheService.Leaderboard(r.Context(), season)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
