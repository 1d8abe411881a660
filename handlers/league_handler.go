package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-progression/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(ls services.LeagueService) *LeagueHandler {
	return &LeagueHandler{
		leagueService: ls,
	}
}

// Recompute godoc
// @Summary Rebuild the league table from completed tournaments
// @Tags leagues
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{} "Recomputed standings and unresolved placements"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "League not found"
// @Security BearerAuth
// @Router /leagues/{leagueID}/recompute [post]
func (h *LeagueHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.leagueService.Recompute(r.Context(), leagueID, services.TriggerManual)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	unresolved := make([]string, len(result.Unresolved))
	for i, u := range result.Unresolved {
		unresolved[i] = u.Error()
	}
	resp := jsonResponse{
		"league_id":   result.LeagueID,
		"standings":   result.Standings,
		"tournaments": result.Tournaments,
		"unresolved":  unresolved,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Standings godoc
// @Summary Current league table
// @Tags leagues
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{} "League standings ordered by rank"
// @Failure 404 {object} map[string]string "League not found"
// @Router /leagues/{leagueID}/standings [get]
func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.leagueService.Standings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league_id": leagueID, "standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LinkSuggestions godoc
// @Summary Suggested participant to entity links
// @Tags leagues
// @Description Name-similarity suggestions for participants that have no entity link yet.
// @Description Suggestions are never applied automatically.
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{} "Suggestions"
// @Failure 404 {object} map[string]string "League not found"
// @Router /leagues/{leagueID}/link-suggestions [get]
func (h *LeagueHandler) LinkSuggestions(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	suggestions, err := h.leagueService.SuggestLinks(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"suggestions": suggestions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
