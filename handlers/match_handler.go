package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: ms,
	}
}

type recordResultInput struct {
	Sets models.SetScores `json:"sets"`
}

// RecordResult godoc
// @Summary Record the set scores of a match
// @Tags matches
// @Description Completes the match and fills the bracket slots waiting on it.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchNumber path int true "Match number within the tournament"
// @Param result body recordResultInput true "Set scores"
// @Success 200 {object} services.ResultOutcome "Match completed"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 422 {object} map[string]string "Match cannot be completed with these scores"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchNumber}/result [put]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchNumber, err := getIDFromURL(r, "matchNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Sets) == 0 {
		badRequestResponse(w, r, errors.New("at least one set score is required"))
		return
	}

	outcome, err := h.matchService.RecordResult(r.Context(), tournamentID, matchNumber, input.Sets)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
