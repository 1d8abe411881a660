package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-progression/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{
		bracketService: bs,
	}
}

// GenerateKnockout godoc
// @Summary Generate the knockout stage of a category
// @Tags brackets
// @Description Builds the knockout bracket from group standings (or seeds for knockout_only).
// @Description Repeating the call returns already_generated without creating matches.
// @Accept json
// @Produce json
// @Param categoryID path int true "Category ID"
// @Param options body services.GenerationOptions false "Schedule and seeding overrides"
// @Success 201 {object} services.GenerationResult "Knockout generated"
// @Success 200 {object} map[string]interface{} "Already generated"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 422 {object} map[string]string "Category not ready for a knockout stage"
// @Security BearerAuth
// @Router /categories/{categoryID}/knockout [post]
func (h *BracketHandler) GenerateKnockout(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var opts services.GenerationOptions
	if err := readOptionalJSON(w, r, &opts); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.GenerateKnockout(r.Context(), categoryID, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeGenerationResult(w, r, result)
}

// GenerateGroupStage godoc
// @Summary Generate the round-robin group stage of a category
// @Tags brackets
// @Accept json
// @Produce json
// @Param categoryID path int true "Category ID"
// @Param options body services.GenerationOptions false "Schedule overrides"
// @Success 201 {object} services.GenerationResult "Group stage generated"
// @Success 200 {object} map[string]interface{} "Already generated"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 422 {object} map[string]string "Participants without a group or unsupported format"
// @Security BearerAuth
// @Router /categories/{categoryID}/group-stage [post]
func (h *BracketHandler) GenerateGroupStage(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var opts services.GenerationOptions
	if err := readOptionalJSON(w, r, &opts); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.GenerateGroupStage(r.Context(), categoryID, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeGenerationResult(w, r, result)
}

func writeGenerationResult(w http.ResponseWriter, r *http.Request, result *services.GenerationResult) {
	if result.AlreadyGenerated {
		resp := jsonResponse{
			"category_id":       result.CategoryID,
			"already_generated": true,
		}
		if result.Duplicate != nil {
			resp["message"] = result.Duplicate.Error()
			resp["existing_matches"] = result.Duplicate.ExistingMatches
		}
		if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveFeeder godoc
// @Summary Fill the placeholder slots waiting on a completed match
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchNumber path int true "Match number within the tournament"
// @Success 200 {object} map[string]interface{} "Matches whose slots changed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 422 {object} map[string]string "Match is not completed"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchNumber}/resolve [post]
func (h *BracketHandler) ResolveFeeder(w http.ResponseWriter, r *http.Request) {
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

	changed, err := h.bracketService.ResolveFeeder(r.Context(), tournamentID, matchNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolved": changed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
