package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-progression/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	integrityService services.IntegrityService
}

func NewStandingsHandler(ss services.StandingsService, is services.IntegrityService) *StandingsHandler {
	return &StandingsHandler{
		standingsService: ss,
		integrityService: is,
	}
}

// CategoryStandings godoc
// @Summary Group tables of a category
// @Tags standings
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} services.CategoryStandings
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 422 {object} map[string]string "A completed match cannot be scored"
// @Router /categories/{categoryID}/standings [get]
func (h *StandingsHandler) CategoryStandings(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.standingsService.CategoryStandings(r.Context(), categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CategoryIntegrity godoc
// @Summary Data problems that block progression of a category
// @Tags standings
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} services.IntegrityReport
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{categoryID}/integrity [get]
func (h *StandingsHandler) CategoryIntegrity(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.integrityService.CheckCategory(r.Context(), categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
