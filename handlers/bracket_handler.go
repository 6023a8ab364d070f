package handlers

import (
	"net/http"

	"github.com/reklub/kumitsu-app/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GenerateBrackets godoc
// @Summary      Generate brackets for every active category
// @Description  Builds each category bracket, interleaves the matches into phases and replaces any previous draw.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      201           {object}  services.TournamentBrackets
// @Failure      404           {object}  map[string]string
// @Failure      409           {object}  map[string]string
// @Failure      422           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/brackets [post]
func (h *BracketHandler) GenerateBrackets(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.GenerateTournamentBrackets(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"brackets": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RebuildCategory godoc
// @Summary      Rebuild one category bracket
// @Description  Draws the category again and renumbers the matches of the whole tournament.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Param        categoryID    path      int  true  "Category ID"
// @Success      201           {object}  services.CategoryBracketView
// @Failure      404           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/categories/{categoryID}/bracket [post]
func (h *BracketHandler) RebuildCategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.RebuildCategory(r.Context(), tournamentID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCategoryBracket godoc
// @Summary      Get a category bracket
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Param        categoryID    path      int  true  "Category ID"
// @Success      200           {object}  services.CategoryBracketView
// @Failure      404           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/categories/{categoryID}/bracket [get]
func (h *BracketHandler) GetCategoryBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetCategoryBracket(r.Context(), tournamentID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportBrackets godoc
// @Summary      Archive the brackets of a tournament
// @Description  Uploads a JSON snapshot of every category bracket to object storage.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      201           {object}  storage.UploadResult
// @Failure      404           {object}  map[string]string
// @Failure      503           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/export [post]
func (h *BracketHandler) ExportBrackets(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.ExportBrackets(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
