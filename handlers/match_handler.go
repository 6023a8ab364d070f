package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/reklub/kumitsu-app/models"
	"github.com/reklub/kumitsu-app/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// ListMatches godoc
// @Summary      List tournament matches
// @Description  Matches in running order. The round filter also accepts labels such as "Round 2".
// @Tags         matches
// @Produce      json
// @Param        tournamentID  path      int     true   "Tournament ID"
// @Param        status        query     string  false  "scheduled, in_progress, completed or cancelled"
// @Param        round         query     string  false  "Round number or label"
// @Param        category_id   query     int     false  "Category ID"
// @Success      200           {array}   models.Match
// @Failure      400           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var filter services.MatchListFilter
	query := r.URL.Query()

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.MatchStatus(statusStr)
		if !models.IsValidMatchStatus(status) {
			badRequestResponse(w, r, fmt.Errorf("invalid status query parameter: %q", statusStr))
			return
		}
		filter.Status = &status
	}

	if roundStr := query.Get("round"); roundStr != "" {
		round, ok := models.ParseRoundLabel(roundStr)
		if !ok {
			badRequestResponse(w, r, fmt.Errorf("invalid round query parameter: %q", roundStr))
			return
		}
		filter.Round = &round
	}

	if categoryStr := query.Get("category_id"); categoryStr != "" {
		id, err := strconv.Atoi(categoryStr)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errors.New("invalid category_id query parameter"))
			return
		}
		filter.CategoryID = &id
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentMatches godoc
// @Summary      Matches waiting or on the mat
// @Tags         matches
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      200           {array}   models.Match
// @Router       /tournaments/{tournamentID}/matches/current [get]
func (h *MatchHandler) CurrentMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.CurrentMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartTournament godoc
// @Summary      Start a tournament
// @Description  Assigns courts and start times to the scheduled first-round matches.
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        tournamentID  path      int                             true   "Tournament ID"
// @Param        input         body      services.StartTournamentInput  false  "Schedule overrides"
// @Success      200           {array}   models.Match
// @Failure      400           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/start [post]
func (h *MatchHandler) StartTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StartTournamentInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.StartTournament(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStats godoc
// @Summary      Tournament progress counters
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      200           {object}  models.TournamentStats
// @Failure      404           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/stats [get]
func (h *MatchHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.matchService.GetStats(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartMatch godoc
// @Summary      Mark a match as in progress
// @Tags         matches
// @Produce      json
// @Param        matchID  path      int  true  "Match ID"
// @Success      200      {object}  models.Match
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.StartMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelMatch godoc
// @Summary      Cancel a match
// @Tags         matches
// @Produce      json
// @Param        matchID  path      int  true  "Match ID"
// @Success      200      {object}  models.Match
// @Failure      409      {object}  map[string]string
// @Router       /matches/{matchID}/cancel [post]
func (h *MatchHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CancelMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary      Record a match result
// @Description  Completes the match and moves the winner into the next round of a knockout bracket.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path      int                          true  "Match ID"
// @Param        input    body      services.RecordResultInput  true  "Winner and score"
// @Success      200      {object}  services.ResultOutcome
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /matches/{matchID}/result [post]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	outcome, err := h.matchService.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary      Category standings
// @Description  Entrants ranked by points, score difference and score for over completed matches.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Param        categoryID    path      int  true  "Category ID"
// @Success      200           {array}   models.Standing
// @Failure      404           {object}  map[string]string
// @Router       /tournaments/{tournamentID}/categories/{categoryID}/standings [get]
func (h *MatchHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
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

	standings, err := h.matchService.GetStandings(r.Context(), tournamentID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
