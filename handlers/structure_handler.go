package handlers

import (
	"errors"
	"net/http"

	"github.com/badarts/club-backend/services"
)

// StructureHandler serves pool and final bracket generation.
type StructureHandler struct {
	structureService services.StructureService
}

func NewStructureHandler(ss services.StructureService) *StructureHandler {
	return &StructureHandler{structureService: ss}
}

// CreatePool godoc
// @Summary      Create one pool
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body services.CreatePoolInput true "Pool"
// @Success      201 {object} models.Pool
// @Router       /tournaments/{tournament_id}/pools [post]
func (h *StructureHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreatePoolInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pool, err := h.structureService.CreatePool(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"pool": pool}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPools godoc
// @Summary      Pools with participants and matches
// @Tags         pools
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {array} models.Pool
// @Router       /tournaments/{tournament_id}/pools [get]
func (h *StructureHandler) ListPools(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pools, err := h.structureService.ListPools(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pools": pools}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GeneratePools godoc
// @Summary      Generate pools and their round robin matches
// @Description  Replaces the existing structure of the tournament.
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body object true "{\"num_pools\": 2}"
// @Success      201 {array} models.Pool
// @Router       /tournaments/{tournament_id}/pools/generate [post]
func (h *StructureHandler) GeneratePools(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		NumPools int `json:"num_pools"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.NumPools <= 0 {
		failedValidationResponse(w, r, map[string]string{"num_pools": "must be a positive number"})
		return
	}

	pools, err := h.structureService.GeneratePools(r.Context(), tournamentID, input.NumPools)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"pools": pools}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateFinals godoc
// @Summary      Seed the first final round
// @Tags         finals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body object true "{\"participant_ids\": [1, 2, 3, 4]}"
// @Success      201 {array} models.Match
// @Router       /tournaments/{tournament_id}/finals/generate [post]
func (h *StructureHandler) GenerateFinals(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ParticipantIDs []int `json:"participant_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.structureService.GenerateFinals(r.Context(), tournamentID, input.ParticipantIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceFinals godoc
// @Summary      Pair the winners of a final round
// @Tags         finals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body object true "{\"round\": 1}"
// @Success      201 {array} models.Match
// @Failure      400 {object} map[string]string
// @Router       /tournaments/{tournament_id}/finals/advance [post]
func (h *StructureHandler) AdvanceFinals(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Round int `json:"round"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Round <= 0 {
		badRequestResponse(w, r, errors.New("round must be a positive number"))
		return
	}

	matches, err := h.structureService.AdvanceFinals(r.Context(), tournamentID, input.Round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
