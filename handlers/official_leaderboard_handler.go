package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/badarts/club-backend/services"
	"github.com/go-chi/chi/v5"
)

type OfficialLeaderboardHandler struct {
	officialService services.OfficialLeaderboardService
}

func NewOfficialLeaderboardHandler(svc services.OfficialLeaderboardService) *OfficialLeaderboardHandler {
	return &OfficialLeaderboardHandler{officialService: svc}
}

// Get godoc
// @Summary      Federation ranking
// @Description  Last imported LSEF or CMER ranking, grouped by category.
// @Tags         leaderboard
// @Produce      json
// @Param        board path string true "lsef or cmer"
// @Success      200 {object} services.OfficialLeaderboard
// @Failure      404 {object} map[string]string
// @Router       /leaderboard/{board} [get]
func (h *OfficialLeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	lb, err := h.officialService.Get(r.Context(), board)
	if err != nil {
		if errors.Is(err, services.ErrOfficialLeaderboardNotFound) {
			notFoundResponse(w, r, strings.ToUpper(board)+" leaderboard not yet updated")
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, lb, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary      Import a federation ranking PDF
// @Tags         leaderboard
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        board path string true "lsef or cmer"
// @Param        file formData file true "Ranking PDF"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /leaderboard/{board}/update [post]
func (h *OfficialLeaderboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		badRequestResponse(w, r, fmt.Errorf("%q is not a PDF file", header.Filename))
		return
	}

	if err := h.officialService.Update(r.Context(), board, file, header.Size); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := strings.ToUpper(board) + " leaderboard updated successfully"
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
