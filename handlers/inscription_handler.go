package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/badarts/club-backend/middleware"
	"github.com/badarts/club-backend/services"
)

// The competition sheet of the federation workbook is the second one.
const inscriptionSheetIndex = 1

type InscriptionHandler struct {
	inscriptionService services.InscriptionService
}

func NewInscriptionHandler(is services.InscriptionService) *InscriptionHandler {
	return &InscriptionHandler{inscriptionService: is}
}

// Create godoc
// @Summary      Create an inscription
// @Tags         inscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body services.InscriptionInput true "Inscription"
// @Success      201 {object} models.Inscription
// @Router       /inscriptions [post]
func (h *InscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.InscriptionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	inscription, err := h.inscriptionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"inscription": inscription}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary      List inscriptions
// @Tags         inscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200 {array} models.Inscription
// @Router       /inscriptions [get]
func (h *InscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paginationFromQuery(r, 500)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	inscriptions, err := h.inscriptionService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscriptions": inscriptions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Active godoc
// @Summary      Inscriptions entered in a simple or double category
// @Tags         inscriptions
// @Produce      json
// @Success      200 {array} models.Inscription
// @Router       /inscriptions/active [get]
func (h *InscriptionHandler) Active(w http.ResponseWriter, r *http.Request) {
	inscriptions, err := h.inscriptionService.ListActive(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscriptions": inscriptions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Mine godoc
// @Summary      Inscriptions matching the current user's name
// @Tags         inscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Inscription
// @Router       /inscriptions/me [get]
func (h *InscriptionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	inscriptions, err := h.inscriptionService.ListForUser(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscriptions": inscriptions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary      Get an inscription
// @Tags         inscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Inscription ID"
// @Success      200 {object} models.Inscription
// @Router       /inscriptions/{id} [get]
func (h *InscriptionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	inscription, err := h.inscriptionService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscription": inscription}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary      Replace an inscription
// @Tags         inscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Inscription ID"
// @Param        input body services.InscriptionInput true "Inscription"
// @Success      200 {object} models.Inscription
// @Router       /inscriptions/{id} [put]
func (h *InscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.InscriptionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	inscription, err := h.inscriptionService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscription": inscription}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary      Delete an inscription
// @Tags         inscriptions
// @Security     BearerAuth
// @Param        id path int true "Inscription ID"
// @Success      204
// @Router       /inscriptions/{id} [delete]
func (h *InscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.inscriptionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll godoc
// @Summary      Delete every inscription
// @Tags         inscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int
// @Router       /inscriptions [delete]
func (h *InscriptionHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.inscriptionService.DeleteAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BulkImport godoc
// @Summary      Import inscriptions from a file
// @Description  CSV files are dated "Sheet2". For .xlsx the second sheet is read and its name is the date.
// @Tags         inscriptions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Inscription file"
// @Success      200 {object} services.InscriptionImportReport
// @Router       /inscriptions/bulk-import [post]
func (h *InscriptionHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	table := readUploadedTable(w, r, inscriptionSheetIndex, services.InscriptionCSVDate)
	if table == nil {
		return
	}

	report, err := h.inscriptionService.Import(r.Context(), table)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportSheet godoc
// @Summary      Import inscriptions from the configured Google spreadsheet
// @Tags         inscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body object true "{\"sheet\": \"12-10-2025\"}"
// @Success      200 {object} services.InscriptionImportReport
// @Failure      503 {object} map[string]string "Google Sheets not configured"
// @Router       /inscriptions/bulk-import/sheets [post]
func (h *InscriptionHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Sheet string `json:"sheet"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Sheet) == "" {
		badRequestResponse(w, r, errors.New("sheet is required"))
		return
	}

	report, err := h.inscriptionService.ImportSheet(r.Context(), strings.TrimSpace(input.Sheet))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
