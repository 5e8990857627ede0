package handlers

import (
	"net/http"

	"github.com/badarts/club-backend/middleware"
	"github.com/badarts/club-backend/services"
)

type LicenceHandler struct {
	licenceService services.LicenceService
}

func NewLicenceHandler(ls services.LicenceService) *LicenceHandler {
	return &LicenceHandler{licenceService: ls}
}

// Create godoc
// @Summary      Create a licence
// @Tags         licences
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body services.LicenceInput true "Licence"
// @Success      201 {object} models.Licence
// @Failure      409 {object} map[string]string "licence number already exists"
// @Router       /licences [post]
func (h *LicenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.LicenceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	licence, err := h.licenceService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"licence": licence}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary      List licences
// @Tags         licences
// @Produce      json
// @Security     BearerAuth
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200 {array} models.Licence
// @Router       /licences [get]
func (h *LicenceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paginationFromQuery(r, 100)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	licences, err := h.licenceService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"licences": licences}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Mine godoc
// @Summary      Licences of the current user
// @Tags         licences
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Licence
// @Router       /licences/me [get]
func (h *LicenceHandler) Mine(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	licences, err := h.licenceService.ListByUser(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"licences": licences}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary      Get a licence
// @Tags         licences
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Licence ID"
// @Success      200 {object} models.Licence
// @Router       /licences/{id} [get]
func (h *LicenceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	licence, err := h.licenceService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"licence": licence}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary      Replace a licence
// @Tags         licences
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Licence ID"
// @Param        input body services.LicenceInput true "Licence"
// @Success      200 {object} models.Licence
// @Router       /licences/{id} [put]
func (h *LicenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.LicenceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	licence, err := h.licenceService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"licence": licence}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary      Delete a licence
// @Tags         licences
// @Security     BearerAuth
// @Param        id path int true "Licence ID"
// @Success      204
// @Router       /licences/{id} [delete]
func (h *LicenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.licenceService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkCreate godoc
// @Summary      Import licences from the federation export
// @Description  Accepts .csv or .xlsx. Rows are matched to users by name; failures are reported per line.
// @Tags         licences
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Licence file"
// @Success      200 {object} services.ImportReport
// @Router       /licences/bulk-create [post]
func (h *LicenceHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	table := readUploadedTable(w, r, 0, "licences")
	if table == nil {
		return
	}

	report, err := h.licenceService.BulkCreate(r.Context(), table)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
