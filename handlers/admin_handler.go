package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/badarts/club-backend/backup"
	"github.com/go-chi/chi/v5"
)

// BackupManager is the part of backup.Service the admin routes use.
type BackupManager interface {
	Run(ctx context.Context) (*backup.Result, error)
	List(ctx context.Context) ([]backup.Info, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

// AdminHandler serves the backup tooling. backups is nil when object storage
// is not configured.
type AdminHandler struct {
	backups BackupManager
}

func NewAdminHandler(backups BackupManager) *AdminHandler {
	return &AdminHandler{backups: backups}
}

func (h *AdminHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.backups == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "backups are not configured on this server")
		return false
	}
	return true
}

func (h *AdminHandler) mapBackupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backup.ErrInvalidFilename):
		badRequestResponse(w, r, err)
	case errors.Is(err, backup.ErrBackupNotFound):
		notFoundResponse(w, r, err.Error())
	default:
		serverErrorResponse(w, r, err)
	}
}

// CreateBackup godoc
// @Summary      Run a backup now
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} backup.Result
// @Failure      503 {object} map[string]string
// @Router       /admin/backup [post]
func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	result, err := h.backups.Run(r.Context())
	if err != nil {
		h.mapBackupError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListBackups godoc
// @Summary      Stored backups, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} backup.Info
// @Router       /admin/backups [get]
func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	backups, err := h.backups.List(r.Context())
	if err != nil {
		h.mapBackupError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"backups": backups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DownloadBackup godoc
// @Summary      Download a backup file
// @Tags         admin
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        filename path string true "Backup file name"
// @Success      200 {file} file
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /admin/backup/{filename} [get]
func (h *AdminHandler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	filename := chi.URLParam(r, "filename")
	body, err := h.backups.Open(r.Context(), filename)
	if err != nil {
		h.mapBackupError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.Error("backup download interrupted", "filename", filename, "error", err)
	}
}

// DeleteBackup godoc
// @Summary      Delete a backup
// @Tags         admin
// @Security     BearerAuth
// @Param        filename path string true "Backup file name"
// @Success      204
// @Router       /admin/backup/{filename} [delete]
func (h *AdminHandler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	if err := h.backups.Delete(r.Context(), chi.URLParam(r, "filename")); err != nil {
		h.mapBackupError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
