package handlers

import (
	"fmt"
	"net/http"

	"github.com/badarts/club-backend/spreadsheet"
)

const maxUploadSize = 32 << 20

// readUploadedTable parses the multipart "file" field as CSV or XLSX. It writes
// the error response itself and returns nil when the upload is unusable.
func readUploadedTable(w http.ResponseWriter, r *http.Request, sheetIndex int, csvName string) *spreadsheet.Table {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return nil
	}
	defer file.Close()

	table, err := spreadsheet.ReadUpload(file, header.Filename, sheetIndex, csvName)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("could not read %q: %w", header.Filename, err))
		return nil
	}
	return table
}
