package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV parses a CSV upload. Comma and semicolon separators are both
// accepted; the one appearing most in the header wins.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	firstLine, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	sep := ','
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		sep = ';'
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return NewTable(name, records)
}

// ReadXLSX parses the sheet at sheetIndex (zero based) of a workbook. The
// returned table is named after the sheet.
func ReadXLSX(r io.Reader, sheetIndex int) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("%w: file must have at least %d sheets, found %v", ErrSheetNotFound, sheetIndex+1, sheets)
	}
	name := sheets[sheetIndex]
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return NewTable(name, rows)
}

// ReadUpload picks the reader from the file extension. csvName names the table
// for CSV input, which has no sheet names.
func ReadUpload(r io.Reader, filename string, sheetIndex int, csvName string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r, csvName)
	case ".xlsx":
		return ReadXLSX(r, sheetIndex)
	default:
		return nil, ErrUnsupportedFile
	}
}
