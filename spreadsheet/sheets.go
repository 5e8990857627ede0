package spreadsheet

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Source returns a named sheet as a Table.
type Source interface {
	ReadSheet(ctx context.Context, sheet string) (*Table, error)
}

// SheetsClient reads one Google spreadsheet with a service account.
type SheetsClient struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

func NewSheetsClient(ctx context.Context, serviceAccountJSONPath, spreadsheetID string) (*SheetsClient, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsClient{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (c *SheetsClient) ReadSheet(ctx context.Context, sheet string) (*Table, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	values := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		values = append(values, cells)
	}
	return NewTable(sheet, values)
}
