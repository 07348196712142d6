package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
)

// Appender is the surface the sync worker needs to mirror ledger rows.
type Appender interface {
	AppendRow(ctx context.Context, spreadsheetID string, row []any) error
}

// Client wraps the Google Sheets API for row appends.
type Client struct {
	svc         *sheetsapi.Service
	appendRange string
}

// New builds a Sheets client from service-account credentials.
func New(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	appendRange := cfg.AppendRange
	if appendRange == "" {
		appendRange = "Sheet1!A:G"
	}

	return &Client{svc: svc, appendRange: appendRange}, nil
}

// AppendRow appends a single row to the bottom of the configured range.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID string, row []any) error {
	if spreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}
	body := &sheetsapi.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, c.appendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending sheet row: %w", err)
	}
	return nil
}
