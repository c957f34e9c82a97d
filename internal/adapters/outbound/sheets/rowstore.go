// Package sheets implements the RowStore port against the Google Sheets
// API. The order queue lives on one tab of one spreadsheet; each cycle
// reads the full tab and writes back a single contiguous cell range per
// processed row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

var _ outbound.RowStore = (*RowStore)(nil)

// RowStore reads and updates queue rows on a single spreadsheet tab.
type RowStore struct {
	config  Config
	service *sheetsapi.Service
	logger  *slog.Logger
}

// NewRowStore creates a row store backed by the Sheets API.
func NewRowStore(ctx context.Context, config Config) (*RowStore, error) {
	if config.SpreadsheetID == "" {
		return nil, errors.New("SpreadsheetID is required")
	}
	applyDefaults(&config, ConfigDefaults())

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))
	opts = append(opts, config.ClientOptions...)

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &RowStore{
		config:  config,
		service: service,
		logger:  config.Logger.With("component", "sheets-rowstore"),
	}, nil
}

// ReadAllRows fetches one snapshot of the whole queue tab. Trailing empty
// cells are absent from the API response, so rows may be shorter than the
// column span; callers must tolerate short rows.
func (s *RowStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	readRange := fmt.Sprintf("%s!%s", s.config.SheetName, s.config.ReadRange)

	resp, err := s.service.Spreadsheets.Values.Get(s.config.SpreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, cellString(cell))
		}
		rows = append(rows, row)
	}

	s.logger.Debug("queue snapshot read", "rows", len(rows))
	return rows, nil
}

// WriteRowRange writes values into startColumn..endColumn of one row as a
// single update call, so the cells land together or not at all.
func (s *RowStore) WriteRowRange(ctx context.Context, row int, startColumn, endColumn string, values []string) error {
	if row < 1 {
		return fmt.Errorf("row must be positive, got %d", row)
	}
	writeRange := fmt.Sprintf("%s!%s%d:%s%d", s.config.SheetName, startColumn, row, endColumn, row)

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	body := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}

	_, err := s.service.Spreadsheets.Values.Update(s.config.SpreadsheetID, writeRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating range %s: %w", writeRange, err)
	}

	s.logger.Debug("row updated", "range", writeRange)
	return nil
}

// cellString renders a cell the way the queue schema expects: plain text,
// with whole numbers kept free of a decimal point.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
