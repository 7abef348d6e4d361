// Package service holds integrations that sit beside the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"license-tracker/internal/config"
	"license-tracker/internal/model"
)

// SheetExportService mirrors the license inventory into a Google Sheet for
// reporting. Plaintext key material is never exported. A nil service (export
// not configured) is a no-op.
type SheetExportService struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	log           *zap.Logger
}

// NewSheetExportService builds the export client from a service-account
// credential file. Returns (nil, nil) when the export is disabled.
func NewSheetExportService(cfg config.SheetsConfig, log *zap.Logger) (*SheetExportService, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ctx := context.Background()

	b, err := os.ReadFile(cfg.CredentialPath)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load sheets credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetExportService{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		log:           log,
	}, nil
}

// ExportLicense upserts one inventory row keyed by license ID in column A.
func (s *SheetExportService) ExportLicense(license *model.License) {
	if s == nil || license.Product == nil {
		return
	}

	rangeToSearch := fmt.Sprintf("%s!A2:A", s.sheetName)
	keyResp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rangeToSearch).Do()
	if err != nil {
		s.log.Warn("sheet export: lookup failed", zap.Error(err))
		return
	}

	rowIndex := 0
	for i, row := range keyResp.Values {
		if len(row) > 0 && row[0] == license.ID {
			rowIndex = i + 2 // values start at A2
			break
		}
	}

	values := [][]interface{}{{
		license.ID,
		license.Product.Name,
		license.Status,
		license.ExpiryDate.Format(time.RFC3339),
		license.ClientProject,
		license.MonthlyCost,
		license.AnnualCost,
		license.UpdatedAt.Format(time.RFC3339),
	}}

	if rowIndex > 0 {
		rangeData := fmt.Sprintf("%s!A%d:H%d", s.sheetName, rowIndex, rowIndex)
		_, err = s.service.Spreadsheets.Values.Update(
			s.spreadsheetID,
			rangeData,
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	} else {
		_, err = s.service.Spreadsheets.Values.Append(
			s.spreadsheetID,
			s.sheetName+"!A2:H",
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	}

	if err != nil {
		s.log.Warn("sheet export: write failed",
			zap.String("license_id", license.ID),
			zap.Error(err),
		)
		return
	}

	s.log.Debug("sheet export: license row synced", zap.String("license_id", license.ID))
}
