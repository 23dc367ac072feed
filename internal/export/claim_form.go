// Package export renders a submitted claim into an xlsx claim form for the
// finance handoff.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

// ClaimFormWriter writes claim forms as xlsx workbooks into an output
// directory.
type ClaimFormWriter struct {
	outputDir string
	logger    *zap.Logger
}

// NewClaimFormWriter creates a new claim form writer.
func NewClaimFormWriter(outputDir string, logger *zap.Logger) *ClaimFormWriter {
	return &ClaimFormWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Write renders the claim into a workbook and returns the written path.
func (w *ClaimFormWriter) Write(trip *entity.TripRecord, c *entity.Claim, items map[string]*entity.LineItem) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	w.setCell(f, sheet, "A1", "Trip Expense Claim")
	w.setCell(f, sheet, "A3", "Claim ID")
	w.setCell(f, sheet, "B3", c.ID)
	w.setCell(f, sheet, "A4", "Trip")
	w.setCell(f, sheet, "B4", fmt.Sprintf("%s (%s)", trip.Title, trip.TripNumber))
	w.setCell(f, sheet, "A5", "Employee")
	w.setCell(f, sheet, "B5", trip.EmployeeName)
	w.setCell(f, sheet, "A6", "Trip Dates")
	w.setCell(f, sheet, "B6", fmt.Sprintf("%s to %s",
		trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02")))
	w.setCell(f, sheet, "A7", "Submitted")
	w.setCell(f, sheet, "B7", c.SubmittedAt.Format("2006-01-02"))

	// Line table header.
	w.setCell(f, sheet, "A9", "Line Item")
	w.setCell(f, sheet, "B9", "Category")
	w.setCell(f, sheet, "C9", "Receipts")
	w.setCell(f, sheet, "D9", "Amount")
	w.setCell(f, sheet, "E9", "Currency")

	row := 10
	for _, line := range c.Lines {
		name := line.LineItemID
		if item, ok := items[line.LineItemID]; ok && item != nil {
			name = item.Name
		}
		w.setCell(f, sheet, fmt.Sprintf("A%d", row), name)
		w.setCell(f, sheet, fmt.Sprintf("B%d", row), string(line.Category))
		w.setCell(f, sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%d", len(line.ReceiptIDs)))
		w.setCell(f, sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", line.Amount))
		w.setCell(f, sheet, fmt.Sprintf("E%d", row), line.Currency)
		row++
	}

	row++
	w.setCell(f, sheet, fmt.Sprintf("A%d", row), "Total")
	w.setCell(f, sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", c.Amount))
	w.setCell(f, sheet, fmt.Sprintf("E%d", row), c.Currency)

	outputPath := filepath.Join(w.outputDir, fmt.Sprintf("claim_%s.xlsx", c.ID))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save claim form: %w", err)
	}

	w.logger.Info("Claim form written",
		zap.String("claim_id", c.ID),
		zap.String("output_path", outputPath))

	return outputPath, nil
}

// setCell sets a cell value, logging instead of failing on error.
func (w *ClaimFormWriter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
