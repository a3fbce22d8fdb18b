// Package xlsx persists report sheets as Excel workbooks using excelize.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/report"
)

const defaultSheet = "Sheet1"

// Writer writes report sheets to .xlsx files.
type Writer struct{}

// NewWriter creates a new workbook writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders sheet into a workbook and saves it at path. The workbook is written
// to a temporary file next to path and renamed into place, so a failed write never
// leaves a partial file at path.
func (w *Writer) Write(ctx context.Context, sheet *report.Sheet, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := w.render(sheet)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close workbook", "error", cerr)
		}
	}()

	if err := save(f, path); err != nil {
		return fmt.Errorf("%w: %w", common.ErrWrite, err)
	}

	slog.Debug("Wrote workbook", "path", path, "rows", len(sheet.Rows))
	return nil
}

func (w *Writer) render(sheet *report.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	name := sheet.Name
	if name == "" {
		name = defaultSheet
	}
	if name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := writeHeader(f, name, sheet.Headers); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRows(f, name, sheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := applyWidths(f, name, sheet.Widths); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}

	return f, nil
}

func writeHeader(f *excelize.File, name string, headers [report.ColumnCount]string) error {
	row := make([]any, 0, len(headers))
	for _, h := range headers {
		row = append(row, h)
	}
	if err := f.SetSheetRow(name, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(report.ColumnCount, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, name string, sheet *report.Sheet) error {
	for i, row := range sheet.Rows {
		rowNum := i + 2
		for col, value := range row.Cells() {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, cellValue(value)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if len(sheet.Rows) == 0 || sheet.CurrencyFormat == "" {
		return nil
	}

	numFmt := sheet.CurrencyFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	first, err := excelize.CoordinatesToCellName(report.ColAmount+1, 2)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(report.ColAmount+1, len(sheet.Rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, first, last, style); err != nil {
		return fmt.Errorf("failed to style amount column: %w", err)
	}
	return nil
}

func applyWidths(f *excelize.File, name string, widths report.Widths) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}

// cellValue converts values excelize cannot store natively. Decimal amounts become
// floats here, at the storage boundary only.
func cellValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

func save(f *excelize.File, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ofxsheet-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = f.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}
