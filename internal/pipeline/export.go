package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"lotsheet/internal"
)

// Header cell addresses are a convention of the delivery template.
func headerCells(meta internal.Metadata) map[string]string {
	return map[string]string{
		"B5": meta.Project,
		"B6": meta.Location,
		"B7": meta.DeliveryDate,
		"E6": meta.SiteContact,
		"E7": meta.Phone,
	}
}

// FillTemplate copies the template workbook to outputPath with the header
// cells populated and one bordered row appended per record. Header cells
// covered by a merged region are skipped; writing into one fails in most
// spreadsheet tools.
func FillTemplate(templatePath, outputPath string, records []internal.ExtractedRecord, meta internal.Metadata) error {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}

	for cell, value := range headerCells(meta) {
		covered, err := isCoveredByMerge(cell, merged)
		if err != nil {
			return err
		}
		if covered {
			continue
		}
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return err
		}
	}

	borderStyle, err := f.NewStyle(&excelize.Style{Border: []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}})
	if err != nil {
		return err
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return err
	}

	row := len(existing) + 1
	for _, rec := range records {
		values := []string{rec.Description, rec.Qty, meta.Building, meta.Category}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, borderStyle); err != nil {
				return err
			}
		}
		row++
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// isCoveredByMerge reports whether cell is a non-anchor member of a
// merged region. The anchor (top-left) cell stays writable.
func isCoveredByMerge(cell string, merged []excelize.MergeCell) (bool, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return false, err
	}

	for _, mc := range merged {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return false, err
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return false, err
		}
		if col == startCol && row == startRow {
			continue
		}
		if col >= startCol && col <= endCol && row >= startRow && row <= endRow {
			return true, nil
		}
	}
	return false, nil
}
