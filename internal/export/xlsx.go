package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// maxWorksheetName is Excel's limit on worksheet name length.
const maxWorksheetName = 31

// SheetWorkbook renders an attendance sheet as an XLSX workbook: one
// worksheet named after the subject, the sheet grid as cells, header row in
// bold.
func SheetWorkbook(sh *store.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	ws := worksheetName(sh.Subject())
	if err := f.SetSheetName("Sheet1", ws); err != nil {
		return nil, fmt.Errorf("naming worksheet: %w", err)
	}

	grid := sh.Grid()
	for i, row := range grid {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ws, start, &cells); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if len(grid) > 0 && len(grid[0]) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("creating header style: %w", err)
		}
		end, err := excelize.CoordinatesToCellName(len(grid[0]), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(ws, "A1", end, style); err != nil {
			return nil, fmt.Errorf("styling header: %w", err)
		}
	}

	return f, nil
}

// worksheetName sanitizes a subject into a valid Excel worksheet name:
// forbidden characters replaced, length capped, empty names falling back to
// a generic label.
func worksheetName(subject string) string {
	name := strings.TrimSpace(subject)
	name = strings.NewReplacer(
		"[", " ", "]", " ", "*", " ", "?", " ",
		":", " ", "/", " ", "\\", " ",
	).Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Attendance"
	}
	if len(name) > maxWorksheetName {
		name = name[:maxWorksheetName]
	}
	return name
}
