package businessflow

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportContentType is the MIME type of the workbooks produced by Export
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFilename returns the attachment name used for a resource export
func ExportFilename(kind ResourceKind) string {
	return kind.Name + "s.xlsx"
}

// buildWorkbook writes a single-sheet workbook with a header row followed by one row per record
func buildWorkbook(sheet string, header []string, rows [][]any) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	name := sanitizeSheetName(sheet)
	if err := xl.SetSheetName(xl.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := xl.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(name, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
