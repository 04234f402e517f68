package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"donations/internal/core"
)

// SheetName is the worksheet holding exported rows.
const SheetName = "Donations"

// XLSX renders records into a single-sheet workbook with the same columns as CSV.
// Amounts are written as numbers so spreadsheet formulas work on them.
func XLSX(records []core.Record) (Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return Document{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return Document{}, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Document{}, fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		values := []any{r.Label, r.Amount.InexactFloat64(), r.Donors}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return Document{}, fmt.Errorf("write row %d (%s): %w", i+2, r.Label, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("encode workbook: %w", err)
	}

	return Document{
		Filename:    DefaultXLSXFilename,
		ContentType: ContentTypeXLSX,
		Content:     buf.Bytes(),
	}, nil
}
