package process

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kanat1390/network-actualizer/models"
)

// Write saves one sheet per technology (LTE, UMTS, GSM) to path. When
// withMissing is set a "Missing" sheet listing the missing cells is added.
func (rep *Report) Write(path string, withMissing bool) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, tech := range models.Technologies {
		name := string(tech)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		table := rep.Comparison[tech]
		if table == nil {
			table = NewTable()
		}
		if err := writeTable(f, name, table, headerStyle); err != nil {
			return err
		}
	}

	if withMissing {
		if _, err := f.NewSheet(models.MissingSheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", models.MissingSheet, err)
		}
		if err := writeTable(f, models.MissingSheet, rep.missingTable(), headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

func (rep *Report) missingTable() *Table {
	t := NewTable(models.TechnologyColumn, models.CellName)
	for _, tech := range models.Technologies {
		for _, name := range rep.Missing[tech] {
			t.Rows = append(t.Rows, Row{models.TechnologyColumn: string(tech), models.CellName: name})
		}
	}
	return t
}

func writeTable(f *excelize.File, sheet string, t *Table, headerStyle int) error {
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", sheet, err)
		}
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			values[i] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, sheet, err)
		}
	}
	return nil
}
