package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kanat1390/network-actualizer/models"
)

// Columns carrying "<label> (<number>)" values in the radio data workbook.
var areaCodeColumns = map[models.Technology][]string{
	models.UMTS: {models.LAC, models.RAC},
	models.GSM:  {models.LAC},
}

// SheetLoader builds the spreadsheet side of the comparison.
type SheetLoader struct {
	path    string
	schemas models.Schemas
	logger  *slog.Logger
}

func NewSheetLoader(path string, schemas models.Schemas, logger *slog.Logger) *SheetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetLoader{path: path, schemas: schemas, logger: logger}
}

// Load reads every sheet of the workbook and prepares the LTE, UMTS and GSM
// tables. A workbook that does not exist yields an empty dataset.
func (l *SheetLoader) Load() (Dataset, error) {
	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Radio data file not found", slog.String("path", l.path))
		return Dataset{}, nil
	}

	data, err := ReadWorkbook(l.path)
	if err != nil {
		return nil, err
	}

	for _, tech := range models.Technologies {
		table, ok := data[tech]
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrSheetMissing, tech, l.path)
		}
		prepared, err := l.prepare(tech, table)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare sheet %s: %w", tech, err)
		}
		l.logger.Info("Loaded spreadsheet table", slog.String("technology", string(tech)), slog.Int("rows", prepared.Len()))
		data[tech] = prepared
	}
	return data, nil
}

func (l *SheetLoader) prepare(tech models.Technology, t *Table) (*Table, error) {
	schema, ok := l.schemas[tech]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, tech)
	}

	stages := []Stage{
		requireColumn(models.CellName),
		normalizeAreaCodes(areaCodeColumns[tech]),
		func(t *Table) (*Table, error) { addSiteName(t); return t, nil },
	}
	if tech == models.UMTS {
		stages = append(stages, func(t *Table) (*Table, error) { addShortCellName(t); return t, nil })
	}
	return Pipeline(t, append(stages, Finalize(schema)...)...)
}

func requireColumn(column string) Stage {
	return func(t *Table) (*Table, error) {
		if !t.HasColumn(column) {
			return nil, fmt.Errorf("%w: %q", ErrColumnMissing, column)
		}
		return t, nil
	}
}

func normalizeAreaCodes(columns []string) Stage {
	return func(t *Table) (*Table, error) {
		for _, c := range columns {
			if !t.HasColumn(c) {
				return nil, fmt.Errorf("%w: %q", ErrColumnMissing, c)
			}
			t.Apply(c, AreaCode)
		}
		return t, nil
	}
}

// ReadWorkbook loads every sheet verbatim, keyed by sheet name. The first row
// of a sheet is its header; empty cells become nil. Cells are read as stored,
// ignoring number formats.
func ReadWorkbook(path string) (Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	out := make(Dataset)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		out[models.Technology(name)] = rowsToTable(rows)
	}
	return out, nil
}

func rowsToTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return NewTable()
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	table := NewTable(header...)
	for _, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
