package process

import (
	"fmt"
	"log/slog"

	"github.com/kanat1390/network-actualizer/models"
)

// Report is the outcome of one reconciliation run.
type Report struct {
	// Comparison holds, per technology, the joined rows with the raw _x
	// (spreadsheet) and _y (database) values and one match column per field.
	Comparison map[models.Technology]*Table
	// Missing lists, per technology, the cell names found by missing-entity
	// detection.
	Missing map[models.Technology][]string
}

// Reconciler compares the database and spreadsheet datasets.
type Reconciler struct {
	db      Dataset
	sheet   Dataset
	schemas models.Schemas
	logger  *slog.Logger
}

func NewReconciler(db, sheet Dataset, schemas models.Schemas, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{db: db, sheet: sheet, schemas: schemas, logger: logger}
}

// Reconcile runs missing-entity detection and field comparison for every
// technology.
func (r *Reconciler) Reconcile() (*Report, error) {
	report := &Report{
		Comparison: make(map[models.Technology]*Table, len(models.Technologies)),
		Missing:    make(map[models.Technology][]string, len(models.Technologies)),
	}

	for _, tech := range models.Technologies {
		missing, err := r.MissingEntities(tech)
		if err != nil {
			return nil, err
		}
		report.Missing[tech] = missing
		r.logger.Info("Missing cells",
			slog.String("technology", string(tech)),
			slog.Int("count", len(missing)),
			slog.Any("cells", missing))
	}

	for _, tech := range models.Technologies {
		table, err := r.Compare(tech)
		if err != nil {
			return nil, err
		}
		report.Comparison[tech] = table
		r.logger.Info("Compared cells", slog.String("technology", string(tech)), slog.Int("rows", table.Len()))
	}
	return report, nil
}

// MissingEntities concatenates the identity column as database, spreadsheet,
// database and keeps the values that occur exactly once. Because every
// database value is listed twice, only spreadsheet values that are absent
// from the database (and unique in the spreadsheet) can be reported.
// UMTS short names are reported as the matching spreadsheet cell names.
func (r *Reconciler) MissingEntities(tech models.Technology) ([]string, error) {
	schema, ok := r.schemas[tech]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, tech)
	}
	db, sheet := r.table(r.db, tech, schema), r.table(r.sheet, tech, schema)

	dbValues := db.Values(schema.Identity)
	var all []any
	all = append(all, dbValues...)
	all = append(all, sheet.Values(schema.Identity)...)
	all = append(all, dbValues...)

	counts := make(map[any]int, len(all))
	for _, v := range all {
		if v != nil {
			counts[v]++
		}
	}

	var names []string
	seen := make(map[any]struct{})
	for _, v := range all {
		if v == nil || counts[v] != 1 {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}

		if schema.Identity == models.CellName {
			names = append(names, fmt.Sprintf("%v", v))
			continue
		}
		for _, row := range sheet.Rows {
			if row[schema.Identity] == v && row[models.CellName] != nil {
				names = append(names, fmt.Sprintf("%v", row[models.CellName]))
			}
		}
	}
	return names, nil
}

// Compare inner-joins the spreadsheet and database tables on the schema keys
// and adds a match column for every other declared column.
func (r *Reconciler) Compare(tech models.Technology) (*Table, error) {
	schema, ok := r.schemas[tech]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, tech)
	}
	sheet, db := r.table(r.sheet, tech, schema), r.table(r.db, tech, schema)

	joined := Join(sheet, db, schema.Keys, InnerJoin)
	for _, col := range schema.Compared() {
		x, y := col+models.SheetSuffix, col+models.DBSuffix
		joined.AddColumn(col, func(row Row) any { return equalValues(row[x], row[y]) })
	}
	return joined, nil
}

// table returns the technology table of data, or an empty table shaped like
// schema when the dataset has none.
func (r *Reconciler) table(data Dataset, tech models.Technology, schema models.Schema) *Table {
	if t, ok := data[tech]; ok && t != nil {
		return t
	}
	return NewTable(schema.Columns...)
}

// equalValues reports whether a and b hold the same value. A missing value
// equals nothing, not even another missing value.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return a == b
}
