package process

import "errors"

var (
	// Workbook errors
	ErrSheetMissing  = errors.New("sheet not found in workbook")
	ErrColumnMissing = errors.New("column not found")

	ErrNoSchema = errors.New("no schema for technology")
)
