package process

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kanat1390/network-actualizer/models"
)

// Row maps a column name to its value. A nil value is the missing marker.
type Row map[string]any

// Table is an ordered set of columns and the rows holding them.
type Table struct {
	Columns []string
	Rows    []Row
}

// Dataset holds one table per technology.
type Dataset map[models.Technology]*Table

func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// AddColumn appends column (if new) and sets it on every row using fn.
func (t *Table) AddColumn(column string, fn func(Row) any) {
	if !t.HasColumn(column) {
		t.Columns = append(t.Columns, column)
	}
	for _, r := range t.Rows {
		r[column] = fn(r)
	}
}

// Apply rewrites an existing column in place.
func (t *Table) Apply(column string, fn func(any) any) {
	for _, r := range t.Rows {
		r[column] = fn(r[column])
	}
}

func (t *Table) DropColumn(column string) {
	cols := t.Columns[:0:0]
	for _, c := range t.Columns {
		if c != column {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	for _, r := range t.Rows {
		delete(r, column)
	}
}

// Values returns the column in row order.
func (t *Table) Values(column string) []any {
	out := make([]any, 0, t.Len())
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		out = append(out, r[column])
	}
	return out
}

// DropDuplicates keeps the first row for every value of column.
func (t *Table) DropDuplicates(column string) *Table {
	out := NewTable(t.Columns...)
	seen := make(map[any]struct{})
	for _, r := range t.Rows {
		k := r[column]
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Select projects the table onto columns, failing when one is absent.
func (t *Table) Select(columns []string) (*Table, error) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %q", ErrColumnMissing, c)
		}
	}
	out := NewTable(columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	OuterJoin
)

// Join merges left and right on the key columns. Columns present on both
// sides outside the keys get the _x (left) and _y (right) suffixes. Rows with
// a missing key never match. An outer join keeps unmatched rows of both sides
// in left-then-right order.
func Join(left, right *Table, keys []string, kind JoinKind) *Table {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	leftNames, rightNames := map[string]string{}, map[string]string{}
	var cols []string
	for _, c := range left.Columns {
		name := c
		if _, isKey := keySet[c]; !isKey && right.HasColumn(c) {
			name = c + models.SheetSuffix
		}
		leftNames[c] = name
		cols = append(cols, name)
	}
	for _, c := range right.Columns {
		if _, isKey := keySet[c]; isKey {
			if !left.HasColumn(c) {
				cols = append(cols, c)
			}
			continue
		}
		name := c
		if left.HasColumn(c) {
			name = c + models.DBSuffix
		}
		rightNames[c] = name
		cols = append(cols, name)
	}

	index := make(map[string][]int)
	for i, r := range right.Rows {
		if k, ok := joinKey(r, keys); ok {
			index[k] = append(index[k], i)
		}
	}

	out := NewTable(cols...)
	matched := make([]bool, len(right.Rows))
	for _, lr := range left.Rows {
		k, ok := joinKey(lr, keys)
		var hits []int
		if ok {
			hits = index[k]
		}
		if len(hits) == 0 {
			if kind == OuterJoin {
				out.Rows = append(out.Rows, mergeRows(out.Columns, lr, nil, keys, leftNames, rightNames))
			}
			continue
		}
		for _, i := range hits {
			matched[i] = true
			out.Rows = append(out.Rows, mergeRows(out.Columns, lr, right.Rows[i], keys, leftNames, rightNames))
		}
	}
	if kind == OuterJoin {
		for i, rr := range right.Rows {
			if !matched[i] {
				out.Rows = append(out.Rows, mergeRows(out.Columns, nil, rr, keys, leftNames, rightNames))
			}
		}
	}
	return out
}

func mergeRows(columns []string, left, right Row, keys []string, leftNames, rightNames map[string]string) Row {
	r := make(Row, len(columns))
	for _, c := range columns {
		r[c] = nil
	}
	for c, v := range left {
		if name, ok := leftNames[c]; ok {
			r[name] = v
		}
	}
	for c, v := range right {
		if name, ok := rightNames[c]; ok {
			r[name] = v
		}
	}
	for _, k := range keys {
		if left != nil {
			r[k] = left[k]
		} else {
			r[k] = right[k]
		}
	}
	return r
}

func joinKey(r Row, keys []string) (string, bool) {
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := r[k]
		if v == nil {
			return "", false
		}
		parts[i] = fmt.Sprintf("%T:%v", v, v)
	}
	return strings.Join(parts, "\x1f"), true
}

// Stage is one step of a table transform pipeline.
type Stage func(*Table) (*Table, error)

// Pipeline runs the stages in order, stopping at the first error.
func Pipeline(t *Table, stages ...Stage) (*Table, error) {
	var err error
	for _, s := range stages {
		if t, err = s(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Finalize restricts a table to the schema columns, fills missing values and
// coerces the numeric columns.
func Finalize(schema models.Schema) []Stage {
	return []Stage{
		func(t *Table) (*Table, error) { return t.Select(schema.Columns) },
		FillMissing,
		CoerceNumeric(schema.Numeric),
	}
}

// FillMissing replaces empty strings and absent entries with nil. Whitespace
// is kept as a value.
func FillMissing(t *Table) (*Table, error) {
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			v, ok := r[c]
			if !ok {
				r[c] = nil
				continue
			}
			if s, isStr := v.(string); isStr && s == "" {
				r[c] = nil
			}
		}
	}
	return t, nil
}

func CoerceNumeric(columns []string) Stage {
	return func(t *Table) (*Table, error) {
		for _, c := range columns {
			t.Apply(c, ToNumeric)
		}
		return t, nil
	}
}

// ToNumeric converts v to a finite float64, or nil when that is not possible.
func ToNumeric(v any) any {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return ToNumeric(fmt.Sprintf("%v", n))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
