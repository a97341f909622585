package models

import (
	"database/sql"
	"sort"
	"strings"
)

// TableName identifies one of the CSV-backed tables
type TableName string

const (
	TableServiceSales    TableName = "service_data"
	TableProductSales    TableName = "product_data"
	TableAppointments    TableName = "appointments"
	TableStaff           TableName = "staff"
	TableLeaveRecords    TableName = "leave_records"
	TableAttendance      TableName = "attendance"
	TableBranches        TableName = "branches"
	TableServicesCatalog TableName = "services"
	TableEmployees       TableName = "employees"
)

// AllTables lists every table the dashboard knows about
var AllTables = []TableName{
	TableServiceSales,
	TableProductSales,
	TableAppointments,
	TableStaff,
	TableLeaveRecords,
	TableAttendance,
	TableBranches,
	TableServicesCatalog,
	TableEmployees,
}

// Table is a flat table read from or written to a CSV file.
// Columns are looked up by name so a missing column can be detected instead of
// silently shifting values. Rows may be shorter than the header (ragged CSV);
// missing cells read as empty.
type Table struct {
	Name    TableName  `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	index map[string]int
	dirty bool
}

// NewTable creates an empty table with the given header
func NewTable(name TableName, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Name:    name,
		Columns: cols,
		Rows:    [][]string{},
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table is nil or has no rows
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// ColumnIndex returns the position of a column, or -1 if absent
func (t *Table) ColumnIndex(column string) int {
	if t == nil {
		return -1
	}
	if t.index == nil || len(t.index) != len(t.Columns) {
		t.reindex()
	}
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Has reports whether the table has the named column
func (t *Table) Has(column string) bool {
	return t.ColumnIndex(column) >= 0
}

// Value returns the trimmed cell at (row, column), or "" when the column or cell is missing
func (t *Table) Value(row int, column string) string {
	ci := t.ColumnIndex(column)
	if ci < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if ci >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[ci])
}

// NullString returns the cell as a sql.NullString, invalid when the cell is a null marker
func (t *Table) NullString(row int, column string) sql.NullString {
	v := t.Value(row, column)
	if IsNull(v) {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// EnsureColumn appends a column to the header if it is not there yet
func (t *Table) EnsureColumn(column string) int {
	if ci := t.ColumnIndex(column); ci >= 0 {
		return ci
	}
	t.Columns = append(t.Columns, column)
	t.reindex()
	return len(t.Columns) - 1
}

// Set writes a cell, growing the header and the row as needed
func (t *Table) Set(row int, column, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	ci := t.EnsureColumn(column)
	for len(t.Rows[row]) <= ci {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][ci] = value
	t.dirty = true
}

// Append adds a row built from a column→value map. Unknown columns are added to the header.
func (t *Table) Append(values map[string]string) int {
	for _, col := range sortedKeys(values) {
		t.EnsureColumn(col)
	}
	row := make([]string, len(t.Columns))
	for col, v := range values {
		row[t.ColumnIndex(col)] = v
	}
	t.Rows = append(t.Rows, row)
	t.dirty = true
	return len(t.Rows) - 1
}

// FindRow returns the first row whose column equals value, or -1
func (t *Table) FindRow(column, value string) int {
	if !t.Has(column) {
		return -1
	}
	for i := range t.Rows {
		if t.Value(i, column) == value {
			return i
		}
	}
	return -1
}

// Record returns one row as a column→value map
func (t *Table) Record(row int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		rec[col] = t.Value(row, col)
	}
	return rec
}

// Records returns every row as a column→value map, in table order
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, t.Record(i))
	}
	return out
}

// Clone returns a deep copy. The copy starts clean.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := NewTable(t.Name, t.Columns)
	c.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}

// Dirty reports whether the table was modified since it was loaded or saved
func (t *Table) Dirty() bool {
	return t != nil && t.dirty
}

// MarkClean clears the dirty flag after a successful save
func (t *Table) MarkClean() {
	if t != nil {
		t.dirty = false
	}
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		if _, seen := t.index[col]; !seen {
			t.index[col] = i
		}
	}
}

// IsNull reports whether a raw cell value stands for "no value".
// Exports from spreadsheet tools write missing cells as empty or as nan/None/NaT.
func IsNull(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "none", "null", "nat", "<na>":
		return true
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TimedTable is a table paired with its parsed timestamp column.
// Times has one entry per row; an invalid entry means the row has no usable timestamp.
type TimedTable struct {
	*Table
	Times []sql.NullTime
}

// ValidTimes reports whether at least one row has a timestamp
func (t *TimedTable) ValidTimes() bool {
	if t == nil {
		return false
	}
	for _, ts := range t.Times {
		if ts.Valid {
			return true
		}
	}
	return false
}
