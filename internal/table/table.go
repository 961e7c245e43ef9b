package table

import (
	"fmt"
)

// Table is an immutable, column-ordered set of rows. Every operation that
// changes shape or content returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New builds a Table from column names and rows. Column names must be unique.
// Short rows are padded with Missing; long rows are truncated to the header.
// Inputs are copied.
func New(columns []string, rows [][]Value) (*Table, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		idx[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	out := make([][]Value, len(rows))
	for i, r := range rows {
		out[i] = fitRow(r, len(cols))
	}
	return &Table{columns: cols, index: idx, rows: out}, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(columns []string, rows [][]Value) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func fitRow(r []Value, n int) []Value {
	row := make([]Value, n)
	copy(row, r)
	return row
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has a column with this exact name.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Column returns a copy of all values for the named column, or nil if the
// column does not exist.
func (t *Table) Column(name string) []Value {
	j, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out
}

// WithColumn returns a new table where the named column holds vals. An
// existing column is replaced in place; a new one is appended. vals shorter
// than the table are padded with Missing.
func (t *Table) WithColumn(name string, vals []Value) *Table {
	cols := t.Columns()
	j, ok := t.index[name]
	if !ok {
		cols = append(cols, name)
		j = len(cols) - 1
	}
	rows := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		row := fitRow(r, len(cols))
		if i < len(vals) {
			row[j] = vals[i]
		} else {
			row[j] = Missing()
		}
		rows[i] = row
	}
	return MustNew(cols, rows)
}

// Rename returns a new table with column from renamed to to. It fails if
// from is missing or to is already taken by another column.
func (t *Table) Rename(from, to string) (*Table, error) {
	j, ok := t.index[from]
	if !ok {
		return nil, fmt.Errorf("rename: no column %q", from)
	}
	if from == to {
		return t, nil
	}
	if _, taken := t.index[to]; taken {
		return nil, fmt.Errorf("rename: column %q already exists", to)
	}
	cols := t.Columns()
	cols[j] = to
	return New(cols, t.rows)
}

// Select returns a new table holding the rows at the given indices, in the
// order given.
func (t *Table) Select(indices []int) *Table {
	rows := make([][]Value, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return MustNew(t.columns, rows)
}

// Head returns the first n rows (all rows if n exceeds Len).
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return MustNew(t.columns, t.rows[:n])
}

// Equal reports whether both tables have the same columns and cell values.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, c := range t.columns {
		if o.columns[i] != c {
			return false
		}
	}
	for i, r := range t.rows {
		for j, v := range r {
			if !v.Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Get returns the value of the named column, or Missing if it does not exist.
func (r Row) Get(column string) Value {
	j, ok := r.t.index[column]
	if !ok {
		return Missing()
	}
	return r.t.rows[r.i][j]
}

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []Value {
	out := make([]Value, len(r.t.columns))
	copy(out, r.t.rows[r.i])
	return out
}
