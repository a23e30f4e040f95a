// Package tabular turns heterogeneous input (CSV text, JSON arrays, JSON
// objects, wrapped objects) into a uniform ordered-row/ordered-column table,
// validates it and infers a per-column schema.
package tabular

// Table is the uniform in-memory tabular representation. Columns are
// ordered and unique; every row is aligned positionally to Columns, with
// nil marking a missing value.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Record returns row i as a column-name keyed map.
func (t *Table) Record(i int) map[string]interface{} {
	rec := make(map[string]interface{}, len(t.Columns))
	for j, col := range t.Columns {
		if j < len(t.Rows[i]) {
			rec[col] = t.Rows[i][j]
		}
	}
	return rec
}

// Records returns all rows as column-name keyed maps.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, t.RowCount())
	for i := range t.Rows {
		out[i] = t.Record(i)
	}
	return out
}

// Sample returns up to n leading rows as records.
func (t *Table) Sample(n int) []map[string]interface{} {
	if n > t.RowCount() {
		n = t.RowCount()
	}
	out := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = t.Record(i)
	}
	return out
}

// Column returns the values of a named column and whether it exists.
func (t *Table) Column(name string) ([]interface{}, bool) {
	idx := -1
	for j, col := range t.Columns {
		if col == name {
			idx = j
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	values := make([]interface{}, t.RowCount())
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, true
}
