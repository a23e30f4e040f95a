package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Column types inferred by InferSchema.
const (
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
	TypeText    = "text"
)

// ColumnSchema summarizes a single column.
// Min/Max/Mean are present only for numeric columns with at least one
// non-null value.
type ColumnSchema struct {
	Type        string   `json:"type"`
	NullCount   int      `json:"null_count"`
	UniqueCount int      `json:"unique_count"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Mean        *float64 `json:"mean,omitempty"`
}

// Schema is a per-column type/statistics summary of a table.
type Schema struct {
	Columns     map[string]ColumnSchema `json:"columns"`
	RowCount    int                     `json:"row_count"`
	ColumnCount int                     `json:"column_count"`
}

// InferSchema derives the schema of a table. Type inference attempts
// numeric and boolean coercion across all non-null values of a column and
// falls back to text.
func InferSchema(t *Table) *Schema {
	schema := &Schema{
		Columns:     make(map[string]ColumnSchema, t.ColumnCount()),
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
	}

	for _, name := range t.Columns {
		values, _ := t.Column(name)
		schema.Columns[name] = inferColumn(values)
	}

	return schema
}

func inferColumn(values []interface{}) ColumnSchema {
	col := ColumnSchema{}

	unique := make(map[string]bool)
	var nonNull []interface{}
	for _, v := range values {
		if v == nil {
			col.NullCount++
			continue
		}
		nonNull = append(nonNull, v)
		unique[uniqueKey(v)] = true
	}
	col.UniqueCount = len(unique)

	col.Type = inferType(nonNull)

	if (col.Type == TypeInteger || col.Type == TypeFloat) && len(nonNull) > 0 {
		min, max, sum := 0.0, 0.0, 0.0
		for i, v := range nonNull {
			f, _ := numericValue(v)
			if i == 0 || f < min {
				min = f
			}
			if i == 0 || f > max {
				max = f
			}
			sum += f
		}
		mean := sum / float64(len(nonNull))
		col.Min = &min
		col.Max = &max
		col.Mean = &mean
	}

	return col
}

// inferType classifies a set of non-null values. All-boolean wins over
// numeric so "true"/"false" text columns come out boolean.
func inferType(values []interface{}) string {
	if len(values) == 0 {
		return TypeText
	}

	allBool := true
	allNumeric := true
	allIntegral := true

	for _, v := range values {
		if _, ok := boolValue(v); !ok {
			allBool = false
		}
		f, ok := numericValue(v)
		if !ok {
			allNumeric = false
			allIntegral = false
		} else if f != float64(int64(f)) {
			allIntegral = false
		}
		if !allBool && !allNumeric {
			return TypeText
		}
	}

	switch {
	case allBool:
		return TypeBoolean
	case allIntegral:
		return TypeInteger
	case allNumeric:
		return TypeFloat
	default:
		return TypeText
	}
}

// numericValue attempts to coerce a scalar to float64.
func numericValue(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// boolValue attempts to coerce a scalar to bool.
func boolValue(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func uniqueKey(v interface{}) string {
	return fmt.Sprintf("%T:%v", v, v)
}
