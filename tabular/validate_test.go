package tabular

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableWithRows(n int) *Table {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{fmt.Sprintf("v%d", i)}
	}
	return &Table{Columns: []string{"col"}, Rows: rows}
}

func TestValidate(t *testing.T) {
	t.Run("valid table passes all checks", func(t *testing.T) {
		table, err := Parse("score,level\n10,1\n20,2")
		require.NoError(t, err)

		report := Validate(table)
		assert.True(t, report.IsValid)
		assert.Empty(t, report.Errors)
		assert.True(t, report.Checks["not_empty"])
		assert.True(t, report.Checks["has_columns"])
		assert.True(t, report.Checks["within_row_limit"])
	})

	t.Run("empty row set is invalid", func(t *testing.T) {
		report := Validate(&Table{Columns: []string{"a"}})
		assert.False(t, report.IsValid)
		assert.Contains(t, report.Errors, "Data is empty")
		// Column check still passed independently
		assert.True(t, report.Checks["has_columns"])
	})

	t.Run("no columns is invalid", func(t *testing.T) {
		report := Validate(&Table{})
		assert.False(t, report.IsValid)
		assert.Contains(t, report.Errors, "No columns found")
	})

	t.Run("is_valid false iff errors non-empty", func(t *testing.T) {
		valid := Validate(tableWithRows(3))
		assert.Equal(t, len(valid.Errors) == 0, valid.IsValid)

		invalid := Validate(&Table{})
		assert.Equal(t, len(invalid.Errors) == 0, invalid.IsValid)
	})

	t.Run("row limit boundary", func(t *testing.T) {
		atLimit := Validate(tableWithRows(MaxRows))
		assert.True(t, atLimit.IsValid)
		assert.True(t, atLimit.Checks["within_row_limit"])

		overLimit := Validate(tableWithRows(MaxRows + 1))
		assert.False(t, overLimit.IsValid)
		assert.Contains(t, overLimit.Errors, fmt.Sprintf("Too many rows (max %d)", MaxRows))
	})

	t.Run("idempotent", func(t *testing.T) {
		table, err := Parse("user_email,score\na@b.c,1\na@b.c,1")
		require.NoError(t, err)

		first := Validate(table)
		second := Validate(table)
		assert.Equal(t, first, second)
	})
}

func TestDetectPII(t *testing.T) {
	t.Run("flags matching column names", func(t *testing.T) {
		table := &Table{
			Columns: []string{"user_email", "score"},
			Rows:    [][]interface{}{{"a@b.c", "1"}},
		}
		report := Validate(table)

		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "user_email")
		assert.Contains(t, report.Warnings[0], "email")
	})

	t.Run("clean columns produce no warnings", func(t *testing.T) {
		table := &Table{
			Columns: []string{"score", "level"},
			Rows:    [][]interface{}{{"1", "2"}},
		}
		assert.Empty(t, Validate(table).Warnings)
	})

	t.Run("one warning per column even with multiple keyword hits", func(t *testing.T) {
		table := &Table{
			Columns: []string{"email_address"},
			Rows:    [][]interface{}{{"x"}},
		}
		assert.Len(t, Validate(table).Warnings, 1)
	})

	t.Run("warnings run on invalid tables too", func(t *testing.T) {
		report := Validate(&Table{Columns: []string{"password"}})
		assert.False(t, report.IsValid)
		assert.Len(t, report.Warnings, 1)
	})
}

func TestQuality(t *testing.T) {
	t.Run("completeness and null percentage", func(t *testing.T) {
		table := &Table{
			Columns: []string{"a", "b"},
			Rows: [][]interface{}{
				{"1", nil},
				{"2", "x"},
			},
		}
		q := Validate(table).Quality
		assert.InDelta(t, 0.75, q.Completeness, 1e-9)
		assert.InDelta(t, 25.0, q.NullPercentage, 1e-9)
	})

	t.Run("duplicate rows counted structurally", func(t *testing.T) {
		table := &Table{
			Columns: []string{"a", "b"},
			Rows: [][]interface{}{
				{"1", "2"},
				{"1", "2"},
				{"1", "2"},
				{"3", "4"},
			},
		}
		assert.Equal(t, 2, Validate(table).Quality.DuplicateRows)
	})
}
